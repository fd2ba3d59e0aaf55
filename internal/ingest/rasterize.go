package ingest

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// RasterizeOptions control how PDF pages are rendered to images.
type RasterizeOptions struct {
	DPI    int
	Format string // "png" or "jpeg"
}

func (o RasterizeOptions) withDefaults() RasterizeOptions {
	if o.DPI <= 0 {
		o.DPI = 300
	}
	if o.Format != "jpeg" {
		o.Format = "png"
	}
	return o
}

// RasterizePDF renders every page of pdfPath into outDir using poppler's
// pdftoppm and renames the output to the `{base}_page_NNN.{ext}` convention
// the rest of the pipeline keys on. Returns the image paths in page order.
func RasterizePDF(ctx context.Context, pdfPath, outDir string, opts RasterizeOptions) ([]string, error) {
	opts = opts.withDefaults()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	prefix := filepath.Join(outDir, base+"_page")

	args := []string{"-r", fmt.Sprint(opts.DPI)}
	if opts.Format == "jpeg" {
		args = append(args, "-jpeg")
	} else {
		args = append(args, "-png")
	}
	args = append(args, pdfPath, prefix)

	cmd := exec.CommandContext(ctx, "pdftoppm", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed for %s: %w: %s", pdfPath, err, strings.TrimSpace(string(out)))
	}

	ext := "png"
	if opts.Format == "jpeg" {
		ext = "jpg"
	}
	// pdftoppm numbers pages as `prefix-N.ext` with variable zero padding.
	produced, err := filepath.Glob(prefix + "-*." + ext)
	if err != nil {
		return nil, err
	}
	if len(produced) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no pages for %s", pdfPath)
	}
	sort.Strings(produced)

	pages := make([]string, 0, len(produced))
	for i, src := range produced {
		dst := fmt.Sprintf("%s_%03d.%s", prefix, i+1, ext)
		if src != dst {
			if err := os.Rename(src, dst); err != nil {
				return nil, err
			}
		}
		pages = append(pages, dst)
	}

	log.Info().Str("pdf", pdfPath).Int("pages", len(pages)).Msg("Rasterized PDF")
	return pages, nil
}
