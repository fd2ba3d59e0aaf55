package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knakai/examprep/internal/model"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Options configure one pipeline run.
type Options struct {
	InputDir string
	WorkDir  string
	ExamType string
	Parallel int
	Raster   RasterizeOptions
}

func (o Options) withDefaults() Options {
	if o.Parallel <= 0 {
		o.Parallel = 4
	}
	if o.WorkDir == "" {
		o.WorkDir = o.InputDir
	}
	return o
}

// Summary tallies one pipeline run.
type Summary struct {
	Succeeded int
	Failed    int
}

// Pipeline runs PDF rasterization, text extraction, normalization,
// embedding and persistence end to end.
type Pipeline struct {
	extractor TextExtractor
	embedder  Embedder
	importer  *Importer
	opts      Options
}

func NewPipeline(extractor TextExtractor, embedder Embedder, importer *Importer, opts Options) *Pipeline {
	return &Pipeline{extractor: extractor, embedder: embedder, importer: importer, opts: opts.withDefaults()}
}

// Run processes every PDF under InputDir. Files fail independently; the run
// as a whole only errors when nothing was ingested.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	pdfs, err := filepath.Glob(filepath.Join(p.opts.InputDir, "*.pdf"))
	if err != nil {
		return Summary{}, err
	}
	if len(pdfs) == 0 {
		return Summary{}, fmt.Errorf("no PDF files found in %s", p.opts.InputDir)
	}

	var (
		mu      sync.Mutex
		summary Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Parallel)

	for _, pdf := range pdfs {
		pdf := pdf
		g.Go(func() error {
			if err := p.processPDF(gctx, pdf); err != nil {
				log.Error().Err(err).Str("pdf", pdf).Msg("Ingestion failed for file")
				mu.Lock()
				summary.Failed++
				mu.Unlock()
				// Per-file failures do not cancel the rest of the run.
				return nil
			}
			mu.Lock()
			summary.Succeeded++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	log.Info().Int("succeeded", summary.Succeeded).Int("failed", summary.Failed).Msg("Ingestion run finished")
	if summary.Succeeded == 0 {
		return summary, fmt.Errorf("all %d files failed to ingest", summary.Failed)
	}
	return summary, nil
}

func (p *Pipeline) processPDF(ctx context.Context, pdfPath string) error {
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	pageDir := filepath.Join(p.opts.WorkDir, base)

	pages, err := RasterizePDF(ctx, pdfPath, pageDir, p.opts.Raster)
	if err != nil {
		return err
	}

	for _, page := range pages {
		text, err := ExtractPage(ctx, p.extractor, page)
		if err != nil {
			return err
		}

		analysis := PageAnalysis{
			ImagePath:   page,
			FileName:    filepath.Base(page),
			TextContent: text,
		}
		if _, err := WriteAnalysisFile(analysis); err != nil {
			return err
		}
		if _, err := WriteMarkdownFile(page, text); err != nil {
			return err
		}

		vec := EmbedOrFallback(ctx, p.embedder, text)
		if _, err := WriteEmbeddingFile(page, vec); err != nil {
			return err
		}
		if p.importer != nil {
			if err := p.importer.ImportPage(analysis, p.opts.ExamType, vec, model.EmbeddingTypeText); err != nil {
				return err
			}
		}
	}
	log.Info().Str("pdf", pdfPath).Int("pages", len(pages)).Msg("Ingested PDF")
	return nil
}
