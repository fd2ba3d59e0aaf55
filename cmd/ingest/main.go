package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knakai/examprep/config"
	"github.com/knakai/examprep/database"
	"github.com/knakai/examprep/internal/ingest"
	"github.com/knakai/examprep/internal/logger"
	"github.com/knakai/examprep/internal/model"
	"github.com/knakai/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const usage = `Usage: ingest <command> [flags]

Commands:
  run        Rasterize, extract, embed and import every PDF in a directory
  rasterize  Render PDF pages to images only
  extract    Extract markdown from page images into analysis files
  normalize  Normalize a markdown file in place
  import     Import existing analysis files into the database
  compare    Find stored pages most similar to a query text
`

func main() {
	logger.Init()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	var err error
	switch os.Args[1] {
	case "run":
		err = runCmd(ctx, os.Args[2:])
	case "rasterize":
		err = rasterizeCmd(ctx, os.Args[2:])
	case "extract":
		err = extractCmd(ctx, os.Args[2:])
	case "normalize":
		err = normalizeCmd(os.Args[2:])
	case "import":
		err = importCmd(ctx, os.Args[2:])
	case "compare":
		err = compareCmd(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("command", os.Args[1]).Msg("Command failed")
		os.Exit(1)
	}
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureVectorExtension(db); err != nil {
		return nil, err
	}
	err = db.AutoMigrate(
		&model.Question{},
		&model.FrequentQuestion{},
		&model.UserAnswer{},
		&model.UserStat{},
		&model.Embedding{},
	)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureEmbeddingIndexes(db); err != nil {
		return nil, err
	}
	return db, nil
}

// applyAPIKey lets --api-key override the environment-sourced keys.
func applyAPIKey(cfg *config.Config, apiKey string) {
	if apiKey == "" {
		return
	}
	cfg.GeminiApiKey = apiKey
	cfg.AnthropicApiKey = apiKey
}

func newExtractor(ctx context.Context, cfg *config.Config, backend, modelName string) (ingest.TextExtractor, error) {
	switch backend {
	case "gemini":
		return ingest.NewGeminiExtractor(ctx, cfg.GeminiApiKey, modelName)
	case "claude":
		return ingest.NewClaudeExtractor(cfg.AnthropicApiKey, modelName)
	case "tesseract":
		return ingest.NewTesseractExtractor(""), nil
	default:
		return nil, fmt.Errorf("unknown extraction backend %q (want gemini, claude or tesseract)", backend)
	}
}

func newEmbedder(ctx context.Context, cfg *config.Config) ingest.Embedder {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set, using deterministic fallback embeddings")
		return ingest.FallbackEmbedder{}
	}
	embedder, err := ingest.NewGeminiEmbedder(ctx, cfg.GeminiApiKey)
	if err != nil {
		log.Warn().Err(err).Msg("Gemini embedder unavailable, using fallback embeddings")
		return ingest.FallbackEmbedder{}
	}
	return embedder
}

func runCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	input := fs.String("input", ".", "directory containing PDF files")
	workDir := fs.String("output", "", "working directory for images and analysis files (default: input dir)")
	examType := fs.String("exam-type", "", "exam type tag for imported questions (required)")
	backend := fs.String("backend", "gemini", "extraction backend: gemini, claude or tesseract")
	modelName := fs.String("model", "", "override the extraction model name")
	parallel := fs.Int("parallel", 4, "number of PDFs processed concurrently")
	dpi := fs.Int("dpi", 300, "rasterization resolution")
	format := fs.String("format", "png", "page image format: png or jpeg")
	apiKey := fs.String("api-key", "", "provider API key (default: environment)")
	fs.Parse(args)

	if *examType == "" {
		return fmt.Errorf("--exam-type is required")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	applyAPIKey(cfg, *apiKey)
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	extractor, err := newExtractor(ctx, cfg, *backend, *modelName)
	if err != nil {
		return err
	}

	importer := ingest.NewImporter(
		repository.NewQuestionRepository(db),
		repository.NewEmbeddingRepository(db),
	)
	pipeline := ingest.NewPipeline(extractor, newEmbedder(ctx, cfg), importer, ingest.Options{
		InputDir: *input,
		WorkDir:  *workDir,
		ExamType: *examType,
		Parallel: *parallel,
		Raster:   ingest.RasterizeOptions{DPI: *dpi, Format: *format},
	})

	summary, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Ingested %d files (%d failed)\n", summary.Succeeded, summary.Failed)
	return nil
}

func rasterizeCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rasterize", flag.ExitOnError)
	input := fs.String("input", "", "PDF file to rasterize (required)")
	output := fs.String("output", ".", "output directory")
	dpi := fs.Int("dpi", 300, "rasterization resolution")
	format := fs.String("format", "png", "page image format: png or jpeg")
	fs.Parse(args)

	if *input == "" {
		return fmt.Errorf("--input is required")
	}
	pages, err := ingest.RasterizePDF(ctx, *input, *output, ingest.RasterizeOptions{DPI: *dpi, Format: *format})
	if err != nil {
		return err
	}
	for _, page := range pages {
		fmt.Println(page)
	}
	return nil
}

func extractCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	input := fs.String("input", "", "page image, or a directory with --batch (required)")
	backend := fs.String("backend", "gemini", "extraction backend: gemini, claude or tesseract")
	modelName := fs.String("model", "", "override the extraction model name")
	apiKey := fs.String("api-key", "", "provider API key (default: environment)")
	batch := fs.Bool("batch", false, "treat --input as a directory of page images")
	fs.Parse(args)

	if *input == "" {
		return fmt.Errorf("--input is required")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	applyAPIKey(cfg, *apiKey)
	extractor, err := newExtractor(ctx, cfg, *backend, *modelName)
	if err != nil {
		return err
	}

	images := []string{*input}
	if *batch {
		images = nil
		for _, pattern := range []string{"*.png", "*.jpg", "*.jpeg"} {
			matches, err := filepath.Glob(filepath.Join(*input, pattern))
			if err != nil {
				return err
			}
			images = append(images, matches...)
		}
		if len(images) == 0 {
			return fmt.Errorf("no page images found in %s", *input)
		}
	}

	succeeded := 0
	for _, image := range images {
		text, err := ingest.ExtractPage(ctx, extractor, image)
		if err != nil {
			log.Error().Err(err).Str("image", image).Msg("Extraction failed")
			continue
		}
		path, err := ingest.WriteAnalysisFile(ingest.PageAnalysis{
			ImagePath:   image,
			FileName:    filepath.Base(image),
			TextContent: text,
		})
		if err != nil {
			return err
		}
		if _, err := ingest.WriteMarkdownFile(image, text); err != nil {
			return err
		}
		fmt.Println(path)
		succeeded++
	}
	if succeeded == 0 {
		return fmt.Errorf("all %d images failed to extract", len(images))
	}
	return nil
}

func normalizeCmd(args []string) error {
	fs := flag.NewFlagSet("normalize", flag.ExitOnError)
	input := fs.String("input", "", "markdown file to normalize in place (required)")
	fs.Parse(args)

	if *input == "" {
		return fmt.Errorf("--input is required")
	}
	raw, err := os.ReadFile(*input)
	if err != nil {
		return err
	}
	return os.WriteFile(*input, []byte(ingest.NormalizeMarkdown(string(raw))+"\n"), 0o644)
}

func importCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	input := fs.String("input", ".", "directory containing *_analysis.json files")
	examType := fs.String("exam-type", "", "exam type tag for imported questions (required)")
	apiKey := fs.String("api-key", "", "provider API key (default: environment)")
	fs.Parse(args)

	if *examType == "" {
		return fmt.Errorf("--exam-type is required")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	applyAPIKey(cfg, *apiKey)
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	importer := ingest.NewImporter(
		repository.NewQuestionRepository(db),
		repository.NewEmbeddingRepository(db),
	)
	imported, err := importer.ImportAnalysisDir(ctx, *input, *examType, newEmbedder(ctx, cfg))
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d pages\n", imported)
	return nil
}

func compareCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	query := fs.String("query", "", "query text (required)")
	embType := fs.String("type", "", "restrict to one embedding type")
	limit := fs.Int("limit", 5, "number of results")
	fs.Parse(args)

	if *query == "" {
		return fmt.Errorf("--query is required")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	vec := ingest.EmbedOrFallback(ctx, newEmbedder(ctx, cfg), *query)
	hits, err := repository.NewEmbeddingRepository(db).FindNearest(vec, *embType, *limit)
	if err != nil {
		return err
	}
	for _, hit := range hits {
		fmt.Printf("%.4f  %s  (%s)\n", hit.Distance, hit.FileName, hit.EmbeddingType)
	}
	return nil
}
