package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/knakai/examprep/internal/model"
	"github.com/knakai/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PageAnalysis is the per-page artifact written next to each rasterized
// image. It is both the pipeline checkpoint and the import input.
type PageAnalysis struct {
	ImagePath   string `json:"image_path"`
	FileName    string `json:"file_name"`
	TextContent string `json:"text_content"`
}

// WriteAnalysisFile persists the page artifact as `{image}_analysis.json`.
func WriteAnalysisFile(analysis PageAnalysis) (string, error) {
	base := strings.TrimSuffix(analysis.ImagePath, filepath.Ext(analysis.ImagePath))
	path := base + "_analysis.json"

	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteMarkdownFile mirrors the page image's basename with a .md extension.
func WriteMarkdownFile(imagePath, text string) (string, error) {
	path := strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".md"
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteEmbeddingFile stores the vector as a flat JSON array next to the
// image, using the `_embedding` suffix convention.
func WriteEmbeddingFile(imagePath string, vec model.Vector) (string, error) {
	path := strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + "_embedding.json"
	data, err := json.Marshal(vec)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ReadAnalysisFile loads a previously written page artifact.
func ReadAnalysisFile(path string) (PageAnalysis, error) {
	var analysis PageAnalysis
	data, err := os.ReadFile(path)
	if err != nil {
		return analysis, err
	}
	if err := json.Unmarshal(data, &analysis); err != nil {
		return analysis, fmt.Errorf("malformed analysis file %s: %w", path, err)
	}
	return analysis, nil
}

var pageNumberRe = regexp.MustCompile(`_page_(\d+)`)

// QuestionNumberFromFile derives the question number from the rasterizer's
// file naming. Files without the page marker get 0 and the title falls back
// to the bare stem.
func QuestionNumberFromFile(fileName string) int {
	m := pageNumberRe.FindStringSubmatch(fileName)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// DeriveTitle builds the stable question title used for upserts.
func DeriveTitle(fileName string) string {
	stem := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	if n := QuestionNumberFromFile(fileName); n > 0 {
		base := pageNumberRe.Split(stem, 2)[0]
		return fmt.Sprintf("%s - Question %d", base, n)
	}
	return stem
}

// Importer writes extracted pages into the questions and embeddings tables.
type Importer struct {
	questionRepo  repository.QuestionRepository
	embeddingRepo repository.EmbeddingRepository
}

func NewImporter(questionRepo repository.QuestionRepository, embeddingRepo repository.EmbeddingRepository) *Importer {
	return &Importer{questionRepo: questionRepo, embeddingRepo: embeddingRepo}
}

// ImportPage upserts the question derived from one page and stores its
// embedding. Re-importing the same page overwrites rather than duplicates.
func (imp *Importer) ImportPage(analysis PageAnalysis, examType string, vec model.Vector, embeddingType string) error {
	title := DeriveTitle(analysis.FileName)

	existing, err := imp.questionRepo.FindByTitle(title)
	switch {
	case err == nil:
		existing.Body = analysis.TextContent
		existing.ExamType = examType
		if err := imp.questionRepo.Update(existing); err != nil {
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		question := model.Question{
			Title:      title,
			Body:       analysis.TextContent,
			Difficulty: model.DifficultyMid,
			ExamType:   examType,
		}
		if err := imp.questionRepo.Create(&question); err != nil {
			return err
		}
	default:
		return err
	}

	emb := model.Embedding{
		FileName:      analysis.FileName,
		ImagePath:     analysis.ImagePath,
		TextContent:   analysis.TextContent,
		EmbeddingType: embeddingType,
		Embedding:     vec,
		Metadata: datatypes.JSONMap{
			"question_number": QuestionNumberFromFile(analysis.FileName),
			"title":           title,
		},
	}
	return imp.embeddingRepo.Upsert(&emb)
}

// ImportAnalysisDir replays every `*_analysis.json` artifact under dir,
// embedding with the given embedder. Used to re-import after a partial run
// without calling the vision models again.
func (imp *Importer) ImportAnalysisDir(ctx context.Context, dir, examType string, embedder Embedder) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*_analysis.json"))
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, path := range matches {
		analysis, err := ReadAnalysisFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping unreadable analysis file")
			continue
		}
		vec := EmbedOrFallback(ctx, embedder, analysis.TextContent)
		if err := imp.ImportPage(analysis, examType, vec, model.EmbeddingTypeText); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
