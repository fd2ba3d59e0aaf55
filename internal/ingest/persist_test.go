package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/knakai/examprep/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionNumberFromFile(t *testing.T) {
	assert.Equal(t, 3, QuestionNumberFromFile("exam2024_page_003.png"))
	assert.Equal(t, 12, QuestionNumberFromFile("exam2024_page_12.png"))
	assert.Equal(t, 0, QuestionNumberFromFile("cover.png"))
	assert.Equal(t, 0, QuestionNumberFromFile("notes_pages.png"))
}

func TestDeriveTitle(t *testing.T) {
	assert.Equal(t, "exam2024 - Question 3", DeriveTitle("exam2024_page_003.png"))
	assert.Equal(t, "cover", DeriveTitle("cover.png"))
	assert.Equal(t, "syllabus", DeriveTitle("/tmp/out/syllabus.jpg"))
}

func TestAnalysisFileRoundtrip(t *testing.T) {
	dir := t.TempDir()
	analysis := PageAnalysis{
		ImagePath:   filepath.Join(dir, "exam_page_001.png"),
		FileName:    "exam_page_001.png",
		TextContent: "## Question 1\n\nSolve $x^2 = 4$.",
	}

	path, err := WriteAnalysisFile(analysis)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "exam_page_001_analysis.json"), path)

	got, err := ReadAnalysisFile(path)
	require.NoError(t, err)
	assert.Equal(t, analysis, got)
}

func TestWriteMarkdownAndEmbeddingFiles(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "exam_page_002.png")

	mdPath, err := WriteMarkdownFile(image, "## Question 2")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "exam_page_002.md"), mdPath)
	data, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Equal(t, "## Question 2\n", string(data))

	embPath, err := WriteEmbeddingFile(image, model.Vector{0.5, -1})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "exam_page_002_embedding.json"), embPath)
	data, err = os.ReadFile(embPath)
	require.NoError(t, err)
	assert.JSONEq(t, "[0.5,-1]", string(data))
}

func TestReadAnalysisFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken_analysis.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := ReadAnalysisFile(path)
	assert.Error(t, err)
}
