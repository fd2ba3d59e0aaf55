package ingest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// TextExtractor turns one page image into markdown text.
type TextExtractor interface {
	Name() string
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

const extractionPrompt = `Extract every exam problem visible in this image as markdown.
Keep the problem numbering, write all mathematical notation as LaTeX, and
preserve tables and answer options. Output only the markdown content.`

const (
	extractAttempts  = 3
	extractBaseDelay = 2 * time.Second
)

// ExtractPage runs one image through the extractor with retries and
// normalizes the result.
func ExtractPage(ctx context.Context, ex TextExtractor, imagePath string) (string, error) {
	text, err := extractWithRetry(ctx, ex, imagePath)
	if err != nil {
		return "", err
	}
	return NormalizeMarkdown(text), nil
}

// extractWithRetry wraps an extractor call with exponential backoff. Vision
// endpoints rate-limit aggressively; three attempts rides out the usual 429s.
func extractWithRetry(ctx context.Context, ex TextExtractor, imagePath string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < extractAttempts; attempt++ {
		if attempt > 0 {
			delay := extractBaseDelay * time.Duration(1<<(attempt-1))
			log.Warn().Err(lastErr).Str("image", imagePath).Dur("delay", delay).
				Msgf("Extraction attempt %d failed, retrying", attempt)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		text, err := ex.ExtractText(ctx, imagePath)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("%s extraction failed after %d attempts: %w", ex.Name(), extractAttempts, lastErr)
}

func readImage(imagePath string) ([]byte, string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, "", err
	}
	mimeType := mime.TypeByExtension(filepath.Ext(imagePath))
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", fmt.Errorf("unsupported image type: %s", imagePath)
	}
	return data, mimeType, nil
}

// GeminiExtractor reads pages with a Gemini vision model.
type GeminiExtractor struct {
	model *genai.GenerativeModel
}

func NewGeminiExtractor(ctx context.Context, apiKey, modelName string) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiExtractor{model: client.GenerativeModel(modelName)}, nil
}

func (e *GeminiExtractor) Name() string { return "gemini" }

func (e *GeminiExtractor) ExtractText(ctx context.Context, imagePath string) (string, error) {
	data, mimeType, err := readImage(imagePath)
	if err != nil {
		return "", err
	}

	format := strings.TrimPrefix(mimeType, "image/")
	resp, err := e.model.GenerateContent(ctx,
		genai.ImageData(format, data),
		genai.Text(extractionPrompt),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates for %s", imagePath)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("gemini returned empty text for %s", imagePath)
	}
	return out, nil
}

// ClaudeExtractor reads pages with the Anthropic messages API.
type ClaudeExtractor struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

func NewClaudeExtractor(apiKey, modelName string) (*ClaudeExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is not set")
	}
	if modelName == "" {
		modelName = "claude-3-5-sonnet-20241022"
	}
	return &ClaudeExtractor{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		apiKey:     apiKey,
		model:      modelName,
		baseURL:    "https://api.anthropic.com/v1/messages",
	}, nil
}

func (e *ClaudeExtractor) Name() string { return "claude" }

func (e *ClaudeExtractor) ExtractText(ctx context.Context, imagePath string) (string, error) {
	data, mimeType, err := readImage(imagePath)
	if err != nil {
		return "", err
	}

	body := map[string]any{
		"model":      e.model,
		"max_tokens": 4096,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{
						"type": "image",
						"source": map[string]any{
							"type":       "base64",
							"media_type": mimeType,
							"data":       base64.StdEncoding.EncodeToString(data),
						},
					},
					{"type": "text", "text": extractionPrompt},
				},
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	res, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("anthropic API returned %s: %s", res.Status, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("claude returned empty text for %s", imagePath)
	}
	return out, nil
}

// TesseractExtractor is the offline OCR fallback. Output quality is far
// below the vision models; use it only when no API key is available.
type TesseractExtractor struct {
	lang string
}

func NewTesseractExtractor(lang string) *TesseractExtractor {
	if lang == "" {
		lang = "eng"
	}
	return &TesseractExtractor{lang: lang}
}

func (e *TesseractExtractor) Name() string { return "tesseract" }

func (e *TesseractExtractor) ExtractText(ctx context.Context, imagePath string) (string, error) {
	cmd := exec.CommandContext(ctx, "tesseract", imagePath, "stdout", "-l", e.lang)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed for %s: %w: %s", imagePath, err, strings.TrimSpace(stderr.String()))
	}
	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", fmt.Errorf("tesseract returned empty text for %s", imagePath)
	}
	return out, nil
}
