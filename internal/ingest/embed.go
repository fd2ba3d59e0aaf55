package ingest

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/google/generative-ai-go/genai"
	"github.com/knakai/examprep/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Embedder turns extracted text into a fixed-length vector.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) (model.Vector, error)
}

// GeminiEmbedder calls the Gemini embedding endpoint.
type GeminiEmbedder struct {
	model *genai.EmbeddingModel
}

func NewGeminiEmbedder(ctx context.Context, apiKey string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &GeminiEmbedder{model: client.EmbeddingModel("embedding-001")}, nil
}

func (e *GeminiEmbedder) Name() string { return "gemini" }

func (e *GeminiEmbedder) Embed(ctx context.Context, text string) (model.Vector, error) {
	res, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding response was empty")
	}
	return fitDimension(res.Embedding.Values), nil
}

// fitDimension pads or truncates to the column's fixed dimensionality so a
// model change cannot break inserts.
func fitDimension(values []float32) model.Vector {
	out := make(model.Vector, model.EmbeddingDim)
	copy(out, values)
	return out
}

// FallbackEmbedder produces deterministic pseudo-embeddings when no API key
// is configured. Identical text always maps to the identical unit vector, so
// exact-duplicate detection still works; semantic similarity does not.
type FallbackEmbedder struct{}

func (FallbackEmbedder) Name() string { return "fallback" }

func (FallbackEmbedder) Embed(_ context.Context, text string) (model.Vector, error) {
	return FallbackVector(text), nil
}

// FallbackVector derives a unit vector from a hash of the text.
func FallbackVector(text string) model.Vector {
	h := fnv.New64a()
	h.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	vec := make(model.Vector, model.EmbeddingDim)
	var norm float64
	for i := range vec {
		v := rng.NormFloat64()
		vec[i] = float32(v)
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

// EmbedOrFallback embeds with the configured embedder and degrades to the
// hash-based vector if the call fails, so one flaky API response does not
// lose the page.
func EmbedOrFallback(ctx context.Context, embedder Embedder, text string) model.Vector {
	if embedder == nil {
		return FallbackVector(text)
	}
	vec, err := embedder.Embed(ctx, text)
	if err != nil {
		log.Warn().Err(err).Str("embedder", embedder.Name()).Msg("Embedding failed, using fallback vector")
		return FallbackVector(text)
	}
	return vec
}
