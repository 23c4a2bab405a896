package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	// DefaultGeminiModel is the default Gemini embedding model
	DefaultGeminiModel = "text-embedding-004"
	// DefaultGeminiDimension is the output dimension of text-embedding-004
	DefaultGeminiDimension = 768

	// geminiBatchLimit is the maximum number of texts per BatchEmbedContents call
	geminiBatchLimit = 100
)

// Gemini embeds texts with the Gemini embedding API
type Gemini struct {
	client    *genai.Client
	model     string
	dimension int
}

// NewGemini creates a Gemini embedding provider
func NewGemini(ctx context.Context, apiKey, model string, dimension int) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if dimension <= 0 {
		dimension = DefaultGeminiDimension
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{client: client, model: model, dimension: dimension}, nil
}

// Embed implements Provider
func (g *Gemini) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	em := g.client.EmbeddingModel(g.model)
	em.TaskType = genai.TaskTypeSemanticSimilarity

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += geminiBatchLimit {
		end := min(start+geminiBatchLimit, len(texts))

		batch := em.NewBatch()
		for _, text := range texts[start:end] {
			batch.AddContent(genai.Text(text))
		}

		resp, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, &EmbeddingError{Provider: "gemini", Message: "batch embed request failed", Cause: err}
		}
		for _, e := range resp.Embeddings {
			if e == nil {
				out = append(out, nil)
				continue
			}
			out = append(out, Normalize(e.Values))
		}
	}

	if err := checkShape("gemini", out, texts, g.dimension); err != nil {
		return nil, err
	}
	return out, nil
}

// Dimension implements Provider
func (g *Gemini) Dimension() int {
	return g.dimension
}

// Close releases the underlying client
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
