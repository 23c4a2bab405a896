package embedding

import (
	"context"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultOpenAIModel is the default OpenAI embedding model
	DefaultOpenAIModel = "text-embedding-3-small"
	// DefaultOpenAIDimension is the default dimension for text-embedding-3-small
	DefaultOpenAIDimension = 1536
)

// OpenAI embeds texts with the OpenAI embeddings API or any compatible endpoint
type OpenAI struct {
	client    openai.Client
	model     string
	dimension int
}

// NewOpenAI creates an OpenAI-compatible embedding provider.
// An empty apiKey falls back to OPENAI_API_KEY; an empty baseURL uses the OpenAI endpoint.
func NewOpenAI(apiKey, baseURL, model string, dimension int) *OpenAI {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if dimension <= 0 {
		dimension = DefaultOpenAIDimension
	}

	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAI{
		client:    openai.NewClient(opts...),
		model:     model,
		dimension: dimension,
	}
}

// Embed implements Provider
func (o *OpenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	params := openai.EmbeddingNewParams{
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:          openai.EmbeddingModel(o.model),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	}
	// Only the text-embedding-3 family accepts a custom dimension
	if strings.HasPrefix(o.model, "text-embedding-3") {
		params.Dimensions = openai.Int(int64(o.dimension))
	}

	resp, err := o.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, &EmbeddingError{Provider: "openai", Message: "embeddings request failed", Cause: err}
	}

	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		idx := int(d.Index)
		if idx < 0 || idx >= len(out) {
			idx = i
		}
		row := make([]float32, len(d.Embedding))
		for j, x := range d.Embedding {
			row[j] = float32(x)
		}
		out[idx] = Normalize(row)
	}

	if err := checkShape("openai", out, texts, o.dimension); err != nil {
		return nil, err
	}
	return out, nil
}

// Dimension implements Provider
func (o *OpenAI) Dimension() int {
	return o.dimension
}
