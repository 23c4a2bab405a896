package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client answers resolver prompts with a JSON document
type Client interface {
	// GenerateJSON sends prompt to the model configured for tier and returns
	// the JSON part of the answer
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// GeminiClient implements Client on Google Gemini. One GenerativeModel is
// prepared per tier at construction, set up for deterministic JSON answers.
type GeminiClient struct {
	client *genai.Client
	models map[ModelTier]*genai.GenerativeModel
}

// NewClient creates a Gemini client for cfg. Empty model names use the defaults.
func NewClient(ctx context.Context, cfg Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	cfg = cfg.WithDefaults()
	c := &GeminiClient{client: client, models: make(map[ModelTier]*genai.GenerativeModel, 2)}
	for _, tier := range []ModelTier{TierLite, TierStandard} {
		model := client.GenerativeModel(cfg.Model(tier))
		model.SetTemperature(0)
		model.ResponseMIMEType = "application/json"
		c.models[tier] = model
	}
	return c, nil
}

// GenerateJSON implements Client
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	model, ok := c.models[tier]
	if !ok {
		model = c.models[TierStandard]
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return sb.String(), nil
}
