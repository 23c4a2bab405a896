package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Provider names accepted by New
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config selects and configures an embedding provider
type Config struct {
	Provider          string
	Model             string
	APIKey            string
	BaseURL           string
	Dimension         int
	RequestsPerSecond float64
	Burst             int
	TimeoutSeconds    int
	MaxRetries        int
}

// New builds the configured provider wrapped in a Throttled boundary
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Throttled, error) {
	var inner Provider

	switch cfg.Provider {
	case ProviderGemini, "":
		g, err := NewGemini(ctx, cfg.APIKey, cfg.Model, cfg.Dimension)
		if err != nil {
			return nil, err
		}
		inner = g
	case ProviderOpenAI:
		inner = NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Dimension)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}

	return NewThrottled(inner, ThrottleOptions{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Timeout:           time.Duration(cfg.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.MaxRetries,
	}, logger), nil
}
