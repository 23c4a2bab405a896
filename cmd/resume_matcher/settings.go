package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/embedding"
	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/resolve"
	"github.com/jonathan/resume-matcher/internal/vectorize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// flags shared by every command
type globalFlags struct {
	configPath  string
	weightsPath string
	provider    string
	model       string
	llmModel    string
	workers     int
	useLLM      bool
	verbose     bool
	logJSON     bool
}

var (
	rootFlags globalFlags
	settings  *config.Config
	log       = zap.NewNop()
)

// resolveConfig layers built-in defaults, the optional config file, the
// environment and finally explicit flags.
func resolveConfig(flags globalFlags) (*config.Config, error) {
	cfg := config.Defaults()

	if flags.configPath != "" {
		fileCfg, err := config.LoadConfig(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if flags.weightsPath != "" {
		cfg.WeightsPath = flags.weightsPath
	}
	if flags.provider != "" {
		cfg.Embedding.Provider = flags.provider
	}
	if flags.model != "" {
		cfg.Embedding.Model = flags.model
	}
	if flags.llmModel != "" {
		cfg.LLM.StandardModel = flags.llmModel
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	cfg.UseLLM = cfg.UseLLM || flags.useLLM
	cfg.Verbose = cfg.Verbose || flags.verbose
	cfg.LogJSON = cfg.LogJSON || flags.logJSON

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadSettings(_ *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(rootFlags)
	if err != nil {
		return err
	}
	settings = cfg

	l, err := logger.New(cfg.LogJSON, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	log = l
	return nil
}

// engine bundles the collaborators every scoring command needs
type engine struct {
	provider   *embedding.Throttled
	llmClient  llm.Client
	vectorizer *vectorize.Vectorizer
	ranker     *ranking.Ranker
	weights    *config.WeightStore
}

func embeddingConfig(cfg *config.Config) embedding.Config {
	apiKey := cfg.APIKey
	if cfg.Embedding.Provider == embedding.ProviderOpenAI {
		apiKey = cfg.OpenAIAPIKey
	}
	return embedding.Config{
		Provider:          cfg.Embedding.Provider,
		Model:             cfg.Embedding.Model,
		APIKey:            apiKey,
		BaseURL:           cfg.Embedding.BaseURL,
		Dimension:         cfg.Embedding.Dimension,
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
		Burst:             cfg.Embedding.Burst,
		TimeoutSeconds:    cfg.Embedding.TimeoutSeconds,
		MaxRetries:        cfg.Embedding.Retries(),
	}
}

func llmConfig(cfg *config.Config) llm.Config {
	return llm.Config{
		LiteModel:     cfg.LLM.LiteModel,
		StandardModel: cfg.LLM.StandardModel,
	}
}

func newEngine(ctx context.Context, cfg *config.Config, l *zap.Logger) (*engine, error) {
	weights := config.NewWeightStore(cfg.WeightsPath)
	if _, err := weights.Get(); err != nil {
		return nil, err
	}

	provider, err := embedding.New(ctx, embeddingConfig(cfg), logger.Component(l, "embedding"))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}
	l.Debug("embedding provider ready", logger.EmbeddingFields(cfg.Embedding.Provider, cfg.Embedding.Model)...)

	e := &engine{provider: provider, weights: weights}

	var resolver resolve.Resolver = resolve.NewDeterministic(weights)
	if cfg.UseLLM {
		client, err := llm.NewClient(ctx, llmConfig(cfg), cfg.APIKey)
		if err != nil {
			_ = provider.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		e.llmClient = client
		resolver = resolve.NewLLMResolver(client)
	}

	e.vectorizer = vectorize.New(provider, resolver, logger.Component(l, "vectorizer"))
	e.ranker = ranking.NewRanker(e.vectorizer, ranking.NewStoreScorer(weights), cfg.Workers, logger.Component(l, "ranker"))
	return e, nil
}

func (e *engine) Close() {
	if e.llmClient != nil {
		_ = e.llmClient.Close()
	}
	_ = e.provider.Close()
}
