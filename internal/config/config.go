// Package config provides configuration loading and validation for the matcher.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-matcher/internal/llm"
)

// EmbeddingConfig selects the embedding provider and its I/O policy
type EmbeddingConfig struct {
	Provider          string  `json:"provider,omitempty" validate:"omitempty,oneof=gemini openai"`
	Model             string  `json:"model,omitempty"`
	BaseURL           string  `json:"base_url,omitempty" validate:"omitempty,url"`
	Dimension         int     `json:"dimension,omitempty" validate:"gte=0"`
	RequestsPerSecond float64 `json:"requests_per_second,omitempty" validate:"gte=0"`
	Burst             int     `json:"burst,omitempty" validate:"gte=0"`
	TimeoutSeconds    int     `json:"timeout_seconds,omitempty" validate:"gte=0"`
	MaxRetries        *int    `json:"max_retries,omitempty" validate:"omitempty,gte=0"` // nil uses the default, 0 disables retries
}

// Retries returns the configured retry count, 0 when unset
func (e EmbeddingConfig) Retries() int {
	if e.MaxRetries == nil {
		return 0
	}
	return *e.MaxRetries
}

// LLMConfig names the Gemini models used by the LLM resolver
type LLMConfig struct {
	LiteModel     string `json:"lite_model,omitempty"`     // degree classification
	StandardModel string `json:"standard_model,omitempty"` // years of experience
}

// Config represents the application configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or come from CLI flags and environment.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL (pgvector) connection URL

	// Credentials
	APIKey       string `json:"api_key,omitempty"`        // Gemini API key (embeddings and LLM resolver)
	OpenAIAPIKey string `json:"openai_api_key,omitempty"` // OpenAI-compatible embeddings key

	Embedding EmbeddingConfig `json:"embedding"`
	LLM       LLMConfig       `json:"llm"`

	// Scoring
	WeightsPath    string  `json:"weights_path,omitempty"`                           // Path to the weight configuration file
	Workers        int     `json:"workers,omitempty" validate:"gte=0,lte=256"`       // Concurrent candidates while ranking
	UseLLM         bool    `json:"use_llm,omitempty"`                                // Use the LLM resolver for years and degree
	MinSimilarity  float64 `json:"min_similarity,omitempty" validate:"gte=-1,lte=1"` // Vector store pre-filter threshold
	CandidateLimit int     `json:"candidate_limit,omitempty" validate:"gte=0"`       // Vector store pre-filter size

	// Server
	Port int `json:"port,omitempty" validate:"gte=0,lte=65535"`

	// Logging
	Verbose bool `json:"verbose,omitempty"`
	LogJSON bool `json:"log_json,omitempty"`
}

// Defaults returns the built-in configuration defaults
func Defaults() Config {
	return Config{
		Embedding: EmbeddingConfig{
			Provider:          "gemini",
			RequestsPerSecond: 5,
			Burst:             5,
			TimeoutSeconds:    30,
			MaxRetries:        intPtr(3),
		},
		LLM: LLMConfig{
			LiteModel:     llm.DefaultLiteModel,
			StandardModel: llm.DefaultStandardModel,
		},
		WeightsPath:    "config/weight_config.yml",
		Workers:        4,
		MinSimilarity:  0.1,
		CandidateLimit: 1000,
		Port:           8080,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.WeightsPath != "" {
		if _, err := os.Stat(c.WeightsPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: weights file not found: %s", c.WeightsPath)
		}
	}

	return nil
}

// ApplyEnv overrides credentials and connection settings from the environment.
// DATABASE_URL, GEMINI_API_KEY (or GOOGLE_API_KEY), OPENAI_API_KEY, MATCHER_WORKERS
// and MATCHER_WEIGHTS are recognised.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	} else if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAIAPIKey = v
	}
	if v := os.Getenv("MATCHER_WEIGHTS"); v != "" {
		c.WeightsPath = v
	}
	if v := os.Getenv("MATCHER_WORKERS"); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MATCHER_WORKERS: %v", err)
		}
		c.Workers = workers
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.OpenAIAPIKey == "" {
		result.OpenAIAPIKey = defaults.OpenAIAPIKey
	}
	if result.WeightsPath == "" {
		result.WeightsPath = defaults.WeightsPath
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.MinSimilarity == 0 {
		result.MinSimilarity = defaults.MinSimilarity
	}
	if result.CandidateLimit == 0 {
		result.CandidateLimit = defaults.CandidateLimit
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	e, d := &result.Embedding, defaults.Embedding
	if e.Provider == "" {
		e.Provider = d.Provider
	}
	if e.Model == "" {
		e.Model = d.Model
	}
	if e.BaseURL == "" {
		e.BaseURL = d.BaseURL
	}
	if e.Dimension == 0 {
		e.Dimension = d.Dimension
	}
	if e.RequestsPerSecond == 0 {
		e.RequestsPerSecond = d.RequestsPerSecond
	}
	if e.Burst == 0 {
		e.Burst = d.Burst
	}
	if e.TimeoutSeconds == 0 {
		e.TimeoutSeconds = d.TimeoutSeconds
	}
	if e.MaxRetries == nil && d.MaxRetries != nil {
		e.MaxRetries = intPtr(*d.MaxRetries)
	}

	if result.LLM.LiteModel == "" {
		result.LLM.LiteModel = defaults.LLM.LiteModel
	}
	if result.LLM.StandardModel == "" {
		result.LLM.StandardModel = defaults.LLM.StandardModel
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func intPtr(v int) *int {
	return &v
}
