package config

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Signal and penalty names understood by the scorer
const (
	WeightSkillSimilarity    = "skill_similarity"
	WeightExpSimilarity      = "exp_similarity"
	WeightEducationMatch     = "education_match"
	WeightSentenceSimilarity = "sentence_similarity"
	PenaltyLackingYears      = "lacking_years"
)

// WeightConfig holds the scoring multipliers and the degree hierarchy.
// It is immutable once loaded; lookups of absent keys return 0.
type WeightConfig struct {
	Weights            map[string]float64 `mapstructure:"weights" json:"weights" validate:"dive,gte=0"`
	Penalties          map[string]float64 `mapstructure:"penalties" json:"penalties"`
	EducationHierarchy map[string]int     `mapstructure:"education_hierarchy" json:"education_hierarchy" validate:"dive,gte=0"`
}

// Weight returns the multiplier for a signal, 0 when absent
func (w *WeightConfig) Weight(name string) float64 {
	if w == nil {
		return 0
	}
	return w.Weights[name]
}

// Penalty returns the multiplier for a penalty kind, 0 when absent
func (w *WeightConfig) Penalty(name string) float64 {
	if w == nil {
		return 0
	}
	return w.Penalties[name]
}

// Rank returns the ordinal of a degree level, 0 when unknown
func (w *WeightConfig) Rank(level string) int {
	if w == nil {
		return 0
	}
	return w.EducationHierarchy[level]
}

// Validate checks weights and hierarchy ranks are nonnegative.
// Penalties may carry either sign.
func (w *WeightConfig) Validate() error {
	if err := validator.New().Struct(w); err != nil {
		return &ConfigError{Path: "", Message: "invalid weight configuration", Cause: err}
	}
	return nil
}

// DefaultWeights returns the weights shipped in config/weight_config.yml
func DefaultWeights() *WeightConfig {
	return &WeightConfig{
		Weights: map[string]float64{
			WeightSkillSimilarity:    0.4,
			WeightExpSimilarity:      0.2,
			WeightEducationMatch:     0.1,
			WeightSentenceSimilarity: 0.3,
		},
		Penalties: map[string]float64{
			PenaltyLackingYears: -0.05,
		},
		EducationHierarchy: map[string]int{
			"none":      0,
			"diploma":   1,
			"bachelors": 2,
			"masters":   3,
			"phd":       4,
		},
	}
}

// ConfigError is returned when the weight configuration cannot be loaded
type ConfigError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("weight config %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("weight config %s: %s", e.Path, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// LoadWeights reads a weight configuration file (YAML, JSON or TOML by extension).
// A missing file is the only fatal condition; missing mappings default to empty
// and unknown keys are ignored.
func LoadWeights(path string) (*WeightConfig, error) {
	if path == "" {
		return nil, &ConfigError{Path: path, Message: "path is empty"}
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &ConfigError{Path: path, Message: "file not found", Cause: err}
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigError{Path: path, Message: "failed to read", Cause: err}
	}

	var cfg WeightConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Path: path, Message: "failed to decode", Cause: err}
	}

	if cfg.Weights == nil {
		cfg.Weights = map[string]float64{}
	}
	if cfg.Penalties == nil {
		cfg.Penalties = map[string]float64{}
	}
	if cfg.EducationHierarchy == nil {
		cfg.EducationHierarchy = map[string]int{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WeightStore loads the weight configuration once and serves it read-only.
// Reload is the only way to pick up changes on disk.
type WeightStore struct {
	path    string
	mu      sync.Mutex
	current atomic.Pointer[WeightConfig]
}

// NewWeightStore creates a store backed by the file at path. Nothing is read until first use.
func NewWeightStore(path string) *WeightStore {
	return &WeightStore{path: path}
}

// NewStaticWeightStore creates a store preloaded with cfg. Reload re-applies cfg.
func NewStaticWeightStore(cfg *WeightConfig) *WeightStore {
	s := &WeightStore{}
	s.current.Store(cfg)
	return s
}

// Get returns the loaded configuration, loading it on first call
func (s *WeightStore) Get() (*WeightConfig, error) {
	if cfg := s.current.Load(); cfg != nil {
		return cfg, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg := s.current.Load(); cfg != nil {
		return cfg, nil
	}
	cfg, err := LoadWeights(s.path)
	if err != nil {
		return nil, err
	}
	s.current.Store(cfg)
	return cfg, nil
}

// Reload re-reads the file and swaps the configuration atomically.
// Readers holding the previous pointer keep a consistent snapshot.
func (s *WeightStore) Reload() (*WeightConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return s.current.Load(), nil
	}
	cfg, err := LoadWeights(s.path)
	if err != nil {
		return nil, err
	}
	s.current.Store(cfg)
	return cfg, nil
}

// Current returns the configuration in effect. A store that cannot load its
// file serves an empty configuration, which disables every term.
func (s *WeightStore) Current() *WeightConfig {
	cfg, err := s.Get()
	if err != nil || cfg == nil {
		return &WeightConfig{}
	}
	return cfg
}

// Rank looks the level up in the current education hierarchy
func (s *WeightStore) Rank(level string) int {
	return s.Current().Rank(level)
}
