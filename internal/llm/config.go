// Package llm provides the Gemini client used by the optional LLM-backed resolver,
// along with the resolver prompt schemas and response clean-up helpers.
package llm

// ModelTier selects which configured model answers a prompt
type ModelTier string

const (
	// TierLite is for simple tasks such as degree classification
	TierLite ModelTier = "lite"
	// TierStandard is for date arithmetic over a work history
	TierStandard ModelTier = "standard"
)

// Default resolver models
const (
	DefaultLiteModel     = "gemini-2.5-flash-lite"
	DefaultStandardModel = "gemini-2.5-flash"
)

// Config names the model serving each tier. Empty fields fall back to the defaults.
type Config struct {
	LiteModel     string
	StandardModel string
}

// DefaultConfig returns the default Gemini models
func DefaultConfig() Config {
	return Config{
		LiteModel:     DefaultLiteModel,
		StandardModel: DefaultStandardModel,
	}
}

// WithDefaults returns c with empty model names replaced by the defaults
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.LiteModel == "" {
		c.LiteModel = d.LiteModel
	}
	if c.StandardModel == "" {
		c.StandardModel = d.StandardModel
	}
	return c
}

// Model returns the model name for tier. Unknown tiers use the standard model.
func (c Config) Model(tier ModelTier) string {
	if tier == TierLite {
		return c.LiteModel
	}
	return c.StandardModel
}
