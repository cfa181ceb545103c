// Package llm provides centralized LLM configuration and client abstractions.
// Generation and tailoring pick a tier; the config maps tiers to concrete models.
package llm

import "maps"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, extraction, basic summarization
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: parsing, structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: rewriting, cover letter drafting
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderLocal is an OpenAI-compatible local inference server
	ProviderLocal Provider = "local"
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	// BaseURL is the server address for the local provider
	BaseURL string
	Models  map[ModelTier]string
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// DefaultLocalConfig returns a configuration for an OpenAI-compatible
// server at baseURL. Local servers usually expose a single model, so all
// tiers map to it.
func DefaultLocalConfig(baseURL, model string) *Config {
	if model == "" {
		model = "default"
	}
	return &Config{
		Provider: ProviderLocal,
		BaseURL:  baseURL,
		Models: map[ModelTier]string{
			TierLite:     model,
			TierStandard: model,
			TierAdvanced: model,
		},
	}
}

// GetModel resolves a tier to a model name. An unconfigured tier falls
// back to standard, then lite, so a partial Models map still works.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of the config with one tier overridden. The
// receiver is left untouched.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	clone := &Config{
		Provider: c.Provider,
		BaseURL:  c.BaseURL,
		Models:   maps.Clone(c.Models),
	}
	if clone.Models == nil {
		clone.Models = make(map[ModelTier]string)
	}
	clone.Models[tier] = model
	return clone
}
