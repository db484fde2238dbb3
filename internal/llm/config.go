// Package llm provides the language model client used by the AI assist features.
package llm

import (
	"maps"
	"time"
)

// ModelTier picks a model by how much capability a call needs.
type ModelTier string

const (
	// TierLite is for short single-field generation: bullets, skills.
	TierLite ModelTier = "lite"
	// TierStandard is for structured output: summaries, extraction.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for longer reasoning: tailoring to a job description.
	TierAdvanced ModelTier = "advanced"
)

// fallbackTiers are tried in order when a tier has no model of its own.
var fallbackTiers = []ModelTier{TierStandard, TierLite}

type Provider string

const ProviderGemini Provider = "gemini"

// Config selects provider, models and generation settings.
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
	// Timeout bounds a single generation call; zero means no extra bound
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: 0.4,
		Timeout:     45 * time.Second,
	}
}

// GetModel returns the model for tier, falling back to standard and then lite.
// It returns "" when nothing is configured.
func (c *Config) GetModel(tier ModelTier) string {
	if m := c.Models[tier]; m != "" {
		return m
	}
	for _, t := range fallbackTiers {
		if m := c.Models[t]; m != "" {
			return m
		}
	}
	return ""
}

// WithModel returns a copy of c using model for tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := *c
	next.Models = maps.Clone(c.Models)
	if next.Models == nil {
		next.Models = map[ModelTier]string{}
	}
	next.Models[tier] = model
	return &next
}
