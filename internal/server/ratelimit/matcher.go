package ratelimit

import (
	"strings"
)

// unlimited marks endpoints that are never rate limited
var unlimited = &EndpointConfig{Limit: 0}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Exact matches win, then prefix rules with a suffix, then plain prefix rules
// (e.g., "/resumes/" matches "/resumes/{id}").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	switch {
	case path == "/health" && method == "GET",
		path == "/metrics" && method == "GET",
		// Payment provider deliveries must never be dropped
		path == "/billing/webhook" && method == "POST":
		return unlimited
	}

	// Try exact match first
	for i := range configs {
		config := &configs[i]
		if config.Suffix == "" && config.Path == path && config.Method == method {
			return config
		}
	}

	// Prefix rules narrowed by a suffix
	for i := range configs {
		config := &configs[i]
		if config.Method == method && config.Suffix != "" &&
			strings.HasPrefix(path, config.Path) && strings.HasSuffix(path, config.Suffix) {
			return config
		}
	}

	// Try prefix match (for paths ending with "/")
	for i := range configs {
		config := &configs[i]
		if config.Method == method && config.Suffix == "" && strings.HasSuffix(config.Path, "/") {
			if strings.HasPrefix(path, config.Path) {
				return config
			}
		}
	}

	// No match found
	return nil
}
