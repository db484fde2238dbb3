package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Suffix string        // Optional suffix a prefix-matched path must also end with
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// key identifies the bucket shared by every request matching this rule
func (c *EndpointConfig) key() string {
	return c.Method + " " + c.Path + "*" + c.Suffix
}

// FromConfig builds the limiter configuration from application settings.
func FromConfig(cfg config.RateLimitConfig) *Config {
	if !cfg.Enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    cfg.DefaultLimit,
		DefaultWindow:   cfg.DefaultWindow,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       parseIPList(cfg.Whitelist),
		Blacklist:       parseIPList(cfg.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: model calls and headless Chrome (strictest limits)
		{Path: "/assist/", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},
		{Path: "/resumes/", Suffix: "/export.pdf", Method: "GET", Limit: 30, Window: time.Hour, Burst: 5},

		// Tier 2: account and billing operations
		{Path: "/auth/register", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/auth/login", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},
		{Path: "/auth/password", Method: "PUT", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/billing/checkout", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/billing/portal", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},

		// Tier 3: write operations (moderate limits)
		{Path: "/resumes", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/resumes/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/resumes/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/editor/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 20},

		// Edits arrive per keystroke batch
		{Path: "/editor", Method: "PATCH", Limit: 600, Window: time.Minute, Burst: 60},

		// Reads use the default limit; health, metrics and webhooks are unlimited (matcher)
	}
}

// parseIPList turns a list of addresses into a lookup set.
func parseIPList(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, ip := range list {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
