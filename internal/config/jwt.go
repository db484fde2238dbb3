package config

import "fmt"

// maxTokenHours caps session lifetime at 30 days.
const maxTokenHours = 30 * 24

// JWTConfig holds the session token settings.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

func NewJWTConfig(secret string, expirationHours int) (*JWTConfig, error) {
	switch {
	case secret == "":
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	case expirationHours < 1 || expirationHours > maxTokenHours:
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be between 1 and %d, got: %d", maxTokenHours, expirationHours)
	}
	return &JWTConfig{Secret: secret, ExpirationHours: expirationHours}, nil
}
