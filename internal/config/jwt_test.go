package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		hours   int
		wantErr string
	}{
		{name: "valid", secret: "test-secret", hours: 24},
		{name: "one hour", secret: "test-secret", hours: 1},
		{name: "missing secret", hours: 24, wantErr: "JWT_SECRET is required"},
		{name: "thirty days", secret: "test-secret", hours: 720},
		{name: "zero hours", secret: "test-secret", hours: 0, wantErr: "between 1 and 720"},
		{name: "negative hours", secret: "test-secret", hours: -3, wantErr: "got: -3"},
		{name: "too long", secret: "test-secret", hours: 721, wantErr: "got: 721"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewJWTConfig(tt.secret, tt.hours)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.secret, cfg.Secret)
			assert.Equal(t, tt.hours, cfg.ExpirationHours)
		})
	}
}

func TestConfig_JWTFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "48")

	cfg, err := Load("")
	require.NoError(t, err)

	jwt, err := cfg.JWT()
	require.NoError(t, err)
	assert.Equal(t, "env-secret", jwt.Secret)
	assert.Equal(t, 48, jwt.ExpirationHours)
}
