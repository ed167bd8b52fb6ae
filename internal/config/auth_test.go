package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongSecret = "0123456789abcdef0123456789abcdef"

func TestLoadAuthConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", strongSecret)
	for _, key := range []string{"JWT_TTL", "BCRYPT_COST", "AUTH_COOKIE_SECURE",
		"LOGIN_RATELIMIT_ENABLED", "LOGIN_RATELIMIT_PER_MINUTE", "LOGIN_RATELIMIT_BURST"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadAuthConfig()
	require.NoError(t, err)

	assert.Equal(t, strongSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.SecureCookie)
	assert.Equal(t, RateLimitConfig{Enabled: true, PerMinute: 5, Burst: 5}, cfg.LoginRateLimit)
}

func TestLoadAuthConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadAuthConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET must be set")
}

func TestValidateJWTSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{name: "strong", secret: strongSecret},
		{name: "empty", secret: "", wantErr: true},
		{name: "short", secret: "short-secret", wantErr: true},
		{name: "repeated weak word", secret: strings.Repeat("secret", 6), wantErr: true},
		{name: "repeated weak word mixed case", secret: strings.Repeat("Admin", 7), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJWTSecret(tt.secret)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthConfig_Validate(t *testing.T) {
	base := AuthConfig{
		JWTSecret:      strongSecret,
		TokenTTL:       time.Hour,
		BcryptCost:     10,
		LoginRateLimit: RateLimitConfig{Enabled: true, PerMinute: 5, Burst: 5},
	}

	t.Run("valid", func(t *testing.T) {
		cfg := base
		assert.NoError(t, cfg.Validate())
	})

	t.Run("bcrypt cost out of range", func(t *testing.T) {
		cfg := base
		cfg.BcryptCost = 40
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero rate when enabled", func(t *testing.T) {
		cfg := base
		cfg.LoginRateLimit.PerMinute = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero rate when disabled", func(t *testing.T) {
		cfg := base
		cfg.LoginRateLimit = RateLimitConfig{}
		assert.NoError(t, cfg.Validate())
	})
}
