package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	envconfig "blog-summary/pkg/config"
)

const minJWTSecretLength = 32

var weakSecrets = []string{"secret", "password", "test", "admin", "default"}

// AuthConfig configures token issuance, password hashing and login throttling.
type AuthConfig struct {
	// JWTSecret signs HS256 tokens. Read from JWT_SECRET, at least 32 characters.
	JWTSecret string

	// TokenTTL is the token lifetime. Default: 24h
	TokenTTL time.Duration

	// BcryptCost is the password hashing cost. Default: 10
	BcryptCost int

	// SecureCookie marks the token cookie as Secure. Default: true
	SecureCookie bool

	// LoginRateLimit throttles POST /auth/login and /auth/register per client IP.
	LoginRateLimit RateLimitConfig
}

// RateLimitConfig is a token bucket per client IP.
type RateLimitConfig struct {
	// Enabled turns the limiter on. Default: true
	Enabled bool

	// PerMinute is the sustained request rate. Default: 5
	PerMinute int

	// Burst is the bucket size. Default: 5
	Burst int
}

// LoadAuthConfig loads authentication configuration from environment variables.
func LoadAuthConfig() (*AuthConfig, error) {
	cfg := &AuthConfig{
		JWTSecret:    envconfig.GetEnvString("JWT_SECRET", ""),
		TokenTTL:     envconfig.GetEnvDuration("JWT_TTL", 24*time.Hour),
		BcryptCost:   envconfig.GetEnvInt("BCRYPT_COST", 10),
		SecureCookie: envconfig.GetEnvBool("AUTH_COOKIE_SECURE", true),
		LoginRateLimit: RateLimitConfig{
			Enabled:   envconfig.GetEnvBool("LOGIN_RATELIMIT_ENABLED", true),
			PerMinute: envconfig.GetEnvInt("LOGIN_RATELIMIT_PER_MINUTE", 5),
			Burst:     envconfig.GetEnvInt("LOGIN_RATELIMIT_BURST", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid auth configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *AuthConfig) Validate() error {
	if err := ValidateJWTSecret(c.JWTSecret); err != nil {
		return err
	}

	if err := envconfig.ValidatePositiveDuration(c.TokenTTL); err != nil {
		return fmt.Errorf("JWT_TTL: %w", err)
	}

	// bcrypt accepts 4..31
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	if c.LoginRateLimit.Enabled {
		if c.LoginRateLimit.PerMinute <= 0 {
			return fmt.Errorf("LOGIN_RATELIMIT_PER_MINUTE must be positive")
		}
		if c.LoginRateLimit.Burst <= 0 {
			return fmt.Errorf("LOGIN_RATELIMIT_BURST must be positive")
		}
	}

	return nil
}

// ValidateJWTSecret rejects empty, short and well-known secrets.
func ValidateJWTSecret(secret string) error {
	if secret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if len(secret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	lower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if strings.Repeat(weak, len(lower)/len(weak)) == lower {
			return fmt.Errorf("JWT_SECRET must not be a repetition of %q", weak)
		}
	}
	return nil
}
