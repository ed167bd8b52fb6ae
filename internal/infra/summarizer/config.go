package summarizer

import (
	"fmt"

	"blog-summary/internal/config"
)

// ProviderConfig holds the settings shared by every provider adapter.
type ProviderConfig struct {
	// Model is the provider model identifier. Empty selects the adapter default.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	MaxTokens int

	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string

	// CharacterLimit is the soft summary length used for compliance metrics.
	// Provider output over the limit is logged and counted, never rejected.
	CharacterLimit int
}

const (
	// minCharLimit is the minimum allowed character limit for summaries.
	minCharLimit = 100

	// maxCharLimit is the maximum allowed character limit for summaries.
	maxCharLimit = 5000
)

// ValidateCharacterLimit validates that the character limit is within the valid range (100-5000).
//
// Example:
//
//	err := ValidateCharacterLimit(500)  // nil (valid)
//	err := ValidateCharacterLimit(50)   // error: "character limit 50 is below minimum 100"
//	err := ValidateCharacterLimit(6000) // error: "character limit 6000 exceeds maximum 5000"
func ValidateCharacterLimit(limit int) error {
	if limit < minCharLimit {
		return fmt.Errorf("character limit %d is below minimum %d", limit, minCharLimit)
	}
	if limit > maxCharLimit {
		return fmt.Errorf("character limit %d exceeds maximum %d", limit, maxCharLimit)
	}
	return nil
}

// Validate validates the configuration and returns an error if invalid.
func (c ProviderConfig) Validate() error {
	if err := ValidateCharacterLimit(c.CharacterLimit); err != nil {
		return fmt.Errorf("invalid character limit: %w", err)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	return nil
}

// ProviderConfigFrom derives adapter settings from the summary configuration.
func ProviderConfigFrom(cfg *config.SummaryConfig) ProviderConfig {
	return ProviderConfig{
		Model:          cfg.Model,
		MaxTokens:      cfg.MaxTokens,
		BaseURL:        cfg.BaseURL,
		CharacterLimit: cfg.HardMax,
	}
}
