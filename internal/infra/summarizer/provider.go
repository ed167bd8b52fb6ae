// Package summarizer provides adapters for external generative summarization
// services (OpenAI and Anthropic Claude). Each adapter makes exactly one API
// call per Summarize invocation: retries, timeouts and circuit breaking are
// owned by the caller.
package summarizer

import (
	"context"
	"errors"
	"fmt"

	"blog-summary/internal/config"
)

// ErrEmptyResponse is returned when a provider answers without usable text.
var ErrEmptyResponse = errors.New("provider returned empty response")

// Provider is a configured external summarizer.
type Provider interface {
	// Summarize sends prompt as a single request and returns the model output.
	Summarize(ctx context.Context, prompt string) (string, error)

	// Name identifies the provider in logs and metrics.
	Name() string
}

// New builds the provider selected by cfg. It returns (nil, nil) when no
// provider is configured.
func New(cfg *config.SummaryConfig) (Provider, error) {
	pc := ProviderConfigFrom(cfg)

	switch cfg.Provider {
	case config.ProviderNone, "":
		return nil, nil
	case config.ProviderOpenAI:
		if err := pc.Validate(); err != nil {
			return nil, fmt.Errorf("invalid openai configuration: %w", err)
		}
		return NewOpenAI(cfg.APIKey, pc), nil
	case config.ProviderClaude:
		if err := pc.Validate(); err != nil {
			return nil, fmt.Errorf("invalid claude configuration: %w", err)
		}
		return NewClaude(cfg.APIKey, pc), nil
	default:
		return nil, fmt.Errorf("unknown summary provider %q", cfg.Provider)
	}
}
