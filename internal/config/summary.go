package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	envconfig "blog-summary/pkg/config"
)

// Supported summary providers.
const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

// ErrMissingAPIKey is returned by Validate when a provider is selected but
// its API key environment variable is empty.
var ErrMissingAPIKey = errors.New("summary provider api key is not set")

// SummaryConfig configures the summarization orchestrator and its external
// provider.
type SummaryConfig struct {
	// Provider selects the external summarizer: none, openai or claude.
	// Default: none
	Provider string `yaml:"provider"`

	// Model overrides the provider's default model.
	Model string `yaml:"model"`

	// APIKey is read from OPENAI_API_KEY or ANTHROPIC_API_KEY depending on
	// Provider. It is never read from a file.
	APIKey string `yaml:"-"`

	// BaseURL overrides the provider endpoint. Empty uses the SDK default.
	BaseURL string `yaml:"base_url"`

	// MaxTokens caps the provider response. Default: 300
	MaxTokens int `yaml:"max_tokens"`

	// ExternalTimeout bounds one provider call. Default: 8s
	ExternalTimeout time.Duration `yaml:"external_timeout"`

	// PromptMaxChars bounds the content sent to the provider. Default: 5000
	PromptMaxChars int `yaml:"prompt_max_chars"`

	// HardMax bounds local summaries in runes. Default: 500
	HardMax int `yaml:"hard_max"`

	// SentenceCount is the default summary length in sentences. Default: 3
	SentenceCount int `yaml:"sentence_count"`

	// Segmenter selects the sentence splitting strategy: unicode or regex.
	// Default: unicode
	Segmenter string `yaml:"segmenter"`

	// Breaker configures the circuit breaker around the external call.
	Breaker BreakerConfig `yaml:"breaker"`
}

// BreakerConfig configures the external-call circuit breaker.
type BreakerConfig struct {
	// Enabled turns the breaker on. Default: true
	Enabled bool `yaml:"enabled"`

	// MaxRequests in half-open state. Default: 1
	MaxRequests uint32 `yaml:"max_requests"`

	// Interval for clearing failure counts. Default: 60s
	Interval time.Duration `yaml:"interval"`

	// Timeout before transitioning from open to half-open. Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// FailureThreshold ratio to trip the circuit (0.0 to 1.0). Default: 0.6
	FailureThreshold float64 `yaml:"failure_threshold"`

	// MinRequests before calculating the failure ratio. Default: 5
	MinRequests uint32 `yaml:"min_requests"`
}

// DefaultSummaryConfig returns the configuration used when nothing is set.
func DefaultSummaryConfig() SummaryConfig {
	return SummaryConfig{
		Provider:        ProviderNone,
		MaxTokens:       300,
		ExternalTimeout: 8 * time.Second,
		PromptMaxChars:  5000,
		HardMax:         500,
		SentenceCount:   3,
		Segmenter:       "unicode",
		Breaker: BreakerConfig{
			Enabled:          true,
			MaxRequests:      1,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			FailureThreshold: 0.6,
			MinRequests:      5,
		},
	}
}

// LoadOption adjusts how the summary config loaders treat problems.
type LoadOption func(*loadOptions)

type loadOptions struct {
	onMissingKey func(provider string)
}

// FallbackOnMissingKey makes a loader switch to ProviderNone instead of
// failing when the selected provider has no API key. warn receives the
// provider that was dropped.
func FallbackOnMissingKey(warn func(provider string)) LoadOption {
	return func(o *loadOptions) { o.onMissingKey = warn }
}

func (c *SummaryConfig) applyLoadOptions(opts []LoadOption) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.onMissingKey == nil || c.APIKey != "" {
		return
	}
	if c.Provider == ProviderOpenAI || c.Provider == ProviderClaude {
		o.onMissingKey(c.Provider)
		*c = c.WithoutProvider()
	}
}

// LoadSummaryConfig loads configuration from environment variables.
// Returns a config with defaults if environment variables are not set.
func LoadSummaryConfig(opts ...LoadOption) (*SummaryConfig, error) {
	d := DefaultSummaryConfig()

	cfg := &SummaryConfig{
		Provider:        strings.ToLower(envconfig.GetEnvString("SUMMARY_PROVIDER", d.Provider)),
		Model:           envconfig.GetEnvString("SUMMARY_MODEL", ""),
		BaseURL:         envconfig.GetEnvString("SUMMARY_BASE_URL", ""),
		MaxTokens:       envconfig.GetEnvInt("SUMMARY_MAX_TOKENS", d.MaxTokens),
		ExternalTimeout: envconfig.GetEnvDuration("SUMMARY_EXTERNAL_TIMEOUT", d.ExternalTimeout),
		PromptMaxChars:  envconfig.GetEnvInt("SUMMARY_PROMPT_MAX_CHARS", d.PromptMaxChars),
		HardMax:         envconfig.GetEnvInt("SUMMARY_HARD_MAX", d.HardMax),
		SentenceCount:   envconfig.GetEnvInt("SUMMARY_SENTENCE_COUNT", d.SentenceCount),
		Segmenter:       strings.ToLower(envconfig.GetEnvString("SUMMARY_SEGMENTER", d.Segmenter)),
		Breaker: BreakerConfig{
			Enabled:          envconfig.GetEnvBool("SUMMARY_BREAKER_ENABLED", d.Breaker.Enabled),
			MaxRequests:      uint32(envconfig.GetEnvInt("SUMMARY_BREAKER_MAX_REQUESTS", int(d.Breaker.MaxRequests))),
			Interval:         envconfig.GetEnvDuration("SUMMARY_BREAKER_INTERVAL", d.Breaker.Interval),
			Timeout:          envconfig.GetEnvDuration("SUMMARY_BREAKER_TIMEOUT", d.Breaker.Timeout),
			FailureThreshold: envconfig.GetEnvFloat("SUMMARY_BREAKER_FAILURE_RATIO", d.Breaker.FailureThreshold),
			MinRequests:      uint32(envconfig.GetEnvInt("SUMMARY_BREAKER_MIN_REQUESTS", int(d.Breaker.MinRequests))),
		},
	}
	cfg.APIKey = apiKeyFor(cfg.Provider)
	cfg.applyLoadOptions(opts)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid summary configuration: %w", err)
	}
	return cfg, nil
}

// LoadSummaryConfigFile loads configuration from a YAML file on top of the
// defaults. The API key still comes from the environment.
// The path parameter is expected to come from a trusted source (command-line argument).
func LoadSummaryConfigFile(path string, opts ...LoadOption) (*SummaryConfig, error) {
	// #nosec G304 -- path is provided by the operator on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultSummaryConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Provider = strings.ToLower(cfg.Provider)
	cfg.Segmenter = strings.ToLower(cfg.Segmenter)
	cfg.APIKey = apiKeyFor(cfg.Provider)
	cfg.applyLoadOptions(opts)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks configuration correctness.
func (c *SummaryConfig) Validate() error {
	switch c.Provider {
	case ProviderNone:
	case ProviderOpenAI, ProviderClaude:
		if c.APIKey == "" {
			return fmt.Errorf("%s: %w", c.Provider, ErrMissingAPIKey)
		}
	default:
		return fmt.Errorf("SUMMARY_PROVIDER must be one of none, openai, claude: got %q", c.Provider)
	}

	if err := envconfig.ValidateDurationRange(c.ExternalTimeout, 100*time.Millisecond, 2*time.Minute); err != nil {
		return fmt.Errorf("SUMMARY_EXTERNAL_TIMEOUT: %w", err)
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("SUMMARY_MAX_TOKENS must be positive")
	}

	if c.PromptMaxChars < 100 {
		return fmt.Errorf("SUMMARY_PROMPT_MAX_CHARS must be at least 100")
	}

	if c.HardMax < 100 {
		return fmt.Errorf("SUMMARY_HARD_MAX must be at least 100")
	}

	if c.SentenceCount <= 0 {
		return fmt.Errorf("SUMMARY_SENTENCE_COUNT must be positive")
	}

	if c.Segmenter != "unicode" && c.Segmenter != "regex" {
		return fmt.Errorf("SUMMARY_SEGMENTER must be unicode or regex: got %q", c.Segmenter)
	}

	if c.Breaker.Enabled {
		if c.Breaker.MaxRequests == 0 {
			return fmt.Errorf("SUMMARY_BREAKER_MAX_REQUESTS must be positive")
		}
		if err := envconfig.ValidatePositiveDuration(c.Breaker.Interval); err != nil {
			return fmt.Errorf("SUMMARY_BREAKER_INTERVAL: %w", err)
		}
		if err := envconfig.ValidateDurationRange(c.Breaker.Timeout, time.Second, time.Hour); err != nil {
			return fmt.Errorf("SUMMARY_BREAKER_TIMEOUT: %w", err)
		}
		if c.Breaker.FailureThreshold <= 0 || c.Breaker.FailureThreshold > 1 {
			return fmt.Errorf("SUMMARY_BREAKER_FAILURE_RATIO must be in (0.0, 1.0]")
		}
	}

	return nil
}

// ExternalEnabled reports whether an external provider is selected.
func (c *SummaryConfig) ExternalEnabled() bool {
	return c.Provider != ProviderNone
}

// WithoutProvider returns a copy of c that only uses the local summarizer.
func (c SummaryConfig) WithoutProvider() SummaryConfig {
	c.Provider = ProviderNone
	c.APIKey = ""
	return c
}

// WithProvider returns a copy of c switched to provider, with the API key
// re-read from the environment.
func (c SummaryConfig) WithProvider(provider string, opts ...LoadOption) (SummaryConfig, error) {
	c.Provider = strings.ToLower(strings.TrimSpace(provider))
	if c.Provider == ProviderNone {
		return c.WithoutProvider(), nil
	}
	c.APIKey = apiKeyFor(c.Provider)
	c.applyLoadOptions(opts)
	if err := c.Validate(); err != nil {
		return SummaryConfig{}, err
	}
	return c, nil
}

func apiKeyFor(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderClaude:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}
