package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"

	"blog-summary/internal/utils/text"
)

// defaultClaudeModel is used when ProviderConfig.Model is empty.
const defaultClaudeModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// Claude implements Provider using Anthropic's Messages API.
type Claude struct {
	client          anthropic.Client
	config          ProviderConfig
	metricsRecorder SummaryMetricsRecorder
}

// NewClaude creates a new Claude summarizer with the given API key.
// SDK-level retries are disabled so one Summarize call is one request.
func NewClaude(apiKey string, cfg ProviderConfig) *Claude {
	if cfg.Model == "" {
		cfg.Model = defaultClaudeModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	slog.Info("Initialized Claude summarizer",
		slog.String("model", cfg.Model),
		slog.Int("character_limit", cfg.CharacterLimit))

	return &Claude{
		client:          anthropic.NewClient(opts...),
		config:          cfg,
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

// WithMetricsRecorder replaces the metrics recorder.
func (c *Claude) WithMetricsRecorder(rec SummaryMetricsRecorder) *Claude {
	c.metricsRecorder = rec
	return c
}

// Name implements Provider.
func (c *Claude) Name() string { return "claude" }

// Summarize implements Provider.
func (c *Claude) Summarize(ctx context.Context, prompt string) (string, error) {
	requestID := uuid.New().String()

	slog.DebugContext(ctx, "Starting summarization",
		slog.String("provider", c.Name()),
		slog.String("request_id", requestID),
		slog.Int("prompt_length", text.CountRunes(prompt)))

	start := time.Now()
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})
	duration := time.Since(start)

	if err != nil {
		c.metricsRecorder.RecordDuration(duration)
		return "", fmt.Errorf("claude api error: %w", err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}

	summary, err := finish(ctx, c.Name(), requestID, b.String(),
		c.config.CharacterLimit, duration, c.metricsRecorder)
	if err != nil {
		return "", fmt.Errorf("claude: %w", err)
	}
	return summary, nil
}
