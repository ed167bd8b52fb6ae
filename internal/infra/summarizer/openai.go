package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"blog-summary/internal/utils/text"
)

// defaultOpenAIModel is used when ProviderConfig.Model is empty.
const defaultOpenAIModel = openai.GPT4oMini

// OpenAI implements Provider using OpenAI's chat completions API.
type OpenAI struct {
	client          *openai.Client
	config          ProviderConfig
	metricsRecorder SummaryMetricsRecorder
}

// NewOpenAI creates a new OpenAI summarizer with the given API key.
func NewOpenAI(apiKey string, cfg ProviderConfig) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	slog.Info("Initialized OpenAI summarizer",
		slog.String("model", cfg.Model),
		slog.Int("character_limit", cfg.CharacterLimit))

	return &OpenAI{
		client:          openai.NewClientWithConfig(clientCfg),
		config:          cfg,
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

// WithMetricsRecorder replaces the metrics recorder.
func (o *OpenAI) WithMetricsRecorder(rec SummaryMetricsRecorder) *OpenAI {
	o.metricsRecorder = rec
	return o
}

// Name implements Provider.
func (o *OpenAI) Name() string { return "openai" }

// Summarize implements Provider.
func (o *OpenAI) Summarize(ctx context.Context, prompt string) (string, error) {
	requestID := uuid.New().String()

	slog.DebugContext(ctx, "Starting summarization",
		slog.String("provider", o.Name()),
		slog.String("request_id", requestID),
		slog.Int("prompt_length", text.CountRunes(prompt)))

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.config.Model,
		MaxTokens:   o.config.MaxTokens,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	duration := time.Since(start)

	if err != nil {
		o.metricsRecorder.RecordDuration(duration)
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		o.metricsRecorder.RecordDuration(duration)
		return "", fmt.Errorf("openai: %w", ErrEmptyResponse)
	}

	summary, err := finish(ctx, o.Name(), requestID, resp.Choices[0].Message.Content,
		o.config.CharacterLimit, duration, o.metricsRecorder)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	return summary, nil
}
