// Package summary implements the two-tier summarization orchestrator: an
// optional external provider backed by the local extractive pipeline.
package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"blog-summary/internal/config"
	"blog-summary/internal/extractive"
	"blog-summary/internal/observability/tracing"
	"blog-summary/internal/resilience/circuitbreaker"
)

// DefaultExternalTimeout bounds one external call when no timeout is configured.
const DefaultExternalTimeout = 8 * time.Second

// ExternalSummarizer is a remote summarization service.
// Implementations make exactly one request per call.
type ExternalSummarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Service produces bounded summaries. It is safe for concurrent use.
type Service struct {
	external       ExternalSummarizer
	breaker        *circuitbreaker.CircuitBreaker
	local          *extractive.Summarizer
	timeout        time.Duration
	promptMaxChars int
	metrics        MetricsRecorder
	tracer         trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithExternal enables the external tier. A nil summarizer leaves it disabled.
func WithExternal(ext ExternalSummarizer) Option {
	return func(s *Service) { s.external = ext }
}

// WithBreaker guards external calls with cb.
func WithBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(s *Service) { s.breaker = cb }
}

// WithTimeout sets the per-call external timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithPromptMaxChars bounds the content embedded in the external prompt.
func WithPromptMaxChars(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.promptMaxChars = n
		}
	}
}

// WithMetrics replaces the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTracer replaces the tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// NewService creates a Service around the local pipeline. A nil local
// summarizer selects the Unicode segmenter with the default hard maximum.
func NewService(local *extractive.Summarizer, opts ...Option) *Service {
	if local == nil {
		local = extractive.New(nil)
	}
	s := &Service{
		local:          local,
		timeout:        DefaultExternalTimeout,
		promptMaxChars: DefaultPromptMaxChars,
		metrics:        PrometheusMetrics{},
		tracer:         tracing.GetTracer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewServiceFromConfig wires a Service from cfg. external may be nil.
func NewServiceFromConfig(cfg *config.SummaryConfig, external ExternalSummarizer, opts ...Option) (*Service, error) {
	seg, err := extractive.NewSegmenter(cfg.Segmenter)
	if err != nil {
		return nil, fmt.Errorf("summary service: %w", err)
	}
	local := extractive.New(seg, extractive.WithHardMax(cfg.HardMax))

	base := []Option{
		WithExternal(external),
		WithTimeout(cfg.ExternalTimeout),
		WithPromptMaxChars(cfg.PromptMaxChars),
	}
	if external != nil && cfg.Breaker.Enabled {
		base = append(base, WithBreaker(newBreaker(external.Name(), cfg.Breaker)))
	}
	return NewService(local, append(base, opts...)...), nil
}

func newBreaker(provider string, bc config.BreakerConfig) *circuitbreaker.CircuitBreaker {
	cbCfg := circuitbreaker.SummarizerConfig(provider)
	cbCfg.MaxRequests = bc.MaxRequests
	cbCfg.Interval = bc.Interval
	cbCfg.Timeout = bc.Timeout
	cbCfg.FailureThreshold = bc.FailureThreshold
	cbCfg.MinRequests = bc.MinRequests
	cbCfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, context.Canceled)
	}
	return circuitbreaker.New(cbCfg)
}

// ExternalEnabled reports whether an external provider is configured.
func (s *Service) ExternalEnabled() bool { return s.external != nil }

// ProviderName returns the external provider name, or "none".
func (s *Service) ProviderName() string {
	if s.external == nil {
		return config.ProviderNone
	}
	return s.external.Name()
}

// BreakerState returns the circuit breaker state, or "disabled".
func (s *Service) BreakerState() string {
	if s.breaker == nil {
		return "disabled"
	}
	return s.breaker.State().String()
}

// HardMax returns the local length cap in runes.
func (s *Service) HardMax() int { return s.local.HardMax() }

// GenerateSummary returns a summary of content of about sentenceCount
// sentences. Empty or whitespace-only content yields an empty Result.
// A non-positive sentenceCount selects the default of 3.
//
// External failures never surface: the local pipeline answers instead.
// The only error returned is the caller's context error when ctx ends
// while the external call is in flight.
func (s *Service) GenerateSummary(ctx context.Context, content string, sentenceCount int) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "summary.GenerateSummary",
		trace.WithAttributes(
			attribute.Int("summary.content_length", len(content)),
			attribute.Int("summary.sentence_count", sentenceCount),
		))
	defer span.End()

	start := time.Now()

	if strings.TrimSpace(content) == "" {
		s.metrics.RecordGenerated(SourceNone, time.Since(start))
		span.SetAttributes(attribute.String("summary.source", string(SourceNone)))
		return Result{Source: SourceNone}, nil
	}
	if sentenceCount <= 0 {
		sentenceCount = extractive.DefaultSentenceCount
	}

	ext := s.tryExternal(ctx, content)
	if ext.IsDelivered() {
		s.metrics.RecordGenerated(SourceExternal, time.Since(start))
		span.SetAttributes(attribute.String("summary.source", string(SourceExternal)))
		return Result{Text: ext.Text(), Source: SourceExternal}, nil
	}
	if ext.Reason() == ReasonCanceled {
		err := ctx.Err()
		span.RecordError(err)
		span.SetStatus(codes.Error, "canceled")
		return Result{}, fmt.Errorf("generate summary: %w", err)
	}
	span.SetAttributes(attribute.String("summary.external_reason", ext.Reason()))

	local := s.runLocal(content, sentenceCount)
	s.metrics.RecordGenerated(SourceLocal, time.Since(start))
	span.SetAttributes(attribute.String("summary.source", string(SourceLocal)))
	return Result{Text: local.Text(), Source: SourceLocal}, nil
}

// Local runs only the extractive pipeline.
func (s *Service) Local(content string, sentenceCount int) Result {
	if strings.TrimSpace(content) == "" {
		return Result{Source: SourceNone}
	}
	return Result{Text: s.runLocal(content, sentenceCount).Text(), Source: SourceLocal}
}

func (s *Service) tryExternal(ctx context.Context, content string) Outcome {
	if s.external == nil {
		return Unavailable(ReasonUnconfigured)
	}
	if ctx.Err() != nil {
		return Unavailable(ReasonCanceled)
	}

	prompt := BuildPrompt(content, s.promptMaxChars)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	call := func() (interface{}, error) {
		return s.external.Summarize(callCtx, prompt)
	}

	var (
		raw interface{}
		err error
	)
	if s.breaker != nil {
		raw, err = s.breaker.Execute(call)
	} else {
		raw, err = call()
	}

	if err != nil {
		reason := classify(ctx, err)
		if reason == ReasonCanceled {
			return Unavailable(reason)
		}
		s.fail(ctx, reason, err)
		return Unavailable(reason)
	}

	text, _ := raw.(string)
	text = strings.TrimSpace(text)
	if text == "" {
		s.fail(ctx, ReasonEmpty, errors.New("blank summary"))
		return Unavailable(ReasonEmpty)
	}
	return Delivered(text)
}

func (s *Service) fail(ctx context.Context, reason string, err error) {
	slog.WarnContext(ctx, "external summarizer failed, using local summary",
		slog.String("provider", s.external.Name()),
		slog.String("reason", reason),
		slog.Any("error", err))
	s.metrics.RecordExternalFailure(s.external.Name(), reason)
}

func (s *Service) runLocal(content string, sentenceCount int) Outcome {
	text := s.local.Summarize(content, sentenceCount)
	if text == "" {
		return Unavailable(ReasonEmpty)
	}
	return Delivered(text)
}

// classify maps an external error to a failure reason. Parent context
// cancellation wins over everything else.
func classify(parent context.Context, err error) string {
	switch {
	case parent.Err() != nil:
		return ReasonCanceled
	case circuitbreaker.IsRejection(err):
		return ReasonCircuitOpen
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	default:
		return ReasonError
	}
}
