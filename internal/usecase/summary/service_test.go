package summary

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"blog-summary/internal/config"
	"blog-summary/internal/extractive"
	"blog-summary/internal/utils/text"
)

/* ───────── stubs ───────── */

type stubExternal struct {
	name   string
	text   string
	err    error
	block  bool
	onCall func()

	calls  int32
	mu     sync.Mutex
	prompt string
}

func (s *stubExternal) Name() string {
	if s.name == "" {
		return "stub"
	}
	return s.name
}

func (s *stubExternal) Summarize(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	s.mu.Lock()
	s.prompt = prompt
	s.mu.Unlock()

	if s.onCall != nil {
		s.onCall()
	}
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.text, s.err
}

func (s *stubExternal) Calls() int { return int(atomic.LoadInt32(&s.calls)) }

type failure struct{ provider, reason string }

type metricsStub struct {
	mu        sync.Mutex
	generated []Source
	failures  []failure
}

func (m *metricsStub) RecordGenerated(source Source, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generated = append(m.generated, source)
}

func (m *metricsStub) RecordExternalFailure(provider, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, failure{provider, reason})
}

/* ───────── fixtures ───────── */

var article = strings.Join([]string{
	"Static site generators turn plain text files into fast websites without a database.",
	"Authors write posts in markdown and the generator renders them into HTML pages.",
	"Templates control the layout, so every page shares the same header and navigation.",
	"Because the output is static, the site can be served from any cheap file host or CDN.",
	"There is no server code to patch, which removes a whole class of security problems.",
	"Build times grow with the number of pages, and large sites may need incremental builds.",
	"Incremental builds only re-render pages whose source files changed since the last run.",
	"Comments and search need external services because there is no backend to store data.",
	"Many teams pair a static generator with a headless content service for editors.",
	"Editors then get a friendly interface while developers keep the simple deployment model.",
	"Previews of unpublished posts are handled by running the generator on a staging branch.",
	"Images should be resized during the build so that pages stay small on mobile devices.",
	"A sitemap and an RSS feed can be generated alongside the pages at no extra cost.",
	"Caching headers matter, since static assets can be cached for a very long time.",
	"When the content changes, a webhook triggers a new build and the CDN cache is purged.",
	"Static sites load quickly, cost little to host, and are easy to reason about.",
	"For most blogs and documentation sites, these benefits outweigh the missing dynamic features.",
	"The trade-offs are worth reviewing again as the site and the team grow.",
	"Choosing a generator with an active community makes plugins and themes easy to find.",
	"Migrating later is possible because the content stays in portable markdown files.",
	"Start small, measure build times, and add complexity only when it pays for itself.",
	"Hosting providers often include free TLS certificates and automatic deploys from git.",
	"A small team can run a popular blog this way for years with almost no maintenance.",
	"Good defaults let a single author publish a polished site in an afternoon.",
}, " ")

func newTestService(ext ExternalSummarizer, opts ...Option) (*Service, *metricsStub) {
	m := &metricsStub{}
	base := []Option{WithMetrics(m)}
	if ext != nil {
		base = append(base, WithExternal(ext))
	}
	return NewService(nil, append(base, opts...)...), m
}

/* ───────── input handling ───────── */

func TestGenerateSummary_EmptyInput(t *testing.T) {
	ext := &stubExternal{text: "should not be used"}
	svc, m := newTestService(ext)

	for _, in := range []string{"", "   ", "\n\t"} {
		res, err := svc.GenerateSummary(context.Background(), in, 3)
		require.NoError(t, err)
		assert.Equal(t, Result{Source: SourceNone}, res)
	}
	assert.Equal(t, 0, ext.Calls())
	assert.Equal(t, []Source{SourceNone, SourceNone, SourceNone}, m.generated)
}

func TestGenerateSummary_ShortText(t *testing.T) {
	svc, _ := newTestService(nil)

	res, err := svc.GenerateSummary(context.Background(), "Short text.", 3)
	require.NoError(t, err)
	assert.Equal(t, Result{Text: "Short text.", Source: SourceLocal}, res)
}

func TestGenerateSummary_DefaultSentenceCount(t *testing.T) {
	svc, _ := newTestService(nil)

	zero, err := svc.GenerateSummary(context.Background(), article, 0)
	require.NoError(t, err)
	three, err := svc.GenerateSummary(context.Background(), article, 3)
	require.NoError(t, err)

	assert.Equal(t, three, zero)
}

/* ───────── local tier ───────── */

func TestGenerateSummary_NoExternalUsesLocalPipeline(t *testing.T) {
	svc, m := newTestService(nil)

	res, err := svc.GenerateSummary(context.Background(), article, 3)
	require.NoError(t, err)

	assert.Equal(t, SourceLocal, res.Source)
	assert.Equal(t, extractive.Summarize(article, 3), res.Text)
	assert.Empty(t, m.failures, "an unconfigured provider is not a failure")
}

func TestGenerateSummary_ArticleKeepsThreeSentencesInOrder(t *testing.T) {
	require.GreaterOrEqual(t, len(article), 2000)
	svc, _ := newTestService(nil)

	res, err := svc.GenerateSummary(context.Background(), article, 3)
	require.NoError(t, err)

	assert.LessOrEqual(t, text.CountRunes(res.Text), 500)

	sentences := extractive.UnicodeSegmenter{}.Segment(res.Text)
	require.Len(t, sentences, 3)

	last := -1
	for _, s := range sentences {
		pos := strings.Index(article, s.Text)
		require.GreaterOrEqual(t, pos, 0, "sentence %q not in source", s.Text)
		assert.Greater(t, pos, last, "sentences out of source order")
		last = pos
	}
}

func TestGenerateSummary_Deterministic(t *testing.T) {
	svc, _ := newTestService(nil)

	first, err := svc.GenerateSummary(context.Background(), article, 3)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := svc.GenerateSummary(context.Background(), article, 3)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

/* ───────── external tier ───────── */

func TestGenerateSummary_ExternalSuccess(t *testing.T) {
	ext := &stubExternal{text: "  Static sites are fast and cheap to host.\n"}
	svc, m := newTestService(ext)

	res, err := svc.GenerateSummary(context.Background(), article, 3)
	require.NoError(t, err)

	assert.Equal(t, Result{Text: "Static sites are fast and cheap to host.", Source: SourceExternal}, res)
	assert.Equal(t, 1, ext.Calls())
	assert.True(t, strings.HasPrefix(ext.prompt, promptInstruction))
	assert.True(t, strings.HasSuffix(ext.prompt, article))
	assert.Equal(t, []Source{SourceExternal}, m.generated)
}

func TestGenerateSummary_ExternalOutputIsTrusted(t *testing.T) {
	long := strings.Repeat("A very long external sentence. ", 30)
	ext := &stubExternal{text: long}
	svc, _ := newTestService(ext)

	res, err := svc.GenerateSummary(context.Background(), article, 3)
	require.NoError(t, err)

	assert.Equal(t, strings.TrimSpace(long), res.Text)
	assert.Greater(t, text.CountRunes(res.Text), 500)
}

func TestGenerateSummary_PromptIsBounded(t *testing.T) {
	content := strings.Repeat("word ", 2000) // 10000 runes
	ext := &stubExternal{text: "ok"}
	svc, _ := newTestService(ext, WithPromptMaxChars(5000))

	_, err := svc.GenerateSummary(context.Background(), content, 3)
	require.NoError(t, err)

	body := strings.TrimPrefix(ext.prompt, promptInstruction)
	assert.Equal(t, 5000, text.CountRunes(body))
}

func TestGenerateSummary_ExternalFailureFallsBack(t *testing.T) {
	tests := []struct {
		name       string
		ext        *stubExternal
		opts       []Option
		wantReason string
	}{
		{
			name:       "provider error",
			ext:        &stubExternal{err: errors.New("500 from upstream")},
			wantReason: ReasonError,
		},
		{
			name:       "blank answer",
			ext:        &stubExternal{text: "   "},
			wantReason: ReasonEmpty,
		},
		{
			name:       "timeout",
			ext:        &stubExternal{block: true},
			opts:       []Option{WithTimeout(20 * time.Millisecond)},
			wantReason: ReasonTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(tt.ext, tt.opts...)

			res, err := svc.GenerateSummary(context.Background(), article, 3)
			require.NoError(t, err)

			assert.Equal(t, SourceLocal, res.Source)
			assert.Equal(t, extractive.Summarize(article, 3), res.Text)
			assert.Equal(t, []failure{{"stub", tt.wantReason}}, m.failures)
		})
	}
}

func TestGenerateSummary_CallerCancellationPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ext := &stubExternal{block: true, onCall: cancel}
	svc, m := newTestService(ext)

	res, err := svc.GenerateSummary(ctx, article, 3)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, Result{}, res)
	assert.Empty(t, m.failures)
	assert.Empty(t, m.generated)
}

func TestGenerateSummary_CanceledBeforeExternalCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ext := &stubExternal{text: "unused"}
	svc, _ := newTestService(ext)

	_, err := svc.GenerateSummary(ctx, article, 3)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, ext.Calls())
}

func TestGenerateSummary_CanceledContextWithoutProviderStillSummarizes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc, _ := newTestService(nil)

	res, err := svc.GenerateSummary(ctx, article, 3)
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, res.Source)
}

/* ───────── circuit breaker ───────── */

func breakerConfig() *config.SummaryConfig {
	cfg := config.DefaultSummaryConfig()
	cfg.Breaker.MinRequests = 2
	cfg.Breaker.FailureThreshold = 0.5
	cfg.Breaker.Timeout = time.Hour
	return &cfg
}

func TestGenerateSummary_BreakerOpensAfterFailures(t *testing.T) {
	ext := &stubExternal{err: errors.New("upstream down")}
	m := &metricsStub{}
	svc, err := NewServiceFromConfig(breakerConfig(), ext, WithMetrics(m))
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		res, err := svc.GenerateSummary(context.Background(), article, 3)
		require.NoError(t, err)
		assert.Equal(t, SourceLocal, res.Source)
	}

	assert.Equal(t, 2, ext.Calls(), "open breaker must short-circuit the provider")
	assert.Equal(t, "open", svc.BreakerState())
	assert.Equal(t, []failure{
		{"stub", ReasonError},
		{"stub", ReasonError},
		{"stub", ReasonCircuitOpen},
		{"stub", ReasonCircuitOpen},
	}, m.failures)
}

func TestGenerateSummary_BreakerIgnoresCallerCancellation(t *testing.T) {
	ext := &stubExternal{block: true}
	svc, err := NewServiceFromConfig(breakerConfig(), ext, WithMetrics(&metricsStub{}))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		ext.onCall = cancel
		_, err := svc.GenerateSummary(ctx, article, 3)
		require.ErrorIs(t, err, context.Canceled)
		cancel()
	}

	assert.Equal(t, "closed", svc.BreakerState())
	assert.Equal(t, 3, ext.Calls())
}

func TestNewServiceFromConfig(t *testing.T) {
	cfg := config.DefaultSummaryConfig()
	cfg.Segmenter = "regex"
	cfg.HardMax = 200

	svc, err := NewServiceFromConfig(&cfg, nil)
	require.NoError(t, err)
	assert.False(t, svc.ExternalEnabled())
	assert.Equal(t, "none", svc.ProviderName())
	assert.Equal(t, "disabled", svc.BreakerState())
	assert.Equal(t, 200, svc.HardMax())

	cfg.Breaker.Enabled = false
	svc, err = NewServiceFromConfig(&cfg, &stubExternal{name: "openai"})
	require.NoError(t, err)
	assert.Equal(t, "openai", svc.ProviderName())
	assert.Equal(t, "disabled", svc.BreakerState())

	cfg.Segmenter = "sentencepiece"
	_, err = NewServiceFromConfig(&cfg, nil)
	require.Error(t, err)
}

/* ───────── tracing & concurrency ───────── */

func TestGenerateSummary_RecordsSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	ext := &stubExternal{err: errors.New("boom")}
	svc, _ := newTestService(ext, WithTracer(tp.Tracer("test")))

	_, err := svc.GenerateSummary(context.Background(), article, 3)
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "summary.GenerateSummary", spans[0].Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "local", attrs["summary.source"].AsString())
	assert.Equal(t, ReasonError, attrs["summary.external_reason"].AsString())
	assert.EqualValues(t, 3, attrs["summary.sentence_count"].AsInt64())
}

func TestGenerateSummary_ConcurrentCalls(t *testing.T) {
	ext := &stubExternal{err: errors.New("down")}
	svc, _ := newTestService(ext)
	want := extractive.Summarize(article, 3)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.GenerateSummary(context.Background(), article, 3)
			assert.NoError(t, err)
			assert.Equal(t, want, res.Text)
		}()
	}
	wg.Wait()
}

/* ───────── preview ───────── */

func TestPreview(t *testing.T) {
	content := "# Release notes\nVersion two is out.\n\nThe second paragraph has details."
	ext := &stubExternal{text: "External take."}
	svc, _ := newTestService(ext)

	res, err := svc.Preview(context.Background(), content, 3, ModeAuto)
	require.NoError(t, err)
	assert.Equal(t, Result{Text: "External take.", Source: SourceExternal}, res)

	res, err = svc.Preview(context.Background(), content, 3, ModeLocal)
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, res.Source)
	assert.Equal(t, 1, ext.Calls(), "local mode must not call the provider")

	res, err = svc.Preview(context.Background(), content, 3, ModeLead)
	require.NoError(t, err)
	assert.Equal(t, Result{Text: "Release notes Version two is out.", Source: SourceLocal}, res)

	_, err = svc.Preview(context.Background(), content, 3, Mode("bogus"))
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeAuto},
		{in: "auto", want: ModeAuto},
		{in: "LOCAL", want: ModeLocal},
		{in: " lead ", want: ModeLead},
		{in: "abstractive", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutcome(t *testing.T) {
	d := Delivered("text")
	assert.True(t, d.IsDelivered())
	assert.Equal(t, "text", d.Text())
	assert.Empty(t, d.Reason())

	u := Unavailable(ReasonTimeout)
	assert.False(t, u.IsDelivered())
	assert.Empty(t, u.Text())
	assert.Equal(t, ReasonTimeout, u.Reason())

	assert.True(t, SourceAuthor.Valid())
	assert.False(t, Source("robot").Valid())
}
