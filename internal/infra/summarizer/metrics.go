package summarizer

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SummaryMetricsRecorder defines the interface for recording provider response metrics.
// Tests inject a recorder that captures calls instead of touching Prometheus.
type SummaryMetricsRecorder interface {
	// RecordLength records the length of a provider summary in characters.
	RecordLength(length int)

	// RecordLimitExceeded increments the counter when a summary exceeds the character limit.
	RecordLimitExceeded()

	// RecordCompliance records whether the latest summary is within the character limit.
	RecordCompliance(withinLimit bool)

	// RecordDuration records the time taken by one provider call.
	RecordDuration(duration time.Duration)
}

// PrometheusSummaryMetrics implements SummaryMetricsRecorder using Prometheus metrics.
type PrometheusSummaryMetrics struct {
	lengthHistogram   prometheus.Histogram
	exceededCounter   prometheus.Counter
	complianceGauge   prometheus.Gauge
	durationHistogram prometheus.Histogram
}

var (
	prometheusMetricsInstance *PrometheusSummaryMetrics
	prometheusMetricsOnce     sync.Once
)

// registerOrExisting registers c with reg. When an identical collector is
// already registered the existing one is returned; any other registration
// error leaves c unregistered but usable, so recording never panics.
func registerOrExisting[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing
		}
	}
	slog.Warn("summary provider metric not registered", slog.Any("error", err))
	return c
}

// NewPrometheusSummaryMetrics returns the process-wide Prometheus recorder.
// Uses singleton pattern to avoid duplicate metric registration in tests.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = newPrometheusSummaryMetrics(prometheus.DefaultRegisterer)
	})
	return prometheusMetricsInstance
}

func newPrometheusSummaryMetrics(reg prometheus.Registerer) *PrometheusSummaryMetrics {
	return &PrometheusSummaryMetrics{
		lengthHistogram: registerOrExisting(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "summary_provider_output_length_characters",
			Help:    "Distribution of provider summary lengths in characters (Unicode runes)",
			Buckets: []float64{50, 100, 200, 300, 400, 500, 750, 1000},
		})),
		exceededCounter: registerOrExisting(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "summary_provider_limit_exceeded_total",
			Help: "Total number of provider summaries exceeding the character limit",
		})),
		complianceGauge: registerOrExisting(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "summary_provider_limit_compliance_ratio",
			Help: "1 when the latest provider summary was within the character limit, else 0",
		})),
		durationHistogram: registerOrExisting(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "summary_provider_request_duration_seconds",
			Help:    "Time taken by one external summarization request",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8),
		})),
	}
}

// RecordLength implements SummaryMetricsRecorder.RecordLength
func (p *PrometheusSummaryMetrics) RecordLength(length int) {
	p.lengthHistogram.Observe(float64(length))
}

// RecordLimitExceeded implements SummaryMetricsRecorder.RecordLimitExceeded
func (p *PrometheusSummaryMetrics) RecordLimitExceeded() {
	p.exceededCounter.Inc()
}

// RecordCompliance implements SummaryMetricsRecorder.RecordCompliance
func (p *PrometheusSummaryMetrics) RecordCompliance(withinLimit bool) {
	if withinLimit {
		p.complianceGauge.Set(1.0)
	} else {
		p.complianceGauge.Set(0.0)
	}
}

// RecordDuration implements SummaryMetricsRecorder.RecordDuration
func (p *PrometheusSummaryMetrics) RecordDuration(duration time.Duration) {
	p.durationHistogram.Observe(duration.Seconds())
}
