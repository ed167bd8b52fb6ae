package summary

import (
	"time"

	"blog-summary/internal/observability/metrics"
	"blog-summary/internal/observability/slo"
)

// MetricsRecorder receives summary generation events.
type MetricsRecorder interface {
	RecordGenerated(source Source, duration time.Duration)
	RecordExternalFailure(provider, reason string)
}

// PrometheusMetrics records to the process-wide Prometheus registry.
type PrometheusMetrics struct{}

// RecordGenerated implements MetricsRecorder.
func (PrometheusMetrics) RecordGenerated(source Source, duration time.Duration) {
	metrics.RecordSummaryGenerated(string(source), duration)
	if source == SourceExternal {
		slo.ObserveExternalSummary(true)
	}
}

// RecordExternalFailure implements MetricsRecorder.
func (PrometheusMetrics) RecordExternalFailure(provider, reason string) {
	metrics.RecordExternalFailure(provider, reason)
	slo.ObserveExternalSummary(false)
}
