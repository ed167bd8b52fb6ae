// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsInFlight tracks requests currently being served
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Summary metrics track the two summarization tiers
var (
	// SummaryGenerationsTotal counts summaries by the tier that produced them
	SummaryGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_generations_total",
			Help: "Total number of generated summaries by source",
		},
		[]string{"source"}, // source: external, local, none
	)

	// SummaryGenerationDuration measures end-to-end GenerateSummary latency
	SummaryGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summary_generation_duration_seconds",
			Help:    "Time taken to produce a summary, including any fallback",
			Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"source"},
	)

	// SummaryExternalFailuresTotal counts external provider failures by reason
	SummaryExternalFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_external_failures_total",
			Help: "Total number of external summarizer failures that fell back to the local pipeline",
		},
		[]string{"provider", "reason"},
	)

	// SummaryBackfillUpdatedTotal counts posts upgraded by the backfill worker
	SummaryBackfillUpdatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_backfill_posts_total",
			Help: "Total number of posts processed by the summary backfill job",
		},
		[]string{"result"}, // result: updated, unchanged, failed
	)
)

// Blog metrics track stored content
var (
	// PostsTotal tracks total number of posts in database
	PostsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "posts_total",
			Help: "Total number of posts in the database",
		},
	)

	// UsersTotal tracks total number of users in database
	UsersTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "users_total",
			Help: "Total number of users in the database",
		},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
