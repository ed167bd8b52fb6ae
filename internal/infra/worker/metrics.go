package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"blog-summary/internal/pkg/config"
)

// Metrics are the worker's job metrics.
type Metrics struct {
	Config *config.Metrics

	JobRunsTotal         *prometheus.CounterVec
	JobDurationSeconds   prometheus.Histogram
	PostsProcessedTotal  *prometheus.CounterVec
	LastSuccessTimestamp prometheus.Gauge
}

// NewMetrics registers the worker metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Config: config.NewMetrics(reg, "worker"),

		JobRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_backfill_runs_total",
			Help: "Backfill runs by status (success/failure/skipped)",
		}, []string{"status"}),

		JobDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_backfill_duration_seconds",
			Help:    "Duration of backfill runs in seconds",
			Buckets: []float64{0.5, 1, 5, 30, 60, 300, 900}, // 0.5s .. 15m
		}),

		PostsProcessedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_backfill_posts_total",
			Help: "Posts handled by backfill runs by result (updated/unchanged/failed)",
		}, []string{"result"}),

		LastSuccessTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_backfill_last_success_timestamp",
			Help: "Unix timestamp of the last successful backfill run",
		}),
	}
}

// RecordRun counts a finished run.
func (m *Metrics) RecordRun(status string, seconds float64) {
	m.JobRunsTotal.WithLabelValues(status).Inc()
	if status != StatusSkipped {
		m.JobDurationSeconds.Observe(seconds)
	}
	if status == StatusSuccess {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}

// RecordPosts adds n posts with result.
func (m *Metrics) RecordPosts(result string, n int) {
	if n > 0 {
		m.PostsProcessedTotal.WithLabelValues(result).Add(float64(n))
	}
}
