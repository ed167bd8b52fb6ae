// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Summary metrics (generations by source, external failures)
//   - Blog metrics (posts, users, backfill runs)
//   - Database query metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "blog-summary/internal/observability/metrics"
//
//	start := time.Now()
//	res, err := summaries.GenerateSummary(ctx, content, 3)
//	if err == nil {
//	    metrics.RecordSummaryGenerated(string(res.Source), time.Since(start))
//	}
package metrics
