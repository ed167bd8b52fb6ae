// Package observability provides production-grade observability infrastructure
// including structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// This package centralizes observability concerns to enable:
//   - Request tracing for HTTP handlers and summary generation
//   - Structured logging with context propagation
//   - Prometheus metrics for monitoring
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracer, SDK provider and HTTP middleware
//   - slo: rolling external summary delivery ratio
//
// Example usage:
//
//	import (
//	    "blog-summary/internal/observability/logging"
//	    "blog-summary/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    metrics.UpdatePostsTotal(10)
//	}
package observability
