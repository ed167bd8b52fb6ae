// Package tracing provides OpenTelemetry tracing integration.
//
// The package exposes the application tracer and an HTTP middleware that
// starts a server span per request. No exporter is configured here: the
// binaries run with whatever TracerProvider is installed globally, which is
// a no-op provider unless one is set.
//
// Example usage:
//
//	import "blog-summary/internal/observability/tracing"
//
//	handler := tracing.Middleware(pathutil.NormalizePath)(mux)
//
//	func generate(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "summary.generate")
//	    defer span.End()
//	}
package tracing
