// Package resilience groups the fault tolerance helpers used around
// external dependencies.
//
//   - circuitbreaker guards the external summarizer so that a failing
//     provider is skipped for a cooling-off period instead of being called
//     on every request.
//   - retry repeats start-up checks (database ping) with capped exponential
//     backoff and jitter. The summarizer itself is never retried.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.SummarizerConfig("openai"))
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return provider.Summarize(ctx, prompt)
//	})
//
//	err := retry.Do(ctx, retry.DBPolicy(), func(ctx context.Context) error {
//	    return db.PingContext(ctx)
//	})
package resilience
