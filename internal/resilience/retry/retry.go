// Package retry repeats start-up dependency checks, such as the first
// database ping, with capped exponential backoff.
package retry

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"syscall"
	"time"
)

// Policy bounds how often and how fast a check is repeated.
type Policy struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
	// Jitter is the fraction (0-1) of each delay added at random.
	Jitter float64
}

// DBPolicy fits a database that is still accepting connections while the
// process starts: three quick attempts, at most one second apart.
func DBPolicy() Policy {
	return Policy{Attempts: 3, Initial: 100 * time.Millisecond, Max: time.Second, Jitter: 0.1}
}

// Do calls fn until it succeeds, fails with a non-transient error, ctx ends
// or the attempts run out. fn receives ctx unchanged.
func Do(ctx context.Context, p Policy, fn func(context.Context) error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Initial

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(ctx); err == nil {
			if attempt > 1 {
				slog.InfoContext(ctx, "dependency check succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}
		if !Transient(err) {
			return err
		}
		if attempt == attempts {
			return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
		}

		wait := withJitter(delay, p.Jitter)
		slog.WarnContext(ctx, "dependency check failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("attempts", attempts),
			slog.Duration("delay", wait),
			slog.Any("error", err))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}
		delay = min(delay*2, p.Max)
	}
}

// Transient reports whether err looks like a connection problem that a
// later attempt can get past. A per-attempt deadline counts as transient;
// cancellation does not.
func Transient(err error) bool {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, driver.ErrBadConn):
		return true
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ETIMEDOUT),
		errors.Is(err, syscall.ENETUNREACH):
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func withJitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 || d <= 0 {
		return d
	}
	fraction = min(fraction, 1)
	// #nosec G404 -- backoff jitter needs no cryptographic randomness
	return d + time.Duration(rand.Float64()*fraction*float64(d))
}
