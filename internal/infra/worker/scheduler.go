package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"blog-summary/internal/handler/http/respond"
	"blog-summary/internal/pkg/config"
	postUC "blog-summary/internal/usecase/post"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusSkipped = "skipped"
)

// Backfiller refreshes locally generated post summaries.
type Backfiller interface {
	BackfillSummaries(ctx context.Context, opts postUC.BackfillOptions) (postUC.BackfillReport, error)
}

// Runner executes backfill runs, at most one at a time.
type Runner struct {
	backfiller Backfiller
	cfg        Config
	metrics    *Metrics
	logger     *slog.Logger
	running    atomic.Bool
}

// NewRunner returns a Runner for b.
func NewRunner(b Backfiller, cfg Config, m *Metrics, logger *slog.Logger) *Runner {
	return &Runner{backfiller: b, cfg: cfg, metrics: m, logger: logger}
}

// RunOnce performs one backfill run bounded by the job timeout. A call made
// while another run is in flight returns immediately with StatusSkipped.
func (r *Runner) RunOnce(ctx context.Context) (string, error) {
	if !r.running.CompareAndSwap(false, true) {
		r.metrics.RecordRun(StatusSkipped, 0)
		r.logger.Warn("backfill skipped, previous run still in progress")
		return StatusSkipped, nil
	}
	defer r.running.Store(false)

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.cfg.JobTimeout)
	defer cancel()

	r.logger.Info("backfill started",
		slog.Int("batch", r.cfg.Batch),
		slog.Int("parallelism", r.cfg.Parallelism))

	report, err := r.backfiller.BackfillSummaries(ctx, postUC.BackfillOptions{
		Batch:       r.cfg.Batch,
		Parallelism: r.cfg.Parallelism,
	})
	r.metrics.RecordPosts("updated", report.Updated)
	r.metrics.RecordPosts("unchanged", report.Unchanged)
	r.metrics.RecordPosts("failed", report.Failed)

	elapsed := time.Since(start)
	if err != nil {
		r.metrics.RecordRun(StatusFailure, elapsed.Seconds())
		r.logger.Error("backfill failed",
			slog.String("error", respond.SanitizeError(err)),
			slog.Int("scanned", report.Scanned),
			slog.Int("updated", report.Updated),
			slog.Duration("duration", elapsed))
		return StatusFailure, err
	}

	r.metrics.RecordRun(StatusSuccess, elapsed.Seconds())
	r.logger.Info("backfill completed",
		slog.Int("scanned", report.Scanned),
		slog.Int("updated", report.Updated),
		slog.Int("unchanged", report.Unchanged),
		slog.Int("failed", report.Failed),
		slog.Duration("duration", elapsed))
	return StatusSuccess, nil
}

// Schedule registers RunOnce with a new cron scheduler in the configured
// time zone. The caller starts and stops the returned scheduler. Runs use
// ctx, so cancelling it aborts an in-flight run.
func (r *Runner) Schedule(ctx context.Context) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(r.cfg.Location()),
		cron.WithParser(config.CronParser),
		cron.WithLogger(cronLogger{r.logger}),
		cron.WithChain(cron.Recover(cronLogger{r.logger})),
	)
	if _, err := c.AddFunc(r.cfg.Schedule, func() { _, _ = r.RunOnce(ctx) }); err != nil {
		return nil, fmt.Errorf("schedule backfill: %w", err)
	}
	return c, nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct{ l *slog.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
