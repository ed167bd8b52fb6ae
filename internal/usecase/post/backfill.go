package post

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"blog-summary/internal/observability/metrics"
	"blog-summary/internal/usecase/summary"
)

// BackfillOptions bounds one backfill run.
type BackfillOptions struct {
	// Batch is the maximum number of posts loaded. Default: 20
	Batch int
	// Parallelism is the number of concurrent summarizer calls. Default: 4
	Parallelism int
}

// BackfillReport counts what one run did.
type BackfillReport struct {
	Scanned   int
	Updated   int
	Unchanged int
	Failed    int
}

// BackfillSummaries asks the summarizer again for the oldest posts whose
// stored summary came from the local tier and stores the results that the
// external tier produced. Per-post failures are counted, not returned; only
// the initial query and caller cancellation fail the run.
func (s *Service) BackfillSummaries(ctx context.Context, opts BackfillOptions) (BackfillReport, error) {
	if opts.Batch <= 0 {
		opts.Batch = 20
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 4
	}

	posts, err := s.Repo.ListBySummarySource(ctx, string(summary.SourceLocal), opts.Batch)
	if err != nil {
		return BackfillReport{}, fmt.Errorf("backfill: %w", err)
	}

	var updated, unchanged, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for _, p := range posts {
		g.Go(func() error {
			res, err := s.Summarizer.GenerateSummary(gctx, p.Content, SummarySentences)
			if err != nil {
				// only cancellation reaches here
				return err
			}
			if res.Source != summary.SourceExternal {
				unchanged.Add(1)
				return nil
			}
			if err := s.Repo.UpdateSummary(gctx, p.ID, res.Text, string(res.Source)); err != nil {
				failed.Add(1)
				slog.WarnContext(gctx, "backfill: store summary failed",
					slog.Int64("post_id", p.ID),
					slog.Any("error", err))
				return nil
			}
			updated.Add(1)
			return nil
		})
	}
	err = g.Wait()

	report := BackfillReport{
		Scanned:   len(posts),
		Updated:   int(updated.Load()),
		Unchanged: int(unchanged.Load()),
		Failed:    int(failed.Load()),
	}
	metrics.RecordBackfill("updated", report.Updated)
	metrics.RecordBackfill("unchanged", report.Unchanged)
	metrics.RecordBackfill("failed", report.Failed)

	if err != nil {
		return report, fmt.Errorf("backfill: %w", err)
	}
	return report, nil
}
