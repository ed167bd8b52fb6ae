package summarizer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"blog-summary/internal/utils/text"
)

// finish trims a raw provider answer, logs the outcome and records metrics.
// It returns ErrEmptyResponse when nothing usable is left.
func finish(ctx context.Context, provider, requestID, raw string, limit int, duration time.Duration, rec SummaryMetricsRecorder) (string, error) {
	rec.RecordDuration(duration)

	summary := strings.TrimSpace(raw)
	if summary == "" {
		slog.WarnContext(ctx, "provider returned empty summary",
			slog.String("provider", provider),
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", ErrEmptyResponse
	}

	summaryLength := text.CountRunes(summary)
	withinLimit := summaryLength <= limit

	slog.InfoContext(ctx, "Summarization completed",
		slog.String("provider", provider),
		slog.String("request_id", requestID),
		slog.Int("summary_length", summaryLength),
		slog.Int("character_limit", limit),
		slog.Bool("within_limit", withinLimit),
		slog.Duration("duration", duration))

	if !withinLimit {
		slog.WarnContext(ctx, "Summary exceeds character limit",
			slog.String("provider", provider),
			slog.String("request_id", requestID),
			slog.Int("summary_length", summaryLength),
			slog.Int("limit", limit),
			slog.Int("excess", summaryLength-limit))
		rec.RecordLimitExceeded()
	}

	rec.RecordLength(summaryLength)
	rec.RecordCompliance(withinLimit)

	return summary, nil
}
