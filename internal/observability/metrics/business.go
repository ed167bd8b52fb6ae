package metrics

import (
	"time"
)

// RecordSummaryGenerated records one GenerateSummary call and the tier that
// produced its text.
func RecordSummaryGenerated(source string, duration time.Duration) {
	SummaryGenerationsTotal.WithLabelValues(source).Inc()
	SummaryGenerationDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordExternalFailure records an external summarizer failure.
// Reason is one of timeout, circuit_open, empty_response or error.
func RecordExternalFailure(provider, reason string) {
	SummaryExternalFailuresTotal.WithLabelValues(provider, reason).Inc()
}

// RecordBackfill records the outcome of one post in a backfill run.
func RecordBackfill(result string, count int) {
	if count <= 0 {
		return
	}
	SummaryBackfillUpdatedTotal.WithLabelValues(result).Add(float64(count))
}

// UpdatePostsTotal updates the total count of posts in the database.
// This gauge should be updated periodically to reflect the current state.
func UpdatePostsTotal(count int64) {
	PostsTotal.Set(float64(count))
}

// UpdateUsersTotal updates the total count of users in the database.
func UpdateUsersTotal(count int64) {
	UsersTotal.Set(float64(count))
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "select_posts", "insert_post").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
