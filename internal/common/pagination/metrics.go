package pagination

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts paginated list requests.
	// Labels: resource (posts, users), status (HTTP status code), page_range (1-10, 11-50, ...)
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagination_requests_total",
			Help: "Total number of paginated list requests",
		},
		[]string{"resource", "status", "page_range"},
	)

	// ErrorsTotal counts pagination errors.
	// Labels: resource, type (validation, database)
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagination_errors_total",
			Help: "Total number of pagination errors",
		},
		[]string{"resource", "type"},
	)
)

// RecordRequest records a paginated request for resource.
func RecordRequest(resource string, statusCode int, page int) {
	RequestsTotal.WithLabelValues(resource, strconv.Itoa(statusCode), getPageRangeBucket(page)).Inc()
}

// RecordError records an error metric.
// errorType should be one of: "validation", "database"
func RecordError(resource, errorType string) {
	ErrorsTotal.WithLabelValues(resource, errorType).Inc()
}

func getPageRangeBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
