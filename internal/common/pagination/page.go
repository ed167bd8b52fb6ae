package pagination

import (
	"net/http"
	"net/url"
	"strconv"

	"blog-summary/internal/domain/entity"
)

// Params is a 1-based page request for a list endpoint.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows skipped before this page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Metadata is the "pagination" object of a list response.
type Metadata struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewMetadata describes page p of a collection holding total rows.
// An empty collection still has one page.
func NewMetadata(p Params, total int64) Metadata {
	pages := 1
	if total > 0 && p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Metadata{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: pages,
	}
}

// ParseQueryParams reads ?page= and ?limit= from r. Missing values take the
// defaults from cfg; malformed or out-of-range values are a
// *entity.ValidationError naming the offending parameter.
func ParseQueryParams(r *http.Request, cfg Config) (Params, error) {
	q := r.URL.Query()

	page, ok := queryInt(q, "page", cfg.DefaultPage)
	if !ok || page < 1 {
		return Params{}, &entity.ValidationError{
			Field:   "page",
			Message: "page must be a positive integer",
		}
	}

	limit, ok := queryInt(q, "limit", cfg.DefaultLimit)
	if !ok || limit < 1 || limit > cfg.MaxLimit {
		return Params{}, &entity.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and " + strconv.Itoa(cfg.MaxLimit),
		}
	}

	return Params{Page: page, Limit: limit}, nil
}

func queryInt(q url.Values, key string, fallback int) (int, bool) {
	raw := q.Get(key)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil
}
