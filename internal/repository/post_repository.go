package repository

import (
	"context"

	"blog-summary/internal/domain/entity"
)

// PostRepository persists blog posts.
type PostRepository interface {
	// List returns posts joined with their author, newest first.
	List(ctx context.Context, offset, limit int) ([]entity.PostWithAuthor, error)
	// Count returns the total number of posts.
	Count(ctx context.Context) (int64, error)
	// Get returns the post with id, or (nil, nil) if it does not exist.
	Get(ctx context.Context, id int64) (*entity.PostWithAuthor, error)
	// Create inserts post and sets its ID.
	Create(ctx context.Context, post *entity.Post) error
	// Update overwrites title, content, summary, summary_source and updated_at.
	// Returns entity.ErrNotFound when no row matches.
	Update(ctx context.Context, post *entity.Post) error
	// Delete removes the post. Returns entity.ErrNotFound when no row matches.
	Delete(ctx context.Context, id int64) error
	// ListBySummarySource returns up to limit posts whose summary came from
	// source, oldest first.
	ListBySummarySource(ctx context.Context, source string, limit int) ([]*entity.Post, error)
	// UpdateSummary replaces only the summary columns.
	UpdateSummary(ctx context.Context, id int64, summary, source string) error
}
