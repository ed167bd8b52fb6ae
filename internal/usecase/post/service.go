package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"blog-summary/internal/common/pagination"
	"blog-summary/internal/domain/entity"
	"blog-summary/internal/observability/metrics"
	"blog-summary/internal/repository"
	"blog-summary/internal/usecase/summary"
)

// SummarySentences is the sentence count used for stored post summaries.
const SummarySentences = 3

// Summarizer produces a summary and reports which tier wrote it.
type Summarizer interface {
	GenerateSummary(ctx context.Context, content string, sentenceCount int) (summary.Result, error)
}

// CreateInput represents the input parameters for creating a new post.
type CreateInput struct {
	AuthorID int64
	Title    string
	Content  string
	Summary  string // optional; blank asks the summarizer
}

// UpdateInput represents the input parameters for updating an existing post.
// Fields with nil values will not be updated.
type UpdateInput struct {
	ID      int64
	Title   *string
	Content *string
	Summary *string
}

// PaginatedResult is a page of posts with pagination metadata.
type PaginatedResult struct {
	Data       []entity.PostWithAuthor
	Pagination pagination.Metadata
}

// Service provides post management use cases.
type Service struct {
	Repo       repository.PostRepository
	Summarizer Summarizer
}

// List returns a page of posts, newest first. The total count and the page
// are loaded concurrently.
func (s *Service) List(ctx context.Context, params pagination.Params) (*PaginatedResult, error) {
	offset := params.Offset()

	var (
		total int64
		posts []entity.PostWithAuthor
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.Repo.Count(gctx)
		if err != nil {
			return fmt.Errorf("count posts: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		page, err := s.Repo.List(gctx, offset, params.Limit)
		if err != nil {
			return fmt.Errorf("list posts: %w", err)
		}
		posts = page
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	metrics.UpdatePostsTotal(total)

	return &PaginatedResult{
		Data: posts,
		Pagination: pagination.NewMetadata(params, total),
	}, nil
}

// Get retrieves a single post with its author.
// Returns ErrInvalidPostID if the ID is not positive.
// Returns ErrPostNotFound if the post does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.PostWithAuthor, error) {
	if id <= 0 {
		return nil, ErrInvalidPostID
	}
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	return p, nil
}

// Create validates in and stores a new post. A blank summary is generated
// from the content.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Post, error) {
	if in.AuthorID <= 0 {
		return nil, &entity.ValidationError{Field: "authorID", Message: "must be positive"}
	}
	title := strings.TrimSpace(in.Title)
	if err := entity.ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := entity.ValidateContent(in.Content); err != nil {
		return nil, err
	}

	text, source, err := s.summaryFor(ctx, in.Content, &in.Summary)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &entity.Post{
		AuthorID:      in.AuthorID,
		Title:         title,
		Content:       in.Content,
		Summary:       text,
		SummarySource: source,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

// Update applies the non-nil fields of in on behalf of actor, who must be
// the author or an admin. A content change without a new summary
// regenerates the summary, as does an explicitly blank summary.
func (s *Service) Update(ctx context.Context, actor *entity.User, in UpdateInput) (*entity.PostWithAuthor, error) {
	current, err := s.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	p := *current.Post
	if !p.CanBeEditedBy(actor) {
		return nil, ErrForbidden
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := entity.ValidateTitle(title); err != nil {
			return nil, err
		}
		p.Title = title
	}

	contentChanged := false
	if in.Content != nil {
		if err := entity.ValidateContent(*in.Content); err != nil {
			return nil, err
		}
		contentChanged = *in.Content != p.Content
		p.Content = *in.Content
	}

	if in.Summary != nil || contentChanged {
		text, source, err := s.summaryFor(ctx, p.Content, in.Summary)
		if err != nil {
			return nil, err
		}
		p.Summary, p.SummarySource = text, source
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, &p); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return &entity.PostWithAuthor{Post: &p, Author: current.Author}, nil
}

// Delete removes a post. Only admins may delete.
func (s *Service) Delete(ctx context.Context, actor *entity.User, id int64) error {
	if id <= 0 {
		return ErrInvalidPostID
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// summaryFor returns the author's summary when given and non-blank,
// otherwise a generated one.
func (s *Service) summaryFor(ctx context.Context, content string, authored *string) (string, string, error) {
	if authored != nil {
		if text := strings.TrimSpace(*authored); text != "" {
			return text, string(summary.SourceAuthor), nil
		}
	}
	res, err := s.Summarizer.GenerateSummary(ctx, content, SummarySentences)
	if err != nil {
		return "", "", fmt.Errorf("generate summary: %w", err)
	}
	return res.Text, string(res.Source), nil
}
