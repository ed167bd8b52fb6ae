// Package postgres provides PostgreSQL implementations of the repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"blog-summary/internal/domain/entity"
	"blog-summary/internal/observability/metrics"
	"blog-summary/internal/repository"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func observe(operation string, start time.Time) {
	metrics.RecordDBQuery(operation, time.Since(start))
}

type PostRepo struct{ db *sql.DB }

func NewPostRepo(db *sql.DB) repository.PostRepository {
	return &PostRepo{db: db}
}

const postWithAuthorColumns = `
p.id, p.author_id, p.title, p.content, p.summary, p.summary_source,
p.created_at, p.updated_at, u.username`

func scanPostWithAuthor(row interface{ Scan(...any) error }) (entity.PostWithAuthor, error) {
	var p entity.Post
	var author string
	if err := row.Scan(
		&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.Summary, &p.SummarySource,
		&p.CreatedAt, &p.UpdatedAt, &author,
	); err != nil {
		return entity.PostWithAuthor{}, err
	}
	return entity.PostWithAuthor{Post: &p, Author: author}, nil
}

func (repo *PostRepo) List(ctx context.Context, offset, limit int) ([]entity.PostWithAuthor, error) {
	defer observe("posts.list", time.Now())
	const query = `
SELECT` + postWithAuthorColumns + `
FROM posts p
INNER JOIN users u ON u.id = p.author_id
ORDER BY p.created_at DESC, p.id DESC
LIMIT $1 OFFSET $2`
	rows, err := repo.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts := make([]entity.PostWithAuthor, 0, max(limit, 0))
	for rows.Next() {
		p, err := scanPostWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return posts, nil
}

func (repo *PostRepo) Count(ctx context.Context) (int64, error) {
	defer observe("posts.count", time.Now())
	var n int64
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

func (repo *PostRepo) Get(ctx context.Context, id int64) (*entity.PostWithAuthor, error) {
	defer observe("posts.get", time.Now())
	const query = `
SELECT` + postWithAuthorColumns + `
FROM posts p
INNER JOIN users u ON u.id = p.author_id
WHERE p.id = $1
LIMIT 1`
	p, err := scanPostWithAuthor(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &p, nil
}

func (repo *PostRepo) Create(ctx context.Context, post *entity.Post) error {
	defer observe("posts.create", time.Now())
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.CreatedAt
	}
	const query = `
INSERT INTO posts (author_id, title, content, summary, summary_source, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		post.AuthorID, post.Title, post.Content, post.Summary, post.SummarySource,
		post.CreatedAt, post.UpdatedAt,
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *PostRepo) Update(ctx context.Context, post *entity.Post) error {
	defer observe("posts.update", time.Now())
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = time.Now().UTC()
	}
	const query = `
UPDATE posts
SET title = $1, content = $2, summary = $3, summary_source = $4, updated_at = $5
WHERE id = $6`
	res, err := repo.db.ExecContext(ctx, query,
		post.Title, post.Content, post.Summary, post.SummarySource, post.UpdatedAt, post.ID)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return requireRow("Update", res)
}

func (repo *PostRepo) Delete(ctx context.Context, id int64) error {
	defer observe("posts.delete", time.Now())
	res, err := repo.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return requireRow("Delete", res)
}

func (repo *PostRepo) ListBySummarySource(ctx context.Context, source string, limit int) ([]*entity.Post, error) {
	defer observe("posts.list_by_summary_source", time.Now())
	const query = `
SELECT id, author_id, title, content, summary, summary_source, created_at, updated_at
FROM posts
WHERE summary_source = $1
ORDER BY created_at ASC, id ASC
LIMIT $2`
	rows, err := repo.db.QueryContext(ctx, query, source, limit)
	if err != nil {
		return nil, fmt.Errorf("ListBySummarySource: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts := make([]*entity.Post, 0, max(limit, 0))
	for rows.Next() {
		var p entity.Post
		if err := rows.Scan(
			&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.Summary, &p.SummarySource,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ListBySummarySource: %w", err)
		}
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListBySummarySource: %w", err)
	}
	return posts, nil
}

func (repo *PostRepo) UpdateSummary(ctx context.Context, id int64, summary, source string) error {
	defer observe("posts.update_summary", time.Now())
	res, err := repo.db.ExecContext(ctx,
		`UPDATE posts SET summary = $1, summary_source = $2 WHERE id = $3`,
		summary, source, id)
	if err != nil {
		return fmt.Errorf("UpdateSummary: %w", err)
	}
	return requireRow("UpdateSummary", res)
}

func requireRow(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: RowsAffected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}
	return nil
}
