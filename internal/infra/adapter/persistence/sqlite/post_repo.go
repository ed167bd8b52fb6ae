// Package sqlite provides SQLite implementations of the repository interfaces
// on top of the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"blog-summary/internal/domain/entity"
	"blog-summary/internal/observability/metrics"
	"blog-summary/internal/repository"
)

func isUniqueViolation(err error) bool {
	var se *sqlitedrv.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}

func observe(operation string, start time.Time) {
	metrics.RecordDBQuery(operation, time.Since(start))
}

// PostRepo implements the PostRepository interface using SQLite.
type PostRepo struct{ db *sql.DB }

// NewPostRepo creates a new SQLite-backed post repository.
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

// List retrieves a page of posts ordered by creation time (newest first).
func (repo *PostRepo) List(ctx context.Context, offset, limit int) ([]entity.PostWithAuthor, error) {
	defer observe("posts.list", time.Now())
	const query = `
SELECT` + postWithAuthorColumns + `
FROM posts p
INNER JOIN users u ON u.id = p.author_id
ORDER BY p.created_at DESC, p.id DESC
LIMIT ? OFFSET ?`
	rows, err := repo.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts := make([]entity.PostWithAuthor, 0, max(limit, 0))
	for rows.Next() {
		p, err := scanPostWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows.Err: %w", err)
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
WHERE p.id = ?
LIMIT 1`
	p, err := scanPostWithAuthor(repo.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
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
VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := repo.db.ExecContext(ctx, query,
		post.AuthorID, post.Title, post.Content, post.Summary, post.SummarySource,
		post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	post.ID = id
	return nil
}

func (repo *PostRepo) Update(ctx context.Context, post *entity.Post) error {
	defer observe("posts.update", time.Now())
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = time.Now().UTC()
	}
	const query = `
UPDATE posts
SET title = ?, content = ?, summary = ?, summary_source = ?, updated_at = ?
WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, query,
		post.Title, post.Content, post.Summary, post.SummarySource, post.UpdatedAt, post.ID)
	if err != nil {
		return fmt.Errorf("Update: ExecContext: %w", err)
	}
	return requireRow("Update", res)
}

func (repo *PostRepo) Delete(ctx context.Context, id int64) error {
	defer observe("posts.delete", time.Now())
	res, err := repo.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
	}
	return requireRow("Delete", res)
}

// ListBySummarySource returns the oldest posts whose summary came from source.
func (repo *PostRepo) ListBySummarySource(ctx context.Context, source string, limit int) ([]*entity.Post, error) {
	defer observe("posts.list_by_summary_source", time.Now())
	const query = `
SELECT id, author_id, title, content, summary, summary_source, created_at, updated_at
FROM posts
WHERE summary_source = ?
ORDER BY created_at ASC, id ASC
LIMIT ?`
	rows, err := repo.db.QueryContext(ctx, query, source, limit)
	if err != nil {
		return nil, fmt.Errorf("ListBySummarySource: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts := make([]*entity.Post, 0, max(limit, 0))
	for rows.Next() {
		var p entity.Post
		if err := rows.Scan(
			&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.Summary, &p.SummarySource,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ListBySummarySource: Scan: %w", err)
		}
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListBySummarySource: rows.Err: %w", err)
	}
	return posts, nil
}

func (repo *PostRepo) UpdateSummary(ctx context.Context, id int64, summary, source string) error {
	defer observe("posts.update_summary", time.Now())
	res, err := repo.db.ExecContext(ctx,
		`UPDATE posts SET summary = ?, summary_source = ? WHERE id = ?`,
		summary, source, id)
	if err != nil {
		return fmt.Errorf("UpdateSummary: ExecContext: %w", err)
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
