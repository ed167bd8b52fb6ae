package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-summary/internal/domain/entity"
	"blog-summary/internal/infra/adapter/persistence/sqlite"
	"blog-summary/internal/infra/db"
)

/* ──────────────────────────────── helpers ──────────────────────────────── */

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, db.Config{Driver: db.DriverSQLite, DSN: "file::memory:?_pragma=foreign_keys(1)"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.MigrateUp(ctx, conn, db.DriverSQLite))
	return conn
}

func seedUser(t *testing.T, conn *sql.DB, name string) *entity.User {
	t.Helper()
	u := &entity.User{
		Username: name, Email: name + "@example.com",
		PasswordHash: "hash-" + name, Role: entity.RoleUser,
	}
	require.NoError(t, sqlite.NewUserRepo(conn).Create(context.Background(), u))
	return u
}

var base = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

func newPost(authorID int64, title string, offset time.Duration, source string) *entity.Post {
	return &entity.Post{
		AuthorID: authorID, Title: title,
		Content: "Content of " + title, Summary: "Summary of " + title,
		SummarySource: source,
		CreatedAt:     base.Add(offset), UpdatedAt: base.Add(offset),
	}
}

/* ──────────────────────────────── 1. posts ──────────────────────────────── */

func TestPostRepo_CreateGet(t *testing.T) {
	conn := openDB(t)
	ctx := context.Background()
	alice := seedUser(t, conn, "alice")
	repo := sqlite.NewPostRepo(conn)

	p := newPost(alice.ID, "First", 0, "external")
	require.NoError(t, repo.Create(ctx, p))
	assert.NotZero(t, p.ID)

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Author)
	if diff := cmp.Diff(p, got.Post); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	missing, err := repo.Get(ctx, p.ID+100)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostRepo_ListNewestFirstAndCount(t *testing.T) {
	conn := openDB(t)
	ctx := context.Background()
	alice := seedUser(t, conn, "alice")
	repo := sqlite.NewPostRepo(conn)

	for i, title := range []string{"one", "two", "three"} {
		require.NoError(t, repo.Create(ctx, newPost(alice.ID, title, time.Duration(i)*time.Hour, "local")))
	}

	page, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "three", page[0].Post.Title)
	assert.Equal(t, "two", page[1].Post.Title)

	rest, err := repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "one", rest[0].Post.Title)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestPostRepo_UpdateDelete(t *testing.T) {
	conn := openDB(t)
	ctx := context.Background()
	alice := seedUser(t, conn, "alice")
	repo := sqlite.NewPostRepo(conn)

	p := newPost(alice.ID, "Draft", 0, "local")
	require.NoError(t, repo.Create(ctx, p))

	p.Title = "Final"
	p.Summary = "Written by hand."
	p.SummarySource = "author"
	p.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Post.Title)
	assert.Equal(t, "author", got.Post.SummarySource)
	assert.True(t, got.Post.UpdatedAt.Equal(base.Add(time.Hour)))

	require.NoError(t, repo.Delete(ctx, p.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, p.ID), entity.ErrNotFound))
	assert.True(t, errors.Is(repo.Update(ctx, p), entity.ErrNotFound))
}

func TestPostRepo_SummaryBackfillQueries(t *testing.T) {
	conn := openDB(t)
	ctx := context.Background()
	alice := seedUser(t, conn, "alice")
	repo := sqlite.NewPostRepo(conn)

	old := newPost(alice.ID, "old", 0, "local")
	mid := newPost(alice.ID, "mid", time.Hour, "local")
	ext := newPost(alice.ID, "ext", 2*time.Hour, "external")
	for _, p := range []*entity.Post{mid, ext, old} {
		require.NoError(t, repo.Create(ctx, p))
	}

	got, err := repo.ListBySummarySource(ctx, "local", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "old", got[0].Title)
	assert.Equal(t, "mid", got[1].Title)

	require.NoError(t, repo.UpdateSummary(ctx, old.ID, "Better summary.", "external"))
	got, err = repo.ListBySummarySource(ctx, "local", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mid", got[0].Title)

	after, err := repo.Get(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, "Better summary.", after.Post.Summary)
	assert.True(t, after.Post.UpdatedAt.Equal(old.UpdatedAt), "summary refresh leaves updated_at alone")

	assert.True(t, errors.Is(repo.UpdateSummary(ctx, 9999, "x", "local"), entity.ErrNotFound))
}

func TestPostRepo_DeletingAuthorCascades(t *testing.T) {
	conn := openDB(t)
	ctx := context.Background()
	alice := seedUser(t, conn, "alice")
	repo := sqlite.NewPostRepo(conn)
	require.NoError(t, repo.Create(ctx, newPost(alice.ID, "orphan", 0, "local")))

	_, err := conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, alice.ID)
	require.NoError(t, err)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

/* ──────────────────────────────── 2. users ──────────────────────────────── */

func TestUserRepo_CreateAndLookup(t *testing.T) {
	conn := openDB(t)
	ctx := context.Background()
	repo := sqlite.NewUserRepo(conn)

	u := seedUser(t, conn, "alice")

	byID, err := repo.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Empty(t, byID.PasswordHash)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash-alice", byEmail.PasswordHash)
	assert.Equal(t, entity.RoleUser, byEmail.Role)

	none, err := repo.GetByEmail(ctx, "bob@example.com")
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	conn := openDB(t)
	repo := sqlite.NewUserRepo(conn)
	seedUser(t, conn, "alice")

	err := repo.Create(context.Background(), &entity.User{
		Username: "alice2", Email: "alice@example.com", PasswordHash: "h", Role: entity.RoleUser,
	})
	assert.True(t, errors.Is(err, entity.ErrConflict), "got %v", err)
}

func TestUserRepo_ListAndCount(t *testing.T) {
	conn := openDB(t)
	ctx := context.Background()
	repo := sqlite.NewUserRepo(conn)
	for _, name := range []string{"alice", "bob", "carol"} {
		seedUser(t, conn, name)
	}

	users, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, users, 3)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
