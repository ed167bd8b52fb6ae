package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"

	"blog-summary/internal/domain/entity"
	"blog-summary/internal/infra/adapter/persistence/postgres"
)

var userCols = []string{"id", "username", "email", "role", "created_at"}

func TestUserRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &entity.User{Username: "alice", Email: "alice@example.com", PasswordHash: "$2a$10$x", Role: entity.RoleUser, CreatedAt: ts}
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("alice", "alice@example.com", "$2a$10$x", "user", ts).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	repo := postgres.NewUserRepo(db)
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if u.ID != 3 {
		t.Fatalf("ID=%d, want 3", u.ID)
	}
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	repo := postgres.NewUserRepo(db)
	err := repo.Create(context.Background(), &entity.User{Username: "alice", Email: "a@b.co", Role: entity.RoleUser})
	if !errors.Is(err, entity.ErrConflict) {
		t.Fatalf("err=%v, want ErrConflict", err)
	}
}

func TestUserRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(3, "alice", "alice@example.com", "admin", ts))

	repo := postgres.NewUserRepo(db)
	got, err := repo.Get(context.Background(), 3)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	want := &entity.User{ID: 3, Username: "alice", Email: "alice@example.com", Role: entity.RoleAdmin, CreatedAt: ts}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestUserRepo_GetByEmail(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	ts := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE email = $1`)).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "created_at"}).
			AddRow(3, "alice", "alice@example.com", "hash", "editor", ts))

	repo := postgres.NewUserRepo(db)
	got, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail err=%v", err)
	}
	if got.PasswordHash != "hash" || got.Role != entity.RoleEditor {
		t.Fatalf("got %+v", got)
	}
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM users`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := postgres.NewUserRepo(db)
	got, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if err != nil || got != nil {
		t.Fatalf("got=%v err=%v, want nil, nil", got, err)
	}
}

func TestUserRepo_ListAndCount(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	ts := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $1 OFFSET $2`)).
		WithArgs(2, 0).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(2, "bob", "bob@example.com", "user", ts).
			AddRow(1, "alice", "alice@example.com", "admin", ts))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM users`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	repo := postgres.NewUserRepo(db)
	users, err := repo.List(context.Background(), 0, 2)
	if err != nil || len(users) != 2 {
		t.Fatalf("List len=%d err=%v", len(users), err)
	}
	if users[0].PasswordHash != "" {
		t.Fatal("List must not load password hashes")
	}
	n, err := repo.Count(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("Count n=%d err=%v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
