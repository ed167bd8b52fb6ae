package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateUp_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	for _, stmt := range postgresSchema {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, MigrateUp(context.Background(), db, DriverPostgres))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_PostgresStopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta(postgresSchema[0])).
		WillReturnError(errors.New("permission denied"))

	err = MigrateUp(context.Background(), db, DriverPostgres)
	assert.ErrorContains(t, err, "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_UnsupportedDriver(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Error(t, MigrateUp(context.Background(), db, "mysql"))
}

func TestMigrateUp_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, Config{Driver: DriverSQLite, DSN: "file::memory:?_pragma=foreign_keys(1)"})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, MigrateUp(ctx, db, DriverSQLite))
	// idempotent
	require.NoError(t, MigrateUp(ctx, db, DriverSQLite))

	var tables int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'posts')`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 2, tables)

	_, err = db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, role, created_at) VALUES ('ann', 'a@x.io', 'h', 'root', CURRENT_TIMESTAMP)`)
	assert.Error(t, err, "role check constraint")

	_, err = db.ExecContext(ctx,
		`INSERT INTO posts (author_id, title, content, created_at, updated_at) VALUES (42, 'title', 'content', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	assert.Error(t, err, "foreign key constraint")
}
