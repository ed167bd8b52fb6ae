package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* ───────── connection pool ───────── */

func TestDefaultConnectionConfig(t *testing.T) {
	assert.Equal(t, ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}, DefaultConnectionConfig())
}

func TestGetConnectionConfigFromEnv(t *testing.T) {
	def := DefaultConnectionConfig()

	tests := []struct {
		name string
		env  map[string]string
		want ConnectionConfig
	}{
		{name: "unset", want: def},
		{
			name: "all overridden",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "100",
				"DB_MAX_IDLE_CONNS":     "50",
				"DB_CONN_MAX_LIFETIME":  "1h30m",
				"DB_CONN_MAX_IDLE_TIME": "15m",
			},
			want: ConnectionConfig{MaxOpenConns: 100, MaxIdleConns: 50, ConnMaxLifetime: 90 * time.Minute, ConnMaxIdleTime: 15 * time.Minute},
		},
		{
			name: "partial override",
			env:  map[string]string{"DB_MAX_OPEN_CONNS": "75", "DB_CONN_MAX_LIFETIME": "3h"},
			want: ConnectionConfig{MaxOpenConns: 75, MaxIdleConns: def.MaxIdleConns, ConnMaxLifetime: 3 * time.Hour, ConnMaxIdleTime: def.ConnMaxIdleTime},
		},
		{
			name: "malformed values keep defaults",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "many",
				"DB_MAX_IDLE_CONNS":     "abc",
				"DB_CONN_MAX_LIFETIME":  "forever",
				"DB_CONN_MAX_IDLE_TIME": "not-a-duration",
			},
			want: def,
		},
		{
			name: "zero and negative values keep defaults",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "-10",
				"DB_MAX_IDLE_CONNS":     "0",
				"DB_CONN_MAX_LIFETIME":  "-1h",
				"DB_CONN_MAX_IDLE_TIME": "0m",
			},
			want: def,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME"} {
				t.Setenv(key, tt.env[key])
			}
			assert.Equal(t, tt.want, getConnectionConfigFromEnv())
		})
	}
}

/* ───────── LoadConfig ───────── */

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		dsn     string
		want    Config
		wantErr bool
	}{
		{
			name:   "postgres with url",
			driver: "postgres",
			dsn:    "postgres://u:p@localhost:5432/blog",
			want: Config{
				Driver: DriverPostgres,
				DSN:    "postgres://u:p@localhost:5432/blog",
				Pool:   DefaultConnectionConfig(),
			},
		},
		{
			name:    "postgres without url",
			driver:  "postgres",
			wantErr: true,
		},
		{
			name:   "sqlite default file",
			driver: "SQLite",
			want: Config{
				Driver: DriverSQLite,
				DSN:    defaultSQLiteDSN,
				Pool:   sqliteConnectionConfig(),
			},
		},
		{
			name:    "unknown driver",
			driver:  "mysql",
			dsn:     "root@/blog",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_DRIVER", tt.driver)
			t.Setenv("DATABASE_URL", tt.dsn)
			t.Setenv("DB_MAX_OPEN_CONNS", "")
			t.Setenv("DB_MAX_IDLE_CONNS", "")
			t.Setenv("DB_CONN_MAX_LIFETIME", "")
			t.Setenv("DB_CONN_MAX_IDLE_TIME", "")

			got, err := LoadConfig()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

/* ───────── Open ───────── */

func TestOpen_SQLiteInMemory(t *testing.T) {
	db, err := Open(context.Background(), Config{
		Driver: DriverSQLite,
		DSN:    "file::memory:?_pragma=foreign_keys(1)",
	})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var one int
	require.NoError(t, db.QueryRow("SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	db, err := Open(context.Background(), Config{Driver: "oracle", DSN: "x"})
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "unsupported driver")
}

// TestOpen_Postgres runs only when DATABASE_URL points at a live server.
func TestOpen_Postgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	db, err := Open(context.Background(), Config{Driver: DriverPostgres, DSN: dsn})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(ctx))
	assert.Equal(t, 25, db.Stats().MaxOpenConnections)
}
