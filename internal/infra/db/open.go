// Package db opens the application database and applies the schema.
// PostgreSQL is reached through the pgx stdlib driver; SQLite through the
// pure-Go modernc driver for local development and tests.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"blog-summary/internal/resilience/retry"
	envconfig "blog-summary/pkg/config"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// defaultSQLiteDSN is used when DB_DRIVER=sqlite and DATABASE_URL is unset.
const defaultSQLiteDSN = "file:blog.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the default connection pool configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,               // Maximum number of open connections
		MaxIdleConns:    10,               // Maximum number of idle connections
		ConnMaxLifetime: 1 * time.Hour,    // Maximum lifetime of a connection
		ConnMaxIdleTime: 30 * time.Minute, // Maximum idle time of a connection
	}
}

// sqliteConnectionConfig keeps a single long-lived connection. SQLite
// serializes writers, and an in-memory database lives only as long as its
// connection.
func sqliteConnectionConfig() ConnectionConfig {
	return ConnectionConfig{MaxOpenConns: 1, MaxIdleConns: 1}
}

// Config selects the driver and data source.
type Config struct {
	Driver string
	DSN    string
	Pool   ConnectionConfig
}

// LoadConfig reads DB_DRIVER (postgres|sqlite, default postgres),
// DATABASE_URL and the DB_* pool variables.
func LoadConfig() (Config, error) {
	cfg := Config{
		Driver: strings.ToLower(envconfig.GetEnvString("DB_DRIVER", DriverPostgres)),
		DSN:    envconfig.GetEnvString("DATABASE_URL", ""),
	}

	switch cfg.Driver {
	case DriverPostgres:
		if cfg.DSN == "" {
			return Config{}, fmt.Errorf("DATABASE_URL not set")
		}
		cfg.Pool = getConnectionConfigFromEnv()
	case DriverSQLite:
		if cfg.DSN == "" {
			cfg.DSN = defaultSQLiteDSN
		}
		cfg.Pool = sqliteConnectionConfig()
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or sqlite: got %q", cfg.Driver)
	}
	return cfg, nil
}

// driverName maps a configured driver to its database/sql registration name.
func driverName(driver string) (string, error) {
	switch driver {
	case DriverPostgres:
		return "pgx", nil
	case DriverSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}

// Open creates and configures a new database connection pool and verifies it
// with a ping, retrying with exponential backoff while the database starts.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	name, err := driverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(name, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pool := cfg.Pool
	if pool == (ConnectionConfig{}) {
		pool = DefaultConnectionConfig()
		if cfg.Driver == DriverSQLite {
			pool = sqliteConnectionConfig()
		}
	}
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	slog.Info("database connection pool configured",
		slog.String("driver", cfg.Driver),
		slog.Int("max_open_conns", pool.MaxOpenConns),
		slog.Int("max_idle_conns", pool.MaxIdleConns),
		slog.Duration("conn_max_lifetime", pool.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", pool.ConnMaxIdleTime))

	err = retry.Do(ctx, retry.DBPolicy(), func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connection established successfully", slog.String("driver", cfg.Driver))
	return db, nil
}

// getConnectionConfigFromEnv reads connection pool configuration from environment variables.
// Falls back to default values if not set or not positive.
func getConnectionConfigFromEnv() ConnectionConfig {
	cfg := DefaultConnectionConfig()

	if val := envconfig.GetEnvInt("DB_MAX_OPEN_CONNS", cfg.MaxOpenConns); val > 0 {
		cfg.MaxOpenConns = val
	}
	if val := envconfig.GetEnvInt("DB_MAX_IDLE_CONNS", cfg.MaxIdleConns); val > 0 {
		cfg.MaxIdleConns = val
	}
	if val := envconfig.GetEnvDuration("DB_CONN_MAX_LIFETIME", cfg.ConnMaxLifetime); val > 0 {
		cfg.ConnMaxLifetime = val
	}
	if val := envconfig.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", cfg.ConnMaxIdleTime); val > 0 {
		cfg.ConnMaxIdleTime = val
	}

	return cfg
}
