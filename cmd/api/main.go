// Command api serves the blog REST API: accounts, posts with stored
// summaries, summary previews, health probes and Prometheus metrics.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"blog-summary/internal/config"
	"blog-summary/internal/infra/db"
	"blog-summary/internal/infra/summarizer"
	"blog-summary/internal/observability/logging"
	"blog-summary/internal/observability/tracing"
	"blog-summary/internal/usecase/summary"
	envconfig "blog-summary/pkg/config"
)

func main() {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("api exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	version := envconfig.GetEnvString("VERSION", "dev")

	authCfg, err := config.LoadAuthConfig()
	if err != nil {
		return err
	}

	database, driver, err := initDatabase(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	sumSvc, err := initSummarizer(logger)
	if err != nil {
		return err
	}

	shutdownTracing := tracing.InitProvider("blog-summary-api", version,
		envconfig.GetEnvFloat("TRACE_SAMPLE_RATIO", 1.0))
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	handler, err := buildHandler(app{
		logger:     logger,
		db:         database,
		driver:     driver,
		auth:       authCfg,
		summarizer: sumSvc,
		version:    version,
	})
	if err != nil {
		return err
	}

	return serve(ctx, logger, handler, envconfig.GetEnvString("HTTP_ADDR", ":8080"), version)
}

// initDatabase opens the configured database and applies migrations.
func initDatabase(ctx context.Context, logger *slog.Logger) (*sql.DB, string, error) {
	cfg, err := db.LoadConfig()
	if err != nil {
		return nil, "", fmt.Errorf("database config: %w", err)
	}
	database, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, "", err
	}
	if err := db.MigrateUp(ctx, database, cfg.Driver); err != nil {
		_ = database.Close()
		return nil, "", fmt.Errorf("migrate: %w", err)
	}
	logger.Info("database ready", slog.String("driver", cfg.Driver))
	return database, cfg.Driver, nil
}

// initSummarizer builds the orchestrator. A misconfigured provider is an
// error; no provider at all means local summaries only.
func initSummarizer(logger *slog.Logger) (*summary.Service, error) {
	cfg, err := config.LoadSummaryConfig()
	if err != nil {
		return nil, err
	}
	provider, err := summarizer.New(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := summary.NewServiceFromConfig(cfg, provider)
	if err != nil {
		return nil, err
	}
	logger.Info("summarizer configured",
		slog.String("provider", svc.ProviderName()),
		slog.String("segmenter", cfg.Segmenter),
		slog.Duration("external_timeout", cfg.ExternalTimeout),
		slog.Bool("breaker", cfg.Breaker.Enabled))
	return svc, nil
}

// serve runs the HTTP server until ctx is cancelled, then drains it.
func serve(ctx context.Context, logger *slog.Logger, handler http.Handler, addr, version string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", addr), slog.String("version", version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
