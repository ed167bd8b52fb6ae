// Command worker periodically replaces locally generated post summaries
// with external ones once a provider is reachable again.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"blog-summary/internal/config"
	"blog-summary/internal/infra/adapter/persistence/postgres"
	"blog-summary/internal/infra/adapter/persistence/sqlite"
	"blog-summary/internal/infra/db"
	"blog-summary/internal/infra/summarizer"
	workerPkg "blog-summary/internal/infra/worker"
	"blog-summary/internal/observability/logging"
	"blog-summary/internal/observability/tracing"
	"blog-summary/internal/repository"
	postUC "blog-summary/internal/usecase/post"
	"blog-summary/internal/usecase/summary"
	envconfig "blog-summary/pkg/config"
)

func main() {
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("worker exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := workerPkg.NewMetrics(prometheus.DefaultRegisterer)
	cfg := workerPkg.LoadConfigFromEnv(logger, metrics.Config)
	logger.Info("worker configuration loaded",
		slog.String("schedule", cfg.Schedule),
		slog.String("timezone", cfg.Timezone),
		slog.Int("batch", cfg.Batch),
		slog.Int("parallelism", cfg.Parallelism),
		slog.Duration("job_timeout", cfg.JobTimeout),
		slog.Int("health_port", cfg.HealthPort))

	shutdownTracing := tracing.InitProvider("blog-summary-worker",
		envconfig.GetEnvString("VERSION", "dev"),
		envconfig.GetEnvFloat("TRACE_SAMPLE_RATIO", 1.0))
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	dbCfg, err := db.LoadConfig()
	if err != nil {
		return fmt.Errorf("database config: %w", err)
	}
	database, err := db.Open(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	if err := db.MigrateUp(ctx, database, dbCfg.Driver); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	sumCfg, err := config.LoadSummaryConfig()
	if err != nil {
		return err
	}
	provider, err := summarizer.New(sumCfg)
	if err != nil {
		return err
	}
	sumSvc, err := summary.NewServiceFromConfig(sumCfg, provider)
	if err != nil {
		return err
	}

	var posts repository.PostRepository = postgres.NewPostRepo(database)
	if dbCfg.Driver == db.DriverSQLite {
		posts = sqlite.NewPostRepo(database)
	}
	postSvc := &postUC.Service{Repo: posts, Summarizer: sumSvc}

	health := workerPkg.NewHealthServer(fmt.Sprintf(":%d", cfg.HealthPort), prometheus.DefaultGatherer, logger)
	healthErr := make(chan error, 1)
	go func() { healthErr <- health.Start(ctx) }()

	// Without a provider every regeneration would be local again, so the
	// worker stays up for probes but schedules nothing.
	if !sumSvc.ExternalEnabled() {
		logger.Warn("no external summary provider configured, backfill disabled")
		health.SetReady(true)
		select {
		case <-ctx.Done():
			return <-healthErr
		case err := <-healthErr:
			return err
		}
	}

	runner := workerPkg.NewRunner(postSvc, cfg, metrics, logger)
	c, err := runner.Schedule(ctx)
	if err != nil {
		return err
	}
	c.Start()
	health.SetReady(true)
	logger.Info("backfill scheduled",
		slog.String("provider", sumSvc.ProviderName()),
		slog.String("schedule", cfg.Schedule))

	if cfg.RunOnStart {
		// RunOnce logs its own outcome.
		go func() { _, _ = runner.RunOnce(ctx) }()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-healthErr:
	}

	logger.Info("shutting down worker...")
	health.SetReady(false)
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(cfg.JobTimeout):
		logger.Warn("running backfill did not finish before shutdown")
	}
	logger.Info("worker stopped")
	return runErr
}
