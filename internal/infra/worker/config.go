// Package worker holds the runtime pieces of the summary backfill worker:
// fail-open configuration, the cron scheduler, its metrics, and the
// health/metrics HTTP server.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"blog-summary/internal/pkg/config"
	envconfig "blog-summary/pkg/config"
)

// Config controls the backfill worker.
type Config struct {
	// Schedule is the cron expression for backfill runs.
	// Default: "*/30 * * * *"
	Schedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	// Default: "UTC"
	Timezone string

	// Batch is the maximum number of posts loaded per run. Range: 1-500
	// Default: 20
	Batch int

	// Parallelism is the number of concurrent summarizer calls. Range: 1-32
	// Default: 4
	Parallelism int

	// JobTimeout bounds one run. Range: 1m-2h
	// Default: 10m
	JobTimeout time.Duration

	// HealthPort serves /health, /health/ready and /metrics. Range: 1024-65535
	// Default: 9091
	HealthPort int

	// RunOnStart triggers one run immediately after startup.
	// Default: false
	RunOnStart bool
}

// DefaultConfig returns the worker defaults.
func DefaultConfig() Config {
	return Config{
		Schedule:    "*/30 * * * *",
		Timezone:    "UTC",
		Batch:       20,
		Parallelism: 4,
		JobTimeout:  10 * time.Minute,
		HealthPort:  9091,
	}
}

func validBatch(v int) error       { return config.ValidateIntRange(v, 1, 500) }
func validParallelism(v int) error { return config.ValidateIntRange(v, 1, 32) }
func validPort(v int) error        { return config.ValidateIntRange(v, 1024, 65535) }
func validTimeout(d time.Duration) error {
	return envconfig.ValidateDurationRange(d, time.Minute, 2*time.Hour)
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := validBatch(c.Batch); err != nil {
		errs = append(errs, fmt.Errorf("batch: %w", err))
	}
	if err := validParallelism(c.Parallelism); err != nil {
		errs = append(errs, fmt.Errorf("parallelism: %w", err))
	}
	if err := validTimeout(c.JobTimeout); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if err := validPort(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	return errors.Join(errs...)
}

// Location returns the schedule's time zone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv reads the worker settings. It never fails: each invalid
// value is logged, counted in m and replaced by its default.
//
// Environment variables:
//   - SUMMARY_BACKFILL_SCHEDULE
//   - WORKER_TIMEZONE
//   - SUMMARY_BACKFILL_BATCH
//   - SUMMARY_BACKFILL_PARALLELISM
//   - SUMMARY_BACKFILL_TIMEOUT
//   - WORKER_HEALTH_PORT
//   - SUMMARY_BACKFILL_RUN_ON_START
func LoadConfigFromEnv(logger *slog.Logger, m *config.Metrics) Config {
	cfg := DefaultConfig()
	fallback := false

	note := func(field, warning string, applied bool) {
		if !applied {
			return
		}
		fallback = true
		m.RecordValidationError(field)
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	s := config.LoadString("SUMMARY_BACKFILL_SCHEDULE", cfg.Schedule, config.ValidateCronSchedule)
	cfg.Schedule = s.Value
	note("schedule", s.Warning, s.FallbackApplied)

	tz := config.LoadString("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	note("timezone", tz.Warning, tz.FallbackApplied)

	b := config.LoadInt("SUMMARY_BACKFILL_BATCH", cfg.Batch, validBatch)
	cfg.Batch = b.Value
	note("batch", b.Warning, b.FallbackApplied)

	p := config.LoadInt("SUMMARY_BACKFILL_PARALLELISM", cfg.Parallelism, validParallelism)
	cfg.Parallelism = p.Value
	note("parallelism", p.Warning, p.FallbackApplied)

	jt := config.LoadDuration("SUMMARY_BACKFILL_TIMEOUT", cfg.JobTimeout, validTimeout)
	cfg.JobTimeout = jt.Value
	note("job_timeout", jt.Warning, jt.FallbackApplied)

	hp := config.LoadInt("WORKER_HEALTH_PORT", cfg.HealthPort, validPort)
	cfg.HealthPort = hp.Value
	note("health_port", hp.Warning, hp.FallbackApplied)

	ros := config.LoadBool("SUMMARY_BACKFILL_RUN_ON_START", cfg.RunOnStart)
	cfg.RunOnStart = ros.Value
	note("run_on_start", ros.Warning, ros.FallbackApplied)

	m.RecordLoad(fallback)
	return cfg
}
