package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"blog-summary/internal/common/pagination"
	"blog-summary/internal/config"
	hhttp "blog-summary/internal/handler/http"
	hauth "blog-summary/internal/handler/http/auth"
	"blog-summary/internal/handler/http/middleware"
	"blog-summary/internal/handler/http/pathutil"
	hpost "blog-summary/internal/handler/http/post"
	"blog-summary/internal/handler/http/requestid"
	hsummary "blog-summary/internal/handler/http/summary"
	huser "blog-summary/internal/handler/http/user"
	pgRepo "blog-summary/internal/infra/adapter/persistence/postgres"
	sqliteRepo "blog-summary/internal/infra/adapter/persistence/sqlite"
	"blog-summary/internal/infra/db"
	"blog-summary/internal/observability/tracing"
	"blog-summary/internal/repository"
	authsvc "blog-summary/internal/service/auth"
	postUC "blog-summary/internal/usecase/post"
	"blog-summary/internal/usecase/summary"
	userUC "blog-summary/internal/usecase/user"
	envconfig "blog-summary/pkg/config"
)

const maxRequestBody = 1 << 20

type app struct {
	logger     *slog.Logger
	db         *sql.DB
	driver     string
	auth       *config.AuthConfig
	summarizer *summary.Service
	version    string
}

func repositories(database *sql.DB, driver string) (repository.UserRepository, repository.PostRepository) {
	if driver == db.DriverSQLite {
		return sqliteRepo.NewUserRepo(database), sqliteRepo.NewPostRepo(database)
	}
	return pgRepo.NewUserRepo(database), pgRepo.NewPostRepo(database)
}

// buildHandler wires every route and wraps the mux in the middleware chain.
func buildHandler(a app) (http.Handler, error) {
	users, posts := repositories(a.db, a.driver)

	tokens := authsvc.NewTokenService(a.auth.JWTSecret, a.auth.TokenTTL)
	userSvc := &userUC.Service{
		Repo:   users,
		Hasher: authsvc.NewPasswordHasher(a.auth.BcryptCost),
		Tokens: tokens,
	}
	postSvc := &postUC.Service{Repo: posts, Summarizer: a.summarizer}
	authn := hauth.NewAuthenticator(tokens)

	proxyCfg, err := middleware.LoadTrustedProxyConfig()
	if err != nil {
		return nil, fmt.Errorf("trusted proxy config: %w", err)
	}
	extractor := middleware.NewTrustedProxyExtractor(proxyCfg, a.logger)

	var loginLimiter *middleware.RateLimiter
	if rl := a.auth.LoginRateLimit; rl.Enabled {
		loginLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Name:    "login",
			Rate:    middleware.PerMinute(rl.PerMinute),
			Burst:   rl.Burst,
			IdleTTL: 10 * time.Minute,
		}, extractor, a.logger)
		a.logger.Info("login rate limiting enabled",
			slog.Int("per_minute", rl.PerMinute),
			slog.Int("burst", rl.Burst),
			slog.Bool("trusted_proxy", proxyCfg.Enabled))
	}

	corsCfg, err := middleware.LoadCORSConfig()
	if err != nil {
		return nil, fmt.Errorf("cors config: %w", err)
	}

	paginationCfg := pagination.LoadFromEnv()

	mux := http.NewServeMux()
	mux.Handle("GET    /health", &hhttp.HealthHandler{DB: a.db, Summarizer: a.summarizer, Version: a.version})
	mux.Handle("GET    /ready", &hhttp.ReadyHandler{DB: a.db})
	mux.Handle("GET    /live", &hhttp.LiveHandler{})
	mux.Handle("GET    /metrics", hhttp.MetricsHandler())

	hauth.Register(mux, userSvc, authn, loginLimiter, hauth.CookieConfig{Secure: a.auth.SecureCookie})
	hpost.Register(mux, postSvc, authn, paginationCfg)
	huser.Register(mux, userSvc, authn, paginationCfg)
	hsummary.Register(mux, a.summarizer, authn)

	return hhttp.Chain(mux,
		hhttp.Recover(a.logger),
		requestid.Middleware,
		hhttp.Logging(a.logger),
		tracing.Middleware(pathutil.NormalizePath),
		hhttp.MetricsMiddleware,
		middleware.SecurityHeaders(envconfig.GetEnvBool("HSTS_ENABLED", false)),
		middleware.CORS(corsCfg, a.logger),
		hhttp.LimitRequestBody(maxRequestBody),
	), nil
}
