package middleware

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"blog-summary/internal/handler/http/respond"
)

var rateLimitRejections = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_rate_limit_rejections_total",
		Help: "Requests rejected by a rate limiter",
	},
	[]string{"limiter"},
)

var errRateLimited = errors.New("too many requests, please try again later")

// RateLimiterConfig configures a per-client token bucket.
type RateLimiterConfig struct {
	// Name labels metrics and logs, e.g. "login".
	Name string

	// Rate is the sustained rate per client.
	Rate rate.Limit

	// Burst is the bucket size.
	Burst int

	// IdleTTL drops buckets unused for this long. Default: 10m
	IdleTTL time.Duration
}

// PerMinute converts a requests-per-minute figure into a rate.Limit.
// Non-positive n means unlimited.
func PerMinute(n int) rate.Limit {
	if n <= 0 {
		return rate.Inf
	}
	return rate.Every(time.Minute / time.Duration(n))
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP.
type RateLimiter struct {
	cfg       RateLimiterConfig
	extractor IPExtractor
	logger    *slog.Logger
	now       func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

// NewRateLimiter builds a limiter keyed by extractor's client IP.
func NewRateLimiter(cfg RateLimiterConfig, extractor IPExtractor, logger *slog.Logger) *RateLimiter {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{
		cfg:       cfg,
		extractor: extractor,
		logger:    logger,
		now:       time.Now,
		visitors:  make(map[string]*visitor),
	}
}

// Allow reports whether key may proceed, and if not, how long to wait.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	l.sweep(now)
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.cfg.Rate, l.cfg.Burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// sweep drops idle visitors at most once per IdleTTL. Callers hold l.mu.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.cfg.IdleTTL {
		return
	}
	l.lastSweep = now
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) >= l.cfg.IdleTTL {
			delete(l.visitors, key)
		}
	}
}

// Len returns the number of tracked clients.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Middleware rejects over-limit clients with 429 and a Retry-After header.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := l.extractor.ExtractIP(r)
		if err != nil {
			// unknown clients share one bucket
			ip = "unknown"
		}

		ok, wait := l.Allow(ip)
		if !ok {
			rateLimitRejections.WithLabelValues(l.cfg.Name).Inc()
			l.logger.Warn("rate limit exceeded",
				slog.String("limiter", l.cfg.Name),
				slog.String("client_ip", ip),
				slog.String("path", r.URL.Path))
			if wait > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			}
			respond.JSON(w, http.StatusTooManyRequests, map[string]string{"error": errRateLimited.Error()})
			return
		}
		next.ServeHTTP(w, r)
	})
}
