package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	envconfig "blog-summary/pkg/config"
)

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// AllowedOrigins is a whitelist of permitted origins. "*" allows any
	// origin and disables credentials.
	AllowedOrigins []string

	// AllowedMethods for preflight responses.
	// Default: GET, POST, PUT, DELETE, OPTIONS
	AllowedMethods []string

	// AllowedHeaders for preflight responses.
	// Default: Content-Type, Authorization, X-Request-ID
	AllowedHeaders []string

	// MaxAge is how long browsers may cache preflight results, in seconds.
	// Default: 86400
	MaxAge int
}

// Enabled reports whether any origin is configured.
func (c CORSConfig) Enabled() bool { return len(c.AllowedOrigins) > 0 }

func (c CORSConfig) wildcard() bool { return slices.Contains(c.AllowedOrigins, "*") }

// LoadCORSConfig reads CORS_ALLOWED_ORIGINS, CORS_ALLOWED_METHODS,
// CORS_ALLOWED_HEADERS and CORS_MAX_AGE. An empty origin list disables CORS.
func LoadCORSConfig() (CORSConfig, error) {
	cfg := CORSConfig{
		AllowedMethods: splitList(envconfig.GetEnvString("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS")),
		AllowedHeaders: splitList(envconfig.GetEnvString("CORS_ALLOWED_HEADERS", "Content-Type,Authorization,X-Request-ID")),
		MaxAge:         envconfig.GetEnvInt("CORS_MAX_AGE", 86400),
	}
	if cfg.MaxAge < 0 {
		return CORSConfig{}, fmt.Errorf("CORS_MAX_AGE must be non-negative, got: %d", cfg.MaxAge)
	}

	for _, origin := range splitList(envconfig.GetEnvString("CORS_ALLOWED_ORIGINS", "")) {
		if err := validateOrigin(origin); err != nil {
			return CORSConfig{}, err
		}
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
	}
	for i, m := range cfg.AllowedMethods {
		cfg.AllowedMethods[i] = strings.ToUpper(m)
	}
	return cfg, nil
}

func validateOrigin(origin string) error {
	if origin == "*" {
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin URL '%s': %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("origin must use http or https scheme: %s", origin)
	}
	if u.Host == "" || (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" || strings.HasSuffix(origin, "/") {
		return fmt.Errorf("origin must be scheme://host[:port]: %s", origin)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// CORS returns middleware that answers preflight requests and sets CORS
// headers for allowed origins. Disallowed origins get no CORS headers, so the
// browser blocks the response.
func CORS(config CORSConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	methods := strings.Join(config.AllowedMethods, ", ")
	headers := strings.Join(config.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)
	wildcard := config.wildcard()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")
			if !wildcard && !slices.Contains(config.AllowedOrigins, origin) {
				logger.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method))
				next.ServeHTTP(w, r)
				return
			}

			if wildcard {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
