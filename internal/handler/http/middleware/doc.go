// Package middleware holds the HTTP middleware that needs its own
// configuration: client IP resolution behind proxies, per-IP rate limiting,
// CORS and security response headers.
package middleware
