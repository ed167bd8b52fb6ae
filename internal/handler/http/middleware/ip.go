package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"

	envconfig "blog-summary/pkg/config"
)

// IPExtractor resolves the client IP of a request.
type IPExtractor interface {
	ExtractIP(r *http.Request) (string, error)
}

// TrustedProxyConfig lists the proxies whose forwarding headers are believed.
type TrustedProxyConfig struct {
	// Enabled turns on X-Forwarded-For and X-Real-IP handling.
	Enabled bool

	// AllowedCIDRs are the trusted proxy networks.
	AllowedCIDRs []netip.Prefix
}

// IsTrusted reports whether addr (host or host:port) is a trusted proxy.
func (c TrustedProxyConfig) IsTrusted(addr string) bool {
	ip, err := parseAddr(addr)
	if err != nil {
		return false
	}
	for _, prefix := range c.AllowedCIDRs {
		if prefix.Contains(ip) {
			return true
		}
	}
	return false
}

// LoadTrustedProxyConfig reads TRUST_PROXY and TRUSTED_PROXIES
// (comma-separated IPs or CIDRs).
func LoadTrustedProxyConfig() (TrustedProxyConfig, error) {
	cfg := TrustedProxyConfig{Enabled: envconfig.GetEnvBool("TRUST_PROXY", false)}
	if !cfg.Enabled {
		return cfg, nil
	}

	prefixes, err := ParsePrefixes(envconfig.GetEnvString("TRUSTED_PROXIES", ""))
	if err != nil {
		return TrustedProxyConfig{}, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	if len(prefixes) == 0 {
		return TrustedProxyConfig{}, fmt.Errorf("TRUST_PROXY is enabled but TRUSTED_PROXIES is empty")
	}
	cfg.AllowedCIDRs = prefixes
	return cfg, nil
}

// ParsePrefixes parses a comma-separated list of IPs and CIDRs. Bare IPs
// become single-address prefixes.
func ParsePrefixes(s string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(part); err == nil {
			out = append(out, prefix.Masked())
			continue
		}
		ip, err := netip.ParseAddr(part)
		if err != nil {
			return nil, fmt.Errorf("invalid IP or CIDR %q", part)
		}
		out = append(out, netip.PrefixFrom(ip, ip.BitLen()))
	}
	return out, nil
}

// TrustedProxyExtractor uses RemoteAddr unless the peer is a trusted proxy,
// in which case it walks X-Forwarded-For from the right and returns the
// first hop that is not itself a trusted proxy.
type TrustedProxyExtractor struct {
	config TrustedProxyConfig
	logger *slog.Logger
}

// NewTrustedProxyExtractor builds an extractor. A nil logger uses slog.Default().
func NewTrustedProxyExtractor(config TrustedProxyConfig, logger *slog.Logger) *TrustedProxyExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrustedProxyExtractor{config: config, logger: logger}
}

// ExtractIP implements IPExtractor.
func (e *TrustedProxyExtractor) ExtractIP(r *http.Request) (string, error) {
	remote, err := parseAddr(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	if !e.config.Enabled {
		return remote.String(), nil
	}

	if !e.config.IsTrusted(r.RemoteAddr) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			e.logger.Warn("ignoring X-Forwarded-For from untrusted peer",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("x_forwarded_for", xff))
		}
		return remote.String(), nil
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			if !e.config.IsTrusted(hop.String()) {
				return hop.String(), nil
			}
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if ip, err := netip.ParseAddr(xri); err == nil {
			return ip.String(), nil
		}
	}
	return remote.String(), nil
}

func parseAddr(addr string) (netip.Addr, error) {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("invalid address format: %s", addr)
	}
	return ip.Unmap(), nil
}
