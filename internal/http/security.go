package http

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	applog "fluxo/internal/log"
)

// trustedProxies are the networks allowed to set forwarding headers.
var trustedProxies = mustParseCIDRs(
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	networks := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("parse trusted proxy CIDR %s: %v", cidr, err))
		}
		networks = append(networks, network)
	}
	return networks
}

func fromTrustedProxy(ip net.IP) bool {
	for _, network := range trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// clientIP returns the real client address. X-Forwarded-For and
// X-Real-IP are honored only when the direct peer is a trusted proxy;
// anyone else could forge them.
func clientIP(r *http.Request) string {
	direct, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		direct = r.RemoteAddr
	}

	parsed := net.ParseIP(direct)
	if parsed == nil || !fromTrustedProxy(parsed) {
		return direct
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}
	return direct
}

// securityHeaders sets response headers for a JSON-only API: nothing
// here is ever a document, so framing and content sniffing are denied
// outright.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// rateLimit rejects mutating requests once a client exceeds its window.
// Reads stay unthrottled.
func rateLimit(limiter *rateLimiter, logger *applog.Logger) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(limiter.window.Seconds()))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				ip := clientIP(r)
				if !limiter.allow(ip) {
					logger.Warn("Rate limit exceeded",
						"client_ip", ip,
						"method", r.Method,
						"path", r.URL.Path)
					w.Header().Set("Retry-After", retryAfter)
					writeJSON(w, http.StatusTooManyRequests, errorBody("rate limit exceeded, try again later"))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
