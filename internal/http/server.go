// Package http exposes the projector over a small JSON/form API. The
// engine itself lives in internal/ledger; these handlers only translate
// requests and map domain errors onto status codes.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	applog "fluxo/internal/log"
	"fluxo/internal/services"
)

// mutationsPerMinute caps POST requests per client IP.
const mutationsPerMinute = 60

// Server wraps http.Server so shutting down also stops the rate
// limiter's sweep goroutine.
type Server struct {
	http.Server
	limiter *rateLimiter
}

// NewServer wires the API routes behind the middleware chain:
// request logging, security headers, per-IP rate limiting.
func NewServer(addr string, svc *services.LedgerService, logger *applog.Logger) *Server {
	h := &handlers{svc: svc}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("GET /api/ledger", h.listLedger)
	mux.HandleFunc("POST /api/projection", h.rebuildProjection)
	mux.HandleFunc("POST /api/transactions", h.applyTransaction)
	mux.HandleFunc("GET /api/fixed-expenses", h.listFixedExpenses)
	mux.HandleFunc("POST /api/fixed-expenses", h.addFixedExpense)

	httpLogger := logger.WithComponent(applog.ComponentHTTP)
	limiter := newRateLimiter(mutationsPerMinute, time.Minute)
	chain := requestLogging(httpLogger)(securityHeaders(rateLimit(limiter, httpLogger)(mux)))

	return &Server{
		Server: http.Server{
			Addr:           addr,
			Handler:        chain,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16,
		},
		limiter: limiter,
	}
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.shutdown()
	return s.Server.Shutdown(ctx)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogging tags every request with an ID and logs method, path,
// client IP, status and duration.
func requestLogging(logger *applog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			logger.Info("request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", clientIP(r),
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds())
		})
	}
}
