// Package http exposes the sales import and revenue metrics API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/huyhoang1996vn/zinc-assignment/internal/core"
	applog "github.com/huyhoang1996vn/zinc-assignment/internal/log"
)

// Ports the handlers need from the rest of the service.
type (
	// SaleImporter runs the file import pipeline and returns the table's
	// total row count after the insert.
	SaleImporter interface {
		ImportFile(ctx context.Context, filename string, data []byte) (int64, error)
	}

	// MetricsReader executes the two read-only aggregate queries.
	MetricsReader interface {
		RevenueSummary(ctx context.Context, dr core.DateRange) (core.RevenueSummary, error)
		RevenueByDay(ctx context.Context, dr core.DateRange) ([]core.DailyRevenue, error)
	}

	// HealthChecker probes data store connectivity.
	HealthChecker interface {
		Ping(ctx context.Context) error
	}
)

// Options tunes server behavior beyond its collaborators.
type Options struct {
	MaxUploadBytes int64
	Logger         *applog.Logger
}

type Server struct {
	http.Server

	importer SaleImporter
	metrics  MetricsReader
	health   HealthChecker

	maxUploadBytes int64
	logger         *applog.Logger
	rateLimiter    *rateLimiter
	shutdownOnce   sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, imp SaleImporter, metrics MetricsReader, health HealthChecker, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: applog.Middleware(opts.Logger)(mux),
		},
		importer:       imp,
		metrics:        metrics,
		health:         health,
		maxUploadBytes: opts.MaxUploadBytes,
		logger:         opts.Logger,
		rateLimiter:    newRateLimiter(),
	}

	// Trailing-slash and bare paths are aliases for the same handler.
	mux.HandleFunc("/api/import-sales/", s.withRequestLog(s.handleImportSales))
	mux.HandleFunc("/api/import-sales", s.withRequestLog(s.handleImportSales))
	mux.HandleFunc("/api/metrics/revenue/daily", s.withRequestLog(s.handleRevenueDaily))
	mux.HandleFunc("/api/metrics/revenue/daily/", s.withRequestLog(s.handleRevenueDaily))
	mux.HandleFunc("/api/metrics/revenue/", s.withRequestLog(s.handleRevenue))
	mux.HandleFunc("/api/metrics/revenue", s.withRequestLog(s.handleRevenue))
	mux.HandleFunc("/api/health/", s.withRequestLog(s.handleHealth))
	mux.HandleFunc("/api/health", s.withRequestLog(s.handleHealth))

	return s
}

// Shutdown drains in-flight requests and stops the rate limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withRequestLog adds request IDs, start/completion logs, rate limiting for
// uploads, and standard security headers.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		logger := applog.FromContext(r.Context()).With(applog.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), applog.LoggerContextKey, logger)
		r = r.WithContext(ctx)

		startFields := applog.NewFields().
			WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery).
			WithClientIP(clientIP)
		logger.InfoContext(ctx, "Request started", startFields.ToSlice()...)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(ctx, "Rate limit exceeded", applog.FieldClientIP, clientIP)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorDetail{Detail: "rate limit exceeded"})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		endFields := applog.NewFields().
			WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery).
			WithHTTPResponse(rw.statusCode, time.Since(start).Milliseconds()).
			WithClientIP(clientIP)
		logger.InfoContext(ctx, "Request completed", endFields.ToSlice()...)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
