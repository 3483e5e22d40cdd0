package logger

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextKey represents keys used in context for logging
type ContextKey string

// RequestIDKey is the key for request ID in context
const RequestIDKey ContextKey = "request_id"

// Config represents logger configuration
type Config struct {
	Level       string
	Environment string
	OutputPaths []string
}

var (
	globalLogger *zap.Logger
	mu           sync.Mutex
)

// Initialize sets up the global logger
func Initialize(config *Config) error {
	var zapConfig zap.Config
	if config.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
		zapConfig.DisableStacktrace = true
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level = level

	if len(config.OutputPaths) > 0 {
		zapConfig.OutputPaths = config.OutputPaths
	}

	zapConfig.InitialFields = map[string]interface{}{
		"service": "restaking-dashboard",
	}

	l, err := zapConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	mu.Lock()
	globalLogger = l
	mu.Unlock()
	return nil
}

// GetLogger returns the global logger instance.
// A no-op logger is returned until Initialize is called, so packages can log in tests.
func GetLogger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// WithContext returns the global logger annotated with the request id from ctx
func WithContext(ctx context.Context) *zap.Logger {
	l := GetLogger()
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		return l.With(zap.String("request_id", id))
	}
	return l
}

// Sync flushes any buffered log entries
func Sync() error {
	return GetLogger().Sync()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack is required by the websocket upgrader
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Middleware tags each request with an id and logs its completion
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := uuid.New().String()
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status_code", rec.status),
			zap.Duration("duration", time.Since(start)),
		}

		l := WithContext(ctx)
		switch {
		case rec.status >= 500:
			l.Error("Request completed", fields...)
		case rec.status >= 400:
			l.Warn("Request completed", fields...)
		default:
			l.Info("Request completed", fields...)
		}
	})
}
