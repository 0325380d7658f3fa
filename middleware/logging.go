package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/logger"
)

// LoggingConfig configures the access logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip SkipFunc

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for request logging (default: slog.LevelInfo)
	LogLevel slog.Level

	// SlowRequestThreshold logs slow requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration

	// Component name for structured logging (default: "http")
	Component string

	// Clock measures request duration (default: wall clock)
	Clock clock.Clock
}

// Logging creates an access logging middleware with default configuration.
func Logging() handler.Middleware {
	return LoggingWithConfig(LoggingConfig{})
}

// LoggingWithLogger creates an access logging middleware with a custom logger.
func LoggingWithLogger(log *slog.Logger) handler.Middleware {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

// LoggingWithConfig creates an access logging middleware with custom configuration.
// It writes one record per request once the response is known, at error
// level for 5xx, warning level for 4xx or slow requests.
func LoggingWithConfig(cfg LoggingConfig) handler.Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	return handler.MiddlewareFunc(func(req *handler.Request, next handler.Handler) (*handler.Response, error) {
		if cfg.Skip.skip(req) {
			return next.Handle(req)
		}

		start := cfg.Clock.Now()
		resp, err := next.Handle(req)
		elapsed := cfg.Clock.Since(start)
		status := statusFor(resp, err)

		level := cfg.LogLevel
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400, elapsed >= cfg.SlowRequestThreshold:
			level = max(level, slog.LevelWarn)
		}

		id, _ := GetRequestID(req)
		if id == "" {
			id = req.Header.Get(DefaultRequestIDHeader)
		}
		msg := fmt.Sprintf("%s %s -> %d in %.3fms", req.Method, req.Path(), status,
			float64(elapsed.Microseconds())/1000)

		cfg.Logger.LogAttrs(req.Context(), level, msg,
			logger.Component(cfg.Component),
			logger.Event("request"),
			logger.Method(req.Method),
			logger.Path(req.Path()),
			logger.StatusCode(status),
			logger.LatencyMS(elapsed),
			logger.RemoteAddr(req.RemoteAddr),
			logger.RequestID(id),
			logger.Error(err),
		)

		return resp, err
	})
}
