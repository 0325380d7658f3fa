package middleware

import (
	"log/slog"
	"net/http"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/logger"
)

// TracerName is the instrumentation scope of spans created by Tracing.
const TracerName = "github.com/dmitrymomot/webcore/middleware"

// TracingConfig configures the tracing middleware.
type TracingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip SkipFunc
	// TracerProvider supplies the tracer (default: otel.GetTracerProvider())
	TracerProvider trace.TracerProvider
	// Logger receives the started/completed records (default: slog.Default())
	Logger *slog.Logger
	// SpanName derives the span name (default: "METHOD path")
	SpanName func(req *handler.Request) string
	// Clock measures request duration (default: wall clock)
	Clock clock.Clock
}

// Tracing creates a tracing middleware with default configuration.
func Tracing() handler.Middleware {
	return TracingWithConfig(TracingConfig{})
}

// TracingWithConfig creates a tracing middleware with custom configuration.
//
// Each request gets one server span carrying the method, path and request
// id. On completion the final status and elapsed milliseconds are recorded
// on the span and in a "request completed" log record. Returned errors and
// 5xx statuses mark the span as failed. Register it last so it wraps the
// whole stack.
func TracingWithConfig(cfg TracingConfig) handler.Middleware {
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SpanName == nil {
		cfg.SpanName = func(req *handler.Request) string {
			return req.Method + " " + req.Path()
		}
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	tracer := cfg.TracerProvider.Tracer(TracerName)

	return handler.MiddlewareFunc(func(req *handler.Request, next handler.Handler) (*handler.Response, error) {
		if cfg.Skip.skip(req) {
			return next.Handle(req)
		}

		start := cfg.Clock.Now()
		id, _ := GetRequestID(req)
		if id == "" {
			id = req.Header.Get(DefaultRequestIDHeader)
		}

		ctx, span := tracer.Start(req.Context(), cfg.SpanName(req),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", req.Method),
				attribute.String("url.path", req.Path()),
				attribute.String("request_id", id),
			),
		)
		defer span.End()
		req = req.WithContext(ctx)

		cfg.Logger.LogAttrs(ctx, slog.LevelInfo, "request started",
			logger.RequestID(id),
			logger.Method(req.Method),
			logger.Path(req.Path()),
		)

		resp, err := next.Handle(req)

		elapsed := cfg.Clock.Since(start)
		status := statusFor(resp, err)
		ms := float64(elapsed.Microseconds()) / 1000

		span.SetAttributes(
			attribute.Int("http.response.status_code", status),
			attribute.Float64("http.server.duration_ms", ms),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		cfg.Logger.LogAttrs(ctx, level, "request completed",
			logger.RequestID(id),
			logger.Method(req.Method),
			logger.Path(req.Path()),
			logger.StatusCode(status),
			logger.LatencyMS(elapsed),
			logger.Error(err),
		)

		return resp, err
	})
}
