package webcore

import (
	"log/slog"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/pkg/requestid"
)

// Option configures an App during creation.
type Option func(*App)

// WithMiddleware registers middlewares at creation time, in order.
func WithMiddleware(middlewares ...handler.Middleware) Option {
	return func(a *App) {
		for _, mw := range middlewares {
			if mw != nil {
				a.middlewares = append(a.middlewares, mw)
			}
		}
	}
}

// WithNotFoundHandler replaces the handler used when no route matches.
// It runs without middlewares.
func WithNotFoundHandler(h handler.Handler) Option {
	return func(a *App) {
		if h != nil {
			a.notFound = h
		}
	}
}

// WithRequestIDGenerator sets the generator used for new request identifiers.
func WithRequestIDGenerator(g requestid.Generator) Option {
	return func(a *App) {
		if g != nil {
			a.ids = g
		}
	}
}

// WithRequestIDHeader sets the header name carrying the request identifier.
func WithRequestIDHeader(name string) Option {
	return func(a *App) {
		if name != "" {
			a.idHeader = name
		}
	}
}

// WithoutRequestID disables the default request id middleware.
// Responses still carry the request id header.
func WithoutRequestID() Option {
	return func(a *App) {
		a.requestIDMiddleware = false
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithConfig applies settings from cfg.
func WithConfig(cfg Config) Option {
	return func(a *App) {
		WithRequestIDHeader(cfg.RequestIDHeader)(a)
		if cfg.DisableRequestID {
			a.requestIDMiddleware = false
		}
	}
}
