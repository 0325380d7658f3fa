package middleware

import (
	"net/http"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/logger"
	"github.com/dmitrymomot/webcore/core/store"
	"github.com/dmitrymomot/webcore/pkg/requestid"
)

// DefaultRequestIDHeader is the header carrying the request identifier.
const DefaultRequestIDHeader = "X-Request-Id"

// RequestIDValue is the request identifier as stored in the request-scoped store.
type RequestIDValue string

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip SkipFunc
	// Generator creates new identifiers (default: the process-wide requestid counter)
	Generator requestid.Generator
	// HeaderName specifies the header to read and write (default: "X-Request-Id")
	HeaderName string
}

// RequestID creates a request ID middleware with default configuration.
func RequestID() handler.Middleware {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig creates a request ID middleware with custom configuration.
//
// An incoming non-empty header is kept, otherwise a new identifier is
// generated. The identifier is written back into the request headers, the
// request context and the request-scoped store, and set on the response
// unless a downstream stage already set one. Downstream errors pass through
// unchanged.
func RequestIDWithConfig(cfg RequestIDConfig) handler.Middleware {
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultRequestIDHeader
	}
	if cfg.Generator == nil {
		cfg.Generator = requestid.Func(requestid.Next)
	}

	return handler.MiddlewareFunc(func(req *handler.Request, next handler.Handler) (*handler.Response, error) {
		if cfg.Skip.skip(req) {
			return next.Handle(req)
		}

		if req.Header == nil {
			req.Header = make(http.Header)
		}
		id := req.Header.Get(cfg.HeaderName)
		if id == "" {
			id = cfg.Generator.Next()
			req.Header.Set(cfg.HeaderName, id)
		}

		store.Set(req.Locals(), RequestIDValue(id))
		req = req.WithContext(logger.WithRequestID(req.Context(), id))

		resp, err := next.Handle(req)
		if resp != nil && resp.Header.Get(cfg.HeaderName) == "" {
			resp.WithHeader(cfg.HeaderName, id)
		}
		return resp, err
	})
}

// GetRequestID returns the identifier assigned to req, if any.
func GetRequestID(req *handler.Request) (string, bool) {
	if v, ok := store.Get[RequestIDValue](req.Locals()); ok {
		return string(v), true
	}
	if id := logger.RequestIDFromContext(req.Context()); id != "" {
		return id, true
	}
	return "", false
}
