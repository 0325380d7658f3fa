package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/logger"
	"github.com/dmitrymomot/webcore/core/response"
)

// RecoveryConfig configures the panic recovery middleware.
type RecoveryConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip SkipFunc
	// Logger receives one error record per recovered panic (default: slog.Default())
	Logger *slog.Logger
	// DisableStack omits the stack trace from the log record
	DisableStack bool
}

// Recovery creates a panic recovery middleware with default configuration.
func Recovery() handler.Middleware {
	return RecoveryWithConfig(RecoveryConfig{})
}

// RecoveryWithConfig creates a panic recovery middleware with custom configuration.
//
// A panic anywhere downstream is logged and converted into a
// *response.PanicError, which renders as a generic 500. Errors returned
// normally pass through untouched. http.ErrAbortHandler is re-raised so
// deliberate aborts still reach the server.
func RecoveryWithConfig(cfg RecoveryConfig) handler.Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return handler.MiddlewareFunc(func(req *handler.Request, next handler.Handler) (resp *handler.Response, err error) {
		if cfg.Skip.skip(req) {
			return next.Handle(req)
		}

		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			stack := debug.Stack()
			attrs := []slog.Attr{
				logger.Component("recovery"),
				logger.Panic(v),
				logger.Method(req.Method),
				logger.Path(req.Path()),
			}
			if !cfg.DisableStack {
				attrs = append(attrs, logger.Stack(stack))
			}
			cfg.Logger.LogAttrs(req.Context(), slog.LevelError, "panic recovered", attrs...)

			resp, err = nil, response.NewPanicError(v, stack)
		}()

		return next.Handle(req)
	})
}
