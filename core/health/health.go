package health

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/logger"
	"github.com/dmitrymomot/webcore/core/response"
)

// DefaultTimeout bounds a readiness run.
const DefaultTimeout = 5 * time.Second

// Check reports whether a dependency is available.
type Check func(context.Context) error

// Liveness answers "ALIVE" while the process is running.
func Liveness(*handler.Request) (*handler.Response, error) {
	return response.Text("ALIVE"), nil
}

// NoContent answers 204 for checkers that only need a status.
func NoContent(*handler.Request) (*handler.Response, error) {
	return response.NoContent(), nil
}

// Readiness answers "READY" when every check succeeds and 503 otherwise.
// Checks run concurrently and share a DefaultTimeout deadline derived from
// the request context; the first failure cancels the rest.
func Readiness(log *slog.Logger, checks ...Check) handler.HandlerFunc {
	return ReadinessWithTimeout(log, DefaultTimeout, checks...)
}

// ReadinessWithTimeout is Readiness with a custom deadline.
// A non-positive timeout leaves only the request context in charge.
func ReadinessWithTimeout(log *slog.Logger, timeout time.Duration, checks ...Check) handler.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}

	return func(req *handler.Request) (*handler.Response, error) {
		ctx := req.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, check := range checks {
			g.Go(func() error { return check(gctx) })
		}

		if err := g.Wait(); err != nil {
			log.ErrorContext(req.Context(), "readiness check failed",
				logger.Component("health"),
				logger.Error(err),
			)
			return nil, response.ErrServiceUnavailable
		}

		return response.Text("READY"), nil
	}
}
