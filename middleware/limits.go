package middleware

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/response"
)

// Common size constants for convenience.
const (
	KB int64 = 1024
	MB       = 1024 * KB
)

// LimitsConfig bounds request shape and handler run time.
// Zero fields take the defaults; a negative value disables that check.
type LimitsConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip SkipFunc `env:"-"`

	RequestTimeout time.Duration `env:"LIMITS_REQUEST_TIMEOUT" envDefault:"30s"`
	MaxBodySize    int64         `env:"LIMITS_MAX_BODY_SIZE" envDefault:"1048576"`
	MaxPathLength  int           `env:"LIMITS_MAX_PATH_LENGTH" envDefault:"2048"`
	MaxHeaders     int           `env:"LIMITS_MAX_HEADERS" envDefault:"100"`
	MaxHeaderSize  int           `env:"LIMITS_MAX_HEADER_SIZE" envDefault:"8192"`
}

// DefaultLimitsConfig returns a 30s timeout, a 1 MiB body, 2048-character
// paths, 100 header values and 8 KiB per header.
func DefaultLimitsConfig() LimitsConfig {
	return LimitsConfig{
		RequestTimeout: 30 * time.Second,
		MaxBodySize:    MB,
		MaxPathLength:  2048,
		MaxHeaders:     100,
		MaxHeaderSize:  8 * int(KB),
	}
}

// Limits creates a limits middleware with default configuration.
func Limits() handler.Middleware {
	return LimitsWithConfig(DefaultLimitsConfig())
}

// LimitsWithConfig creates a limits middleware with custom configuration.
//
// Checks run in order: path length in characters (414), number of header
// values (431), size of each header name plus value (431), body size (413).
// A failed check returns a response.HTTPError without calling downstream.
//
// Downstream then runs in its own goroutine under a context deadline. If the
// deadline passes first a 408 error is returned and the downstream result,
// whenever it arrives, is discarded. Cancellation is cooperative: handlers
// that watch req.Context() stop early, others run to completion unobserved.
func LimitsWithConfig(cfg LimitsConfig) handler.Middleware {
	def := DefaultLimitsConfig()
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = def.MaxBodySize
	}
	if cfg.MaxPathLength == 0 {
		cfg.MaxPathLength = def.MaxPathLength
	}
	if cfg.MaxHeaders == 0 {
		cfg.MaxHeaders = def.MaxHeaders
	}
	if cfg.MaxHeaderSize == 0 {
		cfg.MaxHeaderSize = def.MaxHeaderSize
	}

	return handler.MiddlewareFunc(func(req *handler.Request, next handler.Handler) (*handler.Response, error) {
		if cfg.Skip.skip(req) {
			return next.Handle(req)
		}
		if err := checkLimits(cfg, req); err != nil {
			return nil, err
		}
		if cfg.RequestTimeout < 0 {
			return next.Handle(req)
		}
		return runWithTimeout(req, next, cfg.RequestTimeout)
	})
}

func checkLimits(cfg LimitsConfig, req *handler.Request) error {
	if cfg.MaxPathLength > 0 {
		if n := utf8.RuneCountInString(req.DecodedPath()); n > cfg.MaxPathLength {
			return response.ErrRequestURITooLong.WithDetails(map[string]any{
				"length": n,
				"limit":  cfg.MaxPathLength,
			})
		}
	}

	if cfg.MaxHeaders > 0 {
		count := 0
		for _, values := range req.Header {
			count += len(values)
		}
		if count > cfg.MaxHeaders {
			return response.ErrRequestHeaderFieldsTooLarge.
				WithMessage("Too many request headers").
				WithDetails(map[string]any{"count": count, "limit": cfg.MaxHeaders})
		}
	}

	if cfg.MaxHeaderSize > 0 {
		for name, values := range req.Header {
			for _, v := range values {
				if size := len(name) + len(v); size > cfg.MaxHeaderSize {
					return response.ErrRequestHeaderFieldsTooLarge.
						WithMessage(fmt.Sprintf("Request header %s too large", name)).
						WithDetails(map[string]any{"size": size, "limit": cfg.MaxHeaderSize})
				}
			}
		}
	}

	if cfg.MaxBodySize > 0 {
		if size := int64(len(req.Body)); size > cfg.MaxBodySize {
			return response.ErrRequestEntityTooLarge.
				WithMessage(fmt.Sprintf("Request body too large. Size: %s, Maximum allowed: %s",
					formatBytes(size), formatBytes(cfg.MaxBodySize))).
				WithDetails(map[string]any{"size": size, "limit": cfg.MaxBodySize})
		}
	}

	return nil
}

type outcome struct {
	resp     *handler.Response
	err      error
	panicked bool
	value    any
}

func runWithTimeout(req *handler.Request, next handler.Handler, timeout time.Duration) (*handler.Response, error) {
	ctx, cancel := context.WithTimeout(req.Context(), timeout)
	defer cancel()

	done := make(chan outcome)
	abandoned := make(chan struct{})
	sub := req.WithContext(ctx)

	go func() {
		var out outcome
		func() {
			defer func() {
				if v := recover(); v != nil {
					out = outcome{panicked: true, value: v}
				}
			}()
			out.resp, out.err = next.Handle(sub)
		}()

		select {
		case done <- out:
		case <-abandoned:
			if out.resp != nil {
				_ = out.resp.Close()
			}
		}
	}()

	select {
	case out := <-done:
		if out.panicked {
			// surface the panic on the caller's goroutine so outer
			// recovery sees it
			panic(out.value)
		}
		return out.resp, out.err
	case <-ctx.Done():
		close(abandoned)
		return nil, response.ErrRequestTimeout.WithDetails(map[string]any{
			"timeout": timeout.String(),
		})
	}
}

func formatBytes(n int64) string {
	switch {
	case n >= MB:
		return fmt.Sprintf("%.2f MB", float64(n)/float64(MB))
	case n >= KB:
		return fmt.Sprintf("%.2f KB", float64(n)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
