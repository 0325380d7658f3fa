package middleware

import (
	"net/http"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/response"
)

// SkipFunc reports whether a middleware should pass req straight through.
type SkipFunc func(req *handler.Request) bool

func (s SkipFunc) skip(req *handler.Request) bool {
	return s != nil && s(req)
}

// statusFor returns the status the client will eventually see for the
// outcome of a downstream call.
func statusFor(resp *handler.Response, err error) int {
	if err != nil {
		return response.StatusOf(err)
	}
	if resp == nil {
		return http.StatusInternalServerError
	}
	return resp.Status
}

// Defaults returns the standard stack in registration order: compression
// innermost, then limits, recovery, and tracing outermost.
func Defaults() []handler.Middleware {
	return []handler.Middleware{
		Compression(),
		Limits(),
		Recovery(),
		Tracing(),
	}
}
