package handler

// Handler produces a response for a request.
// Returning a non-nil error hands rendering over to the caller,
// which converts it to a response using the error's own status mapping.
type Handler interface {
	Handle(req *Request) (*Response, error)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(req *Request) (*Response, error)

// Handle calls f(req).
func (f HandlerFunc) Handle(req *Request) (*Response, error) {
	return f(req)
}

// Middleware wraps the next stage of the chain with cross-cutting behavior.
// A middleware may short-circuit by returning without calling next, intercept
// errors returned by next, or pass them through unchanged.
type Middleware interface {
	Handle(req *Request, next Handler) (*Response, error)
}

// MiddlewareFunc adapts an ordinary function to the Middleware interface.
type MiddlewareFunc func(req *Request, next Handler) (*Response, error)

// Handle calls f(req, next).
func (f MiddlewareFunc) Handle(req *Request, next Handler) (*Response, error) {
	return f(req, next)
}
