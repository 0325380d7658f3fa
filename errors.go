package webcore

import "errors"

var (
	// ErrNilResponse is reported when a handler returns neither a response nor an error.
	ErrNilResponse = errors.New("webcore: handler returned nil response")
	// ErrNilMiddleware is reported by Use for nil middlewares.
	ErrNilMiddleware = errors.New("webcore: nil middleware")
	// ErrBuilt is reported when the app is modified after Build.
	ErrBuilt = errors.New("webcore: app already built")
)
