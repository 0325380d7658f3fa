package router

import "errors"

var (
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrInvalidPattern   = errors.New("invalid route path pattern")
	ErrInvalidRegexp    = errors.New("invalid route path pattern regexp")
	ErrWildcardPosition = errors.New("wildcard position must be last")
	ErrDuplicateParam   = errors.New("duplicate parameter name")
	ErrRouteConflict    = errors.New("route conflicts with an existing route")
	ErrNilHandler       = errors.New("nil handler")
	ErrFrozen           = errors.New("router is frozen")
)
