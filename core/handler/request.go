package handler

import (
	"context"
	"maps"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/webcore/core/store"
)

// Request is an inbound HTTP request as seen by handlers and middlewares.
//
// The exported fields may be modified by middlewares before calling the next
// stage. Path params, the app store and the request store are attached by the
// dispatcher and are reachable through accessor methods.
type Request struct {
	Method     string
	URL        *url.URL
	Header     http.Header
	Body       []byte // nil when the request carried no body
	RemoteAddr string

	ctx    context.Context
	params map[string]string
	app    *store.Shared
	locals *store.Local
}

// NewRequest creates a request for method and target.
// Target is a request-URI such as "/users/42?tab=posts".
func NewRequest(method, target string) *Request {
	return NewRequestWithContext(context.Background(), method, target)
}

// NewRequestWithContext creates a request bound to ctx.
func NewRequestWithContext(ctx context.Context, method, target string) *Request {
	u, err := url.ParseRequestURI(target)
	if err != nil {
		u = &url.URL{Path: target}
	}
	return &Request{
		Method: method,
		URL:    u,
		Header: make(http.Header),
		ctx:    ctx,
	}
}

// Context returns the request context. It never returns nil.
func (r *Request) Context() context.Context {
	if r.ctx != nil {
		return r.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of r bound to ctx.
// The copy shares headers, body, params and both stores with r.
func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx == nil {
		panic("handler: nil context")
	}
	r2 := new(Request)
	*r2 = *r
	r2.ctx = ctx
	if r2.locals == nil {
		r.locals = store.NewLocal()
		r2.locals = r.locals
	}
	return r2
}

// Path returns the escaped request path used for routing, so encoded
// slashes stay inside a single segment. Route patterns match this form.
// Path params captured from it are decoded by the dispatcher; use
// DecodedPath for the decoded path itself.
func (r *Request) Path() string {
	if r.URL == nil {
		return "/"
	}
	if path := r.URL.EscapedPath(); path != "" {
		return path
	}
	return "/"
}

// DecodedPath returns the percent-decoded request path.
func (r *Request) DecodedPath() string {
	if r.URL == nil || r.URL.Path == "" {
		return "/"
	}
	return r.URL.Path
}

// Query returns the parsed query string.
func (r *Request) Query() url.Values {
	if r.URL == nil {
		return url.Values{}
	}
	return r.URL.Query()
}

// Param returns the path parameter captured under name, or "" if absent.
func (r *Request) Param(name string) string {
	return r.params[name]
}

// Params returns a copy of all captured path parameters.
func (r *Request) Params() map[string]string {
	out := make(map[string]string, len(r.params))
	maps.Copy(out, r.params)
	return out
}

// SetParams replaces the captured path parameters.
func (r *Request) SetParams(params map[string]string) {
	r.params = params
}

// AppData returns the application-wide store attached by the dispatcher.
// It is nil for requests that never went through an app.
func (r *Request) AppData() *store.Shared {
	return r.app
}

// SetAppData attaches the application-wide store.
func (r *Request) SetAppData(s *store.Shared) {
	r.app = s
}

// Locals returns the request-scoped store, creating it on first use.
func (r *Request) Locals() *store.Local {
	if r.locals == nil {
		r.locals = store.NewLocal()
	}
	return r.locals
}

// HasBody reports whether the request carried a body.
func (r *Request) HasBody() bool {
	return r.Body != nil
}

// WithHeader sets a header value and returns r for chaining.
func (r *Request) WithHeader(key, value string) *Request {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set(key, value)
	return r
}

// WithBody sets the body and returns r for chaining.
func (r *Request) WithBody(body []byte) *Request {
	r.Body = body
	return r
}
