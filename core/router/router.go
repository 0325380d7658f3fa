package router

import (
	"cmp"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/webcore/core/handler"
)

// Methods lists the HTTP methods a route can be registered for.
var Methods = []string{
	http.MethodConnect,
	http.MethodDelete,
	http.MethodGet,
	http.MethodHead,
	http.MethodOptions,
	http.MethodPatch,
	http.MethodPost,
	http.MethodPut,
	http.MethodTrace,
}

// Route describes a single registered route.
type Route struct {
	Method  string
	Pattern string
}

// Router maps (method, path) pairs to handlers.
//
// Registration is guarded by a mutex. Once Freeze has been called the
// table is immutable and lookups run without locking.
type Router struct {
	mu     sync.RWMutex
	trees  map[string]*node
	frozen atomic.Bool
}

// New creates an empty router.
func New() *Router {
	return &Router{trees: make(map[string]*node)}
}

// Handle registers h for method and pattern.
func (r *Router) Handle(method, pattern string, h handler.Handler) error {
	if !slices.Contains(Methods, method) {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	if h == nil {
		return fmt.Errorf("%w: %s %s", ErrNilHandler, method, pattern)
	}

	segs, err := parsePattern(pattern)
	if err != nil {
		return err
	}
	rt := &route{pattern: pattern, handler: h}
	for _, s := range segs {
		if s.kind != kindStatic {
			rt.keys = append(rt.keys, s.key)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return fmt.Errorf("%w: cannot register %s %s", ErrFrozen, method, pattern)
	}

	root, ok := r.trees[method]
	if !ok {
		root = &node{}
		r.trees[method] = root
	}
	if err := root.insert(segs, rt); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// HandleFunc registers fn for method and pattern.
func (r *Router) HandleFunc(method, pattern string, fn handler.HandlerFunc) error {
	return r.Handle(method, pattern, fn)
}

func (r *Router) Get(pattern string, h handler.Handler) error {
	return r.Handle(http.MethodGet, pattern, h)
}

func (r *Router) Post(pattern string, h handler.Handler) error {
	return r.Handle(http.MethodPost, pattern, h)
}

func (r *Router) Put(pattern string, h handler.Handler) error {
	return r.Handle(http.MethodPut, pattern, h)
}

func (r *Router) Patch(pattern string, h handler.Handler) error {
	return r.Handle(http.MethodPatch, pattern, h)
}

func (r *Router) Delete(pattern string, h handler.Handler) error {
	return r.Handle(http.MethodDelete, pattern, h)
}

func (r *Router) Head(pattern string, h handler.Handler) error {
	return r.Handle(http.MethodHead, pattern, h)
}

func (r *Router) Options(pattern string, h handler.Handler) error {
	return r.Handle(http.MethodOptions, pattern, h)
}

// Find returns the handler registered for method whose pattern matches path,
// together with the captured parameters. A HEAD request with no HEAD route
// falls back to the GET route for the same path.
func (r *Router) Find(method, path string) (handler.Handler, map[string]string, bool) {
	if !r.frozen.Load() {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}

	rt, values := r.lookup(method, path)
	if rt == nil && method == http.MethodHead {
		rt, values = r.lookup(http.MethodGet, path)
	}
	if rt == nil {
		return nil, nil, false
	}

	params := make(map[string]string, len(rt.keys))
	for i, k := range rt.keys {
		if i < len(values) {
			params[k] = values[i]
		}
	}
	return rt.handler, params, true
}

func (r *Router) lookup(method, path string) (*route, []string) {
	root, ok := r.trees[method]
	if !ok {
		return nil, nil
	}
	return root.find(path, nil)
}

// AllowedMethods returns the sorted methods that have a route matching path.
func (r *Router) AllowedMethods(path string) []string {
	if !r.frozen.Load() {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}

	var allowed []string
	for method, root := range r.trees {
		if rt, _ := root.find(path, nil); rt != nil {
			allowed = append(allowed, method)
		}
	}
	slices.Sort(allowed)
	return allowed
}

// Routes returns every registered route ordered by pattern, then method.
func (r *Router) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var routes []Route
	for method, root := range r.trees {
		root.walk(func(rt *route) {
			routes = append(routes, Route{Method: method, Pattern: rt.pattern})
		})
	}
	slices.SortFunc(routes, func(a, b Route) int {
		return cmp.Or(cmp.Compare(a.Pattern, b.Pattern), cmp.Compare(a.Method, b.Method))
	})
	return routes
}

// Wrap replaces every registered handler h with fn(h).
func (r *Router) Wrap(fn func(handler.Handler) handler.Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return ErrFrozen
	}
	for _, root := range r.trees {
		root.walk(func(rt *route) {
			rt.handler = fn(rt.handler)
		})
	}
	return nil
}

// Freeze makes the route table immutable. Subsequent registrations fail with
// ErrFrozen. Calling Freeze more than once is harmless.
func (r *Router) Freeze() {
	r.mu.Lock()
	r.frozen.Store(true)
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Router) Frozen() bool {
	return r.frozen.Load()
}
