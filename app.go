package webcore

import (
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/logger"
	"github.com/dmitrymomot/webcore/core/response"
	"github.com/dmitrymomot/webcore/core/router"
	"github.com/dmitrymomot/webcore/core/store"
	"github.com/dmitrymomot/webcore/middleware"
	"github.com/dmitrymomot/webcore/pkg/requestid"
)

// App owns the route table, the middleware stack and the application-wide
// store, and turns every request into exactly one response.
type App struct {
	router      *router.Router
	middlewares []handler.Middleware
	data        *store.Shared
	ids         requestid.Generator
	idHeader    string
	notFound    handler.Handler
	logger      *slog.Logger

	requestIDMiddleware bool

	buildOnce sync.Once
	built     atomic.Bool
}

// New creates an App. The request id middleware is installed by default
// as the innermost stage, so every registered middleware observes the id on
// the response; disable it with WithoutRequestID.
func New(opts ...Option) *App {
	a := &App{
		router:              router.New(),
		data:                store.NewShared(),
		ids:                 requestid.Func(requestid.Next),
		idHeader:            middleware.DefaultRequestIDHeader,
		notFound:            handler.HandlerFunc(notFound),
		logger:              logger.Discard(),
		requestIDMiddleware: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func notFound(*handler.Request) (*handler.Response, error) {
	return response.TextWithStatus(http.StatusText(http.StatusNotFound), http.StatusNotFound), nil
}

// Use appends middlewares to the stack. The last registered middleware is
// the outermost one. Use panics once the app has been built.
func (a *App) Use(middlewares ...handler.Middleware) {
	if a.built.Load() {
		panic(ErrBuilt)
	}
	for _, mw := range middlewares {
		if mw == nil {
			panic(ErrNilMiddleware)
		}
		a.middlewares = append(a.middlewares, mw)
	}
}

// Data returns the application-wide store shared by all requests.
func (a *App) Data() *store.Shared {
	return a.data
}

// AddE registers h for method and pattern and reports registration errors.
func (a *App) AddE(method, pattern string, h handler.Handler) error {
	return a.router.Handle(method, pattern, h)
}

// Add registers h for method and pattern. It panics on invalid patterns,
// route conflicts, or registration after Build.
func (a *App) Add(method, pattern string, h handler.Handler) {
	if err := a.AddE(method, pattern, h); err != nil {
		panic(err)
	}
}

// Get registers a GET route.
func (a *App) Get(pattern string, fn handler.HandlerFunc) {
	a.Add(http.MethodGet, pattern, fn)
}

// Post registers a POST route.
func (a *App) Post(pattern string, fn handler.HandlerFunc) {
	a.Add(http.MethodPost, pattern, fn)
}

// Put registers a PUT route.
func (a *App) Put(pattern string, fn handler.HandlerFunc) {
	a.Add(http.MethodPut, pattern, fn)
}

// Patch registers a PATCH route.
func (a *App) Patch(pattern string, fn handler.HandlerFunc) {
	a.Add(http.MethodPatch, pattern, fn)
}

// Delete registers a DELETE route.
func (a *App) Delete(pattern string, fn handler.HandlerFunc) {
	a.Add(http.MethodDelete, pattern, fn)
}

// Head registers a HEAD route. GET routes already answer HEAD requests.
func (a *App) Head(pattern string, fn handler.HandlerFunc) {
	a.Add(http.MethodHead, pattern, fn)
}

// Options registers an OPTIONS route.
func (a *App) Options(pattern string, fn handler.HandlerFunc) {
	a.Add(http.MethodOptions, pattern, fn)
}

// Routes returns every registered route.
func (a *App) Routes() []router.Route {
	return a.router.Routes()
}

// Build composes the middleware stack around every route and freezes the
// route table. Handle calls it on first use; calling it again is a no-op.
func (a *App) Build() {
	a.buildOnce.Do(func() {
		a.built.Store(true)

		stack := slices.Clone(a.middlewares)
		if a.requestIDMiddleware {
			stack = slices.Insert(stack, 0, middleware.RequestIDWithConfig(middleware.RequestIDConfig{
				Generator:  a.ids,
				HeaderName: a.idHeader,
			}))
		}

		if err := a.router.Wrap(func(h handler.Handler) handler.Handler {
			return handler.Compose(stack, h)
		}); err != nil {
			// Wrap fails only on a frozen router, which only Build freezes.
			panic(err)
		}
		a.router.Freeze()

		a.logger.Debug("app built",
			slog.Int("routes", len(a.router.Routes())),
			slog.Int("middlewares", len(stack)),
		)
	})
}

// Handle dispatches req and returns the response to write. It never
// returns nil: handler errors are rendered with response.FromError.
//
// A path matching routes of other methods yields 405 with an Allow header,
// or 204 with an Allow header for OPTIONS. Unmatched paths go to the
// not-found handler, which runs without middlewares. The response always
// carries the request id header and either Content-Length or
// Transfer-Encoding.
func (a *App) Handle(req *handler.Request) *handler.Response {
	a.Build()

	id := a.requestID(req)
	resp := a.dispatch(req)

	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	if resp.Header.Get(a.idHeader) == "" {
		resp.Header.Set(a.idHeader, id)
	}
	finalize(resp)
	return resp
}

// requestID keeps a non-empty incoming identifier or assigns a new one.
func (a *App) requestID(req *handler.Request) string {
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	id := req.Header.Get(a.idHeader)
	if id == "" {
		id = a.ids.Next()
		req.Header.Set(a.idHeader, id)
	}
	return id
}

func (a *App) dispatch(req *handler.Request) *handler.Response {
	path := req.Path()

	h, params, ok := a.router.Find(req.Method, path)
	if !ok {
		allowed := a.router.AllowedMethods(path)
		switch {
		case req.Method == http.MethodOptions:
			if !slices.Contains(allowed, http.MethodOptions) {
				allowed = append(allowed, http.MethodOptions)
				slices.Sort(allowed)
			}
			return response.NoContent().WithHeader("Allow", strings.Join(allowed, ", "))
		case len(allowed) > 0:
			return response.TextWithStatus(
				http.StatusText(http.StatusMethodNotAllowed),
				http.StatusMethodNotAllowed,
			).WithHeader("Allow", strings.Join(allowed, ", "))
		}
		h = a.notFound
	}

	for k, v := range params {
		if strings.IndexByte(v, '%') < 0 {
			continue
		}
		if decoded, err := url.PathUnescape(v); err == nil {
			params[k] = decoded
		}
	}
	req.SetParams(params)
	req.SetAppData(a.data)

	resp, err := h.Handle(req)
	if err != nil {
		if resp != nil {
			_ = resp.Close()
		}
		return response.FromError(err)
	}
	if resp == nil {
		a.logger.ErrorContext(req.Context(), "handler returned nil response",
			logger.Method(req.Method),
			logger.Path(path),
		)
		return response.FromError(response.ErrInternalServerError.WithError(ErrNilResponse))
	}
	return resp
}

// finalize sets Content-Length for buffered bodies or chunked
// Transfer-Encoding for streams, unless either header is already present.
func finalize(resp *handler.Response) {
	if resp.Header.Get("Content-Length") != "" || resp.Header.Get("Transfer-Encoding") != "" {
		return
	}
	if resp.Body.IsStream() {
		resp.Header.Set("Transfer-Encoding", "chunked")
		return
	}
	resp.Header.Set("Content-Length", strconv.Itoa(resp.Body.Len()))
}
