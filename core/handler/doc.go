// Package handler defines the request/response model and the two
// polymorphic abstractions the dispatch core is built on: Handler and
// Middleware.
//
// # Request and Response
//
// A Request carries the method, URL, headers and an optional fully-read body,
// plus the path parameters captured by the router, the application-wide
// store and a request-scoped store:
//
//	req := handler.NewRequest(http.MethodGet, "/users/42")
//	req.Param("id")           // set by the router
//	store.Get[*DB](req.AppData())
//	store.Set(req.Locals(), user)
//
// A Response holds a status, headers and a Body that is either buffered
// bytes or a Stream. Streams are lazy, finite and consumed once:
//
//	resp := handler.NewResponse(http.StatusOK).SetStream(
//		handler.Chunks([]byte("a"), []byte("b")),
//	)
//
// # Handlers and Middlewares
//
// Handlers return a response or an error. Errors are not rendered by the
// handler itself; they travel back through the middleware chain so every
// wrapper can observe them, and are converted to a response at the edge.
//
//	h := handler.HandlerFunc(func(req *handler.Request) (*handler.Response, error) {
//		if req.Param("id") == "" {
//			return nil, response.ErrBadRequest
//		}
//		return response.Text("ok"), nil
//	})
//
// A Middleware receives the request and the next stage. Code before the
// call to next runs on the way in, code after it on the way out:
//
//	timing := handler.MiddlewareFunc(func(req *handler.Request, next handler.Handler) (*handler.Response, error) {
//		start := time.Now()
//		resp, err := next.Handle(req)
//		slog.Info("done", "took", time.Since(start))
//		return resp, err
//	})
//
// # Composition
//
// Compose wraps a terminal handler in a middleware stack. The most recently
// registered middleware is the outermost one.
//
//	chain := handler.Compose([]handler.Middleware{a, b}, h)
//	// b runs first on the way in and last on the way out
package handler
