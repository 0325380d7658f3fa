// Package webcore is the request-dispatch core of a lightweight HTTP serving
// layer: a route table, an onion-style middleware chain, and an App that turns
// every request into exactly one response.
//
//	app := webcore.New()
//	app.Use(middleware.Defaults()...)
//	app.Get("/users/{id}", func(req *handler.Request) (*handler.Response, error) {
//		return response.JSON(map[string]string{"id": req.Param("id")})
//	})
//	err := server.Run(ctx, ":8080", server.NewHandler(app))
//
// App.Handle never fails. Handler errors are rendered by response.FromError,
// unknown paths get 404, paths registered under other methods get 405 with an
// Allow header, and unmatched OPTIONS requests get 204 with an Allow header.
// Every response carries X-Request-Id and either Content-Length or
// Transfer-Encoding.
//
// # Packages
//
//	github.com/dmitrymomot/webcore/core/config    - Environment-driven config loading
//	github.com/dmitrymomot/webcore/core/handler   - Request, Response, Handler, Middleware, Compose
//	github.com/dmitrymomot/webcore/core/logger    - slog construction and attribute helpers
//	github.com/dmitrymomot/webcore/core/response  - Response constructors and error rendering
//	github.com/dmitrymomot/webcore/core/router    - Radix-tree router with params, regexp and catch-all
//	github.com/dmitrymomot/webcore/core/server    - net/http adapter and graceful server
//	github.com/dmitrymomot/webcore/core/static    - Static directory handler
//	github.com/dmitrymomot/webcore/core/store     - Type-keyed app and request stores
//	github.com/dmitrymomot/webcore/middleware     - Request id, tracing, recovery, limits, compression, logging
//	github.com/dmitrymomot/webcore/pkg/requestid  - Request identifier generators
package webcore
