// Package server connects a dispatcher to net/http and runs it with graceful
// shutdown.
//
// NewHandler adapts any Dispatcher (such as *webcore.App) to http.Handler.
// It buffers the request body when one is announced, hands the request to
// the dispatcher, and writes the response: buffered bodies in one write,
// streamed bodies chunk by chunk with a flush after each chunk.
//
// # Basic Usage
//
//	app := webcore.New()
//	app.Get("/", func(*handler.Request) (*handler.Response, error) {
//		return response.Text("Hello, World!"), nil
//	})
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := server.Run(ctx, ":8080", server.NewHandler(app)); err != nil {
//		log.Fatal(err)
//	}
//
// # Lifecycle with errgroup
//
// Server.Run returns a function suitable for errgroup.Group.Go. It starts the
// server and performs a graceful shutdown with the configured timeout once
// the context is canceled:
//
//	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, server.NewHandler(app, server.WithHandlerLogger(log))))
//	return g.Wait()
//
// # Defaults
//
//   - ReadTimeout: 15 seconds
//   - WriteTimeout: 15 seconds
//   - IdleTimeout: 60 seconds
//   - MaxHeaderBytes: 1MB
//   - Graceful shutdown timeout: 30 seconds
//   - Request body cap (adapter): 32MB
//   - Logger: discard
//
// Config carries SERVER_* env tags for core/config. When both
// SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE are set the server serves
// TLS 1.2+ with that key pair.
package server
