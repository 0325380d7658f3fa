package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/webcore"
	"github.com/dmitrymomot/webcore/core/config"
	"github.com/dmitrymomot/webcore/core/health"
	"github.com/dmitrymomot/webcore/core/logger"
	"github.com/dmitrymomot/webcore/core/server"
	"github.com/dmitrymomot/webcore/core/static"
	"github.com/dmitrymomot/webcore/core/store"
	"github.com/dmitrymomot/webcore/middleware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	config.MustLoad(&cfg) // panic on error

	log := logger.New(logger.WithConfig(cfg.Log))

	tp := sdktrace.NewTracerProvider()
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("Failed to shut down tracer provider", logger.Component("tracing"), logger.Error(err))
		}
	}()

	app := webcore.New(webcore.WithConfig(cfg.App), webcore.WithLogger(log))
	store.Set(app.Data(), greeting(cfg.AppName))

	// Last registered runs outermost; the app's request id middleware sits innermost.
	app.Use(
		middleware.CompressionWithConfig(cfg.Compression),
		middleware.LimitsWithConfig(cfg.Limits),
		middleware.RecoveryWithConfig(middleware.RecoveryConfig{Logger: log}),
		middleware.TracingWithConfig(middleware.TracingConfig{TracerProvider: tp, Logger: log}),
		middleware.LoggingWithLogger(log),
	)

	// Health check endpoints
	app.Get("/live", health.Liveness)
	app.Get("/ready", health.Readiness(log))

	app.Get("/", homeHandler)
	app.Get("/users/{id:[0-9]+}", userHandler)
	app.Post("/echo", echoHandler)
	app.Get("/clock", clockHandler)
	app.Get("/slow", slowHandler)

	if info, err := os.Stat(cfg.AssetsDir); err == nil && info.IsDir() {
		app.Add(http.MethodGet, "/assets/{*path}", static.Dir(cfg.AssetsDir))
	} else {
		log.Warn("Static assets disabled", logger.Component("static"), logger.Path(cfg.AssetsDir))
	}

	app.Build()

	s, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		log.Error("Failed to create server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	eg, ctx := errgroup.WithContext(ctx)
	handlerOpts := append(cfg.Server.HandlerOptions(), server.WithHandlerLogger(log))
	eg.Go(s.Run(ctx, server.NewHandler(app, handlerOpts...)))

	if err := eg.Wait(); err != nil {
		log.Error("Failed to run server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped")
}
