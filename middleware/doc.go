// Package middleware provides the cross-cutting stages of the request
// pipeline: request identification, tracing, panic recovery, resource
// limits, response compression and access logging.
//
// Every middleware follows the same shape: a XxxConfig struct with a Skip
// function, a Xxx() constructor using defaults and a XxxWithConfig(cfg)
// constructor that fills in any zero fields.
//
//	app.Use(
//		middleware.Compression(),
//		middleware.LimitsWithConfig(middleware.LimitsConfig{RequestTimeout: 5 * time.Second}),
//		middleware.Recovery(),
//		middleware.Tracing(),
//	)
//
// The last registered middleware is the outermost one, so in the stack
// above tracing observes every request first and records the status
// produced by everything inside it, including recovered panics and limit
// rejections.
//
// Rejections (413, 414, 431, 408) and recovered panics are returned as
// errors rather than responses so that outer stages can observe them; they
// are rendered at the edge with response.FromError.
//
// LimitsConfig and CompressionConfig carry env tags and can be loaded with
// core/config:
//
//	var limits middleware.LimitsConfig
//	config.MustLoad(&limits)
//	app.Use(middleware.LimitsWithConfig(limits))
package middleware
