package server

import "time"

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8080"

	// DefaultReadTimeout bounds reading the request head and body.
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout bounds writing the response. Long-lived streams
	// such as server-sent events need a larger value or zero.
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout is how long a keep-alive connection may sit idle.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is how long Stop waits for in-flight requests.
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultMaxHeaderBytes caps the request head net/http will parse.
	DefaultMaxHeaderBytes = 1 << 20 // 1 MB

	// DefaultMaxBodyBytes caps how much of a request body the adapter
	// buffers before dispatch. The limits middleware applies its own,
	// usually smaller, cap on top.
	DefaultMaxBodyBytes int64 = 32 << 20 // 32 MB
)
