package server

import "errors"

var (
	// ErrServerAlreadyRunning is returned by Start on a running server.
	ErrServerAlreadyRunning = errors.New("server is already running")
	// ErrMissingAddress is returned when server address is not provided.
	ErrMissingAddress = errors.New("server address is required")
	// ErrNilHandler is returned when Start is called without a handler.
	ErrNilHandler = errors.New("server handler is required")
	// ErrIncompleteTLS is returned when only one of the TLS cert and key files is set.
	ErrIncompleteTLS = errors.New("both TLS certificate and key files are required")
	// ErrFailedLoadCert is returned when the configured TLS key pair cannot be loaded.
	ErrFailedLoadCert = errors.New("failed to load certificate")
)
