package server

import (
	"crypto/tls"
	"fmt"
	"time"
)

// Config holds the listener and adapter settings, loaded from SERVER_*
// environment variables.
type Config struct {
	Addr string `env:"SERVER_ADDR" envDefault:":8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	MaxHeaderBytes int `env:"SERVER_MAX_HEADER_BYTES" envDefault:"1048576"`

	// Request bodies above this size get 413 before reaching the app.
	// Zero means DefaultMaxBodyBytes, a negative value removes the cap.
	MaxBodyBytes int64 `env:"SERVER_MAX_BODY_BYTES" envDefault:"33554432"`

	// Both files must be set to serve TLS; certificate issuance is left
	// to whatever provisions them.
	TLSCertFile string `env:"SERVER_TLS_CERT_FILE"`
	TLSKeyFile  string `env:"SERVER_TLS_KEY_FILE"`
}

// DefaultConfig returns the configuration used when no environment is set.
func DefaultConfig() Config {
	return Config{
		Addr:            DefaultAddr,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		MaxHeaderBytes:  DefaultMaxHeaderBytes,
		MaxBodyBytes:    DefaultMaxBodyBytes,
	}
}

// Validate reports configuration that cannot produce a working server.
func (c Config) Validate() error {
	if c.Addr == "" {
		return ErrMissingAddress
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("%w: cert %q, key %q", ErrIncompleteTLS, c.TLSCertFile, c.TLSKeyFile)
	}
	return nil
}

// HandlerOptions returns the adapter options derived from c, to be passed
// to NewHandler alongside the Server built by NewFromConfig.
func (c Config) HandlerOptions() []HandlerOption {
	switch {
	case c.MaxBodyBytes < 0:
		return []HandlerOption{WithMaxBodyBytes(0)}
	case c.MaxBodyBytes > 0:
		return []HandlerOption{WithMaxBodyBytes(c.MaxBodyBytes)}
	}
	return nil
}

// NewFromConfig validates cfg and creates a Server from it.
// Options in opts are applied last and override config values.
func NewFromConfig(cfg Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var configOpts []Option
	// zero durations keep the package defaults
	if cfg.ReadTimeout > 0 {
		configOpts = append(configOpts, WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.WriteTimeout > 0 {
		configOpts = append(configOpts, WithWriteTimeout(cfg.WriteTimeout))
	}
	if cfg.IdleTimeout > 0 {
		configOpts = append(configOpts, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		configOpts = append(configOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}
	if cfg.MaxHeaderBytes > 0 {
		configOpts = append(configOpts, WithMaxHeaderBytes(cfg.MaxHeaderBytes))
	}

	if cfg.TLSCertFile != "" {
		tlsConfig, err := loadKeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, err
		}
		configOpts = append(configOpts, WithTLS(tlsConfig))
	}

	return New(cfg.Addr, append(configOpts, opts...)...), nil
}

func loadKeyPair(certFile, keyFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %s, %s: %w", ErrFailedLoadCert, certFile, keyFile, err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
