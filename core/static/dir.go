package static

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/response"
)

// dirConfig holds configuration for directory serving
type dirConfig struct {
	param       string
	stripPrefix string
	index       string
	subPath     string
	notFound    handler.Handler
}

// DirOption configures directory serving behavior
type DirOption func(*dirConfig)

// WithParam sets the path parameter carrying the requested file
// (default: "path").
func WithParam(name string) DirOption {
	return func(c *dirConfig) {
		c.param = name
	}
}

// WithStripPrefix removes the given prefix from the URL path before serving
// files. It applies when the route has no file path parameter.
func WithStripPrefix(prefix string) DirOption {
	return func(c *dirConfig) {
		c.stripPrefix = prefix
	}
}

// WithIndex sets the file served for directory requests (default:
// "index.html"). An empty name makes directory requests 404.
func WithIndex(name string) DirOption {
	return func(c *dirConfig) {
		c.index = name
	}
}

// WithSubFS serves files from a subdirectory within the filesystem.
// The path parameter should use forward slashes regardless of OS.
func WithSubFS(path string) DirOption {
	return func(c *dirConfig) {
		c.subPath = path
	}
}

// WithNotFound sets the handler used when no file matches.
// The default answers 404 with a plain "Not Found" body.
func WithNotFound(h handler.Handler) DirOption {
	return func(c *dirConfig) {
		if h != nil {
			c.notFound = h
		}
	}
}

// Dir creates a handler that serves files from a directory.
//
// Mount it on a catch-all route such as "/assets/{*path}". The captured
// path is sanitized so it cannot leave root; directories are served through
// their index file; anything else is 404. Directory listing is never
// produced. Panics at startup if the directory doesn't exist.
func Dir(root string, opts ...DirOption) handler.Handler {
	root = filepath.Clean(root)
	if err := validateStartup(root, true); err != nil {
		panic("static.Dir: " + err.Error())
	}
	return FS(os.DirFS(root), opts...)
}

// FS creates a handler that serves files from fsys, such as an embed.FS.
// It behaves like Dir. Panics at startup if WithSubFS names an invalid path.
func FS(fsys fs.FS, opts ...DirOption) handler.Handler {
	cfg := &dirConfig{
		param:    DefaultParam,
		index:    DefaultIndex,
		notFound: handler.HandlerFunc(notFound),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.subPath != "" {
		sub, err := fs.Sub(fsys, cfg.subPath)
		if err != nil {
			panic("static.FS: invalid sub path: " + err.Error())
		}
		fsys = sub
	}

	return handler.HandlerFunc(func(req *handler.Request) (*handler.Response, error) {
		name, ok := resolve(fsys, sanitize(requested(req, cfg.param, cfg.stripPrefix)), cfg.index)
		if !ok {
			return cfg.notFound.Handle(req)
		}
		return response.FileFS(fsys, name)
	})
}
