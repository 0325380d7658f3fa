package static

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/response"
)

// spaConfig holds configuration for SPA serving
type spaConfig struct {
	indexFile    string
	notFoundFile string
	excludePaths []string
	stripPrefix  string
}

// SPAOption configures SPA serving behavior
type SPAOption func(*spaConfig)

// WithSPAIndex sets the index file for the SPA (default: "index.html").
func WithSPAIndex(indexFile string) SPAOption {
	return func(c *spaConfig) {
		c.indexFile = indexFile
	}
}

// WithNotFoundPage sets a page served with 404 status instead of the
// index fallback.
func WithNotFoundPage(notFoundFile string) SPAOption {
	return func(c *spaConfig) {
		c.notFoundFile = notFoundFile
	}
}

// WithExcludePaths sets path prefixes that are never answered with the
// index fallback (default: "/api", "/ws").
func WithExcludePaths(paths ...string) SPAOption {
	return func(c *spaConfig) {
		c.excludePaths = paths
	}
}

// WithSPAStripPrefix removes the given prefix from the URL path before serving files.
func WithSPAStripPrefix(prefix string) SPAOption {
	return func(c *spaConfig) {
		c.stripPrefix = prefix
	}
}

// SPA creates a handler for single page applications: existing files are
// served as-is and every other path gets the index file so the client-side
// router can take over. Panics at startup if the root directory, the index
// file or a configured 404 page doesn't exist.
func SPA(root string, opts ...SPAOption) handler.Handler {
	cfg := &spaConfig{
		indexFile:    DefaultIndex,
		excludePaths: []string{"/api", "/ws"},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	root = filepath.Clean(root)
	if err := validateStartup(root, true); err != nil {
		panic("static.SPA: " + err.Error())
	}
	if err := validateStartup(filepath.Join(root, cfg.indexFile), false); err != nil {
		panic("static.SPA: index " + err.Error())
	}
	if cfg.notFoundFile != "" {
		if err := validateStartup(filepath.Join(root, cfg.notFoundFile), false); err != nil {
			panic("static.SPA: 404 page " + err.Error())
		}
	}

	fsys := os.DirFS(root)
	index := filepath.ToSlash(cfg.indexFile)

	return handler.HandlerFunc(func(req *handler.Request) (*handler.Response, error) {
		urlPath := strings.TrimPrefix(req.DecodedPath(), cfg.stripPrefix)
		if !strings.HasPrefix(urlPath, "/") {
			urlPath = "/" + urlPath
		}

		for _, exclude := range cfg.excludePaths {
			if strings.HasPrefix(urlPath, exclude) {
				return notFound(req)
			}
		}

		if name, ok := resolve(fsys, sanitize(urlPath), DefaultIndex); ok {
			return response.FileFS(fsys, name)
		}

		if cfg.notFoundFile != "" {
			resp, err := response.FileFS(fsys, filepath.ToSlash(cfg.notFoundFile))
			if err != nil {
				return nil, err
			}
			resp.Status = http.StatusNotFound
			return resp, nil
		}

		return response.FileFS(fsys, index)
	})
}
