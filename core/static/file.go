package static

import (
	"path/filepath"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/response"
)

// File creates a handler that serves a single static file.
// Panics at startup if the file doesn't exist or is a directory.
func File(filePath string) handler.Handler {
	cleanPath := filepath.Clean(filePath)
	if err := validateStartup(cleanPath, false); err != nil {
		panic("static.File: " + err.Error())
	}

	return handler.HandlerFunc(func(*handler.Request) (*handler.Response, error) {
		return response.File(cleanPath)
	})
}
