package static

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/response"
)

// DefaultParam is the path parameter holding the requested file path,
// as captured by a pattern like "/assets/{*path}".
const DefaultParam = "path"

// DefaultIndex is served for directory requests.
const DefaultIndex = "index.html"

// sanitize turns a decoded request-relative path into an fs.FS name.
// Empty, "." and ".." segments are dropped so the result can never leave
// the root. The empty result means the root itself.
func sanitize(rel string) string {
	rel = strings.ReplaceAll(rel, "\\", "/")

	parts := strings.Split(rel, "/")
	clean := parts[:0]
	for _, p := range parts {
		if p == "" || p == "." || p == ".." || strings.ContainsRune(p, 0) {
			continue
		}
		clean = append(clean, p)
	}
	return strings.Join(clean, "/")
}

// resolve maps name to a regular file inside fsys, descending into
// directories through index. It reports false when no such file exists.
func resolve(fsys fs.FS, name, index string) (string, bool) {
	if name == "" {
		name = "."
	}
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		if index == "" {
			return "", false
		}
		if name == "." {
			name = index
		} else {
			name = name + "/" + index
		}
		info, err = fs.Stat(fsys, name)
		if err != nil || info.IsDir() {
			return "", false
		}
	}
	return name, true
}

// requested returns the decoded relative path a static handler should
// serve. Params arrive decoded from the dispatcher.
func requested(req *handler.Request, param, stripPrefix string) string {
	if param != "" {
		if v, ok := req.Params()[param]; ok {
			return v
		}
	}
	return strings.TrimPrefix(req.DecodedPath(), stripPrefix)
}

// validateStartup checks that a file or directory exists and is accessible at startup.
// This is used to fail-fast during initialization rather than at runtime.
func validateStartup(path string, mustBeDir bool) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if mustBeDir {
				return fmt.Errorf("directory does not exist: %s", path)
			}
			return fmt.Errorf("file does not exist: %s", path)
		}
		return fmt.Errorf("error accessing path: %w", err)
	}

	if mustBeDir && !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	if !mustBeDir && info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	return nil
}

func notFound(*handler.Request) (*handler.Response, error) {
	return response.TextWithStatus(http.StatusText(http.StatusNotFound), http.StatusNotFound), nil
}
