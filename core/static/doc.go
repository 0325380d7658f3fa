// Package static provides handlers for serving static files, directories,
// embedded filesystems and single page applications.
//
// Files are streamed in chunks through response.FileFS, which sets
// Content-Type from the extension (falling back to content sniffing) and
// Content-Length from the file size.
//
// # Basic Usage
//
//	app := webcore.New()
//
//	// Serve a single file
//	app.Add(http.MethodGet, "/favicon.ico", static.File("./static/favicon.ico"))
//
//	// Serve files from a directory; the catch-all captures the file path
//	app.Add(http.MethodGet, "/assets/{*path}", static.Dir("./public/assets"))
//
//	// Serve an embedded filesystem
//	app.Add(http.MethodGet, "/ui/{*path}", static.FS(distFS, static.WithSubFS("dist")))
//
//	// Serve an SPA with client-side routing
//	app.Add(http.MethodGet, "/*", static.SPA("./dist"))
//
// # Path Handling
//
// The requested path is taken from the "path" route parameter (see
// WithParam), or from the request path minus WithStripPrefix when the route
// has no such parameter. It is percent-decoded and split into segments;
// empty, "." and ".." segments are dropped, so no request can reach a file
// outside the root. A request for a directory serves its index.html, and
// anything that doesn't resolve to a regular file gets 404 "Not Found"
// (see WithNotFound). Directory listings are never produced.
//
// Dir, File and SPA validate their paths at startup and panic when they
// don't exist.
package static
