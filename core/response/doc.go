// Package response builds *handler.Response values and maps errors to them.
//
// Constructors cover the common payloads:
//
//	response.Text("pong")
//	response.HTMLWithStatus("<h1>gone</h1>", http.StatusGone)
//	response.JSON(user)                       // (*handler.Response, error)
//	response.File("./public/report.pdf")      // streamed in 64 KiB chunks
//	response.Chunks("text/plain", a, b, c)    // chunked transfer
//	response.SSE(ctx, events)                 // text/event-stream
//	response.Templ(req.Context(), page)       // a-h/templ component
//
// # Errors
//
// HTTPError is a value type carrying a status, a machine-readable code, a
// message and optional details. Predefined values (ErrNotFound,
// ErrRequestTimeout, ...) can be refined with WithMessage, WithDetails and
// WithError without mutating the originals:
//
//	return nil, response.ErrBadRequest.WithDetails(map[string]any{"field": "email"})
//
// FromError renders any error as JSON. Errors that implement Responder
// supply their own response; other errors use StatusOf, which honors any
// error in the chain exposing StatusCode() int and defaults to 500.
// PanicError always renders a generic 500 body so panic values never leak
// to clients.
package response
