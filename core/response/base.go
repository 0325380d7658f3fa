package response

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/dmitrymomot/webcore/core/handler"
)

// Content types set by the constructors in this package.
const (
	ContentTypeText  = "text/plain; charset=utf-8"
	ContentTypeHTML  = "text/html; charset=utf-8"
	ContentTypeJSON  = "application/json; charset=utf-8"
	ContentTypeOctet = "application/octet-stream"
)

func withStatus(status int) int {
	if status == 0 {
		return http.StatusOK
	}
	return status
}

// Text creates a text/plain response with 200 OK status.
func Text(content string) *handler.Response {
	return TextWithStatus(content, http.StatusOK)
}

// TextWithStatus creates a text/plain response with a custom status code.
func TextWithStatus(content string, status int) *handler.Response {
	return BytesWithStatus([]byte(content), ContentTypeText, status)
}

// HTML creates a text/html response with 200 OK status.
func HTML(content string) *handler.Response {
	return HTMLWithStatus(content, http.StatusOK)
}

// HTMLWithStatus creates a text/html response with a custom status code.
func HTMLWithStatus(content string, status int) *handler.Response {
	return BytesWithStatus([]byte(content), ContentTypeHTML, status)
}

// Bytes creates a 200 OK response with a custom content type.
// An empty contentType leaves the header unset.
func Bytes(content []byte, contentType string) *handler.Response {
	return BytesWithStatus(content, contentType, http.StatusOK)
}

// BytesWithStatus creates a response with a custom content type and status.
func BytesWithStatus(content []byte, contentType string, status int) *handler.Response {
	resp := handler.NewResponse(withStatus(status)).SetBytes(content)
	if contentType != "" {
		resp.Header.Set("Content-Type", contentType)
	}
	return resp
}

// JSON encodes v as an application/json response with 200 OK status.
func JSON(v any) (*handler.Response, error) {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus encodes v with a custom status code.
// A zero status resolves to 204 for nil data and 200 otherwise;
// 204 and 304 responses carry no body.
func JSONWithStatus(v any, status int) (*handler.Response, error) {
	if status == 0 {
		status = http.StatusOK
		if v == nil {
			status = http.StatusNoContent
		}
	}

	resp := handler.NewResponse(status)
	resp.Header.Set("Content-Type", ContentTypeJSON)

	switch status {
	case http.StatusNoContent, http.StatusNotModified:
		return resp, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, ErrInternalServerError.WithError(err)
	}
	return resp.SetBytes(data), nil
}

// Empty creates a bodiless response with status.
func Empty(status int) *handler.Response {
	return handler.NewResponse(withStatus(status))
}

// NoContent creates a 204 No Content response.
func NoContent() *handler.Response {
	return handler.NewResponse(http.StatusNoContent)
}

// Stream creates a 200 OK response whose body is read lazily from s.
func Stream(s handler.Stream, contentType string) *handler.Response {
	resp := handler.NewResponse(http.StatusOK).SetStream(s)
	if contentType != "" {
		resp.Header.Set("Content-Type", contentType)
	}
	return resp
}

// Chunks creates a streamed 200 OK response yielding each chunk in order.
func Chunks(contentType string, chunks ...[]byte) *handler.Response {
	return Stream(handler.Chunks(chunks...), contentType)
}

// Redirect creates a 302 Found redirect to url.
func Redirect(url string) *handler.Response {
	return RedirectWithStatus(url, http.StatusFound)
}

// RedirectPermanent creates a 301 Moved Permanently redirect to url.
func RedirectPermanent(url string) *handler.Response {
	return RedirectWithStatus(url, http.StatusMovedPermanently)
}

// RedirectSeeOther creates a 303 See Other redirect, typically after a POST.
func RedirectSeeOther(url string) *handler.Response {
	return RedirectWithStatus(url, http.StatusSeeOther)
}

// RedirectWithStatus creates a redirect with a custom 3xx status.
// Statuses outside the 3xx range fall back to 302.
func RedirectWithStatus(url string, status int) *handler.Response {
	if status < 300 || status > 399 {
		status = http.StatusFound
	}
	resp := handler.NewResponse(status)
	resp.Header.Set("Location", url)
	return resp
}
