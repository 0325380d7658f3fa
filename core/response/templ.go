package response

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/webcore/core/handler"
)

// Templ renders component into an HTML response with 200 OK status.
// The component is rendered with ctx so it can reach request-scoped values.
func Templ(ctx context.Context, component templ.Component) (*handler.Response, error) {
	return TemplWithStatus(ctx, component, http.StatusOK)
}

// TemplWithStatus renders component with a custom status code.
func TemplWithStatus(ctx context.Context, component templ.Component, status int) (*handler.Response, error) {
	if component == nil {
		return nil, ErrInternalServerError.WithMessage("nil templ component")
	}

	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("templ component render error: %w", err)
	}
	return BytesWithStatus(buf.Bytes(), ContentTypeHTML, status), nil
}
