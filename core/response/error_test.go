package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/response"
)

type statusErr struct{ status int }

func (e statusErr) Error() string   { return "status error" }
func (e statusErr) StatusCode() int { return e.status }

type selfRendering struct{}

func (selfRendering) Error() string { return "custom" }
func (selfRendering) Response() *handler.Response {
	return response.TextWithStatus("teapot", http.StatusTeapot)
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"plain", errors.New("x"), http.StatusInternalServerError},
		{"http error", response.ErrNotFound, http.StatusNotFound},
		{"wrapped", fmt.Errorf("load: %w", response.ErrRequestTimeout), http.StatusRequestTimeout},
		{"custom status", statusErr{http.StatusConflict}, http.StatusConflict},
		{"out of range", statusErr{42}, http.StatusInternalServerError},
		{"panic", response.NewPanicError("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, response.StatusOf(tt.err))
		})
	}
}

func TestFromError(t *testing.T) {
	t.Parallel()

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()

		resp := response.FromError(errors.New("db down"))
		assert.Equal(t, http.StatusInternalServerError, resp.Status)
		assert.Equal(t, response.ContentTypeJSON, resp.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"error":"db down"}`, string(resp.Body.Bytes()))
	})

	t.Run("http error", func(t *testing.T) {
		t.Parallel()

		err := response.ErrBadRequest.WithMessage("bad email").
			WithDetails(map[string]any{"field": "email"})
		resp := response.FromError(err)
		assert.Equal(t, http.StatusBadRequest, resp.Status)

		body := decodeError(t, resp)
		assert.Equal(t, "bad email", body["error"])
		assert.Equal(t, "bad_request", body["code"])
		assert.Equal(t, map[string]any{"field": "email"}, body["details"])
	})

	t.Run("custom status", func(t *testing.T) {
		t.Parallel()

		resp := response.FromError(statusErr{http.StatusConflict})
		assert.Equal(t, http.StatusConflict, resp.Status)
		assert.JSONEq(t, `{"error":"status error"}`, string(resp.Body.Bytes()))
	})

	t.Run("responder", func(t *testing.T) {
		t.Parallel()

		resp := response.FromError(fmt.Errorf("wrapped: %w", selfRendering{}))
		assert.Equal(t, http.StatusTeapot, resp.Status)
		assert.Equal(t, "teapot", string(resp.Body.Bytes()))
	})

	t.Run("panic hides value", func(t *testing.T) {
		t.Parallel()

		resp := response.FromError(response.NewPanicError("secret token", []byte("stack")))
		assert.Equal(t, http.StatusInternalServerError, resp.Status)
		assert.NotContains(t, string(resp.Body.Bytes()), "secret")
		assert.Equal(t, "Internal Server Error", decodeError(t, resp)["error"])
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, http.StatusInternalServerError, response.FromError(nil).Status)
	})
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	err := response.ErrForbidden.WithError(errors.New("no role"))
	assert.Equal(t, "no role", err.Details["cause"])
	assert.Nil(t, response.ErrForbidden.Details)

	assert.Equal(t, http.StatusNotFound, response.NotFound("no user").Status)
	assert.Equal(t, "no user", response.NotFound("no user").Error())
	assert.Equal(t, http.StatusBadRequest, response.BadRequest("x").StatusCode())
	assert.Equal(t, http.StatusUnauthorized, response.Unauthorized("x").Status)
	assert.Equal(t, http.StatusForbidden, response.Forbidden("x").Status)
	assert.Equal(t, http.StatusUnprocessableEntity, response.UnprocessableEntity("x").Status)
	assert.Equal(t, http.StatusInternalServerError, response.Internal("x").Status)
	assert.Equal(t, http.StatusServiceUnavailable, response.ServiceUnavailable("x").Status)

	assert.Equal(t, response.ErrRequestURITooLong, response.ErrorForStatus(http.StatusRequestURITooLong))
	assert.Equal(t, http.StatusTeapot, response.ErrorForStatus(http.StatusTeapot).Status)

	var target response.HTTPError
	require.ErrorAs(t, fmt.Errorf("x: %w", response.ErrGone), &target)
	assert.Equal(t, "gone", target.Code)

	assert.ErrorIs(t, fmt.Errorf("x: %w", response.NotFound("no user")), response.ErrNotFound)
	assert.ErrorIs(t, response.ErrConflict.WithDetails(map[string]any{"id": 1}), response.ErrConflict)
	assert.NotErrorIs(t, response.ErrNotFound, response.ErrGone)
}

func TestPanicErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")
	perr := response.NewPanicError(cause, []byte("trace"))
	assert.ErrorIs(t, perr, cause)
	assert.Equal(t, cause, perr.Value())
	assert.Equal(t, []byte("trace"), perr.Stack())
	assert.Equal(t, "panic: cause", perr.Error())
}
