package middleware_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webcore/core/response"
	"github.com/dmitrymomot/webcore/middleware"
)

func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("panic becomes 500 error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := middleware.RecoveryWithConfig(middleware.RecoveryConfig{
			Logger: slog.New(slog.NewTextHandler(&buf, nil)),
		})

		resp, err := mw.Handle(get("/boom"), panicHandler("kaboom"))
		assert.Nil(t, resp)
		require.Error(t, err)

		var perr *response.PanicError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "kaboom", perr.Value())
		assert.NotEmpty(t, perr.Stack())
		assert.Equal(t, http.StatusInternalServerError, response.StatusOf(err))

		out := buf.String()
		assert.Contains(t, out, "panic recovered")
		assert.Contains(t, out, "kaboom")
		assert.Contains(t, out, "stack=")
	})

	t.Run("typed errors pass through", func(t *testing.T) {
		t.Parallel()

		resp, err := middleware.Recovery().Handle(get("/"), errHandler(response.ErrConflict))
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, response.ErrConflict)
	})

	t.Run("abort is re-raised", func(t *testing.T) {
		t.Parallel()

		mw := middleware.RecoveryWithConfig(middleware.RecoveryConfig{Logger: slog.New(slog.DiscardHandler)})
		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			_, _ = mw.Handle(get("/"), panicHandler(http.ErrAbortHandler))
		})
	})

	t.Run("error panic value unwraps", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("cause")
		mw := middleware.RecoveryWithConfig(middleware.RecoveryConfig{
			Logger:       slog.New(slog.DiscardHandler),
			DisableStack: true,
		})
		_, err := mw.Handle(get("/"), panicHandler(cause))
		assert.ErrorIs(t, err, cause)
	})
}
