package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/store"
)

type ctxKey struct{}

func TestRequest(t *testing.T) {
	t.Parallel()

	t.Run("parses target", func(t *testing.T) {
		t.Parallel()

		req := handler.NewRequest(http.MethodGet, "/users/42?tab=posts")
		assert.Equal(t, "/users/42", req.Path())
		assert.Equal(t, "posts", req.Query().Get("tab"))
		assert.False(t, req.HasBody())
	})

	t.Run("escaped path preferred", func(t *testing.T) {
		t.Parallel()

		req := handler.NewRequest(http.MethodGet, "/files/a%2Fb")
		assert.Equal(t, "/files/a%2Fb", req.Path())
		assert.Equal(t, "/files/a/b", req.DecodedPath())

		req = handler.NewRequest(http.MethodGet, "/files/caf%C3%A9")
		assert.Equal(t, "/files/caf%C3%A9", req.Path())
		assert.Equal(t, "/files/café", req.DecodedPath())
	})

	t.Run("empty path is root", func(t *testing.T) {
		t.Parallel()

		req := &handler.Request{Method: http.MethodGet}
		assert.Equal(t, "/", req.Path())
		assert.Equal(t, "/", req.DecodedPath())
		assert.NotNil(t, req.Context())
	})

	t.Run("params are copied", func(t *testing.T) {
		t.Parallel()

		req := handler.NewRequest(http.MethodGet, "/")
		assert.Empty(t, req.Param("id"))

		req.SetParams(map[string]string{"id": "7"})
		assert.Equal(t, "7", req.Param("id"))

		params := req.Params()
		params["id"] = "8"
		assert.Equal(t, "7", req.Param("id"))
	})

	t.Run("with context shares locals", func(t *testing.T) {
		t.Parallel()

		req := handler.NewRequest(http.MethodGet, "/")
		ctx := context.WithValue(context.Background(), ctxKey{}, "v")
		req2 := req.WithContext(ctx)

		store.Set(req2.Locals(), 42)
		v, ok := store.Get[int](req.Locals())
		require.True(t, ok)
		assert.Equal(t, 42, v)
		assert.Equal(t, "v", req2.Context().Value(ctxKey{}))
		assert.Nil(t, req.Context().Value(ctxKey{}))
	})

	t.Run("app data", func(t *testing.T) {
		t.Parallel()

		req := handler.NewRequest(http.MethodGet, "/")
		assert.Nil(t, req.AppData())

		shared := store.NewShared()
		store.Set(shared, "cfg")
		req.SetAppData(shared)

		v, ok := store.Get[string](req.AppData())
		require.True(t, ok)
		assert.Equal(t, "cfg", v)
	})

	t.Run("builders", func(t *testing.T) {
		t.Parallel()

		req := handler.NewRequest(http.MethodPost, "/").
			WithHeader("content-type", "text/plain").
			WithBody([]byte("hi"))
		assert.Equal(t, "text/plain", req.Header.Get("Content-Type"))
		assert.True(t, req.HasBody())
		assert.Equal(t, []byte("hi"), req.Body)
	})
}
