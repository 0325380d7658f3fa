package handler_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webcore/core/handler"
)

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestStreams(t *testing.T) {
	t.Parallel()

	t.Run("chunks", func(t *testing.T) {
		t.Parallel()

		s := handler.Chunks([]byte("a"), []byte("b"), []byte("c"))
		c, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, []byte("a"), c)

		rest, err := handler.ReadAll(s)
		require.NoError(t, err)
		assert.Equal(t, "bc", string(rest))

		_, err = s.Next()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("reader stream splits and closes", func(t *testing.T) {
		t.Parallel()

		src := &closeTracker{Reader: strings.NewReader("abcdefg")}
		s := handler.ReaderStream(src, 3)

		var chunks []string
		for {
			c, err := s.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			require.NoError(t, err)
			chunks = append(chunks, string(c))
		}
		assert.Equal(t, []string{"abc", "def", "g"}, chunks)
		require.NoError(t, s.Close())
		assert.True(t, src.closed)
	})

	t.Run("func stream", func(t *testing.T) {
		t.Parallel()

		n := 0
		s := handler.FuncStream(func() ([]byte, error) {
			if n == 2 {
				return nil, io.EOF
			}
			n++
			return []byte("x"), nil
		})
		out, err := handler.ReadAll(s)
		require.NoError(t, err)
		assert.Equal(t, "xx", string(out))
	})

	t.Run("chan stream", func(t *testing.T) {
		t.Parallel()

		ch := make(chan []byte, 2)
		ch <- []byte("1")
		ch <- []byte("2")
		close(ch)

		out, err := handler.ReadAll(handler.ChanStream(context.Background(), ch))
		require.NoError(t, err)
		assert.Equal(t, "12", string(out))
	})

	t.Run("chan stream honors context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := handler.ChanStream(ctx, make(chan []byte)).Next()
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestResponseBody(t *testing.T) {
	t.Parallel()

	resp := handler.NewResponse(http.StatusOK).SetBytes([]byte("hello"))
	assert.False(t, resp.Body.IsStream())
	assert.Equal(t, 5, resp.Body.Len())
	assert.Equal(t, []byte("hello"), resp.Body.Bytes())

	resp.SetStream(handler.Chunks([]byte("x")))
	assert.True(t, resp.Body.IsStream())
	assert.Equal(t, -1, resp.Body.Len())
	assert.Nil(t, resp.Body.Bytes())
	assert.NoError(t, resp.Close())

	var zero handler.Body
	assert.Equal(t, 0, zero.Len())
	assert.False(t, zero.IsStream())
}
