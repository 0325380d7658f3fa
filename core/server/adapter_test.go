package server_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webcore"
	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/response"
	"github.com/dmitrymomot/webcore/core/server"
)

type dispatcherFunc func(req *handler.Request) *handler.Response

func (f dispatcherFunc) Handle(req *handler.Request) *handler.Response { return f(req) }

type closeRecorder struct {
	handler.Stream
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return c.Stream.Close()
}

func TestNewHandlerRequestConversion(t *testing.T) {
	t.Parallel()

	var got *handler.Request
	h := server.NewHandler(dispatcherFunc(func(req *handler.Request) *handler.Response {
		got = req
		return response.Text("ok")
	}))

	r := httptest.NewRequest(http.MethodPost, "/items/7?sort=asc", strings.NewReader("payload"))
	r.Header.Set("X-Custom", "v")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/items/7", got.Path())
	assert.Equal(t, "asc", got.Query().Get("sort"))
	assert.Equal(t, "v", got.Header.Get("X-Custom"))
	assert.Equal(t, "example.com", got.Header.Get("Host"))
	assert.Equal(t, "payload", string(got.Body))
	assert.Equal(t, r.RemoteAddr, got.RemoteAddr)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestNewHandlerBodyReading(t *testing.T) {
	t.Parallel()

	capture := func(body *[]byte, hasBody *bool) http.Handler {
		return server.NewHandler(dispatcherFunc(func(req *handler.Request) *handler.Response {
			*body = req.Body
			*hasBody = req.HasBody()
			return response.NoContent()
		}))
	}

	t.Run("GET without body", func(t *testing.T) {
		t.Parallel()

		var body []byte
		var has bool
		capture(&body, &has).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Nil(t, body)
		assert.False(t, has)
	})

	t.Run("HEAD body is never read", func(t *testing.T) {
		t.Parallel()

		var body []byte
		var has bool
		r := httptest.NewRequest(http.MethodHead, "/", strings.NewReader("ignored"))
		capture(&body, &has).ServeHTTP(httptest.NewRecorder(), r)
		assert.Nil(t, body)
		assert.False(t, has)
	})

	t.Run("chunked body is read", func(t *testing.T) {
		t.Parallel()

		var body []byte
		var has bool
		r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader("streamed"))
		r.ContentLength = -1
		r.TransferEncoding = []string{"chunked"}
		capture(&body, &has).ServeHTTP(httptest.NewRecorder(), r)
		assert.Equal(t, "streamed", string(body))
		assert.True(t, has)
	})

	t.Run("body over cap is 413", func(t *testing.T) {
		t.Parallel()

		called := false
		h := server.NewHandler(dispatcherFunc(func(*handler.Request) *handler.Response {
			called = true
			return response.NoContent()
		}), server.WithMaxBodyBytes(4))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too large")))
		assert.False(t, called)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "request_entity_too_large")
	})

	t.Run("cap from config", func(t *testing.T) {
		t.Parallel()

		echo := dispatcherFunc(func(req *handler.Request) *handler.Response {
			return response.Bytes(req.Body, response.ContentTypeOctet)
		})
		post := func(h http.Handler, body string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
			return w
		}

		cfg := server.DefaultConfig()
		cfg.MaxBodyBytes = 4
		assert.Equal(t, http.StatusRequestEntityTooLarge, post(server.NewHandler(echo, cfg.HandlerOptions()...), "too large").Code)

		cfg.MaxBodyBytes = -1
		w := post(server.NewHandler(echo, cfg.HandlerOptions()...), "too large")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "too large", w.Body.String())

		assert.Empty(t, server.Config{}.HandlerOptions())
	})
}

func TestNewHandlerWritesResponses(t *testing.T) {
	t.Parallel()

	t.Run("buffered body and headers", func(t *testing.T) {
		t.Parallel()

		h := server.NewHandler(dispatcherFunc(func(*handler.Request) *handler.Response {
			return response.TextWithStatus("created", http.StatusCreated).WithHeader("X-Id", "1")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "created", w.Body.String())
		assert.Equal(t, "1", w.Header().Get("X-Id"))
		assert.Equal(t, response.ContentTypeText, w.Header().Get("Content-Type"))
	})

	t.Run("stream is flushed and closed", func(t *testing.T) {
		t.Parallel()

		stream := &closeRecorder{Stream: handler.Chunks([]byte("a"), []byte("b"), []byte("c"))}
		h := server.NewHandler(dispatcherFunc(func(*handler.Request) *handler.Response {
			return response.Stream(stream, response.ContentTypeText).WithHeader("Transfer-Encoding", "chunked")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "abc", w.Body.String())
		assert.True(t, w.Flushed)
		assert.True(t, stream.closed)
		assert.Empty(t, w.Header().Get("Transfer-Encoding"))
	})

	t.Run("HEAD writes no body", func(t *testing.T) {
		t.Parallel()

		stream := &closeRecorder{Stream: handler.Chunks([]byte("hidden"))}
		h := server.NewHandler(dispatcherFunc(func(*handler.Request) *handler.Response {
			return response.Stream(stream, response.ContentTypeText)
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
		assert.True(t, stream.closed)
	})

	t.Run("stream error stops writing", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		calls := 0
		h := server.NewHandler(dispatcherFunc(func(*handler.Request) *handler.Response {
			return response.Stream(handler.FuncStream(func() ([]byte, error) {
				calls++
				if calls == 1 {
					return []byte("partial"), nil
				}
				return nil, errors.New("source gone")
			}), response.ContentTypeText)
		}), server.WithHandlerLogger(slog.New(slog.NewTextHandler(&logs, nil))))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "partial", w.Body.String())
		assert.Contains(t, logs.String(), "response stream failed")
		assert.Contains(t, logs.String(), "source gone")
	})

	t.Run("nil response is 500", func(t *testing.T) {
		t.Parallel()

		h := server.NewHandler(dispatcherFunc(func(*handler.Request) *handler.Response { return nil }))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestNewHandlerWithApp(t *testing.T) {
	t.Parallel()

	app := webcore.New()
	app.Get("/hello/{name}", func(req *handler.Request) (*handler.Response, error) {
		return response.Text("hello " + req.Param("name")), nil
	})
	app.Get("/events", func(req *handler.Request) (*handler.Response, error) {
		return response.Chunks(response.ContentTypeText, []byte("one\n"), []byte("two\n")), nil
	})

	ts := httptest.NewServer(server.NewHandler(app))
	t.Cleanup(ts.Close)

	t.Run("GET", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/hello/gopher")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "hello gopher", string(body))
		assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
		assert.Equal(t, int64(len("hello gopher")), resp.ContentLength)
	})

	t.Run("HEAD keeps Content-Length without body", func(t *testing.T) {
		resp, err := http.Head(ts.URL + "/hello/gopher")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, body)
		assert.Equal(t, "12", resp.Header.Get("Content-Length"))
	})

	t.Run("streamed response is chunked", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/events")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, []string{"chunked"}, resp.TransferEncoding)
		assert.Equal(t, "one\ntwo\n", string(body))
	})

	t.Run("405 carries Allow", func(t *testing.T) {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, ts.URL+"/hello/x", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "GET", resp.Header.Get("Allow"))
	})
}

func TestNewHandlerClientGone(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	app := webcore.New()
	app.Get("/slow", func(req *handler.Request) (*handler.Response, error) {
		ch := make(chan []byte)
		go func() {
			defer close(ch)
			close(started)
			select {
			case ch <- []byte("first"):
			case <-req.Context().Done():
				return
			}
			<-req.Context().Done()
		}()
		return response.Stream(handler.ChanStream(req.Context(), ch), response.ContentTypeText), nil
	})

	ts := httptest.NewServer(server.NewHandler(app))
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/slow", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	<-started
	_, err = io.ReadAll(resp.Body)
	assert.Error(t, err)
}
