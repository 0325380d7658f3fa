package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/response"
	"github.com/dmitrymomot/webcore/middleware"
)

func newTracing(t *testing.T, h handler.Handler) (*tracetest.SpanRecorder, *bytes.Buffer, func(*handler.Request) (*handler.Response, error)) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	var buf bytes.Buffer
	mock := clock.NewMock()
	mw := middleware.TracingWithConfig(middleware.TracingConfig{
		TracerProvider: tp,
		Logger:         slog.New(slog.NewTextHandler(&buf, nil)),
		Clock:          mock,
	})

	timed := handler.HandlerFunc(func(req *handler.Request) (*handler.Response, error) {
		mock.Add(25 * time.Millisecond)
		return h.Handle(req)
	})

	return sr, &buf, func(req *handler.Request) (*handler.Response, error) {
		return mw.Handle(req, timed)
	}
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracingSuccess(t *testing.T) {
	t.Parallel()

	var spanCtx trace.SpanContext
	h := handler.HandlerFunc(func(req *handler.Request) (*handler.Response, error) {
		spanCtx = trace.SpanContextFromContext(req.Context())
		return response.Text("ok"), nil
	})

	sr, logs, run := newTracing(t, h)
	resp, err := run(handler.NewRequest(http.MethodGet, "/users/1").WithHeader("X-Request-Id", "rid-1"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /users/1", span.Name())
	assert.Equal(t, trace.SpanKindServer, span.SpanKind())
	assert.True(t, spanCtx.IsValid())
	assert.Equal(t, span.SpanContext().SpanID(), spanCtx.SpanID())

	a := attrs(span)
	assert.Equal(t, "GET", a["http.request.method"].AsString())
	assert.Equal(t, "/users/1", a["url.path"].AsString())
	assert.Equal(t, "rid-1", a["request_id"].AsString())
	assert.Equal(t, int64(200), a["http.response.status_code"].AsInt64())
	assert.InDelta(t, 25.0, a["http.server.duration_ms"].AsFloat64(), 0.001)
	assert.Equal(t, codes.Unset, span.Status().Code)

	out := logs.String()
	assert.Contains(t, out, "request started")
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "latency_ms=25")
	assert.Contains(t, out, "request_id=rid-1")
}

func TestTracingErrors(t *testing.T) {
	t.Parallel()

	t.Run("returned error", func(t *testing.T) {
		t.Parallel()

		sr, logs, run := newTracing(t, errHandler(response.ErrRequestTimeout))
		_, err := run(get("/slow"))
		assert.ErrorIs(t, err, response.ErrRequestTimeout)

		span := sr.Ended()[0]
		assert.Equal(t, int64(408), attrs(span)["http.response.status_code"].AsInt64())
		assert.Equal(t, codes.Error, span.Status().Code)
		assert.Len(t, span.Events(), 1)
		assert.Contains(t, logs.String(), "status=408")
	})

	t.Run("server error response", func(t *testing.T) {
		t.Parallel()

		h := handler.HandlerFunc(func(req *handler.Request) (*handler.Response, error) {
			return response.TextWithStatus("down", http.StatusServiceUnavailable), nil
		})
		sr, logs, run := newTracing(t, h)
		_, err := run(get("/"))
		require.NoError(t, err)

		span := sr.Ended()[0]
		assert.Equal(t, codes.Error, span.Status().Code)
		assert.Contains(t, logs.String(), "level=ERROR")
	})
}
