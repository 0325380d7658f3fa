package logger_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webcore/core/logger"
)

func TestNewInjectsRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))

	ctx := logger.WithRequestID(context.Background(), "abc-1")
	log.InfoContext(ctx, "hello", logger.Method("GET"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "abc-1", rec["request_id"])
	assert.Equal(t, "GET", rec["method"])
}

func TestNewLevelsAndExtractors(t *testing.T) {
	t.Parallel()

	type userKey struct{}
	var buf bytes.Buffer
	log := logger.New(
		logger.WithConfig(logger.Config{Level: "warn", Format: "json", Service: "api"}),
		logger.WithOutput(&buf),
		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
			u, ok := ctx.Value(userKey{}).(string)
			return slog.String("user", u), ok
		}),
	)

	ctx := context.WithValue(context.Background(), userKey{}, "bob")
	log.InfoContext(ctx, "dropped")
	assert.Zero(t, buf.Len())

	log.WarnContext(ctx, "kept")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "bob", rec["user"])
	assert.Equal(t, "api", rec["service"])
	assert.NotContains(t, rec, "request_id")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("verbose"))
}

func TestRequestIDFromContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, logger.RequestIDFromContext(context.Background()))
	assert.Equal(t, "x", logger.RequestIDFromContext(logger.WithRequestID(context.Background(), "x")))
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))

	err := errors.New("boom")
	attr := logger.Errors(nil, err)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 1)
	assert.Equal(t, "1", g[0].Key)

	assert.Equal(t, 1.5, logger.LatencyMS(1500*time.Microsecond).Value.Float64())
	assert.Equal(t, "status", logger.StatusCode(200).Key)
	assert.Equal(t, "trace", logger.Stack([]byte("trace")).Value.String())
	assert.NotEmpty(t, logger.Stack().Value.String())
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	log := logger.Discard()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}
