package response

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/dmitrymomot/webcore/core/handler"
)

// DefaultSSEKeepAlive is the default keep-alive interval for SSE connections.
const DefaultSSEKeepAlive = 30 * time.Second

type sseConfig struct {
	eventName string
	eventID   string
	idGen     func(any) string
	reconnect int
	keepAlive time.Duration
}

// EventOption configures Server-Sent Events behavior.
type EventOption func(*sseConfig)

// WithEventName sets the event name for SSE events.
func WithEventName(name string) EventOption {
	return func(s *sseConfig) {
		s.eventName = name
	}
}

// WithEventID sets a fixed event ID for all SSE events.
func WithEventID(id string) EventOption {
	return func(s *sseConfig) {
		s.eventID = id
	}
}

// WithEventIDGenerator derives each event ID from its data.
func WithEventIDGenerator(fn func(data any) string) EventOption {
	return func(s *sseConfig) {
		s.idGen = fn
	}
}

// WithReconnectTime sets the client reconnection time in milliseconds.
func WithReconnectTime(milliseconds int) EventOption {
	return func(s *sseConfig) {
		s.reconnect = milliseconds
	}
}

// WithKeepAlive sets the keep-alive comment interval.
func WithKeepAlive(interval time.Duration) EventOption {
	return func(s *sseConfig) {
		s.keepAlive = interval
	}
}

// WithoutKeepAlive disables keep-alive comments.
func WithoutKeepAlive() EventOption {
	return func(s *sseConfig) {
		s.keepAlive = 0
	}
}

// SSE creates a streamed text/event-stream response fed by events.
// The stream ends when events is closed or ctx is done. Strings and byte
// slices are sent verbatim, anything else is JSON-encoded.
func SSE(ctx context.Context, events <-chan any, opts ...EventOption) *handler.Response {
	cfg := &sseConfig{keepAlive: DefaultSSEKeepAlive}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &sseStream{ctx: ctx, events: events, cfg: cfg}
	if cfg.keepAlive > 0 {
		s.ticker = time.NewTicker(cfg.keepAlive)
	}

	resp := handler.NewResponse(http.StatusOK).SetStream(s)
	resp.Header.Set("Content-Type", "text/event-stream")
	resp.Header.Set("Cache-Control", "no-cache")
	resp.Header.Set("X-Accel-Buffering", "no")
	return resp
}

type sseStream struct {
	ctx     context.Context
	events  <-chan any
	cfg     *sseConfig
	ticker  *time.Ticker
	started bool
	done    bool
}

func (s *sseStream) Next() ([]byte, error) {
	if s.done {
		return nil, io.EOF
	}
	if !s.started {
		s.started = true
		head := ": connected\n\n"
		if s.cfg.reconnect > 0 {
			head = "retry: " + strconv.Itoa(s.cfg.reconnect) + "\n" + head
		}
		return []byte(head), nil
	}

	var tick <-chan time.Time
	if s.ticker != nil {
		tick = s.ticker.C
	}

	select {
	case <-s.ctx.Done():
		s.done = true
		return nil, io.EOF
	case <-tick:
		return []byte(": keep-alive\n\n"), nil
	case data, ok := <-s.events:
		if !ok {
			s.done = true
			return nil, io.EOF
		}
		return s.format(data)
	}
}

func (s *sseStream) format(data any) ([]byte, error) {
	var payload string
	switch v := data.(type) {
	case string:
		payload = v
	case []byte:
		payload = string(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		payload = string(b)
	}

	var buf bytes.Buffer
	id := s.cfg.eventID
	if s.cfg.idGen != nil {
		id = s.cfg.idGen(data)
	}
	if id != "" {
		buf.WriteString("id: " + id + "\n")
	}
	if s.cfg.eventName != "" {
		buf.WriteString("event: " + s.cfg.eventName + "\n")
	}
	for line := range strings.SplitSeq(payload, "\n") {
		buf.WriteString("data: " + line + "\n")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (s *sseStream) Close() error {
	s.done = true
	if s.ticker != nil {
		s.ticker.Stop()
	}
	return nil
}
