package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"

	"github.com/dmitrymomot/webcore/core/handler"
	"github.com/dmitrymomot/webcore/core/logger"
	"github.com/dmitrymomot/webcore/core/response"
)

// Dispatcher turns a request into exactly one response.
// *webcore.App implements it.
type Dispatcher interface {
	Handle(req *handler.Request) *handler.Response
}

// HandlerOption configures the net/http adapter.
type HandlerOption func(*adapter)

// WithHandlerLogger sets the logger for body read and response write failures.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(a *adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMaxBodyBytes caps how much of a request body is read into memory.
// Larger bodies are answered with 413 without reaching the dispatcher.
// A non-positive value removes the cap.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(a *adapter) {
		a.maxBody = n
	}
}

type adapter struct {
	dispatcher Dispatcher
	logger     *slog.Logger
	maxBody    int64
}

// NewHandler adapts d to net/http.
//
// The request body is read only for non-HEAD requests announcing one with a
// positive Content-Length or chunked Transfer-Encoding. Status and headers
// are written once; a buffered body is written in one call, a streamed body
// chunk by chunk with a flush after each. HEAD responses never carry body
// bytes. Write failures abort the response and are logged.
func NewHandler(d Dispatcher, opts ...HandlerOption) http.Handler {
	a := &adapter{
		dispatcher: d,
		logger:     logger.Discard(),
		maxBody:    DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := a.request(w, r)
	if err != nil {
		a.write(w, r, response.FromError(err))
		return
	}
	a.write(w, r, a.dispatcher.Handle(req))
}

func (a *adapter) request(w http.ResponseWriter, r *http.Request) (*handler.Request, error) {
	req := handler.NewRequestWithContext(r.Context(), r.Method, "/")
	req.URL = r.URL
	req.Header = r.Header
	req.RemoteAddr = r.RemoteAddr
	if r.Host != "" && req.Header.Get("Host") == "" {
		req.Header.Set("Host", r.Host)
	}

	if !hasBody(r) {
		return req, nil
	}

	body := r.Body
	if a.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, a.maxBody)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, response.ErrRequestEntityTooLarge.WithDetails(map[string]any{
				"max_bytes": maxErr.Limit,
			})
		}
		a.logger.WarnContext(r.Context(), "request body read failed",
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.Error(err),
		)
		return nil, response.ErrBadRequest.WithMessage("failed to read request body")
	}
	req.Body = data
	return req, nil
}

func hasBody(r *http.Request) bool {
	if r.Method == http.MethodHead || r.Body == nil || r.Body == http.NoBody {
		return false
	}
	return r.ContentLength > 0 || slices.Contains(r.TransferEncoding, "chunked")
}

func (a *adapter) write(w http.ResponseWriter, r *http.Request, resp *handler.Response) {
	if resp == nil {
		resp = response.FromError(response.ErrInternalServerError)
	}
	defer func() {
		if err := resp.Close(); err != nil {
			a.logger.WarnContext(r.Context(), "response stream close failed", logger.Error(err))
		}
	}()

	h := w.Header()
	for k, v := range resp.Header {
		// net/http owns message framing.
		if k == "Transfer-Encoding" {
			continue
		}
		h[k] = v
	}

	status := resp.Status
	if status < 100 || status > 999 {
		status = http.StatusInternalServerError
	}
	w.WriteHeader(status)

	if r.Method == http.MethodHead {
		return
	}

	if !resp.Body.IsStream() {
		if data := resp.Body.Bytes(); len(data) > 0 {
			if _, err := w.Write(data); err != nil {
				a.writeFailed(r, err)
			}
		}
		return
	}

	rc := http.NewResponseController(w)
	stream := resp.Body.Stream()
	for {
		chunk, err := stream.Next()
		if len(chunk) > 0 {
			if _, werr := w.Write(chunk); werr != nil {
				a.writeFailed(r, werr)
				return
			}
			if ferr := rc.Flush(); ferr != nil && !errors.Is(ferr, http.ErrNotSupported) {
				a.writeFailed(r, ferr)
				return
			}
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			// Headers are already on the wire; the best we can do is stop.
			a.logger.ErrorContext(r.Context(), "response stream failed",
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.Error(err),
			)
			return
		}
	}
}

func (a *adapter) writeFailed(r *http.Request, err error) {
	a.logger.WarnContext(r.Context(), "response write failed",
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.Error(err),
	)
}
