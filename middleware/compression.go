package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/dmitrymomot/webcore/core/handler"
)

// Supported content codings.
const (
	EncodingGzip    = "gzip"
	EncodingDeflate = "deflate"
	EncodingBrotli  = "br"
	EncodingZstd    = "zstd"
)

// DefaultCompressibleTypes lists the content-type prefixes compressed by default.
var DefaultCompressibleTypes = []string{
	"text/",
	"application/json",
	"application/javascript",
	"application/xml",
	"application/rss+xml",
	"application/atom+xml",
	"image/svg+xml",
}

// CompressionConfig configures the response compression middleware.
type CompressionConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip SkipFunc `env:"-"`

	// Level is the compression level, clamped to each algorithm's range
	Level int `env:"COMPRESSION_LEVEL" envDefault:"6"`

	// MinSize is the smallest buffered body worth compressing
	MinSize int `env:"COMPRESSION_MIN_SIZE" envDefault:"1024"`

	// Algorithms in server preference order
	Algorithms []string `env:"COMPRESSION_ALGORITHMS" envDefault:"gzip" envSeparator:","`

	// ContentTypes are case-insensitive prefixes of compressible content types
	ContentTypes []string `env:"COMPRESSION_CONTENT_TYPES" envSeparator:","`

	// FilterContentTypes restricts compression to ContentTypes; when set, a
	// response without Content-Type is never compressed
	FilterContentTypes bool `env:"COMPRESSION_FILTER_CONTENT_TYPES" envDefault:"true"`
}

// DefaultCompressionConfig returns level 6, a 1 KiB minimum, gzip only and
// content-type filtering on.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		Level:              6,
		MinSize:            1024,
		Algorithms:         []string{EncodingGzip},
		ContentTypes:       DefaultCompressibleTypes,
		FilterContentTypes: true,
	}
}

// Compression creates a compression middleware with default configuration.
func Compression() handler.Middleware {
	return CompressionWithConfig(DefaultCompressionConfig())
}

// CompressionWithConfig creates a compression middleware with custom configuration.
//
// The response is encoded with the first configured algorithm the client
// accepts when it is not already encoded, its content type qualifies, and
// either it is streamed or its buffered body reaches MinSize. Streamed bodies
// are encoded incrementally, one flushed output chunk per input chunk plus a
// final trailer chunk. Errors from downstream and encoder failures leave the
// response untouched.
func CompressionWithConfig(cfg CompressionConfig) handler.Middleware {
	if len(cfg.Algorithms) == 0 {
		cfg.Algorithms = []string{EncodingGzip}
	}
	if cfg.ContentTypes == nil {
		cfg.ContentTypes = DefaultCompressibleTypes
	}
	algorithms := make([]string, 0, len(cfg.Algorithms))
	for _, a := range cfg.Algorithms {
		a = strings.ToLower(strings.TrimSpace(a))
		if _, ok := encoders[a]; ok {
			algorithms = append(algorithms, a)
		}
	}
	types := make([]string, len(cfg.ContentTypes))
	for i, t := range cfg.ContentTypes {
		types[i] = strings.ToLower(t)
	}

	return handler.MiddlewareFunc(func(req *handler.Request, next handler.Handler) (*handler.Response, error) {
		if cfg.Skip.skip(req) {
			return next.Handle(req)
		}

		encoding := negotiateEncoding(req.Header.Values("Accept-Encoding"), algorithms)
		if encoding == "" {
			return next.Handle(req)
		}

		resp, err := next.Handle(req)
		if err != nil || resp == nil {
			return resp, err
		}
		if !hasBody(resp) || resp.Header.Get("Content-Encoding") != "" {
			return resp, nil
		}
		if cfg.FilterContentTypes && !compressible(resp.Header.Get("Content-Type"), types) {
			return resp, nil
		}
		if !resp.Body.IsStream() && resp.Body.Len() < cfg.MinSize {
			return resp, nil
		}

		if resp.Body.IsStream() {
			enc, buf, err := newEncoder(encoding, cfg.Level)
			if err != nil {
				return resp, nil
			}
			resp.SetStream(&compressStream{src: resp.Body.Stream(), enc: enc, buf: buf})
		} else {
			data, err := encodeAll(encoding, cfg.Level, resp.Body.Bytes())
			if err != nil {
				return resp, nil
			}
			resp.SetBytes(data)
		}

		resp.Header.Set("Content-Encoding", encoding)
		resp.Header.Del("Content-Length")
		addVary(resp.Header, "Accept-Encoding")
		return resp, nil
	})
}

func hasBody(resp *handler.Response) bool {
	switch {
	case resp.Status < http.StatusOK,
		resp.Status == http.StatusNoContent,
		resp.Status == http.StatusNotModified:
		return false
	}
	return true
}

func compressible(contentType string, prefixes []string) bool {
	if contentType == "" {
		return false
	}
	ct := strings.ToLower(contentType)
	for _, p := range prefixes {
		if strings.HasPrefix(ct, p) {
			return true
		}
	}
	return false
}

// negotiateEncoding picks the first of algorithms the Accept-Encoding values
// allow. Tokens are compared case-insensitively, "*" accepts any coding, and
// a zero q-value refuses the coding it names.
func negotiateEncoding(header []string, algorithms []string) string {
	accepted := map[string]bool{}
	for _, line := range header {
		for token := range strings.SplitSeq(line, ",") {
			name, params, _ := strings.Cut(token, ";")
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			accepted[name] = !zeroQuality(params)
		}
	}

	for _, a := range algorithms {
		if allowed, listed := accepted[a]; listed {
			if allowed {
				return a
			}
			continue
		}
		if accepted["*"] {
			return a
		}
	}
	return ""
}

func zeroQuality(params string) bool {
	for p := range strings.SplitSeq(params, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(k), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err == nil && q <= 0
	}
	return false
}

func addVary(h http.Header, value string) {
	for _, line := range h.Values("Vary") {
		for v := range strings.SplitSeq(line, ",") {
			v = strings.TrimSpace(v)
			if v == "*" || strings.EqualFold(v, value) {
				return
			}
		}
	}
	h.Add("Vary", value)
}

// encoder is an incremental content coder writing into a buffer.
type encoder interface {
	io.WriteCloser
	Flush() error
}

var encoders = map[string]func(w io.Writer, level int) (encoder, error){
	EncodingGzip: func(w io.Writer, level int) (encoder, error) {
		return gzip.NewWriterLevel(w, clamp(level, gzip.BestSpeed, gzip.BestCompression))
	},
	EncodingDeflate: func(w io.Writer, level int) (encoder, error) {
		return flate.NewWriter(w, clamp(level, flate.BestSpeed, flate.BestCompression))
	},
	EncodingBrotli: func(w io.Writer, level int) (encoder, error) {
		return brotli.NewWriterLevel(w, clamp(level, brotli.BestSpeed, brotli.BestCompression)), nil
	},
	EncodingZstd: func(w io.Writer, level int) (encoder, error) {
		return zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(clamp(level, 1, 22))),
			zstd.WithEncoderConcurrency(1),
		)
	},
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func newEncoder(encoding string, level int) (encoder, *bytes.Buffer, error) {
	factory, ok := encoders[encoding]
	if !ok {
		return nil, nil, errUnknownEncoding
	}
	buf := new(bytes.Buffer)
	enc, err := factory(buf, level)
	if err != nil {
		return nil, nil, err
	}
	return enc, buf, nil
}

var errUnknownEncoding = errors.New("middleware: unknown content encoding")

func encodeAll(encoding string, level int, data []byte) ([]byte, error) {
	enc, buf, err := newEncoder(encoding, level)
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(data); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// compressStream encodes a source stream chunk by chunk.
type compressStream struct {
	src  handler.Stream
	enc  encoder
	buf  *bytes.Buffer
	done bool
}

func (s *compressStream) Next() ([]byte, error) {
	for !s.done {
		chunk, err := s.src.Next()
		if errors.Is(err, io.EOF) {
			s.done = true
			if err := s.enc.Close(); err != nil {
				return nil, err
			}
			if out := s.take(); len(out) > 0 {
				return out, nil
			}
			break
		}
		if err != nil {
			return nil, err
		}

		if _, err := s.enc.Write(chunk); err != nil {
			return nil, err
		}
		if err := s.enc.Flush(); err != nil {
			return nil, err
		}
		if out := s.take(); len(out) > 0 {
			return out, nil
		}
	}
	return nil, io.EOF
}

func (s *compressStream) take() []byte {
	out := slices.Clone(s.buf.Bytes())
	s.buf.Reset()
	return out
}

func (s *compressStream) Close() error {
	if !s.done {
		s.done = true
		_ = s.enc.Close()
	}
	return s.src.Close()
}
