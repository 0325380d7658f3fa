package handler

import "net/http"

// Body is the payload of a response: either buffered bytes or a stream.
// The zero value is an empty buffered body.
type Body struct {
	data   []byte
	stream Stream
}

// BytesBody returns a buffered body holding b.
func BytesBody(b []byte) Body {
	return Body{data: b}
}

// StreamBody returns a streamed body reading from s.
func StreamBody(s Stream) Body {
	return Body{stream: s}
}

// IsStream reports whether the body is streamed.
func (b Body) IsStream() bool {
	return b.stream != nil
}

// Bytes returns the buffered payload, or nil for streamed bodies.
func (b Body) Bytes() []byte {
	return b.data
}

// Stream returns the stream, or nil for buffered bodies.
func (b Body) Stream() Stream {
	return b.stream
}

// Len returns the buffered length, or -1 when the length is unknown.
func (b Body) Len() int {
	if b.stream != nil {
		return -1
	}
	return len(b.data)
}

// Response is an outbound HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   Body
}

// NewResponse creates a response with status and an empty buffered body.
func NewResponse(status int) *Response {
	return &Response{
		Status: status,
		Header: make(http.Header),
	}
}

// SetBytes replaces the body with buffered bytes.
func (r *Response) SetBytes(b []byte) *Response {
	r.Body = BytesBody(b)
	return r
}

// SetStream replaces the body with a stream.
func (r *Response) SetStream(s Stream) *Response {
	r.Body = StreamBody(s)
	return r
}

// WithHeader sets a header value and returns r for chaining.
func (r *Response) WithHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set(key, value)
	return r
}

// Close releases the stream held by the body, if any.
func (r *Response) Close() error {
	if s := r.Body.Stream(); s != nil {
		return s.Close()
	}
	return nil
}
