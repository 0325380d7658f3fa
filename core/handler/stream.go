package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
)

// DefaultChunkSize is the read size used by ReaderStream when none is given.
const DefaultChunkSize = 64 << 10

// Stream is a lazy, finite sequence of body chunks.
//
// Next returns the next chunk, or io.EOF once the sequence is exhausted.
// A stream is consumed at most once. Close releases the underlying
// resources and must be safe to call after io.EOF.
type Stream interface {
	Next() ([]byte, error)
	Close() error
}

type sliceStream struct {
	chunks [][]byte
}

// Chunks returns a stream yielding each chunk in order.
func Chunks(chunks ...[]byte) Stream {
	return &sliceStream{chunks: chunks}
}

func (s *sliceStream) Next() ([]byte, error) {
	if len(s.chunks) == 0 {
		return nil, io.EOF
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, nil
}

func (s *sliceStream) Close() error {
	s.chunks = nil
	return nil
}

type readerStream struct {
	r    io.Reader
	buf  []byte
	done bool
}

// ReaderStream returns a stream reading r in chunks of up to size bytes.
// If r implements io.Closer it is closed by the stream's Close.
func ReaderStream(r io.Reader, size int) Stream {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &readerStream{r: r, buf: make([]byte, size)}
}

func (s *readerStream) Next() ([]byte, error) {
	if s.done {
		return nil, io.EOF
	}
	for {
		n, err := s.r.Read(s.buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, s.buf[:n])
			if errors.Is(err, io.EOF) {
				s.done = true
			}
			return chunk, nil
		}
		if errors.Is(err, io.EOF) {
			s.done = true
			return nil, io.EOF
		}
		if err != nil {
			s.done = true
			return nil, err
		}
	}
}

func (s *readerStream) Close() error {
	s.done = true
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// FuncStream adapts a chunk producer to the Stream interface.
// The producer reports the end of the sequence with io.EOF.
func FuncStream(next func() ([]byte, error)) Stream {
	return funcStream(next)
}

type funcStream func() ([]byte, error)

func (f funcStream) Next() ([]byte, error) { return f() }
func (f funcStream) Close() error          { return nil }

type chanStream struct {
	ctx context.Context
	ch  <-chan []byte
}

// ChanStream returns a stream yielding chunks received from ch until it is
// closed. Next fails with the context error once ctx is done.
func ChanStream(ctx context.Context, ch <-chan []byte) Stream {
	return &chanStream{ctx: ctx, ch: ch}
}

func (s *chanStream) Next() ([]byte, error) {
	select {
	case <-s.ctx.Done():
		return nil, s.ctx.Err()
	case c, ok := <-s.ch:
		if !ok {
			return nil, io.EOF
		}
		return c, nil
	}
}

func (s *chanStream) Close() error { return nil }

// ReadAll drains s, closes it and returns the concatenated chunks.
func ReadAll(s Stream) ([]byte, error) {
	defer s.Close()
	var buf bytes.Buffer
	for {
		c, err := s.Next()
		if errors.Is(err, io.EOF) {
			return buf.Bytes(), nil
		}
		if err != nil {
			return buf.Bytes(), err
		}
		buf.Write(c)
	}
}
