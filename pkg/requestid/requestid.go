// Package requestid generates process-unique request identifiers.
//
// The default format is the current Unix time in microseconds and a
// per-generator sequence number, both in lowercase hex, joined by '-':
//
//	18c3f0a2b1d4e-2a
//
// The counter makes identifiers unique within a process even when the clock
// does not advance between calls.
package requestid

import (
	"strconv"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

// Generator hands out request identifiers. It is safe for concurrent use.
type Generator interface {
	Next() string
}

// Counter produces "<hex micros>-<hex counter>" identifiers.
type Counter struct {
	clock   clock.Clock
	counter atomic.Uint64
}

// Option configures a Counter.
type Option func(*Counter)

// WithClock sets the time source. Tests pass clock.NewMock().
func WithClock(c clock.Clock) Option {
	return func(g *Counter) {
		g.clock = c
	}
}

// New creates a Counter reading the wall clock.
func New(opts ...Option) *Counter {
	g := &Counter{clock: clock.New()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next returns the next identifier.
func (g *Counter) Next() string {
	micros := uint64(g.clock.Now().UnixMicro())
	seq := g.counter.Add(1) - 1

	buf := make([]byte, 0, 32)
	buf = strconv.AppendUint(buf, micros, 16)
	buf = append(buf, '-')
	buf = strconv.AppendUint(buf, seq, 16)
	return string(buf)
}

// UUID produces random version 4 UUIDs.
type UUID struct{}

// Next returns a new random UUID string.
func (UUID) Next() string {
	return uuid.NewString()
}

// Func adapts a function to the Generator interface.
type Func func() string

// Next calls f.
func (f Func) Next() string { return f() }

var defaultGenerator = New()

// Next returns an identifier from the process-wide Counter.
func Next() string {
	return defaultGenerator.Next()
}
