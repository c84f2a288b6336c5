// Package debounce provides Gate, a trailing-edge call coalescer used to
// keep key auto-repeat and rapid double presses from mutating the canvas
// more than once.
package debounce

import (
	"sync"
	"time"

	"github.com/dshills/mindkeys/internal/clock"
)

// DefaultDelay is the coalescing window used when none is configured.
const DefaultDelay = 100 * time.Millisecond

// Gate wraps an operation taking an argument of type T.
//
// Every Call cancels the pending run, if any, and schedules a new one delay
// after itself with the latest argument. A burst of calls closer together
// than delay therefore runs the operation exactly once, with the arguments
// of the last call.
//
// Thread-safety: All methods are safe for concurrent use. The operation is
// never called concurrently with itself by the gate.
type Gate[T any] struct {
	mu      sync.Mutex
	clock   clock.Clock
	delay   time.Duration
	timer   clock.Timer
	pending bool
	seq     uint64 // sequence number to detect stale callbacks
	arg     T
	fn      func(T)
}

// Option configures a Gate.
type Option func(*options)

type options struct {
	clock clock.Clock
}

// WithClock sets the clock used to schedule runs.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// New creates a gate around fn. A non-positive delay selects DefaultDelay.
func New[T any](delay time.Duration, fn func(T), opts ...Option) *Gate[T] {
	o := options{clock: clock.Real()}
	for _, opt := range opts {
		opt(&o)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Gate[T]{
		clock: o.clock,
		delay: delay,
		fn:    fn,
	}
}

// Call schedules the operation to run with arg after the gate's delay,
// replacing any run scheduled by an earlier call.
func (g *Gate[T]) Call(arg T) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pending = true
	g.arg = arg
	g.seq++
	currentSeq := g.seq

	if g.timer != nil {
		g.timer.Stop()
	}

	g.timer = g.clock.AfterFunc(g.delay, func() {
		g.mu.Lock()
		// Only execute if this is still the current scheduled run
		if !g.pending || g.seq != currentSeq {
			g.mu.Unlock()
			return
		}
		g.pending = false
		g.timer = nil
		arg := g.arg
		g.mu.Unlock()
		g.fn(arg)
	})
}

// Flush runs a pending operation immediately and cancels its timer.
// It returns false if nothing was pending.
func (g *Gate[T]) Flush() bool {
	g.mu.Lock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.seq++

	if !g.pending {
		g.mu.Unlock()
		return false
	}
	g.pending = false
	arg := g.arg
	g.mu.Unlock()

	g.fn(arg)
	return true
}

// Cancel drops any pending run.
func (g *Gate[T]) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	// Increment seq to invalidate any running timer callback
	g.seq++
	g.pending = false
	var zero T
	g.arg = zero
}

// IsPending returns true if a run is scheduled.
func (g *Gate[T]) IsPending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// Delay returns the coalescing window.
func (g *Gate[T]) Delay() time.Duration {
	return g.delay
}
