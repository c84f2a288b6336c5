package app

import (
	"context"
	"sync"
	"time"

	"github.com/dshills/mindkeys/internal/canvas"
	"github.com/dshills/mindkeys/internal/clock"
)

// Poll backoff bounds.
const (
	minPollInterval = 10 * time.Millisecond
	maxPollInterval = 500 * time.Millisecond
)

// Poll asks the host for the active canvas.
type Poll func() (canvas.Canvas, bool)

// Readiness waits for a host canvas. It is satisfied either by the host
// calling Resolve when a canvas view activates, or by a successful Poll.
// Polling backs off exponentially between attempts.
type Readiness struct {
	poll  Poll
	clock clock.Clock

	mu       sync.Mutex
	canvas   canvas.Canvas
	resolved chan struct{}
}

// NewReadiness creates an unresolved readiness. poll may be nil.
func NewReadiness(poll Poll, clk clock.Clock) *Readiness {
	return &Readiness{
		poll:     poll,
		clock:    clk,
		resolved: make(chan struct{}),
	}
}

// Resolve records c as the ready canvas and wakes waiters.
func (r *Readiness) Resolve(c canvas.Canvas) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.canvas = c
	select {
	case <-r.resolved:
	default:
		close(r.resolved)
	}
}

// Reset forgets the canvas, e.g. after its view was closed.
func (r *Readiness) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.canvas = nil
	select {
	case <-r.resolved:
		r.resolved = make(chan struct{})
	default:
	}
}

// Canvas returns the resolved canvas.
func (r *Readiness) Canvas() (canvas.Canvas, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canvas, r.canvas != nil
}

// Wait returns the canvas once ready. It fails with ErrCanvasTimeout after
// timeout, or with ctx's error if ctx ends first.
func (r *Readiness) Wait(ctx context.Context, timeout time.Duration) (canvas.Canvas, error) {
	deadline := r.clock.Now().Add(timeout)
	interval := minPollInterval

	for {
		if c, ok := r.Canvas(); ok {
			return c, nil
		}
		if r.poll != nil {
			if c, ok := r.poll(); ok && c != nil {
				r.Resolve(c)
				return c, nil
			}
		}

		remaining := deadline.Sub(r.clock.Now())
		if remaining <= 0 {
			return nil, ErrCanvasTimeout
		}

		r.mu.Lock()
		resolved := r.resolved
		r.mu.Unlock()

		tick := make(chan struct{})
		t := r.clock.AfterFunc(min(interval, remaining), func() { close(tick) })
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-resolved:
			t.Stop()
		case <-tick:
		}
		interval = min(interval*2, maxPollInterval)
	}
}
