package app

import (
	"context"
	"sync"
	"sync/atomic"
)

// defaultQueueSize bounds the number of tasks waiting to run.
const defaultQueueSize = 256

// Loop runs posted tasks one at a time on the goroutine that calls Run.
type Loop struct {
	tasks    chan func()
	done     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	mu    sync.Mutex
	after []func()
}

// NewLoop creates a stopped loop.
func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), defaultQueueSize),
		done:  make(chan struct{}),
	}
}

// Post queues f. It returns false once the loop has been stopped.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- f:
		return true
	case <-l.done:
		return false
	}
}

// AfterEach registers fn to run after every task, e.g. to redraw.
func (l *Loop) AfterEach(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.after = append(l.after, fn)
}

// Run executes tasks until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.done:
			return nil
		case f := <-l.tasks:
			l.exec(f)
		}
	}
}

// Drain runs every queued task on the calling goroutine, including tasks
// queued while draining, and returns how many ran.
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case f := <-l.tasks:
			l.exec(f)
			n++
		default:
			return n
		}
	}
}

// Stop ends Run. Later posts are dropped.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *Loop) exec(f func()) {
	f()

	l.mu.Lock()
	after := make([]func(), len(l.after))
	copy(after, l.after)
	l.mu.Unlock()

	for _, fn := range after {
		fn()
	}
}
