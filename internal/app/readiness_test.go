package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dshills/mindkeys/internal/canvas"
	"github.com/dshills/mindkeys/internal/canvas/jsoncanvas"
	"github.com/dshills/mindkeys/internal/clock"
)

func TestReadinessResolve(t *testing.T) {
	r := NewReadiness(nil, clock.Real())
	doc := jsoncanvas.New()

	go func() {
		time.Sleep(10 * time.Millisecond)
		r.Resolve(doc)
	}()

	c, err := r.Wait(context.Background(), 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if c != canvas.Canvas(doc) {
		t.Error("Wait returned a different canvas")
	}
}

func TestReadinessPollBackoff(t *testing.T) {
	doc := jsoncanvas.New()
	var calls atomic.Int32
	poll := func() (canvas.Canvas, bool) {
		if calls.Add(1) < 3 {
			return nil, false
		}
		return doc, true
	}
	r := NewReadiness(poll, clock.Real())

	if _, err := r.Wait(context.Background(), 5*time.Second); err != nil {
		t.Fatal(err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("poll calls = %d, want 3", got)
	}
	if _, ok := r.Canvas(); !ok {
		t.Error("poll success should resolve")
	}
}

func TestReadinessTimeout(t *testing.T) {
	r := NewReadiness(func() (canvas.Canvas, bool) { return nil, false }, clock.Real())

	start := time.Now()
	_, err := r.Wait(context.Background(), 30*time.Millisecond)
	if !errors.Is(err, ErrCanvasTimeout) {
		t.Fatalf("err = %v, want ErrCanvasTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
}

func TestReadinessContextCancel(t *testing.T) {
	r := NewReadiness(nil, clock.Real())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Wait(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestReadinessReset(t *testing.T) {
	r := NewReadiness(nil, clock.Real())
	r.Resolve(jsoncanvas.New())
	r.Reset()

	if _, ok := r.Canvas(); ok {
		t.Error("Reset should forget the canvas")
	}
	if _, err := r.Wait(context.Background(), 20*time.Millisecond); !errors.Is(err, ErrCanvasTimeout) {
		t.Errorf("err = %v, want ErrCanvasTimeout after reset", err)
	}
}
