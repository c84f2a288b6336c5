// Package navigate moves the selection to the best-placed node in a compass
// direction.
package navigate

import (
	"math"

	"github.com/dshills/mindkeys/internal/canvas"
	"github.com/dshills/mindkeys/internal/focus"
	"github.com/dshills/mindkeys/internal/logging"
	"github.com/dshills/mindkeys/internal/spatial"
)

// DefaultOffsetWeight is the exponent applied to the cross-axis offset.
const DefaultOffsetWeight = 1.1

// Pick returns the candidate with the lowest directional score among those
// lying strictly in dir from from. from itself is never picked and the
// first candidate wins ties.
func Pick(dir spatial.Direction, from canvas.Node, candidates []canvas.Node, weight float64) (canvas.Node, bool) {
	fromBox := from.BBox()

	var best canvas.Node
	bestScore := math.Inf(1)
	found := false
	for _, n := range candidates {
		if n.ID == from.ID {
			continue
		}
		box := n.BBox()
		if !spatial.InDirection(dir, fromBox, box) {
			continue
		}
		if s := spatial.DirectionalScore(dir, fromBox, box, weight); !found || s < bestScore {
			best, bestScore, found = n, s, true
		}
	}
	return best, found
}

// Engine moves the selection between visible nodes.
type Engine struct {
	canvas    canvas.Canvas
	focus     *focus.Machine
	weight    float64
	autoFocus bool
	log       *logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithOffsetWeight sets the cross-axis exponent.
func WithOffsetWeight(w float64) Option {
	return func(e *Engine) { e.weight = w }
}

// WithAutoFocus makes every move begin editing the new node.
func WithAutoFocus(on bool) Option {
	return func(e *Engine) { e.autoFocus = on }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an engine that reveals its picks through fm.
func New(c canvas.Canvas, fm *focus.Machine, opts ...Option) *Engine {
	e := &Engine{
		canvas: c,
		focus:  fm,
		weight: DefaultOffsetWeight,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithComponent("navigate")
	return e
}

// Navigate selects the visible node best placed in dir from the selection,
// focuses it and zooms to it. It does nothing when no node lies in that
// direction. It fails with canvas.ErrNoSelection or canvas.ErrInvalidState
// when there is no selection or the selection is being edited.
func (e *Engine) Navigate(dir spatial.Direction) error {
	from, err := canvas.Selected(e.canvas)
	if err != nil {
		return err
	}

	to, ok := Pick(dir, from, e.canvas.NodesInViewport(), e.weight)
	if !ok {
		e.log.Debug("nothing %s of %s", dir, from.ID)
		return nil
	}
	e.log.Debug("%s: %s -> %s", dir, from.ID, to.ID)
	return e.focus.Reveal(to.ID, e.autoFocus)
}
