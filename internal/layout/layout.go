// Package layout arranges a parent's right-side children into a vertically
// centered column.
package layout

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dshills/mindkeys/internal/canvas"
)

// Default gaps, in canvas units.
const (
	DefaultRowGap    = 20
	DefaultColumnGap = 200
)

// Placement is the new top-left corner computed for a node.
type Placement struct {
	ID   string
	X, Y float64
}

// Engine computes and applies sibling layouts.
type Engine struct {
	// RowGap is the vertical space between consecutive siblings.
	RowGap float64
	// ColumnGap is the horizontal space between a parent and its children.
	ColumnGap float64
}

// New returns an engine with the default gaps.
func New() *Engine {
	return &Engine{RowGap: DefaultRowGap, ColumnGap: DefaultColumnGap}
}

// Compute returns the placements that stack siblings in a single column to
// the right of parent, ordered by their current Y and centered on the
// parent's vertical center. Siblings with equal Y keep their input order.
func (e *Engine) Compute(parent canvas.Node, siblings []canvas.Node) []Placement {
	if len(siblings) == 0 {
		return nil
	}

	sorted := slices.Clone(siblings)
	slices.SortStableFunc(sorted, func(a, b canvas.Node) int {
		switch {
		case a.Y < b.Y:
			return -1
		case a.Y > b.Y:
			return 1
		}
		return 0
	})

	total := e.RowGap * float64(len(sorted)-1)
	for _, n := range sorted {
		total += n.Height
	}

	x := parent.X + parent.Width + e.ColumnGap
	y := parent.Center().Y - total/2

	out := make([]Placement, len(sorted))
	for i, n := range sorted {
		out[i] = Placement{ID: n.ID, X: x, Y: y}
		y += n.Height + e.RowGap
	}
	return out
}

// Reflow moves siblings into the column computed by Compute. Width and
// height are left alone. A failed move does not stop the remaining moves;
// all failures are returned joined.
func (e *Engine) Reflow(m canvas.Mutator, parent canvas.Node, siblings []canvas.Node) error {
	var errs []error
	for _, p := range e.Compute(parent, siblings) {
		if err := m.MoveNode(p.ID, p.X, p.Y); err != nil {
			errs = append(errs, fmt.Errorf("reflow %s: %w", p.ID, err))
		}
	}
	return errors.Join(errs...)
}
