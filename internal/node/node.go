// Package node creates child and sibling nodes for the selection and keeps
// the affected column laid out.
package node

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/mindkeys/internal/canvas"
	"github.com/dshills/mindkeys/internal/focus"
	"github.com/dshills/mindkeys/internal/layout"
	"github.com/dshills/mindkeys/internal/logging"
)

// DefaultEpsilon is the vertical nudge that orders a new node relative to
// its neighbours before reflow.
const DefaultEpsilon = 1

// Position places a new sibling relative to the selection.
type Position uint8

const (
	// Before places the sibling above the selection.
	Before Position = iota
	// After places the sibling below the selection.
	After
)

// String returns the position name.
func (p Position) String() string {
	if p == Before {
		return "before"
	}
	return "after"
}

// Capability is the node editing surface a session composes.
type Capability interface {
	// Reflow lays siblings out in a column to the right of parent.
	Reflow(parent canvas.Node, siblings []canvas.Node) error
	// CreateChild adds a right-side child to the selection.
	CreateChild() (canvas.Node, error)
	// CreateSibling adds a node next to the selection under the same parent.
	CreateSibling(pos Position) (canvas.Node, error)
}

var _ Capability = (*Controller)(nil)

// IDFunc allocates node and edge ids.
type IDFunc func() string

// NewID returns 16 hex characters taken from a random UUID.
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:8])
}

// Controller implements Capability against a host canvas.
type Controller struct {
	canvas    canvas.Canvas
	focus     *focus.Machine
	layout    *layout.Engine
	newID     IDFunc
	epsilon   float64
	autoFocus bool
	log       *logging.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLayout sets the layout engine.
func WithLayout(e *layout.Engine) Option {
	return func(c *Controller) { c.layout = e }
}

// WithIDFunc sets the id allocator.
func WithIDFunc(f IDFunc) Option {
	return func(c *Controller) { c.newID = f }
}

// WithEpsilon sets the pre-reflow vertical nudge.
func WithEpsilon(eps float64) Option {
	return func(c *Controller) { c.epsilon = eps }
}

// WithAutoFocus makes new nodes open for editing.
func WithAutoFocus(on bool) Option {
	return func(c *Controller) { c.autoFocus = on }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New creates a controller that reveals new nodes through fm.
func New(c canvas.Canvas, fm *focus.Machine, opts ...Option) *Controller {
	ctl := &Controller{
		canvas:  c,
		focus:   fm,
		layout:  layout.New(),
		newID:   NewID,
		epsilon: DefaultEpsilon,
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(ctl)
	}
	ctl.log = ctl.log.WithComponent("node")
	return ctl
}

// Reflow lays siblings out in a column to the right of parent.
func (c *Controller) Reflow(parent canvas.Node, siblings []canvas.Node) error {
	return c.layout.Reflow(c.canvas, parent, siblings)
}

// CreateChild adds a node to the right of the selection, below its existing
// children, links it, reflows the children and reveals the new node.
func (c *Controller) CreateChild() (canvas.Node, error) {
	sel, err := canvas.Selected(c.canvas)
	if err != nil {
		return canvas.Node{}, err
	}

	children := canvas.RightChildren(c.canvas, sel.ID)
	y := sel.Y
	if len(children) > 0 {
		y = children[0].Y
		for _, ch := range children[1:] {
			y = max(y, ch.Y)
		}
		y += c.epsilon
	}
	x := sel.X + sel.Width + c.layout.ColumnGap

	return c.add(sel, children, x, y, sel)
}

// CreateSibling adds a node just above or below the selection under the
// same parent, links it, reflows the column and reveals the new node.
// Root nodes have no siblings and yield ErrNoParent.
func (c *Controller) CreateSibling(pos Position) (canvas.Node, error) {
	sel, err := canvas.Selected(c.canvas)
	if err != nil {
		return canvas.Node{}, err
	}

	parent, siblings, ok := canvas.Siblings(c.canvas, sel.ID)
	if !ok {
		return canvas.Node{}, ErrNoParent
	}

	y := sel.Y + c.epsilon
	if pos == Before {
		y = sel.Y - c.epsilon
	}
	return c.add(parent, siblings, sel.X, y, sel)
}

// add creates a node sized like template at (x, y), links it under parent
// and lays out the column formed with siblings.
func (c *Controller) add(parent canvas.Node, siblings []canvas.Node, x, y float64, template canvas.Node) (canvas.Node, error) {
	id := c.newID()
	n, err := c.canvas.CreateTextNode(canvas.TextNodeOptions{
		ID:     id,
		X:      x,
		Y:      y,
		Width:  template.Width,
		Height: template.Height,
		Save:   true,
	})
	if err != nil {
		return canvas.Node{}, fmt.Errorf("create node: %w", err)
	}
	c.log.Debug("created %s under %s", n.ID, parent.ID)

	if err := c.link(parent.ID, n.ID); err != nil {
		return n, &OrphanError{NodeID: n.ID, Err: err}
	}

	column := append(append([]canvas.Node(nil), siblings...), n)
	reflowErr := c.Reflow(parent, column)
	revealErr := c.focus.Reveal(n.ID, c.autoFocus)
	return n, errors.Join(reflowErr, revealErr)
}

// link appends a right-to-left edge from parent to child.
func (c *Controller) link(parentID, childID string) error {
	data := c.canvas.Data().Clone()
	data.Edges = append(data.Edges, canvas.Edge{
		ID:       c.newID(),
		FromNode: parentID,
		FromSide: canvas.SideRight,
		ToNode:   childID,
		ToSide:   canvas.SideLeft,
	})
	return c.canvas.ImportData(data)
}
