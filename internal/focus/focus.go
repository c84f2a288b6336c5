// Package focus implements the View/Focused/Editing state machine that the
// focus key and escape drive on the selected node.
//
// The host owns interaction state; the machine re-reads it before acting on
// a trigger, so clicks and other host-side changes never leave it stale.
package focus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/mindkeys/internal/canvas"
	"github.com/dshills/mindkeys/internal/clock"
	"github.com/dshills/mindkeys/internal/logging"
	"github.com/dshills/mindkeys/internal/spatial"
)

// DefaultMacroTaskDelay is how long editing waits after the request, letting
// the host finish selection and focus work first.
const DefaultMacroTaskDelay = 50 * time.Millisecond

// ErrNoCandidates indicates the canvas has no node to focus.
var ErrNoCandidates = errors.New("no node to focus")

// State is the interaction state of the selection.
type State uint8

const (
	// View means nothing is focused.
	View State = iota
	// Focused means the selected node shows focus but is not being edited.
	Focused
	// Editing means the selected node is being text-edited.
	Editing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case View:
		return "view"
	case Focused:
		return "focused"
	case Editing:
		return "editing"
	default:
		return "unknown"
	}
}

// Trigger is an input that drives the machine.
type Trigger uint8

const (
	// FocusKey is the configured focus hotkey.
	FocusKey Trigger = iota
	// Escape is the escape or blur key.
	Escape
)

// String returns the trigger name.
func (t Trigger) String() string {
	switch t {
	case FocusKey:
		return "focus"
	case Escape:
		return "escape"
	default:
		return "unknown"
	}
}

// TransitionFunc is called after the state changes.
type TransitionFunc func(from, to State)

// Machine tracks the selection's interaction state and performs the host
// calls each transition requires.
type Machine struct {
	canvas canvas.Canvas
	clock  clock.Clock
	delay  time.Duration
	log    *logging.Logger

	mu        sync.Mutex
	state     State
	callbacks []TransitionFunc
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock sets the clock used for the edit delay.
func WithClock(c clock.Clock) Option {
	return func(m *Machine) { m.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Machine) { m.log = l }
}

// WithMacroTaskDelay sets the delay before editing begins.
func WithMacroTaskDelay(d time.Duration) Option {
	return func(m *Machine) { m.delay = d }
}

// New creates a machine for the canvas, starting in View.
func New(c canvas.Canvas, opts ...Option) *Machine {
	m := &Machine{
		canvas: c,
		clock:  clock.Real(),
		delay:  DefaultMacroTaskDelay,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.WithComponent("focus")
	return m
}

// State returns the last known state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// OnTransition registers fn to be called on every state change.
func (m *Machine) OnTransition(fn TransitionFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// Sync derives the state from the host and returns it. A selected node that
// shows no focus counts as View.
func (m *Machine) Sync() State {
	s := View
	if n, ok := m.canvas.Selection(); ok {
		switch {
		case m.canvas.IsEditing(n.ID):
			s = Editing
		case m.canvas.IsFocused(n.ID):
			s = Focused
		}
	}
	m.setState(s)
	return s
}

// SelectionChanged is called by the host after the selection changes.
// An empty selection resets the machine to View.
func (m *Machine) SelectionChanged() {
	if _, ok := m.canvas.Selection(); !ok {
		m.setState(View)
		return
	}
	m.Sync()
}

// Fire applies a trigger. Trigger and state pairs without a transition are
// no-ops and return nil.
func (m *Machine) Fire(t Trigger) error {
	from := m.Sync()
	m.log.Debug("%s in %s", t, from)

	switch {
	case t == FocusKey && from == View:
		return m.focusFromView()

	case t == FocusKey && from == Focused:
		n, ok := m.canvas.Selection()
		if !ok {
			return canvas.ErrNoSelection
		}
		m.EditAfterDelay(n.ID)
		return nil

	case t == Escape && from == Editing:
		n, ok := m.canvas.Selection()
		if !ok {
			return canvas.ErrNoSelection
		}
		if err := m.canvas.StopEditing(n.ID); err != nil {
			return fmt.Errorf("stop editing %s: %w", n.ID, err)
		}
		// Ending an edit blurs the node on the host; restore the styling.
		if err := m.canvas.Focus(n.ID); err != nil {
			return fmt.Errorf("refocus %s: %w", n.ID, err)
		}
		m.setState(Focused)
		return nil

	case t == Escape && from == Focused:
		m.canvas.DeselectAll()
		m.setState(View)
		return nil
	}
	return nil
}

// focusFromView focuses the selected node, or when nothing is selected the
// node nearest the viewport center.
func (m *Machine) focusFromView() error {
	if n, ok := m.canvas.Selection(); ok {
		if err := m.canvas.Focus(n.ID); err != nil {
			return fmt.Errorf("focus %s: %w", n.ID, err)
		}
		m.setState(Focused)
		return nil
	}

	candidates := m.canvas.NodesInViewport()
	if len(candidates) == 0 {
		candidates = m.canvas.Data().Nodes
	}
	if len(candidates) == 0 {
		return ErrNoCandidates
	}

	boxes := make([]spatial.BoundingBox, len(candidates))
	for i, n := range candidates {
		boxes[i] = n.BBox()
	}
	target := candidates[spatial.Closest(m.canvas.Viewport().Center(), boxes)]

	if err := m.canvas.Select(target.ID); err != nil {
		return fmt.Errorf("select %s: %w", target.ID, err)
	}
	if err := m.canvas.Focus(target.ID); err != nil {
		return fmt.Errorf("focus %s: %w", target.ID, err)
	}
	m.setState(Focused)
	return nil
}

// Reveal makes the node the exclusive selection, focuses it and zooms the
// viewport to it. With edit set, editing begins after the macro-task delay.
func (m *Machine) Reveal(id string, edit bool) error {
	if err := m.canvas.Select(id); err != nil {
		return fmt.Errorf("select %s: %w", id, err)
	}
	if err := m.canvas.Focus(id); err != nil {
		return fmt.Errorf("focus %s: %w", id, err)
	}
	if err := m.canvas.ZoomToNode(id); err != nil {
		return fmt.Errorf("zoom to %s: %w", id, err)
	}
	m.setState(Focused)
	if edit {
		m.EditAfterDelay(id)
	}
	return nil
}

// EditAfterDelay starts editing the node once the macro-task delay passes.
// The request cannot be cancelled; if the node is gone by then it does
// nothing.
func (m *Machine) EditAfterDelay(id string) {
	m.clock.AfterFunc(m.delay, func() {
		if _, ok := m.canvas.Node(id); !ok {
			m.log.Debug("edit skipped, node %s removed", id)
			return
		}
		if err := m.canvas.StartEditing(id); err != nil {
			m.log.Warn("start editing %s: %v", id, err)
			return
		}
		m.setState(Editing)
	})
}

func (m *Machine) setState(to State) {
	m.mu.Lock()
	from := m.state
	if from == to {
		m.mu.Unlock()
		return
	}
	m.state = to
	callbacks := make([]TransitionFunc, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(from, to)
		}
	}
}
