package app

import (
	"errors"
	"fmt"

	"github.com/dshills/mindkeys/internal/canvas"
	"github.com/dshills/mindkeys/internal/clock"
	"github.com/dshills/mindkeys/internal/config"
	"github.com/dshills/mindkeys/internal/debounce"
	"github.com/dshills/mindkeys/internal/focus"
	"github.com/dshills/mindkeys/internal/input/key"
	"github.com/dshills/mindkeys/internal/input/keymap"
	"github.com/dshills/mindkeys/internal/layout"
	"github.com/dshills/mindkeys/internal/logging"
	"github.com/dshills/mindkeys/internal/navigate"
	"github.com/dshills/mindkeys/internal/node"
	"github.com/dshills/mindkeys/internal/spatial"
)

// ActionEscape is the trigger bound to Escape and Mod+Escape.
const ActionEscape = "escape"

// creation selects what a create trigger makes.
type creation uint8

const (
	createChild creation = iota
	createBefore
	createAfter
)

// Session holds the components bound to one canvas view.
type Session struct {
	canvas   canvas.Canvas
	focus    *focus.Machine
	nav      *navigate.Engine
	nodes    node.Capability
	registry *keymap.Registry
	log      *logging.Logger
	notify   func(string)

	createGate *debounce.Gate[creation]
}

// SessionConfig carries a session's dependencies.
type SessionConfig struct {
	Canvas   canvas.Canvas
	Settings config.Settings
	Registry *keymap.Registry
	// Clock must deliver timer callbacks on the loop goroutine.
	Clock  clock.Clock
	Logger *logging.Logger
	// Notify receives messages the user should see. May be nil.
	Notify func(string)
	// IDFunc overrides node id allocation. May be nil.
	IDFunc node.IDFunc
}

// NewSession builds the components for a canvas and registers their
// triggers. The registry must not hold other session triggers.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Canvas == nil {
		return nil, ErrNoCanvas
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	st := cfg.Settings

	fm := focus.New(cfg.Canvas,
		focus.WithClock(cfg.Clock),
		focus.WithLogger(log),
		focus.WithMacroTaskDelay(st.Timing.MacroTaskDelay.Std()),
	)
	nodeOpts := []node.Option{
		node.WithLayout(&layout.Engine{RowGap: st.Layout.RowGap, ColumnGap: st.Layout.ColumnGap}),
		node.WithEpsilon(st.Layout.Epsilon),
		node.WithAutoFocus(st.AutoFocus),
		node.WithLogger(log),
	}
	if cfg.IDFunc != nil {
		nodeOpts = append(nodeOpts, node.WithIDFunc(cfg.IDFunc))
	}

	s := &Session{
		canvas: cfg.Canvas,
		focus:  fm,
		nav: navigate.New(cfg.Canvas, fm,
			navigate.WithOffsetWeight(st.Layout.OffsetWeight),
			navigate.WithAutoFocus(st.AutoFocus),
			navigate.WithLogger(log),
		),
		nodes:    node.New(cfg.Canvas, fm, nodeOpts...),
		registry: cfg.Registry,
		log:      log.WithComponent("session"),
		notify:   cfg.Notify,
	}

	s.createGate = debounce.New(st.Timing.DebounceDelay.Std(), s.create, debounce.WithClock(cfg.Clock))

	if err := s.register(st.Hotkeys); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) register(h config.Hotkeys) error {
	bindings := []struct {
		action  string
		handler keymap.Handler
	}{
		{config.ActionFocus, func() { s.report("focus", s.focus.Fire(focus.FocusKey)) }},
		{config.ActionCreateChild, func() { s.createGate.Call(createChild) }},
		{config.ActionCreateBeforeSibling, func() { s.createGate.Call(createBefore) }},
		{config.ActionCreateAfterSibling, func() { s.createGate.Call(createAfter) }},
		{config.ActionArrowUp, func() { s.navigate(spatial.Up) }},
		{config.ActionArrowDown, func() { s.navigate(spatial.Down) }},
		{config.ActionArrowLeft, func() { s.navigate(spatial.Left) }},
		{config.ActionArrowRight, func() { s.navigate(spatial.Right) }},
	}
	for _, b := range bindings {
		text, _ := h.Get(b.action)
		if err := s.registry.RegisterHotkey(b.action, text, b.handler); err != nil {
			return err
		}
	}

	for _, mods := range []key.Modifier{key.ModNone, key.PrimaryModifier} {
		if err := s.registry.Register(ActionEscape, key.SpecialChord(key.KeyEscape, mods), s.escape); err != nil {
			return err
		}
	}
	return nil
}

// HandleKey dispatches ev to the registered triggers and reports whether
// one consumed it. While the selection is being edited only escape is
// handled, so typing reaches the host.
func (s *Session) HandleKey(ev key.Event) bool {
	if s.editing() && ev.Key != key.KeyEscape {
		return false
	}
	return s.registry.Dispatch(ev)
}

// SelectionChanged forwards a host selection change to the focus machine.
func (s *Session) SelectionChanged() {
	s.focus.SelectionChanged()
}

// State returns the focus machine state.
func (s *Session) State() focus.State {
	return s.focus.State()
}

// Canvas returns the session's canvas.
func (s *Session) Canvas() canvas.Canvas {
	return s.canvas
}

// Close cancels a pending create and unregisters the triggers.
// Edit delays already scheduled still fire.
func (s *Session) Close() {
	s.createGate.Cancel()
	s.registry.UnregisterAll()
}

func (s *Session) editing() bool {
	n, ok := s.canvas.Selection()
	return ok && s.canvas.IsEditing(n.ID)
}

func (s *Session) escape() {
	s.report("escape", s.focus.Fire(focus.Escape))
}

func (s *Session) navigate(d spatial.Direction) {
	s.report("navigate "+d.String(), s.nav.Navigate(d))
}

func (s *Session) create(c creation) {
	var (
		n   canvas.Node
		err error
	)
	switch c {
	case createChild:
		n, err = s.nodes.CreateChild()
	case createBefore:
		n, err = s.nodes.CreateSibling(node.Before)
	case createAfter:
		n, err = s.nodes.CreateSibling(node.After)
	}
	if err == nil {
		s.log.Debug("created node %s", n.ID)
	}
	s.report("create", err)
}

// report logs the outcome of a trigger. Errors that only mean the key did
// not apply in the current context are logged at debug level.
func (s *Session) report(op string, err error) {
	if err == nil {
		return
	}

	var orphan *node.OrphanError
	switch {
	case errors.Is(err, canvas.ErrNoSelection),
		errors.Is(err, canvas.ErrInvalidState),
		errors.Is(err, node.ErrNoParent),
		errors.Is(err, focus.ErrNoCandidates):
		s.log.Debug("%s: %v", op, err)

	case errors.As(err, &orphan):
		s.log.WithField("node", orphan.NodeID).Warn("OrphanResourceWarning: %v", err)
		s.tell(fmt.Sprintf("node %s was created but could not be linked", orphan.NodeID))

	default:
		s.log.Error("%s: %v", op, err)
		s.tell(fmt.Sprintf("%s failed: %v", op, err))
	}
}

func (s *Session) tell(msg string) {
	if s.notify != nil {
		s.notify(msg)
	}
}
