package tui

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mindkeys/internal/app"
	"github.com/dshills/mindkeys/internal/canvas"
	"github.com/dshills/mindkeys/internal/canvas/jsoncanvas"
	"github.com/dshills/mindkeys/internal/focus"
	"github.com/dshills/mindkeys/internal/input/key"
	"github.com/dshills/mindkeys/internal/logging"
)

const (
	panStep    = 0.1
	zoomInStep = 0.8
)

// UI hosts the plugin in a terminal.
type UI struct {
	screen tcell.Screen
	doc    *jsoncanvas.Document
	loop   *app.Loop
	path   string
	log    *logging.Logger

	plugin      *app.Plugin
	lastButtons tcell.ButtonMask

	mu     sync.Mutex
	notice string
}

// Option configures a UI.
type Option func(*UI)

// WithPath sets the file the document is saved to, by Ctrl+S and by node
// creation. It defaults to the path the document was opened from.
func WithPath(path string) Option {
	return func(u *UI) { u.path = path }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(u *UI) { u.log = l.WithComponent("tui") }
}

// New creates a UI drawing doc on an initialized screen. Events are
// handled on loop.
func New(screen tcell.Screen, doc *jsoncanvas.Document, loop *app.Loop, opts ...Option) *UI {
	u := &UI{
		screen: screen,
		doc:    doc,
		loop:   loop,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.path != "" {
		doc.SetPath(u.path)
	} else {
		u.path = doc.Path()
	}
	return u
}

// ActiveCanvas returns the document. The terminal only ever shows one.
func (u *UI) ActiveCanvas() (canvas.Canvas, bool) {
	return u.doc, u.doc != nil
}

// Notify shows msg on the status line until the next key press.
func (u *UI) Notify(msg string) {
	u.mu.Lock()
	u.notice = msg
	u.mu.Unlock()
}

// Run handles screen events with plugin until ctx is done or the user
// quits. The caller finalizes the screen afterwards, which also stops
// the event reader.
func (u *UI) Run(ctx context.Context, plugin *app.Plugin) error {
	u.plugin = plugin
	u.screen.EnableMouse()
	u.screen.HideCursor()

	u.loop.AfterEach(u.redraw)
	go u.poll()
	u.loop.Post(func() {})

	return u.loop.Run(ctx)
}

func (u *UI) poll() {
	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			return
		}
		if !u.loop.Post(func() { u.handle(ev) }) {
			return
		}
	}
}

// handle applies one screen event. It runs on the loop.
func (u *UI) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
	case *tcell.EventKey:
		u.handleKey(ev)
	case *tcell.EventMouse:
		u.handleMouse(ev)
	}
}

func (u *UI) handleKey(ev *tcell.EventKey) {
	u.Notify("")

	kev, ok := convertKey(ev)
	if !ok {
		return
	}
	if kev.Key == key.KeyRune && kev.Modifiers == key.ModCtrl {
		switch kev.Rune {
		case 'q', 'c':
			u.loop.Stop()
			return
		case 's':
			u.save()
			return
		}
	}
	if u.plugin != nil && u.plugin.HandleKey(kev) {
		return
	}
	if u.doc.Editing() != "" {
		u.editText(kev)
		return
	}
	u.moveView(kev)
}

// editText applies keys the plugin left to the host while a node is edited.
func (u *UI) editText(ev key.Event) {
	switch {
	case ev.Key == key.KeyBackspace:
		u.doc.DeleteBackward()
	case ev.IsChar():
		u.doc.InsertText(string(ev.Rune))
	}
}

// moveView pans with plain arrows and zooms with + and -.
func (u *UI) moveView(ev key.Event) {
	if ev.Modifiers.Without(key.ModShift) != key.ModNone {
		return
	}
	view := u.doc.Viewport()
	switch ev.Key {
	case key.KeyUp:
		view = pan(view, 0, -panStep)
	case key.KeyDown:
		view = pan(view, 0, panStep)
	case key.KeyLeft:
		view = pan(view, -panStep, 0)
	case key.KeyRight:
		view = pan(view, panStep, 0)
	case key.KeyRune:
		switch ev.Rune {
		case '+', '=':
			view = zoom(view, zoomInStep)
		case '-':
			view = zoom(view, 1/zoomInStep)
		default:
			return
		}
	default:
		return
	}
	u.doc.SetViewport(view)
}

// handleMouse selects the node under a left click, or clears the selection.
func (u *UI) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && u.lastButtons&tcell.Button1 == 0
	u.lastButtons = buttons
	if !pressed {
		return
	}

	x, y := ev.Position()
	p, ok := u.projection()
	if !ok || y >= p.height {
		return
	}

	if n, ok := u.doc.NodeAt(p.toCanvas(x, y)); ok {
		if err := u.doc.Select(n.ID); err != nil {
			u.log.Warn("selecting %s: %v", n.ID, err)
			return
		}
	} else {
		u.doc.DeselectAll()
	}
	if u.plugin != nil {
		u.plugin.SelectionChanged()
	}
}

func (u *UI) save() {
	if u.path == "" {
		u.Notify("no file to save to")
		return
	}
	if err := u.doc.Save(u.path); err != nil {
		u.log.Error("saving %s: %v", u.path, err)
		u.Notify("save failed: " + err.Error())
		return
	}
	u.log.Info("saved %s", u.path)
	u.Notify("saved " + filepath.Base(u.path))
}

func (u *UI) projection() (projection, bool) {
	w, h := u.screen.Size()
	if w <= 0 || h <= 1 {
		return projection{}, false
	}
	return projection{view: u.doc.Viewport(), width: w, height: h - 1}, true
}

// redraw renders the current document state. It runs after every loop task.
func (u *UI) redraw() {
	data := u.doc.Data()
	f := frame{
		nodes: data.Nodes,
		edges: data.Edges,
		state: focus.View,
		file:  u.path,
		dirty: u.doc.Dirty(),
	}
	if n, ok := u.doc.Selection(); ok {
		f.selected = n.ID
		f.focused = u.doc.IsFocused(n.ID)
		f.editing = u.doc.IsEditing(n.ID)
	}
	if u.plugin != nil {
		f.state = u.plugin.State()
	}

	u.mu.Lock()
	f.notice = u.notice
	u.mu.Unlock()

	draw(u.screen, u.doc.Viewport(), f)
}
