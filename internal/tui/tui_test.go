package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mindkeys/internal/app"
	"github.com/dshills/mindkeys/internal/canvas"
	"github.com/dshills/mindkeys/internal/canvas/canvastest"
	"github.com/dshills/mindkeys/internal/canvas/jsoncanvas"
	"github.com/dshills/mindkeys/internal/clock"
	"github.com/dshills/mindkeys/internal/focus"
	"github.com/dshills/mindkeys/internal/input/key"
	"github.com/dshills/mindkeys/internal/spatial"
)

const (
	screenW = 80
	screenH = 25
)

type fixture struct {
	ui     *UI
	doc    *jsoncanvas.Document
	screen tcell.SimulationScreen
	loop   *app.Loop
	clock  *clock.Manual
	plugin *app.Plugin
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(screenW, screenH)

	doc := canvastest.New(t, []canvas.Node{
		{ID: "root", Type: canvas.NodeTypeText, Text: "Root", X: -300, Y: -30, Width: 400, Height: 60},
		{ID: "leaf", Type: canvas.NodeTypeText, Text: "Leaf", X: 300, Y: -30, Width: 400, Height: 60},
	}, []canvas.Edge{canvastest.Child("root", "leaf")})
	doc.SetViewport(spatial.Box(-800, -480, 1600, 960))

	f := &fixture{
		doc:    doc,
		screen: screen,
		loop:   app.NewLoop(),
		clock:  clock.NewManual(time.Unix(0, 0)),
	}
	f.ui = New(screen, doc, f.loop, opts...)
	f.plugin = app.NewPlugin(f.ui, f.loop, app.WithClock(f.clock), app.WithNotifier(f.ui.Notify))
	if err := f.plugin.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	f.ui.plugin = f.plugin
	return f
}

func (f *fixture) key(k tcell.Key, r rune, mod tcell.ModMask) {
	f.ui.handle(tcell.NewEventKey(k, r, mod))
}

func (f *fixture) settle() {
	f.clock.Advance(time.Second)
	f.loop.Drain()
}

func (f *fixture) row(y int) string {
	f.ui.redraw()
	cells, w, _ := f.screen.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteString(string(c.Runes))
	}
	return b.String()
}

func (f *fixture) screenText() string {
	f.ui.redraw()
	_, _, h := f.screen.GetContents()
	lines := make([]string, h)
	for y := range lines {
		lines[y] = f.row(y)
	}
	return strings.Join(lines, "\n")
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want key.Event
		ok   bool
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModNone), key.Event{Key: key.KeyRune, Rune: 'f'}, true},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), key.Event{Key: key.KeyTab}, true},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), key.Event{Key: key.KeyTab, Modifiers: key.ModShift}, true},
		{"shift enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModShift), key.Event{Key: key.KeyEnter, Modifiers: key.ModShift}, true},
		{"alt up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModAlt), key.Event{Key: key.KeyUp, Modifiers: key.ModAlt}, true},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), key.Event{Key: key.KeyEscape}, true},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlN, 0, tcell.ModCtrl), key.Event{Key: key.KeyRune, Rune: 'n', Modifiers: key.ModCtrl}, true},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), key.Event{Key: key.KeyBackspace}, true},
		{"unnamed", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), key.Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := convertKey(tt.ev)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got.Key != tt.want.Key || got.Rune != tt.want.Rune || got.Modifiers != tt.want.Modifiers {
				t.Errorf("convertKey = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"日本語テキスト", 5, "日本…"},
		{"e\u0301cole", 3, "e\u0301c…"},
		{"abc", 0, ""},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestProjectionRoundTrip(t *testing.T) {
	p := projection{view: spatial.Box(0, 0, 800, 240), width: 80, height: 24}

	x, y := p.toScreen(spatial.Point{X: 405, Y: 115})
	if x != 40 || y != 11 {
		t.Errorf("toScreen = (%d, %d), want (40, 11)", x, y)
	}
	pt := p.toCanvas(40, 11)
	if pt.X != 405 || pt.Y != 115 {
		t.Errorf("toCanvas = %v, want {405 115}", pt)
	}
}

func TestDrawShowsLabelsAndState(t *testing.T) {
	f := newFixture(t, WithPath("/tmp/map.canvas"))

	text := f.screenText()
	for _, want := range []string{"Root", "Leaf", "·"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen missing %q:\n%s", want, text)
		}
	}
	status := f.row(screenH - 1)
	if !strings.Contains(status, "VIEW") || !strings.Contains(status, "map.canvas") {
		t.Errorf("status = %q", status)
	}
}

func TestKeysReachPluginFirst(t *testing.T) {
	f := newFixture(t)

	f.key(tcell.KeyRune, 'f', tcell.ModNone)
	f.settle()
	if f.plugin.State() != focus.Focused {
		t.Fatalf("state = %v, want focused", f.plugin.State())
	}

	f.key(tcell.KeyTab, 0, tcell.ModNone)
	f.settle()
	sel, _ := f.doc.Selection()
	if len(canvas.RightChildren(f.doc, "root")) != 2 || sel.ID == "root" {
		t.Errorf("Tab should add a child of root and select it, selection %s", sel.ID)
	}
	if !strings.Contains(f.row(screenH-1), "FOCUSED") {
		t.Errorf("status = %q", f.row(screenH-1))
	}
}

func TestTypingWhileEditing(t *testing.T) {
	f := newFixture(t)
	if err := f.doc.StartEditing("leaf"); err != nil {
		t.Fatal(err)
	}
	f.plugin.SelectionChanged()

	f.key(tcell.KeyRune, 's', tcell.ModNone)
	f.key(tcell.KeyRune, 'f', tcell.ModNone)
	f.key(tcell.KeyBackspace2, 0, tcell.ModNone)
	f.key(tcell.KeyRune, '!', tcell.ModNone)
	f.settle()

	n, _ := f.doc.Node("leaf")
	if n.Text != "Leafs!" {
		t.Errorf("text = %q, want %q", n.Text, "Leafs!")
	}

	f.key(tcell.KeyEscape, 0, tcell.ModNone)
	if f.doc.IsEditing("leaf") {
		t.Error("escape should end editing")
	}
}

func TestMouseSelects(t *testing.T) {
	f := newFixture(t)
	p, _ := f.ui.projection()
	x, y := p.toScreen(spatial.Point{X: 500, Y: 0})

	f.ui.handle(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
	f.ui.handle(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
	if sel, ok := f.doc.Selection(); !ok || sel.ID != "leaf" {
		t.Fatalf("selection = %v, %v, want leaf", sel.ID, ok)
	}

	f.ui.handle(tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone))
	if _, ok := f.doc.Selection(); ok {
		t.Error("click on empty canvas should deselect")
	}
}

func TestViewKeys(t *testing.T) {
	f := newFixture(t)
	before := f.doc.Viewport()

	f.key(tcell.KeyRight, 0, tcell.ModNone)
	if got := f.doc.Viewport().MinX; got != before.MinX+160 {
		t.Errorf("MinX after pan = %v, want %v", got, before.MinX+160)
	}

	f.key(tcell.KeyRune, '-', tcell.ModNone)
	if got := f.doc.Viewport().Width(); got != before.Width()/zoomInStep {
		t.Errorf("width after zoom out = %v, want %v", got, before.Width()/zoomInStep)
	}
}

func TestSaveAndQuit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.canvas")
	f := newFixture(t, WithPath(path))

	f.key(tcell.KeyCtrlS, 0, tcell.ModCtrl)
	if _, err := jsoncanvas.Open(path); err != nil {
		t.Fatalf("saved file: %v", err)
	}
	if !strings.Contains(f.row(screenH-1), "saved map.canvas") {
		t.Errorf("status = %q", f.row(screenH-1))
	}

	f.key(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	if f.loop.Post(func() {}) {
		t.Error("loop still accepting tasks after quit")
	}
}

func TestCreatedNodeIsSaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.canvas")
	f := newFixture(t, WithPath(path))
	if err := f.doc.Select("root"); err != nil {
		t.Fatal(err)
	}

	f.key(tcell.KeyTab, 0, tcell.ModNone)
	f.settle()

	saved, err := jsoncanvas.Open(path)
	if err != nil {
		t.Fatalf("created node was not written: %v", err)
	}
	if got := len(saved.Data().Nodes); got != 3 {
		t.Errorf("saved nodes = %d, want 3", got)
	}
}
