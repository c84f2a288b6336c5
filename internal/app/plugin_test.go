package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/mindkeys/internal/canvas"
	"github.com/dshills/mindkeys/internal/canvas/canvastest"
	"github.com/dshills/mindkeys/internal/clock"
	"github.com/dshills/mindkeys/internal/config"
	"github.com/dshills/mindkeys/internal/focus"
	"github.com/dshills/mindkeys/internal/input/hotkey"
	"github.com/dshills/mindkeys/internal/input/key"
	"github.com/dshills/mindkeys/internal/logging"
)

type fakeHost struct {
	c  canvas.Canvas
	ok bool
}

func (h *fakeHost) ActiveCanvas() (canvas.Canvas, bool) { return h.c, h.ok }

type harness struct {
	t       *testing.T
	plugin  *Plugin
	loop    *Loop
	clock   *clock.Manual
	canvas  canvas.Canvas
	notices []string
	logs    *bytes.Buffer
}

func newHarness(t *testing.T, c canvas.Canvas, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		t:     t,
		loop:  NewLoop(),
		clock: clock.NewManual(time.Unix(0, 0)),
		logs:  &bytes.Buffer{},
	}
	n := 0
	base := []Option{
		WithClock(h.clock),
		WithLogger(logging.New(logging.Config{Level: logging.LevelDebug, Output: h.logs})),
		WithNotifier(func(msg string) { h.notices = append(h.notices, msg) }),
		WithIDFunc(func() string {
			n++
			return fmt.Sprintf("n%d", n)
		}),
	}
	h.plugin = NewPlugin(&fakeHost{c: c, ok: true}, h.loop, append(base, opts...)...)
	h.canvas = c
	if err := h.plugin.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return h
}

func (h *harness) press(ev key.Event) bool {
	return h.plugin.HandleKey(ev)
}

func (h *harness) wait(d time.Duration) {
	h.clock.Advance(d)
	h.loop.Drain()
}

func (h *harness) settle() {
	h.wait(config.Default().Timing.DebounceDelay.Std())
}

func mindmap(t *testing.T) canvas.Canvas {
	return canvastest.New(t, []canvas.Node{
		canvastest.Text("root", 0, 0, 100, 50),
		canvastest.Text("a", 300, -35, 100, 50),
		canvastest.Text("b", 300, 35, 100, 50),
	}, []canvas.Edge{
		canvastest.Child("root", "a"),
		canvastest.Child("root", "b"),
	})
}

var (
	tab      = key.NewSpecialEvent(key.KeyTab, key.ModNone)
	enter    = key.NewSpecialEvent(key.KeyEnter, key.ModNone)
	escape   = key.NewSpecialEvent(key.KeyEscape, key.ModNone)
	modEsc   = key.NewSpecialEvent(key.KeyEscape, key.PrimaryModifier)
	focusKey = key.NewRuneEvent('f', key.ModNone)
)

func TestCreateChildThroughHotkey(t *testing.T) {
	h := newHarness(t, mindmap(t))
	if err := h.canvas.Select("root"); err != nil {
		t.Fatal(err)
	}

	if !h.press(tab) {
		t.Fatal("Tab not consumed")
	}
	if got := len(canvas.RightChildren(h.canvas, "root")); got != 2 {
		t.Fatalf("children before debounce = %d, want 2", got)
	}

	h.settle()
	children := canvas.RightChildren(h.canvas, "root")
	if len(children) != 3 {
		t.Fatalf("children = %d, want 3", len(children))
	}
	if sel, _ := h.canvas.Selection(); sel.ID != "n1" {
		t.Errorf("selection = %s, want n1", sel.ID)
	}
	if h.plugin.State() != focus.Focused {
		t.Errorf("state = %v, want focused", h.plugin.State())
	}
}

func TestDebounceCoalescesRepeats(t *testing.T) {
	h := newHarness(t, mindmap(t))
	if err := h.canvas.Select("a"); err != nil {
		t.Fatal(err)
	}

	for range 4 {
		h.press(enter)
		h.wait(10 * time.Millisecond)
	}
	h.settle()

	if got := len(canvas.RightChildren(h.canvas, "root")); got != 3 {
		t.Errorf("siblings = %d, want 3 after one coalesced create", got)
	}
}

func TestFocusEditEscapeCycle(t *testing.T) {
	h := newHarness(t, mindmap(t))

	h.press(focusKey)
	h.settle()
	sel, ok := h.canvas.Selection()
	if !ok || !h.canvas.IsFocused(sel.ID) {
		t.Fatal("focus key should select and focus a node")
	}

	h.press(focusKey)
	h.settle()
	h.wait(config.Default().Timing.MacroTaskDelay.Std())
	if !h.canvas.IsEditing(sel.ID) {
		t.Fatal("second focus key should start editing")
	}
	if h.plugin.State() != focus.Editing {
		t.Errorf("state = %v, want editing", h.plugin.State())
	}

	if h.press(key.NewRuneEvent('x', key.ModNone)) {
		t.Error("typing while editing must reach the host")
	}
	if h.press(tab) {
		t.Error("Tab while editing must reach the host")
	}

	if !h.press(escape) {
		t.Fatal("escape not consumed")
	}
	if h.canvas.IsEditing(sel.ID) || !h.canvas.IsFocused(sel.ID) {
		t.Error("escape from editing should leave the node focused")
	}

	if !h.press(modEsc) {
		t.Fatal("Mod+Escape not consumed")
	}
	if _, ok := h.canvas.Selection(); ok {
		t.Error("escape from focused should deselect")
	}
	if h.plugin.State() != focus.View {
		t.Errorf("state = %v, want view", h.plugin.State())
	}
}

func TestNavigateThroughHotkey(t *testing.T) {
	h := newHarness(t, mindmap(t))
	if err := h.canvas.Select("a"); err != nil {
		t.Fatal(err)
	}

	h.press(key.NewSpecialEvent(key.KeyDown, key.ModAlt))
	if sel, _ := h.canvas.Selection(); sel.ID != "b" {
		t.Errorf("selection = %s, want b", sel.ID)
	}

	h.press(key.NewSpecialEvent(key.KeyLeft, key.ModAlt))
	if sel, _ := h.canvas.Selection(); sel.ID != "root" {
		t.Errorf("selection = %s, want root", sel.ID)
	}
}

func TestRepeatedNavigationTravels(t *testing.T) {
	h := newHarness(t, canvastest.New(t, []canvas.Node{
		canvastest.Text("n0", 0, 0, 100, 50),
		canvastest.Text("n1", 200, 0, 100, 50),
		canvastest.Text("n2", 400, 0, 100, 50),
	}, nil))
	if err := h.canvas.Select("n0"); err != nil {
		t.Fatal(err)
	}

	right := key.NewSpecialEvent(key.KeyRight, key.ModAlt)
	h.press(right)
	h.wait(40 * time.Millisecond)
	h.press(right)
	h.settle()

	if sel, _ := h.canvas.Selection(); sel.ID != "n2" {
		t.Errorf("selection = %s, want n2", sel.ID)
	}
}

func TestFocusKeyTwiceEdits(t *testing.T) {
	h := newHarness(t, mindmap(t))

	h.press(focusKey)
	h.press(focusKey)
	h.wait(config.Default().Timing.MacroTaskDelay.Std())

	sel, ok := h.canvas.Selection()
	if !ok || !h.canvas.IsEditing(sel.ID) {
		t.Errorf("two focus presses should reach editing, state %v", h.plugin.State())
	}
}

func TestRoutineErrorsAreQuiet(t *testing.T) {
	h := newHarness(t, mindmap(t))

	h.press(tab)
	h.settle()
	if err := h.canvas.Select("root"); err != nil {
		t.Fatal(err)
	}
	h.press(enter)
	h.settle()

	if len(h.notices) != 0 {
		t.Errorf("notices = %v, want none", h.notices)
	}
	if strings.Contains(h.logs.String(), "[ERROR]") {
		t.Errorf("routine failures logged as errors:\n%s", h.logs.String())
	}
}

func TestOrphanIsReported(t *testing.T) {
	rec := canvastest.NewRecorder(mindmap(t))
	rec.ImportErr = errors.New("disk full")
	h := newHarness(t, rec)
	if err := rec.Select("root"); err != nil {
		t.Fatal(err)
	}

	h.press(tab)
	h.settle()

	if len(h.notices) != 1 || !strings.Contains(h.notices[0], "n1") {
		t.Errorf("notices = %v, want one about n1", h.notices)
	}
	if !strings.Contains(h.logs.String(), "[WARN]") || !strings.Contains(h.logs.String(), "OrphanResourceWarning") {
		t.Errorf("missing orphan warning in logs:\n%s", h.logs.String())
	}
}

func TestViewChangedTogglesTriggers(t *testing.T) {
	c := mindmap(t)
	h := newHarness(t, c)
	if err := c.Select("root"); err != nil {
		t.Fatal(err)
	}

	if err := h.plugin.ViewChanged(nil); err != nil {
		t.Fatal(err)
	}
	if h.plugin.Active() || len(h.plugin.Bindings()) != 0 {
		t.Fatal("triggers should be unregistered for a non-canvas view")
	}
	if h.press(tab) {
		t.Error("Tab consumed with no canvas view")
	}

	if err := h.plugin.ViewChanged(c); err != nil {
		t.Fatal(err)
	}
	if !h.plugin.Active() {
		t.Fatal("triggers should be registered again")
	}
	// 8 hotkeys plus Escape and Mod+Escape.
	if got := len(h.plugin.Bindings()); got != 10 {
		t.Errorf("bindings = %d, want 10", got)
	}
	if !h.press(tab) {
		t.Error("Tab not consumed after reactivation")
	}
}

func TestViewChangedDropsPendingRuns(t *testing.T) {
	c := mindmap(t)
	h := newHarness(t, c)
	if err := c.Select("root"); err != nil {
		t.Fatal(err)
	}

	h.press(tab)
	if err := h.plugin.ViewChanged(nil); err != nil {
		t.Fatal(err)
	}
	h.settle()

	if got := len(canvas.RightChildren(c, "root")); got != 2 {
		t.Errorf("children = %d, want 2", got)
	}
}

func TestSetHotkey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	c := mindmap(t)
	h := newHarness(t, c, WithSettingsPath(path))
	if err := c.Select("root"); err != nil {
		t.Fatal(err)
	}

	if err := h.plugin.SetHotkey(config.ActionCreateChild, "Ctrl+Shift+N"); !errors.Is(err, hotkey.ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}
	if h.plugin.Settings().Hotkeys.CreateChild != "Tab" {
		t.Error("invalid hotkey replaced the binding")
	}

	if err := h.plugin.SetHotkey(config.ActionCreateChild, "Ctrl + N"); err != nil {
		t.Fatal(err)
	}
	saved, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Hotkeys.CreateChild != "Ctrl + N" {
		t.Errorf("saved CreateChild = %q", saved.Hotkeys.CreateChild)
	}

	if h.press(tab) {
		t.Error("old hotkey still bound")
	}
	if !h.press(key.NewRuneEvent('n', key.ModCtrl)) {
		t.Fatal("new hotkey not bound")
	}
	h.settle()
	if got := len(canvas.RightChildren(c, "root")); got != 3 {
		t.Errorf("children = %d, want 3", got)
	}
}

func TestSelectionChanged(t *testing.T) {
	c := mindmap(t)
	h := newHarness(t, c)

	h.press(focusKey)
	h.settle()
	if h.plugin.State() != focus.Focused {
		t.Fatalf("state = %v, want focused", h.plugin.State())
	}

	c.DeselectAll()
	h.plugin.SelectionChanged()
	if h.plugin.State() != focus.View {
		t.Errorf("state = %v, want view", h.plugin.State())
	}
}

func TestLoadTimeout(t *testing.T) {
	s := config.Default()
	s.Timing.ReadyTimeout = config.Duration(20 * time.Millisecond)
	p := NewPlugin(&fakeHost{}, NewLoop(), WithSettings(s))

	if err := p.Load(context.Background()); !errors.Is(err, ErrCanvasTimeout) {
		t.Errorf("err = %v, want ErrCanvasTimeout", err)
	}
	if p.Active() {
		t.Error("plugin active without a canvas")
	}
}

func TestUnload(t *testing.T) {
	h := newHarness(t, mindmap(t))
	h.plugin.Unload()

	if h.plugin.Active() || len(h.plugin.Bindings()) != 0 {
		t.Error("Unload left triggers registered")
	}
}
