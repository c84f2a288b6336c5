package config

import (
	"fmt"
	"time"
)

// Hotkey actions.
const (
	ActionFocus               = "focus"
	ActionCreateChild         = "createChild"
	ActionCreateBeforeSibling = "createBeforeSibling"
	ActionCreateAfterSibling  = "createAfterSibling"
	ActionArrowUp             = "arrowUp"
	ActionArrowDown           = "arrowDown"
	ActionArrowLeft           = "arrowLeft"
	ActionArrowRight          = "arrowRight"
)

// Actions lists every hotkey action in registration order.
var Actions = []string{
	ActionFocus,
	ActionCreateChild,
	ActionCreateBeforeSibling,
	ActionCreateAfterSibling,
	ActionArrowUp,
	ActionArrowDown,
	ActionArrowLeft,
	ActionArrowRight,
}

// Settings is the complete mindkeys configuration.
type Settings struct {
	// AutoFocus opens nodes for editing as soon as they are created or
	// navigated to.
	AutoFocus bool `toml:"autoFocus" yaml:"autoFocus"`

	Hotkeys Hotkeys `toml:"hotkeys" yaml:"hotkeys"`
	Layout  Layout  `toml:"layout" yaml:"layout"`
	Timing  Timing  `toml:"timing" yaml:"timing"`
	Log     Log     `toml:"log" yaml:"log"`
}

// Hotkeys maps each action to a hotkey string.
type Hotkeys struct {
	Focus               string `toml:"focus" yaml:"focus"`
	CreateChild         string `toml:"createChild" yaml:"createChild"`
	CreateBeforeSibling string `toml:"createBeforeSibling" yaml:"createBeforeSibling"`
	CreateAfterSibling  string `toml:"createAfterSibling" yaml:"createAfterSibling"`
	ArrowUp             string `toml:"arrowUp" yaml:"arrowUp"`
	ArrowDown           string `toml:"arrowDown" yaml:"arrowDown"`
	ArrowLeft           string `toml:"arrowLeft" yaml:"arrowLeft"`
	ArrowRight          string `toml:"arrowRight" yaml:"arrowRight"`
}

// Layout holds the geometry constants.
type Layout struct {
	RowGap       float64 `toml:"rowGap" yaml:"rowGap"`
	ColumnGap    float64 `toml:"columnGap" yaml:"columnGap"`
	Epsilon      float64 `toml:"epsilon" yaml:"epsilon"`
	OffsetWeight float64 `toml:"offsetWeight" yaml:"offsetWeight"`
}

// Timing holds delays.
type Timing struct {
	MacroTaskDelay Duration `toml:"macroTaskDelay" yaml:"macroTaskDelay"`
	DebounceDelay  Duration `toml:"debounceDelay" yaml:"debounceDelay"`
	ReadyTimeout   Duration `toml:"readyTimeout" yaml:"readyTimeout"`
}

// Log holds logging settings.
type Log struct {
	Level string `toml:"level" yaml:"level"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		AutoFocus: false,
		Hotkeys: Hotkeys{
			Focus:               "F",
			CreateChild:         "Tab",
			CreateBeforeSibling: "Shift + Enter",
			CreateAfterSibling:  "Enter",
			ArrowUp:             "Alt + ArrowUp",
			ArrowDown:           "Alt + ArrowDown",
			ArrowLeft:           "Alt + ArrowLeft",
			ArrowRight:          "Alt + ArrowRight",
		},
		Layout: Layout{
			RowGap:       20,
			ColumnGap:    200,
			Epsilon:      1,
			OffsetWeight: 1.1,
		},
		Timing: Timing{
			MacroTaskDelay: Duration(50 * time.Millisecond),
			DebounceDelay:  Duration(100 * time.Millisecond),
			ReadyTimeout:   Duration(5 * time.Second),
		},
		Log: Log{Level: "info"},
	}
}

// field returns a pointer to the hotkey string for action.
func (h *Hotkeys) field(action string) *string {
	switch action {
	case ActionFocus:
		return &h.Focus
	case ActionCreateChild:
		return &h.CreateChild
	case ActionCreateBeforeSibling:
		return &h.CreateBeforeSibling
	case ActionCreateAfterSibling:
		return &h.CreateAfterSibling
	case ActionArrowUp:
		return &h.ArrowUp
	case ActionArrowDown:
		return &h.ArrowDown
	case ActionArrowLeft:
		return &h.ArrowLeft
	case ActionArrowRight:
		return &h.ArrowRight
	}
	return nil
}

// Get returns the hotkey string for action.
func (h Hotkeys) Get(action string) (string, bool) {
	p := h.field(action)
	if p == nil {
		return "", false
	}
	return *p, true
}

// set stores text for action.
func (h *Hotkeys) set(action, text string) error {
	p := h.field(action)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	*p = text
	return nil
}

// SetHotkey changes the hotkey of one action. The new settings must pass
// Validate; otherwise s is left unchanged and the error returned.
func (s *Settings) SetHotkey(action, text string) error {
	next := *s
	if err := next.Hotkeys.set(action, text); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*s = next
	return nil
}
