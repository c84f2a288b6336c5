package keymap

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/mindkeys/internal/input/hotkey"
	"github.com/dshills/mindkeys/internal/input/key"
)

// Registry errors.
var (
	// ErrNilHandler indicates a trigger was registered without a handler.
	ErrNilHandler = errors.New("nil handler")

	// ErrConflict indicates the chord is already bound to a different action.
	ErrConflict = errors.New("chord already bound")
)

// Handler runs when a trigger fires.
type Handler func()

// Binding is a registered trigger.
type Binding struct {
	// Action names what the trigger does, e.g. "createChild".
	Action string

	// Chord is the key combination that fires the trigger.
	Chord key.Chord

	// Handler is invoked on match.
	Handler Handler
}

// Registry manages registered triggers and dispatches key events to them.
type Registry struct {
	mu       sync.RWMutex
	bindings []Binding
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register binds chord to action. An action may own several chords; a chord
// may belong to only one action.
func (r *Registry) Register(action string, chord key.Chord, h Handler) error {
	if h == nil {
		return fmt.Errorf("registering %s: %w", action, ErrNilHandler)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, b := range r.bindings {
		if b.Chord != chord {
			continue
		}
		if b.Action != action {
			return fmt.Errorf("registering %s on %v: %w by %s", action, chord, ErrConflict, b.Action)
		}
		r.bindings[i].Handler = h
		return nil
	}

	r.bindings = append(r.bindings, Binding{Action: action, Chord: chord, Handler: h})
	return nil
}

// RegisterHotkey parses a hotkey string and registers it for action.
func (r *Registry) RegisterHotkey(action, text string, h Handler) error {
	spec, err := hotkey.Parse(text)
	if err != nil {
		return fmt.Errorf("hotkey for %s: %w", action, err)
	}
	return r.Register(action, spec.Chord(), h)
}

// UnregisterAll removes every binding.
func (r *Registry) UnregisterAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings = nil
}

// Lookup returns the binding matching ev, if any. A chord whose modifiers
// equal the event's wins over a letter chord that only matches by ignoring
// Shift, so "F" and "Shift+F" can be bound to different actions.
func (r *Registry) Lookup(ev key.Event) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fallback := -1
	for i, b := range r.bindings {
		if !b.Chord.Matches(ev) {
			continue
		}
		if b.Chord.Modifiers == ev.Modifiers {
			return b, true
		}
		if fallback < 0 {
			fallback = i
		}
	}
	if fallback >= 0 {
		return r.bindings[fallback], true
	}
	return Binding{}, false
}

// Dispatch runs the handler bound to ev. It returns false if no trigger matched.
// The handler runs without the registry lock held, so it may re-register.
func (r *Registry) Dispatch(ev key.Event) bool {
	b, ok := r.Lookup(ev)
	if !ok {
		return false
	}
	b.Handler()
	return true
}

// Bindings returns a copy of all bindings ordered by action then chord.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	out := make([]Binding, len(r.bindings))
	copy(out, r.bindings)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Action != out[j].Action {
			return out[i].Action < out[j].Action
		}
		return out[i].Chord.String() < out[j].Chord.String()
	})
	return out
}

// Len returns the number of bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}
