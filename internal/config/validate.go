package config

import (
	"errors"

	"github.com/dshills/mindkeys/internal/input/hotkey"
	"github.com/dshills/mindkeys/internal/input/key"
	"github.com/dshills/mindkeys/internal/logging"
)

// Validate checks every setting and returns all problems joined.
// Each problem is a *ValidationError.
func (s Settings) Validate() error {
	var errs []error
	add := func(path, msg string, value any, err error) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value, Err: err})
	}

	owners := make(map[key.Chord]string)
	for _, action := range Actions {
		text, _ := s.Hotkeys.Get(action)
		spec, err := hotkey.Parse(text)
		if err != nil {
			add("hotkeys."+action, err.Error(), text, err)
			continue
		}
		chord := spec.Chord()
		if other, ok := owners[chord]; ok {
			add("hotkeys."+action, "same key as "+other, text, nil)
			continue
		}
		owners[chord] = action
	}

	if s.Layout.RowGap < 0 {
		add("layout.rowGap", "must not be negative", s.Layout.RowGap, nil)
	}
	if s.Layout.ColumnGap < 0 {
		add("layout.columnGap", "must not be negative", s.Layout.ColumnGap, nil)
	}
	if s.Layout.Epsilon < 0 {
		add("layout.epsilon", "must not be negative", s.Layout.Epsilon, nil)
	}
	if s.Layout.OffsetWeight <= 1 {
		add("layout.offsetWeight", "must be greater than 1", s.Layout.OffsetWeight, nil)
	}

	if s.Timing.MacroTaskDelay < 0 {
		add("timing.macroTaskDelay", "must not be negative", s.Timing.MacroTaskDelay, nil)
	}
	if s.Timing.DebounceDelay < 0 {
		add("timing.debounceDelay", "must not be negative", s.Timing.DebounceDelay, nil)
	}
	if s.Timing.ReadyTimeout < 0 {
		add("timing.readyTimeout", "must not be negative", s.Timing.ReadyTimeout, nil)
	}

	if _, ok := logging.ParseLevel(s.Log.Level); !ok {
		add("log.level", "must be debug, info, warn or error", s.Log.Level, nil)
	}

	return errors.Join(errs...)
}
