package config

import (
	"errors"
	"os"
	"sort"
	"strconv"
)

// EnvPrefix prefixes every environment variable the overlay reads.
const EnvPrefix = "MINDKEYS_"

type envSetter func(s *Settings, value string) error

func hotkeyEnv(action string) envSetter {
	return func(s *Settings, v string) error { return s.Hotkeys.set(action, v) }
}

func floatEnv(field func(*Settings) *float64) envSetter {
	return func(s *Settings, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(s) = f
		return nil
	}
}

func durationEnv(field func(*Settings) *Duration) envSetter {
	return func(s *Settings, v string) error {
		return field(s).UnmarshalText([]byte(v))
	}
}

// envMapping maps environment variables to settings.
var envMapping = map[string]envSetter{
	EnvPrefix + "AUTO_FOCUS": func(s *Settings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		s.AutoFocus = b
		return nil
	},
	EnvPrefix + "HOTKEY_FOCUS":                 hotkeyEnv(ActionFocus),
	EnvPrefix + "HOTKEY_CREATE_CHILD":          hotkeyEnv(ActionCreateChild),
	EnvPrefix + "HOTKEY_CREATE_BEFORE_SIBLING": hotkeyEnv(ActionCreateBeforeSibling),
	EnvPrefix + "HOTKEY_CREATE_AFTER_SIBLING":  hotkeyEnv(ActionCreateAfterSibling),
	EnvPrefix + "HOTKEY_ARROW_UP":              hotkeyEnv(ActionArrowUp),
	EnvPrefix + "HOTKEY_ARROW_DOWN":            hotkeyEnv(ActionArrowDown),
	EnvPrefix + "HOTKEY_ARROW_LEFT":            hotkeyEnv(ActionArrowLeft),
	EnvPrefix + "HOTKEY_ARROW_RIGHT":           hotkeyEnv(ActionArrowRight),
	EnvPrefix + "ROW_GAP":                      floatEnv(func(s *Settings) *float64 { return &s.Layout.RowGap }),
	EnvPrefix + "COLUMN_GAP":                   floatEnv(func(s *Settings) *float64 { return &s.Layout.ColumnGap }),
	EnvPrefix + "EPSILON":                      floatEnv(func(s *Settings) *float64 { return &s.Layout.Epsilon }),
	EnvPrefix + "OFFSET_WEIGHT":                floatEnv(func(s *Settings) *float64 { return &s.Layout.OffsetWeight }),
	EnvPrefix + "MACRO_TASK_DELAY":             durationEnv(func(s *Settings) *Duration { return &s.Timing.MacroTaskDelay }),
	EnvPrefix + "DEBOUNCE_DELAY":               durationEnv(func(s *Settings) *Duration { return &s.Timing.DebounceDelay }),
	EnvPrefix + "READY_TIMEOUT":                durationEnv(func(s *Settings) *Duration { return &s.Timing.ReadyTimeout }),
	EnvPrefix + "LOG_LEVEL": func(s *Settings, v string) error {
		s.Log.Level = v
		return nil
	},
}

// EnvVars returns the recognised environment variable names, sorted.
func EnvVars() []string {
	names := make([]string, 0, len(envMapping))
	for name := range envMapping {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadEnv overlays the process environment onto s.
func LoadEnv(s *Settings) error {
	return ApplyEnv(s, os.LookupEnv)
}

// ApplyEnv overlays the variables found by lookup onto s. Empty values are
// applied like any other. Every unparsable variable is reported as a
// *ParseError; the rest are still applied.
func ApplyEnv(s *Settings, lookup func(string) (string, bool)) error {
	var errs []error
	for _, name := range EnvVars() {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := envMapping[name](s, v); err != nil {
			errs = append(errs, &ParseError{Path: name, Message: err.Error(), Err: err})
		}
	}
	return errors.Join(errs...)
}
