// Package config holds the mindkeys settings: hotkeys, layout gaps, timing
// and log level.
//
// Settings are read from a TOML or YAML file (chosen by extension) decoded
// over the defaults, then overlaid with MINDKEYS_* environment variables.
// A file that does not exist yields the defaults.
//
// Example settings file:
//
//	autoFocus = false
//
//	[hotkeys]
//	focus = "F"
//	createChild = "Tab"
//	createBeforeSibling = "Shift + Enter"
//	createAfterSibling = "Enter"
//	arrowUp = "Alt + ArrowUp"
//
//	[layout]
//	rowGap = 20
//	columnGap = 200
//
//	[timing]
//	macroTaskDelay = "50ms"
//	debounceDelay = "100ms"
//
//	[log]
//	level = "info"
package config
