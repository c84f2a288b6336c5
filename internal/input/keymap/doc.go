// Package keymap holds the keyboard triggers registered while a canvas view
// is active.
//
// A trigger binds an action name to a key chord and a handler. The host
// delivers key events to Dispatch, which runs the handler of the matching
// trigger. UnregisterAll drops every trigger at once so that keys typed in
// other views are not intercepted.
package keymap
