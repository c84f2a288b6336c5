// Package app wires the mindkeys components to a host canvas.
//
// A Plugin is created once per host. It waits for a canvas to become
// available (Readiness), then builds a Session for the active canvas view:
// the focus machine, navigation engine and node controller, with their
// hotkeys registered in a keymap.Registry. When another view becomes active
// the session's triggers are unregistered; when a canvas view returns they
// are registered again.
//
// All component logic runs on one goroutine. Hosts call Plugin methods from
// the goroutine running the Loop, and every timer the components start is
// posted back onto that Loop before its callback runs.
package app
