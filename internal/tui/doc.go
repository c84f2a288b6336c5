// Package tui is a terminal front end for editing a canvas file with
// mindkeys.
//
// The UI plays the host: it owns the screen and the canvas document,
// forwards key events to the plugin first and treats whatever the plugin
// leaves unconsumed as text input or view navigation. Every event is
// handled on the application loop, so the document is never touched
// concurrently.
package tui
