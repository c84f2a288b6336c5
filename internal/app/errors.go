package app

import "errors"

// Application errors.
var (
	// ErrCanvasTimeout indicates no canvas became available in time.
	ErrCanvasTimeout = errors.New("canvas not ready")

	// ErrAlreadyRunning indicates the loop is already running.
	ErrAlreadyRunning = errors.New("loop already running")

	// ErrNoCanvas indicates an operation needs an active canvas view.
	ErrNoCanvas = errors.New("no active canvas")
)
