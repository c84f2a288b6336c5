package canvas

import "errors"

// Errors for operations attempted in the wrong context. They are routine
// consequences of key presses and callers usually ignore them.
var (
	// ErrNoSelection indicates no node is selected.
	ErrNoSelection = errors.New("no node selected")

	// ErrInvalidState indicates the selected node is in the wrong state,
	// e.g. being edited.
	ErrInvalidState = errors.New("selection in invalid state")

	// ErrNodeNotFound indicates the id does not resolve to a node.
	ErrNodeNotFound = errors.New("node not found")
)
