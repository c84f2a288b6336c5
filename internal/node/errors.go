package node

import (
	"errors"
	"fmt"
)

// ErrNoParent indicates a sibling was requested for a root node.
var ErrNoParent = errors.New("selected node has no parent")

// OrphanError reports a node that was created but could not be linked into
// the hierarchy. The node is left on the canvas.
type OrphanError struct {
	NodeID string
	Err    error
}

// Error implements the error interface.
func (e *OrphanError) Error() string {
	return fmt.Sprintf("node %s created without edge: %v", e.NodeID, e.Err)
}

// Unwrap returns the underlying error.
func (e *OrphanError) Unwrap() error {
	return e.Err
}
