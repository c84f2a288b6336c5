package canvas

import "github.com/dshills/mindkeys/internal/spatial"

// Reader is the query half of the host canvas.
type Reader interface {
	// Selection returns the selected node, if exactly one is selected.
	Selection() (Node, bool)

	// NodesInViewport returns the nodes currently visible, in canvas order.
	NodesInViewport() []Node

	// Viewport returns the visible region in canvas coordinates.
	Viewport() spatial.BoundingBox

	// EdgesOf returns the edges incident to the node, in canvas order.
	EdgesOf(nodeID string) []Edge

	// Node returns the node with the given id.
	Node(id string) (Node, bool)

	// Data returns a snapshot of every node and edge.
	Data() Snapshot
}

// Mutator is the mutation half of the host canvas.
type Mutator interface {
	// CreateTextNode creates a text node and returns it as stored.
	CreateTextNode(opts TextNodeOptions) (Node, error)

	// ImportData replaces the canvas contents with the snapshot.
	ImportData(s Snapshot) error

	// MoveNode moves the node's top-left corner to (x, y).
	MoveNode(id string, x, y float64) error

	// Select makes the node the only selected node.
	Select(id string) error

	// DeselectAll clears the selection.
	DeselectAll()

	// ZoomToNode frames the viewport on the node.
	ZoomToNode(id string) error

	// StartEditing puts the node into text editing.
	StartEditing(id string) error

	// StopEditing ends text editing on the node.
	StopEditing(id string) error

	// Focus applies focus styling to the node.
	Focus(id string) error

	// IsFocused reports whether the node shows focus.
	IsFocused(id string) bool

	// IsEditing reports whether the node is being text-edited.
	IsEditing(id string) bool
}

// Canvas is everything the editing components need from the host.
type Canvas interface {
	Reader
	Mutator
}
