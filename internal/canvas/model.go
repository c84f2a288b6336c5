package canvas

import "github.com/dshills/mindkeys/internal/spatial"

// Side is the side of a node an edge attaches to.
type Side string

const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideTop    Side = "top"
	SideBottom Side = "bottom"
)

// NodeTypeText is the type of plain text nodes.
const NodeTypeText = "text"

// Node is a positioned, sized box on the canvas.
type Node struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Text   string  `json:"text,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color,omitempty"`
}

// BBox returns the node's bounding box.
func (n Node) BBox() spatial.BoundingBox {
	return spatial.Box(n.X, n.Y, n.Width, n.Height)
}

// Center returns the node's center point.
func (n Node) Center() spatial.Point {
	return n.BBox().Center()
}

// Edge is a directed, sided connection between two nodes.
type Edge struct {
	ID       string `json:"id"`
	FromNode string `json:"fromNode"`
	FromSide Side   `json:"fromSide"`
	ToNode   string `json:"toNode"`
	ToSide   Side   `json:"toSide"`
}

// IsChildLink reports whether the edge makes ToNode a right-side child of FromNode.
func (e Edge) IsChildLink() bool {
	return e.FromSide == SideRight && e.ToSide == SideLeft
}

// Snapshot is the full node and edge data of a canvas.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node returns the node with the given id.
func (s Snapshot) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Nodes: make([]Node, len(s.Nodes)),
		Edges: make([]Edge, len(s.Edges)),
	}
	copy(out.Nodes, s.Nodes)
	copy(out.Edges, s.Edges)
	return out
}

// TextNodeOptions describes a text node the host should create.
type TextNodeOptions struct {
	ID     string
	Text   string
	X, Y   float64
	Width  float64
	Height float64
	// Focus asks the host to focus the node on creation.
	Focus bool
	// Save asks the host to persist the canvas after creation.
	Save bool
}
