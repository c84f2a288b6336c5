package jsoncanvas

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/mindkeys/internal/canvas"
	"github.com/dshills/mindkeys/internal/spatial"
)

var _ canvas.Canvas = (*Document)(nil)

// Selection returns the selected node.
func (d *Document) Selection() (canvas.Node, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.selected == "" {
		return canvas.Node{}, false
	}
	return d.nodeLocked(d.selected)
}

// NodesInViewport returns the nodes intersecting the viewport.
func (d *Document) NodesInViewport() []canvas.Node {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var visible []canvas.Node
	for _, n := range d.nodesLocked() {
		if n.BBox().Intersects(d.viewport) {
			visible = append(visible, n)
		}
	}
	return visible
}

// Viewport returns the visible region.
func (d *Document) Viewport() spatial.BoundingBox {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.viewport
}

// EdgesOf returns the edges touching the node.
func (d *Document) EdgesOf(nodeID string) []canvas.Edge {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []canvas.Edge
	for _, e := range d.edgesLocked() {
		if e.FromNode == nodeID || e.ToNode == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// Node returns the node with the given id.
func (d *Document) Node(id string) (canvas.Node, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.nodeLocked(id)
}

func (d *Document) nodeLocked(id string) (canvas.Node, bool) {
	idx := d.indexLocked("nodes", id)
	if idx < 0 {
		return canvas.Node{}, false
	}
	return nodeFromJSON(gjson.GetBytes(d.raw, "nodes."+strconv.Itoa(idx))), true
}

// Data returns every node and edge.
func (d *Document) Data() canvas.Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return canvas.Snapshot{Nodes: d.nodesLocked(), Edges: d.edgesLocked()}
}

// CreateTextNode appends a text node. With opts.Save the document is
// written to its path, and the node is dropped again if that fails.
func (d *Document) CreateTextNode(opts canvas.TextNodeOptions) (canvas.Node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if opts.ID == "" {
		return canvas.Node{}, fmt.Errorf("creating node: empty id")
	}
	if d.indexLocked("nodes", opts.ID) >= 0 {
		return canvas.Node{}, fmt.Errorf("creating node %s: %w", opts.ID, ErrDuplicateID)
	}

	n := canvas.Node{
		ID:     opts.ID,
		Type:   canvas.NodeTypeText,
		Text:   opts.Text,
		X:      opts.X,
		Y:      opts.Y,
		Width:  opts.Width,
		Height: opts.Height,
	}
	raw, err := sjson.SetBytes(d.raw, "nodes.-1", n)
	if err != nil {
		return canvas.Node{}, fmt.Errorf("creating node %s: %w", opts.ID, err)
	}
	prev, prevDirty := d.raw, d.dirty
	d.raw = raw
	d.dirty = true

	if opts.Save && d.path != "" {
		if err := d.saveLocked(d.path); err != nil {
			d.raw, d.dirty = prev, prevDirty
			return canvas.Node{}, fmt.Errorf("creating node %s: %w", opts.ID, err)
		}
	}

	if opts.Focus {
		d.selected = n.ID
		d.focused = n.ID
	}
	return n, nil
}

// ImportData replaces the nodes and edges. Elements whose id already exists
// keep the JSON fields this package does not model. Every edge endpoint must
// name a node in s; otherwise nothing changes and the error wraps
// canvas.ErrNodeNotFound.
func (d *Document) ImportData(s canvas.Snapshot) error {
	for _, e := range s.Edges {
		for _, end := range []string{e.FromNode, e.ToNode} {
			if _, ok := s.Node(end); !ok {
				return fmt.Errorf("importing edge %s: endpoint %s: %w", e.ID, end, canvas.ErrNodeNotFound)
			}
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	nodes := []byte("[]")
	for _, n := range s.Nodes {
		elem, err := d.mergeLocked("nodes", n.ID, []field{
			{key: "id", value: n.ID},
			{key: "type", value: n.Type},
			{key: "text", value: n.Text, optional: true},
			{key: "x", value: n.X},
			{key: "y", value: n.Y},
			{key: "width", value: n.Width},
			{key: "height", value: n.Height},
			{key: "color", value: n.Color, optional: true},
		})
		if err != nil {
			return fmt.Errorf("importing node %s: %w", n.ID, err)
		}
		if nodes, err = sjson.SetRawBytes(nodes, "-1", elem); err != nil {
			return fmt.Errorf("importing node %s: %w", n.ID, err)
		}
	}

	edges := []byte("[]")
	for _, e := range s.Edges {
		elem, err := d.mergeLocked("edges", e.ID, []field{
			{key: "id", value: e.ID},
			{key: "fromNode", value: e.FromNode},
			{key: "fromSide", value: string(e.FromSide), optional: true},
			{key: "toNode", value: e.ToNode},
			{key: "toSide", value: string(e.ToSide), optional: true},
		})
		if err != nil {
			return fmt.Errorf("importing edge %s: %w", e.ID, err)
		}
		if edges, err = sjson.SetRawBytes(edges, "-1", elem); err != nil {
			return fmt.Errorf("importing edge %s: %w", e.ID, err)
		}
	}

	raw, err := sjson.SetRawBytes(d.raw, "nodes", nodes)
	if err != nil {
		return fmt.Errorf("importing nodes: %w", err)
	}
	if raw, err = sjson.SetRawBytes(raw, "edges", edges); err != nil {
		return fmt.Errorf("importing edges: %w", err)
	}
	d.raw = raw
	d.dirty = true

	if _, ok := d.nodeLocked(d.selected); !ok {
		d.clearSelectionLocked()
	}
	return nil
}

// field is one modelled JSON field of a node or edge. Optional fields are
// left out while empty unless the element already carries them.
type field struct {
	key      string
	value    any
	optional bool
}

// mergeLocked returns the existing JSON element with id, with the fields
// whose value changed rewritten, or a new element when none exists
// (must hold lock).
func (d *Document) mergeLocked(kind, id string, fields []field) ([]byte, error) {
	elem := []byte("{}")
	if idx := d.indexLocked(kind, id); idx >= 0 {
		elem = []byte(gjson.GetBytes(d.raw, kind+"."+strconv.Itoa(idx)).Raw)
	}

	var err error
	for _, f := range fields {
		cur := gjson.GetBytes(elem, f.key)
		if cur.Exists() && cur.Value() == f.value {
			continue
		}
		if f.optional && !cur.Exists() && f.value == "" {
			continue
		}
		if elem, err = sjson.SetBytes(elem, f.key, f.value); err != nil {
			return nil, err
		}
	}
	return elem, nil
}

// MoveNode moves the node's top-left corner.
func (d *Document) MoveNode(id string, x, y float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := d.indexLocked("nodes", id)
	if idx < 0 {
		return fmt.Errorf("moving %s: %w", id, canvas.ErrNodeNotFound)
	}
	base := "nodes." + strconv.Itoa(idx)
	raw, err := sjson.SetBytes(d.raw, base+".x", x)
	if err != nil {
		return fmt.Errorf("moving %s: %w", id, err)
	}
	if raw, err = sjson.SetBytes(raw, base+".y", y); err != nil {
		return fmt.Errorf("moving %s: %w", id, err)
	}
	d.raw = raw
	d.dirty = true
	return nil
}

// Select makes the node the only selected node.
func (d *Document) Select(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.indexLocked("nodes", id) < 0 {
		return fmt.Errorf("selecting %s: %w", id, canvas.ErrNodeNotFound)
	}
	if d.selected != id {
		d.clearSelectionLocked()
		d.selected = id
	}
	return nil
}

// DeselectAll clears the selection.
func (d *Document) DeselectAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clearSelectionLocked()
}

func (d *Document) clearSelectionLocked() {
	d.selected = ""
	d.focused = ""
	d.editing = ""
}

// ZoomToNode recenters the viewport on the node, keeping its size.
func (d *Document) ZoomToNode(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, ok := d.nodeLocked(id)
	if !ok {
		return fmt.Errorf("zooming to %s: %w", id, canvas.ErrNodeNotFound)
	}
	c := n.Center()
	w, h := d.viewport.Width(), d.viewport.Height()
	d.viewport = spatial.Box(c.X-w/2, c.Y-h/2, w, h)
	d.zoomedTo = id
	return nil
}

// StartEditing selects the node and puts it into text editing.
func (d *Document) StartEditing(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.indexLocked("nodes", id) < 0 {
		return fmt.Errorf("editing %s: %w", id, canvas.ErrNodeNotFound)
	}
	if d.selected != id {
		d.clearSelectionLocked()
	}
	d.selected = id
	d.focused = id
	d.editing = id
	return nil
}

// StopEditing ends editing. Like a browser blur, the node also loses focus
// styling; callers that want it focused must call Focus again.
func (d *Document) StopEditing(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.editing != id {
		return nil
	}
	d.editing = ""
	d.focused = ""
	return nil
}

// Focus applies focus styling to the node.
func (d *Document) Focus(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.indexLocked("nodes", id) < 0 {
		return fmt.Errorf("focusing %s: %w", id, canvas.ErrNodeNotFound)
	}
	d.focused = id
	return nil
}

// IsFocused reports whether the node shows focus.
func (d *Document) IsFocused(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return id != "" && d.focused == id
}

// IsEditing reports whether the node is being edited.
func (d *Document) IsEditing(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return id != "" && d.editing == id
}
