// Package jsoncanvas is a reference host canvas: an in-memory JSON Canvas
// document (the {"nodes": [...], "edges": [...]} format used by .canvas
// files) plus the interaction state a host keeps alongside it, namely the
// selection, focus, editing flag and viewport.
//
// The raw JSON is kept as the source of truth and read with gjson and
// written with sjson, so fields this package does not model (groups, files,
// links, custom colors, styling extensions) survive a load/save round trip.
package jsoncanvas

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/mindkeys/internal/canvas"
	"github.com/dshills/mindkeys/internal/spatial"
)

// Document errors.
var (
	// ErrInvalidJSON indicates the input is not a JSON Canvas document.
	ErrInvalidJSON = errors.New("invalid canvas JSON")

	// ErrDuplicateID indicates a node id is already taken.
	ErrDuplicateID = errors.New("duplicate node id")
)

// DefaultViewport is the visible region of a freshly created document.
var DefaultViewport = spatial.Box(-800, -450, 1600, 900)

const emptyCanvas = `{"nodes":[],"edges":[]}`

// Document is a JSON Canvas held in memory together with host interaction state.
//
// Thread-safety: All methods are safe for concurrent use.
type Document struct {
	mu sync.RWMutex

	raw  []byte
	path string

	selected string
	focused  string
	editing  string
	viewport spatial.BoundingBox
	zoomedTo string
	dirty    bool
}

// New creates an empty document.
func New() *Document {
	return &Document{
		raw:      []byte(emptyCanvas),
		viewport: DefaultViewport,
	}
}

// Parse creates a document from JSON Canvas data.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, ErrInvalidJSON
	}

	raw := append([]byte(nil), data...)
	var err error
	for _, field := range []string{"nodes", "edges"} {
		v := gjson.GetBytes(raw, field)
		switch {
		case !v.Exists():
			raw, err = sjson.SetRawBytes(raw, field, []byte("[]"))
			if err != nil {
				return nil, fmt.Errorf("initializing %s: %w", field, err)
			}
		case !v.IsArray():
			return nil, fmt.Errorf("%w: %s is not an array", ErrInvalidJSON, field)
		}
	}

	d := New()
	d.raw = raw
	return d, nil
}

// Open loads a document from a .canvas file.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading canvas %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing canvas %s: %w", path, err)
	}
	d.path = path
	return d, nil
}

// Path returns the file the document is persisted to, or "".
func (d *Document) Path() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.path
}

// SetPath sets the file the document is persisted to. Node creation that
// asks for persistence writes there.
func (d *Document) SetPath(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.path = path
}

// Save writes the document to path, indented.
func (d *Document) Save(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saveLocked(path)
}

func (d *Document) saveLocked(path string) error {
	if err := os.WriteFile(path, pretty.Pretty(d.raw), 0o644); err != nil {
		return fmt.Errorf("writing canvas %s: %w", path, err)
	}
	d.dirty = false
	return nil
}

// Bytes returns a copy of the raw JSON.
func (d *Document) Bytes() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]byte(nil), d.raw...)
}

// Dirty reports whether the document changed since it was loaded or saved.
func (d *Document) Dirty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dirty
}

// SetViewport sets the visible region.
func (d *Document) SetViewport(b spatial.BoundingBox) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.viewport = b
}

// ZoomedTo returns the id of the node the viewport was last framed on.
func (d *Document) ZoomedTo() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.zoomedTo
}

// NodeAt returns the topmost node containing p.
func (d *Document) NodeAt(p spatial.Point) (canvas.Node, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	nodes := d.nodesLocked()
	for i := len(nodes) - 1; i >= 0; i-- {
		b := nodes[i].BBox()
		if p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY {
			return nodes[i], true
		}
	}
	return canvas.Node{}, false
}

// nodesLocked decodes every node (must hold lock).
func (d *Document) nodesLocked() []canvas.Node {
	var nodes []canvas.Node
	gjson.GetBytes(d.raw, "nodes").ForEach(func(_, v gjson.Result) bool {
		nodes = append(nodes, nodeFromJSON(v))
		return true
	})
	return nodes
}

// edgesLocked decodes every edge (must hold lock).
func (d *Document) edgesLocked() []canvas.Edge {
	var edges []canvas.Edge
	gjson.GetBytes(d.raw, "edges").ForEach(func(_, v gjson.Result) bool {
		edges = append(edges, edgeFromJSON(v))
		return true
	})
	return edges
}

// indexLocked returns the array index of the element with id, or -1 (must hold lock).
func (d *Document) indexLocked(field, id string) int {
	idx, i := -1, 0
	gjson.GetBytes(d.raw, field).ForEach(func(_, v gjson.Result) bool {
		if v.Get("id").String() == id {
			idx = i
			return false
		}
		i++
		return true
	})
	return idx
}

func nodeFromJSON(v gjson.Result) canvas.Node {
	return canvas.Node{
		ID:     v.Get("id").String(),
		Type:   v.Get("type").String(),
		Text:   v.Get("text").String(),
		X:      v.Get("x").Float(),
		Y:      v.Get("y").Float(),
		Width:  v.Get("width").Float(),
		Height: v.Get("height").Float(),
		Color:  v.Get("color").String(),
	}
}

func edgeFromJSON(v gjson.Result) canvas.Edge {
	return canvas.Edge{
		ID:       v.Get("id").String(),
		FromNode: v.Get("fromNode").String(),
		FromSide: canvas.Side(v.Get("fromSide").String()),
		ToNode:   v.Get("toNode").String(),
		ToSide:   canvas.Side(v.Get("toSide").String()),
	}
}
