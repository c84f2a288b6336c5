// Package canvastest provides canvas fixtures for tests.
package canvastest

import (
	"fmt"
	"testing"

	"github.com/dshills/mindkeys/internal/canvas"
	"github.com/dshills/mindkeys/internal/canvas/jsoncanvas"
)

// Text returns a text node with the given geometry.
func Text(id string, x, y, w, h float64) canvas.Node {
	return canvas.Node{ID: id, Type: canvas.NodeTypeText, X: x, Y: y, Width: w, Height: h}
}

// Child returns a right-to-left edge making to a child of from.
func Child(from, to string) canvas.Edge {
	return canvas.Edge{
		ID:       from + "-" + to,
		FromNode: from,
		FromSide: canvas.SideRight,
		ToNode:   to,
		ToSide:   canvas.SideLeft,
	}
}

// New returns a document holding the given nodes and edges.
func New(t testing.TB, nodes []canvas.Node, edges []canvas.Edge) *jsoncanvas.Document {
	t.Helper()
	d := jsoncanvas.New()
	if err := d.ImportData(canvas.Snapshot{Nodes: nodes, Edges: edges}); err != nil {
		t.Fatalf("ImportData: %v", err)
	}
	return d
}

// Recorder wraps a canvas, records mutating calls and injects failures.
type Recorder struct {
	canvas.Canvas

	// Calls lists mutating calls in order, e.g. "select a" or "move b 300 -70".
	Calls []string

	CreateErr error
	ImportErr error
	MoveErr   map[string]error
}

// NewRecorder wraps c.
func NewRecorder(c canvas.Canvas) *Recorder {
	return &Recorder{Canvas: c}
}

// Reset clears the recorded calls.
func (r *Recorder) Reset() { r.Calls = nil }

func (r *Recorder) record(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) CreateTextNode(opts canvas.TextNodeOptions) (canvas.Node, error) {
	r.record("create %s %g %g", opts.ID, opts.X, opts.Y)
	if r.CreateErr != nil {
		return canvas.Node{}, r.CreateErr
	}
	return r.Canvas.CreateTextNode(opts)
}

func (r *Recorder) ImportData(s canvas.Snapshot) error {
	r.record("import %d %d", len(s.Nodes), len(s.Edges))
	if r.ImportErr != nil {
		return r.ImportErr
	}
	return r.Canvas.ImportData(s)
}

func (r *Recorder) MoveNode(id string, x, y float64) error {
	r.record("move %s %g %g", id, x, y)
	if err := r.MoveErr[id]; err != nil {
		return err
	}
	return r.Canvas.MoveNode(id, x, y)
}

func (r *Recorder) Select(id string) error {
	r.record("select %s", id)
	return r.Canvas.Select(id)
}

func (r *Recorder) DeselectAll() {
	r.record("deselect")
	r.Canvas.DeselectAll()
}

func (r *Recorder) ZoomToNode(id string) error {
	r.record("zoom %s", id)
	return r.Canvas.ZoomToNode(id)
}

func (r *Recorder) StartEditing(id string) error {
	r.record("edit %s", id)
	return r.Canvas.StartEditing(id)
}

func (r *Recorder) StopEditing(id string) error {
	r.record("stop %s", id)
	return r.Canvas.StopEditing(id)
}

func (r *Recorder) Focus(id string) error {
	r.record("focus %s", id)
	return r.Canvas.Focus(id)
}
