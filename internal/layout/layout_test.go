package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/dshills/mindkeys/internal/canvas"
	"github.com/dshills/mindkeys/internal/canvas/canvastest"
)

func TestComputeCreateChildScenario(t *testing.T) {
	e := New()
	parent := canvastest.Text("p", 0, 0, 100, 50)
	siblings := []canvas.Node{
		canvastest.Text("c1", 300, 0, 100, 50),
		canvastest.Text("c2", 300, 80, 100, 50),
		canvastest.Text("new", 300, 81, 100, 50),
	}

	got := e.Compute(parent, siblings)
	want := []Placement{
		{ID: "c1", X: 300, Y: -70},
		{ID: "c2", X: 300, Y: 0},
		{ID: "new", X: 300, Y: 70},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("placement %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestComputeOrdering(t *testing.T) {
	e := New()
	parent := canvastest.Text("p", 0, 0, 100, 50)

	tests := []struct {
		name     string
		siblings []canvas.Node
		want     []string
	}{
		{
			name: "sorted by y",
			siblings: []canvas.Node{
				canvastest.Text("low", 0, 500, 10, 10),
				canvastest.Text("high", 0, -500, 10, 10),
				canvastest.Text("mid", 0, 0, 10, 10),
			},
			want: []string{"high", "mid", "low"},
		},
		{
			name: "ties keep input order",
			siblings: []canvas.Node{
				canvastest.Text("b", 0, 5, 10, 10),
				canvastest.Text("a", 0, 5, 10, 10),
				canvastest.Text("c", 0, 1, 10, 10),
			},
			want: []string{"c", "b", "a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Compute(parent, tt.siblings)
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("order[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestComputeProperties(t *testing.T) {
	e := &Engine{RowGap: 13, ColumnGap: 40}
	parent := canvastest.Text("p", 17, -33, 120, 77)
	siblings := []canvas.Node{
		canvastest.Text("a", 0, 9, 50, 31),
		canvastest.Text("b", 0, -4, 50, 12),
		canvastest.Text("c", 0, 100, 50, 60),
		canvastest.Text("d", 0, 3, 50, 5),
	}
	heights := map[string]float64{}
	for _, s := range siblings {
		heights[s.ID] = s.Height
	}

	got := e.Compute(parent, siblings)
	for i := 1; i < len(got); i++ {
		prevBottom := got[i-1].Y + heights[got[i-1].ID]
		if gap := got[i].Y - prevBottom; math.Abs(gap-e.RowGap) > 1e-9 {
			t.Errorf("gap before %s = %v, want %v", got[i].ID, gap, e.RowGap)
		}
	}

	top := got[0].Y
	last := got[len(got)-1]
	bottom := last.Y + heights[last.ID]
	if mid := (top + bottom) / 2; math.Abs(mid-parent.Center().Y) > 1e-9 {
		t.Errorf("column center = %v, want %v", mid, parent.Center().Y)
	}
	for _, p := range got {
		if p.X != parent.X+parent.Width+e.ColumnGap {
			t.Errorf("%s x = %v, want %v", p.ID, p.X, parent.X+parent.Width+e.ColumnGap)
		}
	}
}

func TestComputeEmpty(t *testing.T) {
	if got := New().Compute(canvastest.Text("p", 0, 0, 1, 1), nil); got != nil {
		t.Errorf("Compute(empty) = %v, want nil", got)
	}
}

func TestReflow(t *testing.T) {
	doc := canvastest.New(t, []canvas.Node{
		canvastest.Text("p", 0, 0, 100, 50),
		canvastest.Text("a", 0, 10, 100, 50),
		canvastest.Text("b", 0, 0, 100, 50),
	}, nil)
	rec := canvastest.NewRecorder(doc)

	p, _ := doc.Node("p")
	a, _ := doc.Node("a")
	b, _ := doc.Node("b")
	if err := New().Reflow(rec, p, []canvas.Node{a, b}); err != nil {
		t.Fatal(err)
	}

	want := []string{"move b 300 -35", "move a 300 35"}
	if len(rec.Calls) != len(want) {
		t.Fatalf("calls = %v, want %v", rec.Calls, want)
	}
	for i := range want {
		if rec.Calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, rec.Calls[i], want[i])
		}
	}
	if n, _ := doc.Node("a"); n.Width != 100 || n.Height != 50 {
		t.Errorf("size changed: %+v", n)
	}
}

func TestReflowContinuesAfterFailure(t *testing.T) {
	doc := canvastest.New(t, []canvas.Node{
		canvastest.Text("p", 0, 0, 100, 50),
		canvastest.Text("a", 0, 0, 100, 50),
		canvastest.Text("b", 0, 10, 100, 50),
	}, nil)
	boom := errors.New("boom")
	rec := canvastest.NewRecorder(doc)
	rec.MoveErr = map[string]error{"a": boom}

	p, _ := doc.Node("p")
	a, _ := doc.Node("a")
	b, _ := doc.Node("b")
	err := New().Reflow(rec, p, []canvas.Node{a, b})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if n, _ := doc.Node("b"); n.X != 300 {
		t.Errorf("b.X = %v, want 300", n.X)
	}
}
