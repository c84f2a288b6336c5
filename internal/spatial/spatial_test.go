package spatial

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestPointDistance(t *testing.T) {
	tests := []struct {
		a, b Point
		want float64
	}{
		{Point{0, 0}, Point{3, 4}, 5},
		{Point{1, 1}, Point{1, 1}, 0},
		{Point{-1, -1}, Point{2, 3}, 5},
	}
	for _, tt := range tests {
		if got := PointDistance(tt.a, tt.b); math.Abs(got-tt.want) > eps {
			t.Errorf("PointDistance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCornerDistance(t *testing.T) {
	b := Box(10, 10, 100, 50)
	tests := []struct {
		p    Point
		want float64
	}{
		{Point{10, 10}, 0},
		{Point{110, 60}, 0},
		{Point{0, 10}, 10},
		{Point{113, 64}, 5},
		// The center of a box is not at distance zero: only corners count.
		{Point{60, 35}, math.Hypot(50, 25)},
	}
	for _, tt := range tests {
		if got := CornerDistance(tt.p, b); math.Abs(got-tt.want) > eps {
			t.Errorf("CornerDistance(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestClosest(t *testing.T) {
	boxes := []BoundingBox{
		Box(100, 100, 10, 10),
		Box(0, 0, 10, 10),
		Box(10, 10, 10, 10), // same nearest corner distance as index 1 for p
	}
	if got := Closest(Point{10, 10}, boxes); got != 1 {
		t.Errorf("Closest = %d, want 1 (first wins ties)", got)
	}
	if got := Closest(Point{0, 0}, nil); got != -1 {
		t.Errorf("Closest(empty) = %d, want -1", got)
	}
}

func TestInDirection(t *testing.T) {
	from := Box(100, 100, 100, 50)
	tests := []struct {
		name string
		dir  Direction
		to   BoundingBox
		want bool
	}{
		{"right clear", Right, Box(201, 0, 10, 10), true},
		{"right touching", Right, Box(200, 100, 10, 10), false},
		{"right overlapping", Right, Box(150, 100, 100, 50), false},
		{"left clear", Left, Box(0, 100, 99, 10), true},
		{"left touching", Left, Box(0, 100, 100, 10), false},
		{"down clear", Down, Box(100, 151, 10, 10), true},
		{"down touching", Down, Box(100, 150, 10, 10), false},
		{"up clear", Up, Box(100, 0, 10, 99), true},
		{"up touching", Up, Box(100, 0, 10, 100), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InDirection(tt.dir, from, tt.to); got != tt.want {
				t.Errorf("InDirection(%v) = %v, want %v", tt.dir, got, tt.want)
			}
		})
	}
}

func TestDirectionalScore(t *testing.T) {
	from := Box(0, 0, 100, 50)

	// Aligned candidate: same y span, 300 to the right.
	aligned := Box(300, 0, 100, 50)
	if got := DirectionalScore(Right, from, aligned, 1.1); math.Abs(got-300) > eps {
		t.Errorf("aligned score = %v, want 300", got)
	}

	// Offset candidate: closer on x but 200 below.
	offset := Box(200, 250, 100, 50)
	got := DirectionalScore(Right, from, offset, 1.1)
	want := 200 + math.Pow(200, 1.1)
	if math.Abs(got-want) > eps {
		t.Errorf("offset score = %v, want %v", got, want)
	}
	if got <= 300 {
		t.Errorf("offset candidate should lose to aligned one: %v <= 300", got)
	}
}

func TestDirectionalScoreSymmetric(t *testing.T) {
	from := Box(0, 0, 40, 80)
	to := Box(500, 30, 120, 20)

	// Swapping the axes of the inputs swaps horizontal and vertical scoring.
	swap := func(b BoundingBox) BoundingBox {
		return BoundingBox{MinX: b.MinY, MinY: b.MinX, MaxX: b.MaxY, MaxY: b.MaxX}
	}

	for _, w := range []float64{1.1, 1.5, 2} {
		h := DirectionalScore(Right, from, to, w)
		v := DirectionalScore(Down, swap(from), swap(to), w)
		if math.Abs(h-v) > eps {
			t.Errorf("weight %v: horizontal %v != vertical %v", w, h, v)
		}
		l := DirectionalScore(Left, to, from, w)
		if math.Abs(h-l) > eps {
			t.Errorf("weight %v: right %v != reverse left %v", w, h, l)
		}
	}
}

func TestEndpointOffsetNonNegative(t *testing.T) {
	spans := [][4]float64{
		{0, 10, 20, 30},
		{20, 30, 0, 10},
		{0, 100, 10, 20},
		{-50, -10, -40, 5},
		{5, 5, 5, 5},
	}
	for _, s := range spans {
		off := endpointOffset(s[0], s[1], s[2], s[3])
		if off < 0 {
			t.Errorf("endpointOffset(%v) = %v, want >= 0", s, off)
		}
		for _, w := range []float64{1.1, 2.5} {
			if math.IsNaN(math.Pow(off, w)) {
				t.Errorf("endpointOffset(%v)^%v is NaN", s, w)
			}
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range []Direction{Up, Down, Left, Right} {
		got, err := ParseDirection(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDirection(%q) = %v, %v; want %v", d.String(), got, err, d)
		}
	}
	if _, err := ParseDirection("north"); err == nil {
		t.Error("ParseDirection(north) should fail")
	}
}

func TestBoundingBoxHelpers(t *testing.T) {
	a := Box(0, 0, 10, 10)
	b := Box(5, 5, 10, 10)
	c := Box(20, 20, 1, 1)

	if !a.Intersects(b) || a.Intersects(c) {
		t.Error("Intersects mismatch")
	}
	u := a.Union(c)
	if u != (BoundingBox{0, 0, 21, 21}) {
		t.Errorf("Union = %v", u)
	}
	if a.Center() != (Point{5, 5}) {
		t.Errorf("Center = %v", a.Center())
	}
	if b.Width() != 10 || b.Height() != 10 {
		t.Errorf("size = %v x %v", b.Width(), b.Height())
	}
}
