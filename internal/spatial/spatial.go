// Package spatial provides the geometric measures used to pick nodes:
// point distance, bounding-box corner distance and the directional score
// that ranks candidates when moving focus in a compass direction.
package spatial

import (
	"fmt"
	"math"
	"strings"
)

// Point is a position in canvas coordinates.
type Point struct {
	X, Y float64
}

// BoundingBox is an axis-aligned rectangle in canvas coordinates.
type BoundingBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// Box returns the bounding box of a rectangle given by its top-left corner and size.
func Box(x, y, width, height float64) BoundingBox {
	return BoundingBox{MinX: x, MinY: y, MaxX: x + width, MaxY: y + height}
}

// Width returns the box width.
func (b BoundingBox) Width() float64 { return b.MaxX - b.MinX }

// Height returns the box height.
func (b BoundingBox) Height() float64 { return b.MaxY - b.MinY }

// Center returns the center point of the box.
func (b BoundingBox) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Corners returns the four corners: top-left, top-right, bottom-left, bottom-right.
func (b BoundingBox) Corners() [4]Point {
	return [4]Point{
		{b.MinX, b.MinY},
		{b.MaxX, b.MinY},
		{b.MinX, b.MaxY},
		{b.MaxX, b.MaxY},
	}
}

// Intersects reports whether the boxes overlap or touch.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX &&
		b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// Union returns the smallest box containing both boxes.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// PointDistance returns the Euclidean distance between a and b.
func PointDistance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// CornerDistance returns the distance from p to the nearest corner of b.
func CornerDistance(p Point, b BoundingBox) float64 {
	best := math.Inf(1)
	for _, c := range b.Corners() {
		best = math.Min(best, PointDistance(p, c))
	}
	return best
}

// Closest returns the index of the box whose nearest corner is closest to p.
// The first box wins ties. Returns -1 for an empty slice.
func Closest(p Point, boxes []BoundingBox) int {
	idx := -1
	best := math.Inf(1)
	for i, b := range boxes {
		if d := CornerDistance(p, b); d < best {
			best = d
			idx = i
		}
	}
	return idx
}

// Direction is a compass direction on the canvas. Y grows downward.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Horizontal reports whether d is Left or Right.
func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

// ParseDirection parses "up", "down", "left" or "right" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// InDirection reports whether to lies strictly on the dir side of from,
// with no overlap on the primary axis.
func InDirection(dir Direction, from, to BoundingBox) bool {
	switch dir {
	case Right:
		return to.MinX > from.MaxX
	case Left:
		return to.MaxX < from.MinX
	case Down:
		return to.MinY > from.MaxY
	case Up:
		return to.MaxY < from.MinY
	}
	return false
}

// DirectionalScore ranks a candidate box for a move in dir; lower is better.
//
// The score is the primary-axis offset between the two anchors (top-left
// corners) plus the cross-axis endpoint offset raised to weight. The
// endpoint offset is the smallest gap between any edge of from and any edge
// of to on the cross axis, so a candidate roughly in line with from scores
// far better than one that is merely close on the primary axis.
func DirectionalScore(dir Direction, from, to BoundingBox, weight float64) float64 {
	var primary, endpoint float64
	if dir.Horizontal() {
		primary = math.Abs(to.MinX - from.MinX)
		endpoint = endpointOffset(from.MinY, from.MaxY, to.MinY, to.MaxY)
	} else {
		primary = math.Abs(to.MinY - from.MinY)
		endpoint = endpointOffset(from.MinX, from.MaxX, to.MinX, to.MaxX)
	}
	return primary + math.Pow(endpoint, weight)
}

// endpointOffset is the minimum absolute difference between an edge of the
// first span and an edge of the second. It is never negative.
func endpointOffset(aMin, aMax, bMin, bMax float64) float64 {
	return min(
		math.Abs(aMin-bMin),
		math.Abs(aMin-bMax),
		math.Abs(aMax-bMin),
		math.Abs(aMax-bMax),
	)
}
