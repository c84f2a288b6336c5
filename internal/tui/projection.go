package tui

import (
	"math"

	"github.com/dshills/mindkeys/internal/spatial"
)

// projection maps canvas coordinates onto a grid of terminal cells.
type projection struct {
	view          spatial.BoundingBox
	width, height int
}

// toScreen returns the cell containing p.
func (p projection) toScreen(pt spatial.Point) (int, int) {
	x := (pt.X - p.view.MinX) / p.view.Width() * float64(p.width)
	y := (pt.Y - p.view.MinY) / p.view.Height() * float64(p.height)
	return int(math.Floor(x)), int(math.Floor(y))
}

// toCanvas returns the canvas point at the center of cell (x, y).
func (p projection) toCanvas(x, y int) spatial.Point {
	return spatial.Point{
		X: p.view.MinX + (float64(x)+0.5)*p.view.Width()/float64(p.width),
		Y: p.view.MinY + (float64(y)+0.5)*p.view.Height()/float64(p.height),
	}
}

// rect returns the cells covered by b, at least one cell in each dimension.
func (p projection) rect(b spatial.BoundingBox) (x0, y0, x1, y1 int) {
	x0, y0 = p.toScreen(spatial.Point{X: b.MinX, Y: b.MinY})
	x1, y1 = p.toScreen(spatial.Point{X: b.MaxX, Y: b.MaxY})
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return x0, y0, x1, y1
}

// pan shifts a viewport by a fraction of its size.
func pan(view spatial.BoundingBox, fx, fy float64) spatial.BoundingBox {
	dx, dy := view.Width()*fx, view.Height()*fy
	return spatial.BoundingBox{
		MinX: view.MinX + dx,
		MinY: view.MinY + dy,
		MaxX: view.MaxX + dx,
		MaxY: view.MaxY + dy,
	}
}

// zoom scales a viewport about its center. factor > 1 shows more canvas.
func zoom(view spatial.BoundingBox, factor float64) spatial.BoundingBox {
	c := view.Center()
	w, h := view.Width()*factor, view.Height()*factor
	return spatial.Box(c.X-w/2, c.Y-h/2, w, h)
}
