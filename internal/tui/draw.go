package tui

import (
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/mindkeys/internal/canvas"
	"github.com/dshills/mindkeys/internal/focus"
	"github.com/dshills/mindkeys/internal/spatial"
)

var (
	styleEdge     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleNode     = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleSelected = styleNode.Reverse(true)
	styleFocused  = styleSelected.Bold(true).Underline(true)
	styleEditing  = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack)
	styleStatus   = tcell.StyleDefault.Reverse(true)
	styleState    = tcell.StyleDefault.Background(tcell.ColorTeal).Foreground(tcell.ColorBlack).Bold(true)
)

// presetColors maps canvas color presets "1" to "6".
var presetColors = map[string]tcell.Color{
	"1": tcell.ColorMaroon,
	"2": tcell.ColorOlive,
	"3": tcell.ColorYellow,
	"4": tcell.ColorGreen,
	"5": tcell.ColorTeal,
	"6": tcell.ColorPurple,
}

// frame is everything one redraw needs.
type frame struct {
	nodes    []canvas.Node
	edges    []canvas.Edge
	selected string
	focused  bool
	editing  bool
	state    focus.State
	file     string
	dirty    bool
	notice   string
}

// draw renders f on screen with the canvas area above a one-line status bar.
func draw(s tcell.Screen, view spatial.BoundingBox, f frame) {
	s.Clear()
	w, h := s.Size()
	if w <= 0 || h <= 1 {
		s.Show()
		return
	}

	p := projection{view: view, width: w, height: h - 1}
	byID := make(map[string]canvas.Node, len(f.nodes))
	for _, n := range f.nodes {
		byID[n.ID] = n
	}

	for _, e := range f.edges {
		from, ok1 := byID[e.FromNode]
		to, ok2 := byID[e.ToNode]
		if !ok1 || !ok2 {
			continue
		}
		x0, y0 := p.toScreen(anchor(from, e.FromSide))
		x1, y1 := p.toScreen(anchor(to, e.ToSide))
		drawLine(s, x0, y0, x1, y1, h-1)
	}

	for _, n := range f.nodes {
		style := nodeStyle(n)
		label := n.Text
		if n.ID == f.selected {
			switch {
			case f.editing:
				style = styleEditing
				label += "▏"
			case f.focused:
				style = styleFocused
			default:
				style = styleSelected
			}
		}
		drawNode(s, p, n, label, style, h-1)
	}

	drawStatus(s, f, w, h-1)
	s.Show()
}

// anchor returns the midpoint of a node side.
func anchor(n canvas.Node, side canvas.Side) spatial.Point {
	b := n.BBox()
	c := b.Center()
	switch side {
	case canvas.SideTop:
		return spatial.Point{X: c.X, Y: b.MinY}
	case canvas.SideBottom:
		return spatial.Point{X: c.X, Y: b.MaxY}
	case canvas.SideLeft:
		return spatial.Point{X: b.MinX, Y: c.Y}
	case canvas.SideRight:
		return spatial.Point{X: b.MaxX, Y: c.Y}
	}
	return c
}

func nodeStyle(n canvas.Node) tcell.Style {
	if c, ok := presetColors[n.Color]; ok {
		return styleNode.Background(c)
	}
	if strings.HasPrefix(n.Color, "#") {
		if c := tcell.GetColor(n.Color); c != tcell.ColorDefault {
			return styleNode.Background(c)
		}
	}
	return styleNode
}

func drawNode(s tcell.Screen, p projection, n canvas.Node, label string, style tcell.Style, maxY int) {
	x0, y0, x1, y1 := p.rect(n.BBox())
	for y := max(y0, 0); y < min(y1, maxY); y++ {
		for x := max(x0, 0); x < x1; x++ {
			s.SetContent(x, y, ' ', nil, style)
		}
	}

	mid := y0 + (y1-y0-1)/2
	if mid < 0 || mid >= maxY {
		return
	}
	width := x1 - x0 - 2
	if width < 1 {
		width = x1 - x0
	}
	text := truncate(firstLine(label), width)
	x := x0 + (x1-x0-uniseg.StringWidth(text))/2
	putString(s, x, mid, text, style)
}

// drawLine plots a dotted line into empty cells.
func drawLine(s tcell.Screen, x0, y0, x1, y1, maxY int) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	for i := 0; i <= steps; i++ {
		x, y := x0, y0
		if steps > 0 {
			x = x0 + dx*i/steps
			y = y0 + dy*i/steps
		}
		if y < 0 || y >= maxY || x < 0 {
			continue
		}
		s.SetContent(x, y, '·', nil, styleEdge)
	}
}

func drawStatus(s tcell.Screen, f frame, width, y int) {
	for x := 0; x < width; x++ {
		s.SetContent(x, y, ' ', nil, styleStatus)
	}

	state := " " + strings.ToUpper(f.state.String()) + " "
	x := putString(s, 0, y, state, styleState)

	name := filepath.Base(f.file)
	if f.file == "" {
		name = "[scratch]"
	}
	if f.dirty {
		name += " [+]"
	}
	x = putString(s, x+1, y, truncate(name, width-x-1), styleStatus)

	right := f.notice
	if right == "" {
		right = "^S save  ^Q quit  +/- zoom"
	}
	right = truncate(right, width-x-2)
	putString(s, width-uniseg.StringWidth(right)-1, y, right, styleStatus)
}

// putString writes str grapheme by grapheme and returns the column after it.
func putString(s tcell.Screen, x, y int, str string, style tcell.Style) int {
	g := uniseg.NewGraphemes(str)
	for g.Next() {
		runes := g.Runes()
		w := g.Width()
		if w == 0 {
			continue
		}
		if x >= 0 {
			s.SetContent(x, y, runes[0], runes[1:], style)
		}
		x += w
	}
	return x
}

// truncate shortens str to at most width columns, marking the cut with "…".
func truncate(str string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(str) <= width {
		return str
	}

	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(str)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	b.WriteString("…")
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
