package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/argmap/pkg/layout"
	"github.com/matzehuels/argmap/pkg/render"
	"github.com/matzehuels/argmap/pkg/style"
	"github.com/matzehuels/argmap/pkg/viewport"
)

// bezierSteps is the number of segments each cubic curve is flattened into.
const bezierSteps = 16

const minimapColor = "#90a4ae"

// cell is one terminal character with its styling.
type cell struct {
	ch    rune
	color string
	bold  bool
	dim   bool
}

// raster draws a scene onto a grid of terminal cells. The scene's canvas is
// stretched over the grid.
type raster struct {
	cols, rows int
	cells      [][]cell
	view       viewport.Viewport
	canvas     viewport.Canvas
}

func newRaster(s render.Scene, cols, rows int) *raster {
	r := &raster{cols: max(cols, 1), rows: max(rows, 1), view: s.Viewport, canvas: s.Canvas}
	r.cells = make([][]cell, r.rows)
	for y := range r.cells {
		r.cells[y] = make([]cell, r.cols)
		for x := range r.cells[y] {
			r.cells[y][x] = cell{ch: ' '}
		}
	}
	return r
}

// drawScene rasterizes s in the scene's draw order.
func drawScene(s render.Scene, cols, rows int) *raster {
	r := newRaster(s, cols, rows)
	if s.Placeholder != "" || !s.Canvas.Valid() || s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		msg := s.Placeholder
		if msg == "" {
			msg = render.PlaceholderMsg
		}
		r.text((r.cols-len(msg))/2, r.rows/2, msg, "", false, true)
		return r
	}
	for _, e := range s.Edges {
		r.edge(e)
	}
	for _, n := range s.Nodes {
		r.node(n)
	}
	for _, o := range s.Overlays {
		x1, y1 := r.toCell(layout.Point{X: o.Box.Right(), Y: o.Box.Bottom()})
		r.set(int(x1)-2, int(y1)-1, '…', "", true, false)
	}
	for _, b := range s.Badges {
		x, y := r.toCell(b.Center)
		label := fmt.Sprintf("(%d)", b.Count)
		r.text(int(x)-len(label)/2, int(y), label, "#ff6f00", true, false)
	}
	if s.Minimap != nil {
		r.minimap(*s.Minimap)
	}
	return r
}

// toCell maps a world point to fractional cell coordinates.
func (r *raster) toCell(p layout.Point) (float64, float64) {
	sp := viewport.ToScreen(r.view, r.canvas, viewport.Point{X: p.X, Y: p.Y})
	return sp.X * float64(r.cols) / r.canvas.Width, sp.Y * float64(r.rows) / r.canvas.Height
}

func (r *raster) set(x, y int, ch rune, color string, bold, dim bool) {
	if x < 0 || y < 0 || x >= r.cols || y >= r.rows {
		return
	}
	r.cells[y][x] = cell{ch: ch, color: color, bold: bold, dim: dim}
}

func (r *raster) text(x, y int, s, color string, bold, dim bool) {
	for i, ch := range []rune(s) {
		r.set(x+i, y, ch, color, bold, dim)
	}
}

// line draws from (x0, y0) to (x1, y1) with Bresenham's algorithm.
func (r *raster) line(x0, y0, x1, y1 int, ch rune, color string, dim bool) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		r.set(x0, y0, ch, color, false, dim)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (r *raster) edge(e render.EdgeShape) {
	pts := flatten(e)
	if len(pts) < 2 {
		return
	}
	dim := e.Opacity < 1
	ch := '·'
	if e.Style.Dash != "" {
		ch = '┄'
	}
	cells := make([][2]int, len(pts))
	for i, p := range pts {
		x, y := r.toCell(p)
		cells[i] = [2]int{int(math.Floor(x)), int(math.Floor(y))}
	}
	for i := 1; i < len(cells); i++ {
		a, b := cells[i-1], cells[i]
		r.line(a[0], a[1], b[0], b[1], ch, e.Style.Stroke, dim)
	}
	last, prev := pts[len(pts)-1], pts[len(pts)-2]
	x, y := r.toCell(last)
	r.set(int(math.Floor(x)), int(math.Floor(y)), arrowHead(prev, last), e.Style.Stroke, true, dim)
}

// flatten turns an edge into a polyline, sampling Bezier segments.
func flatten(e render.EdgeShape) []layout.Point {
	if !e.Curved {
		return e.Points
	}
	out := []layout.Point{e.Points[0]}
	for i := 1; i+2 < len(e.Points); i += 3 {
		p0, c1, c2, p1 := e.Points[i-1], e.Points[i], e.Points[i+1], e.Points[i+2]
		for step := 1; step <= bezierSteps; step++ {
			t := float64(step) / bezierSteps
			u := 1 - t
			out = append(out, layout.Point{
				X: u*u*u*p0.X + 3*u*u*t*c1.X + 3*u*t*t*c2.X + t*t*t*p1.X,
				Y: u*u*u*p0.Y + 3*u*u*t*c1.Y + 3*u*t*t*c2.Y + t*t*t*p1.Y,
			})
		}
	}
	return out
}

func arrowHead(from, to layout.Point) rune {
	dx, dy := to.X-from.X, to.Y-from.Y
	if math.Abs(dy) >= math.Abs(dx) {
		if dy >= 0 {
			return '▼'
		}
		return '▲'
	}
	if dx >= 0 {
		return '▶'
	}
	return '◀'
}

func (r *raster) node(n render.NodeShape) {
	fx0, fy0 := r.toCell(layout.Point{X: n.Box.X, Y: n.Box.Y})
	fx1, fy1 := r.toCell(layout.Point{X: n.Box.Right(), Y: n.Box.Bottom()})
	x0, y0 := int(math.Round(fx0)), int(math.Round(fy0))
	x1, y1 := int(math.Round(fx1))-1, int(math.Round(fy1))-1
	color, bold, dim := n.Style.Stroke, n.Selected || n.Hovered, n.Opacity < 1

	if x1-x0 < 2 || y1-y0 < 1 {
		mark := '■'
		if n.Shape == style.ShapeEllipse {
			mark = '●'
		}
		r.set((x0+x1)/2, (y0+y1)/2, mark, color, bold, dim)
		return
	}

	r.rect(x0, y0, x1, y1, boxChars(n), color, bold, dim)

	inner := x1 - x0 - 1
	if inner <= 0 || y1-y0 < 2 {
		return
	}
	label := truncate(n.Label, inner)
	r.text(x0+1+(inner-len([]rune(label)))/2, (y0+y1)/2, label, n.Style.Text, bold, dim)
	if n.Expanded {
		r.set(x1-1, y0+1, '✓', color, false, dim)
	}
}

// boxChars returns the corners (top-left, top-right, bottom-left,
// bottom-right) then the horizontal and vertical strokes.
func boxChars(n render.NodeShape) [6]rune {
	switch {
	case n.Selected:
		return [6]rune{'╔', '╗', '╚', '╝', '═', '║'}
	case n.Shape == style.ShapeEllipse:
		return [6]rune{'╭', '╮', '╰', '╯', '─', '│'}
	}
	return [6]rune{'┌', '┐', '└', '┘', '─', '│'}
}

func (r *raster) minimap(m render.Minimap) {
	ax0, ay0 := r.toCell(layout.Point{X: m.Area.X, Y: m.Area.Y})
	ax1, ay1 := r.toCell(layout.Point{X: m.Area.Right(), Y: m.Area.Bottom()})
	x0, y0, x1, y1 := int(ax0), int(ay0), int(ax1)-1, int(ay1)-1
	if x1-x0 < 3 || y1-y0 < 2 || m.Content.Width <= 0 || m.Content.Height <= 0 {
		return
	}
	r.rect(x0, y0, x1, y1, [6]rune{'┌', '┐', '└', '┘', '─', '│'}, minimapColor, false, true)

	iw, ih := float64(x1-x0-1), float64(y1-y0-1)
	scale := math.Min(iw/m.Content.Width, ih/m.Content.Height)
	ox := float64(x0+1) + (iw-m.Content.Width*scale)/2
	oy := float64(y0+1) + (ih-m.Content.Height*scale)/2
	toMini := func(p layout.Point) (int, int) {
		return int(ox + (p.X-m.Content.X)*scale), int(oy + (p.Y-m.Content.Y)*scale)
	}
	inside := func(x, y int) bool { return x > x0 && x < x1 && y > y0 && y < y1 }

	for _, n := range m.Nodes {
		if x, y := toMini(n.Center()); inside(x, y) {
			r.set(x, y, '▪', minimapColor, false, false)
		}
	}
	vx0, vy0 := toMini(layout.Point{X: m.View.X, Y: m.View.Y})
	vx1, vy1 := toMini(layout.Point{X: m.View.Right(), Y: m.View.Bottom()})
	vx0, vy0 = max(vx0, x0+1), max(vy0, y0+1)
	vx1, vy1 = min(vx1, x1-1), min(vy1, y1-1)
	if vx0 <= vx1 && vy0 <= vy1 {
		for x := vx0; x <= vx1; x++ {
			r.set(x, vy0, '─', "#e53935", false, false)
			r.set(x, vy1, '─', "#e53935", false, false)
		}
		for y := vy0; y <= vy1; y++ {
			r.set(vx0, y, '│', "#e53935", false, false)
			r.set(vx1, y, '│', "#e53935", false, false)
		}
	}
}

// rect draws an outline and clears its interior.
func (r *raster) rect(x0, y0, x1, y1 int, box [6]rune, color string, bold, dim bool) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			ch := ' '
			switch {
			case y == y0 && x == x0:
				ch = box[0]
			case y == y0 && x == x1:
				ch = box[1]
			case y == y1 && x == x0:
				ch = box[2]
			case y == y1 && x == x1:
				ch = box[3]
			case y == y0 || y == y1:
				ch = box[4]
			case x == x0 || x == x1:
				ch = box[5]
			}
			r.set(x, y, ch, color, bold, dim)
		}
	}
}

// String returns the grid as plain text, one line per row.
func (r *raster) String() string {
	lines := make([]string, r.rows)
	for y, row := range r.cells {
		var b strings.Builder
		for _, c := range row {
			b.WriteRune(c.ch)
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// Render returns the grid with colors, one style per run of equal cells.
func (r *raster) Render() string {
	lines := make([]string, r.rows)
	for y, row := range r.cells {
		var b strings.Builder
		for start := 0; start < len(row); {
			end := start + 1
			for end < len(row) && sameStyle(row[start], row[end]) {
				end++
			}
			var run strings.Builder
			for _, c := range row[start:end] {
				run.WriteRune(c.ch)
			}
			b.WriteString(cellStyle(row[start]).Render(run.String()))
			start = end
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func sameStyle(a, b cell) bool {
	return a.color == b.color && a.bold == b.bold && a.dim == b.dim
}

func cellStyle(c cell) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c.color != "" {
		s = s.Foreground(lipgloss.Color(c.color))
	}
	return s.Bold(c.bold).Faint(c.dim)
}

func truncate(s string, width int) string {
	rs := []rune(s)
	if len(rs) <= width {
		return s
	}
	if width <= 1 {
		return string(rs[:width])
	}
	return string(rs[:width-1]) + "…"
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
