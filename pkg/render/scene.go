package render

import (
	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/expand"
	"github.com/matzehuels/argmap/pkg/layout"
	"github.com/matzehuels/argmap/pkg/style"
	"github.com/matzehuels/argmap/pkg/viewport"
)

// Visual constants in world units unless noted.
const (
	GridSpacing    = 40.0
	DimmedOpacity  = 0.25
	BadgeRadius    = 11.0
	MinimapFrac    = 0.22 // minimap width as a fraction of the viewport
	MinimapMargin  = 0.02 // gap to the viewport edge, same unit
	PlaceholderMsg = "No layout available"
)

// Frame is everything a picture depends on. Render never mutates it.
type Frame struct {
	Graph     *argument.Graph
	Layout    *layout.Result // nil draws the placeholder
	Viewport  viewport.Viewport
	Canvas    viewport.Canvas
	Expansion expand.State
	Summaries map[string]expand.Summary
	Hover     string
	Selected  string
	Minimap   bool
}

// Scene is the list of primitives for one frame, in draw order.
type Scene struct {
	Viewport    viewport.Viewport
	Canvas      viewport.Canvas
	Placeholder string

	Grid     *Grid
	Edges    []EdgeShape
	Nodes    []NodeShape
	Overlays []Overlay
	Badges   []Badge
	Minimap  *Minimap
}

// Grid is the background grid covering Area.
type Grid struct {
	Area    layout.Rect
	Spacing float64
}

// EdgeShape is one drawn edge. Curved means Points holds cubic Bezier
// control points (start, then three points per segment); otherwise Points
// is a polyline.
type EdgeShape struct {
	ID      string
	Source  string
	Target  string
	Role    argument.Role
	Points  []layout.Point
	Curved  bool
	Style   style.EdgeStyle
	Opacity float64
}

// NodeShape is one drawn node.
type NodeShape struct {
	ID       string
	Kind     argument.Kind
	Label    string
	Box      layout.Rect
	Shape    style.Shape
	Style    style.NodeStyle
	Opacity  float64
	Hovered  bool
	Selected bool
	Expanded bool
}

// Overlay marks a node whose expansion is in flight.
type Overlay struct {
	NodeID string
	Box    layout.Rect
}

// Badge shows the connection count of an expandable node.
type Badge struct {
	NodeID string
	Center layout.Point
	Radius float64
	Count  int
}

// Minimap redraws every node at full-graph scale inside Area, with View
// outlining the current viewport. Nodes and View are in content
// coordinates; Content is mapped onto Area.
type Minimap struct {
	Area    layout.Rect
	Content layout.Rect
	Nodes   []layout.Rect
	View    layout.Rect
}

// Render turns f into a scene. It is a pure function: identical frames give
// identical scenes.
//
// Edges with an endpoint missing from the graph or the layout are skipped.
// Without a layout only the placeholder is drawn.
func Render(f Frame) Scene {
	s := Scene{Viewport: f.Viewport, Canvas: f.Canvas}
	if f.Layout == nil || f.Graph == nil {
		s.Placeholder = PlaceholderMsg
		return s
	}

	s.Grid = &Grid{Area: f.Viewport.Rect(), Spacing: GridSpacing}

	hovering := false
	if f.Hover != "" {
		_, hovering = f.Layout.Node(f.Hover)
	}

	for _, e := range f.Layout.Edges {
		if shape, ok := edgeShape(f, e, hovering); ok {
			s.Edges = append(s.Edges, shape)
		}
	}

	for _, ln := range f.Layout.Nodes {
		n, ok := f.Graph.Node(ln.ID)
		if !ok {
			continue
		}
		shape := NodeShape{
			ID:       n.ID,
			Kind:     n.Kind,
			Label:    nodeLabel(n),
			Box:      ln.Rect(),
			Shape:    style.ShapeOf(n.Kind),
			Style:    style.ForKind(n.Kind),
			Opacity:  1,
			Hovered:  n.ID == f.Hover,
			Selected: n.ID == f.Selected,
			Expanded: f.Expansion.IsExpanded(n.ID),
		}
		if hovering && !shape.Hovered {
			shape.Opacity = DimmedOpacity
		}
		s.Nodes = append(s.Nodes, shape)

		if n.ID == f.Expansion.Pending {
			s.Overlays = append(s.Overlays, Overlay{NodeID: n.ID, Box: ln.Rect()})
		}
		if b, ok := badgeFor(f, n, ln); ok {
			s.Badges = append(s.Badges, b)
		}
	}

	if f.Minimap {
		s.Minimap = minimap(f.Layout, f.Viewport)
	}
	return s
}

func edgeShape(f Frame, e layout.Edge, hovering bool) (EdgeShape, bool) {
	if !f.Graph.HasNode(e.Source) || !f.Graph.HasNode(e.Target) {
		return EdgeShape{}, false
	}
	src, ok := f.Layout.Node(e.Source)
	if !ok {
		return EdgeShape{}, false
	}
	dst, ok := f.Layout.Node(e.Target)
	if !ok {
		return EdgeShape{}, false
	}

	shape := EdgeShape{
		ID:      e.ID,
		Source:  e.Source,
		Target:  e.Target,
		Role:    e.Role,
		Style:   style.ForRole(e.Role),
		Opacity: 1,
	}
	if e.Routed() {
		shape.Points = e.Points
		shape.Curved = len(e.Points) >= 4 && len(e.Points)%3 == 1
	} else {
		shape.Points = straight(src, dst)
	}
	if hovering && e.Source != f.Hover && e.Target != f.Hover {
		shape.Opacity = DimmedOpacity
	}
	return shape, true
}

// straight connects the facing sides of two boxes: bottom-center to
// top-center when the target is lower, the reverse when it is higher.
func straight(src, dst layout.Node) []layout.Point {
	sc, dc := src.Center(), dst.Center()
	if dc.Y >= sc.Y {
		return []layout.Point{{X: sc.X, Y: src.Y + src.Height}, {X: dc.X, Y: dst.Y}}
	}
	return []layout.Point{{X: sc.X, Y: src.Y}, {X: dc.X, Y: dst.Y + dst.Height}}
}

func nodeLabel(n argument.Node) string {
	if n.Kind != argument.KindStatement && !n.Kind.IsTree() {
		switch {
		case n.Label != "":
			return n.Label
		case n.SchemeKey != "":
			return n.SchemeKey
		}
		return n.Kind.String()
	}
	return n.DisplayLabel()
}

func badgeFor(f Frame, n argument.Node, ln layout.Node) (Badge, bool) {
	if n.Kind != argument.KindRuleApplication || f.Expansion.IsExpanded(n.ID) {
		return Badge{}, false
	}
	sum, ok := f.Summaries[n.ID]
	if !ok || sum.TotalConnections <= 0 {
		return Badge{}, false
	}
	return Badge{
		NodeID: n.ID,
		Center: layout.Point{X: ln.X + ln.Width, Y: ln.Y},
		Radius: BadgeRadius,
		Count:  sum.TotalConnections,
	}, true
}

func minimap(r *layout.Result, v viewport.Viewport) *Minimap {
	if len(r.Nodes) == 0 || v.Width <= 0 || v.Height <= 0 {
		return nil
	}
	content := r.Bounds()
	pad := max(content.Width, content.Height) * 0.05
	content = layout.Rect{
		X:      content.X - pad,
		Y:      content.Y - pad,
		Width:  content.Width + 2*pad,
		Height: content.Height + 2*pad,
	}

	w := v.Width * MinimapFrac
	h := w * content.Height / content.Width
	if maxH := v.Height * MinimapFrac; h > maxH {
		h = maxH
		w = h * content.Width / content.Height
	}
	margin := v.Width * MinimapMargin

	m := &Minimap{
		Area:    layout.Rect{X: v.X + v.Width - w - margin, Y: v.Y + v.Height - h - margin, Width: w, Height: h},
		Content: content,
		View:    v.Rect(),
		Nodes:   make([]layout.Rect, len(r.Nodes)),
	}
	for i, n := range r.Nodes {
		m.Nodes[i] = n.Rect()
	}
	return m
}
