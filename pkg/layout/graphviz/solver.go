package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/argmap/pkg/layout"
)

// Solver computes layered layouts with the Graphviz dot engine.
//
// Each call starts a fresh Graphviz instance, so a Solver is safe for
// concurrent use.
type Solver struct {
	Spacing layout.Spacing
}

// New returns a solver using the given spacing.
func New(spacing layout.Spacing) *Solver {
	return &Solver{Spacing: spacing}
}

// Describe identifies the solver and its spacing for layout cache keys.
func (s *Solver) Describe() string {
	return fmt.Sprintf("graphviz nodesep=%g ranksep=%g", s.Spacing.NodeSep, s.Spacing.RankSep)
}

// Solve lays out nodes and edges and returns node centers and spline control
// points in a y-down coordinate system.
func (s *Solver) Solve(ctx context.Context, nodes []layout.SizedNode, edges []layout.DirectedEdge) (layout.Solution, error) {
	if len(nodes) == 0 {
		return layout.Solution{Positions: map[string]layout.Point{}}, nil
	}

	nodes, edges, names := alias(nodes, edges)
	out, err := Render(ctx, ToDOT(nodes, edges, s.Spacing))
	if err != nil {
		return layout.Solution{}, err
	}
	sol, err := ParseLayout(out)
	if err != nil {
		return layout.Solution{}, fmt.Errorf("parse layout: %w", err)
	}
	return names.restore(sol), nil
}

// layoutFormat is the dot engine's own output: the input graph annotated
// with layout attributes.
const layoutFormat graphviz.Format = "dot"

// Render runs the dot engine and returns its output in DOT format, annotated
// with pos, bb, width and height attributes.
func Render(ctx context.Context, dot string) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return "", fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, layoutFormat, &buf); err != nil {
		return "", fmt.Errorf("layout: %w", err)
	}
	return buf.String(), nil
}

// ParseLayout reads positions from the output of [Render]. Graphviz uses a
// y-up coordinate system; y values are flipped against the bounding box.
func ParseLayout(out string) (layout.Solution, error) {
	// Graphviz wraps long attribute values with backslash-newline.
	out = strings.ReplaceAll(out, "\\\n", "")
	out = strings.ReplaceAll(out, "\\\r\n", "")

	ast, err := gographviz.ParseString(out)
	if err != nil {
		return layout.Solution{}, err
	}
	g := gographviz.NewGraph()
	if err := gographviz.Analyse(ast, g); err != nil {
		return layout.Solution{}, err
	}

	top := 0.0
	if bb, ok := g.Attrs["bb"]; ok {
		vals, err := parseFloats(unquote(bb))
		if err != nil || len(vals) != 4 {
			return layout.Solution{}, fmt.Errorf("invalid bb %q", bb)
		}
		top = vals[3]
	}
	flip := func(p layout.Point) layout.Point { return layout.Point{X: p.X, Y: top - p.Y} }

	sol := layout.Solution{
		Positions: make(map[string]layout.Point, len(g.Nodes.Nodes)),
		Routes:    make(map[string][]layout.Point, len(g.Edges.Edges)),
	}
	for _, n := range g.Nodes.Nodes {
		pos, ok := n.Attrs["pos"]
		if !ok {
			return layout.Solution{}, fmt.Errorf("node %s has no position", n.Name)
		}
		p, err := parsePoint(unquote(pos))
		if err != nil {
			return layout.Solution{}, fmt.Errorf("node %s: %w", n.Name, err)
		}
		sol.Positions[unquote(n.Name)] = flip(p)
	}

	for _, e := range g.Edges.Edges {
		id, ok := e.Attrs["id"]
		if !ok {
			continue
		}
		pos, ok := e.Attrs["pos"]
		if !ok {
			continue
		}
		pts, err := parseSpline(unquote(pos))
		if err != nil {
			return layout.Solution{}, fmt.Errorf("edge %s: %w", unquote(id), err)
		}
		for i := range pts {
			pts[i] = flip(pts[i])
		}
		sol.Routes[unquote(id)] = pts
	}
	return sol, nil
}

// parseSpline reads an edge pos attribute: optional "s,x,y" and "e,x,y"
// endpoints followed by 3n+1 Bezier control points. Only the control points
// are returned.
func parseSpline(s string) ([]layout.Point, error) {
	var pts []layout.Point
	for _, f := range strings.Fields(s) {
		if strings.HasPrefix(f, "s,") || strings.HasPrefix(f, "e,") {
			continue
		}
		p, err := parsePoint(f)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	if len(pts) < 2 {
		return nil, fmt.Errorf("spline %q has fewer than two points", s)
	}
	return pts, nil
}

func parsePoint(s string) (layout.Point, error) {
	vals, err := parseFloats(s)
	if err != nil {
		return layout.Point{}, err
	}
	if len(vals) < 2 {
		return layout.Point{}, fmt.Errorf("invalid point %q", s)
	}
	return layout.Point{X: vals[0], Y: vals[1]}, nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(strings.TrimSuffix(s, "!"), ",")
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		vals[i] = v
	}
	return vals, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
		return s[1 : len(s)-1]
	}
	return s
}

var _ layout.Solver = (*Solver)(nil)
