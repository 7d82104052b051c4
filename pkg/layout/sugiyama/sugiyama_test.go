package sugiyama

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/argmap/pkg/layout"
)

func solve(t *testing.T, nodes []layout.SizedNode, edges []layout.DirectedEdge) layout.Solution {
	t.Helper()
	sol, err := New(layout.DefaultSpacing()).Solve(context.Background(), nodes, edges)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	return sol
}

func box(id string, w, h float64) layout.SizedNode {
	return layout.SizedNode{ID: id, Width: w, Height: h}
}

func edge(id, from, to string) layout.DirectedEdge {
	return layout.DirectedEdge{ID: id, From: from, To: to}
}

func near(a, b layout.Point) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}

func TestSolveEmpty(t *testing.T) {
	sol := solve(t, nil, nil)
	if len(sol.Positions) != 0 || sol.Routes != nil {
		t.Errorf("Solve(nil) = %+v, want empty", sol)
	}
}

func TestSolvePremises(t *testing.T) {
	sol := solve(t,
		[]layout.SizedNode{box("RA:a1", 90, 50), box("I:p2", 180, 60), box("I:p1", 180, 60)},
		[]layout.DirectedEdge{edge("e1", "I:p1", "RA:a1"), edge("e2", "I:p2", "RA:a1")},
	)

	tests := []struct {
		id   string
		want layout.Point
	}{
		{"I:p1", layout.Point{X: 90, Y: 30}},
		{"I:p2", layout.Point{X: 310, Y: 30}},
		{"RA:a1", layout.Point{X: 200, Y: 165}},
	}
	for _, tt := range tests {
		if got := sol.Positions[tt.id]; !near(got, tt.want) {
			t.Errorf("%s = %+v, want %+v", tt.id, got, tt.want)
		}
	}
	if len(sol.Routes) != 0 {
		t.Errorf("routes = %v, want none for adjacent layers", sol.Routes)
	}
}

func TestSolveChainIsVertical(t *testing.T) {
	sol := solve(t,
		[]layout.SizedNode{box("a", 100, 40), box("b", 60, 40), box("c", 120, 40)},
		[]layout.DirectedEdge{edge("e1", "a", "b"), edge("e2", "b", "c")},
	)
	a, b, c := sol.Positions["a"], sol.Positions["b"], sol.Positions["c"]
	if !(a.Y < b.Y && b.Y < c.Y) {
		t.Errorf("y = %v, %v, %v, want increasing", a.Y, b.Y, c.Y)
	}
	if a.X != b.X || b.X != c.X {
		t.Errorf("x = %v, %v, %v, want aligned", a.X, b.X, c.X)
	}
	if a.X != 60 {
		t.Errorf("x = %v, want 60 (widest node flush left)", a.X)
	}
}

func TestSolveLongEdgeRoute(t *testing.T) {
	sol := solve(t,
		[]layout.SizedNode{box("a", 100, 40), box("b", 100, 40), box("c", 100, 40)},
		[]layout.DirectedEdge{edge("e1", "a", "b"), edge("e2", "b", "c"), edge("e3", "a", "c")},
	)
	if _, ok := sol.Positions["e3_sub_1"]; ok {
		t.Error("dummy nodes must not be returned")
	}
	if len(sol.Positions) != 3 {
		t.Errorf("positions = %d, want 3", len(sol.Positions))
	}

	route := sol.Routes["e3"]
	if len(route) != 7 {
		t.Fatalf("route points = %d, want 7", len(route))
	}
	a, c := sol.Positions["a"], sol.Positions["c"]
	if !near(route[0], layout.Point{X: a.X, Y: a.Y + 20}) {
		t.Errorf("route start = %+v, want bottom of a", route[0])
	}
	if !near(route[6], layout.Point{X: c.X, Y: c.Y - 20}) {
		t.Errorf("route end = %+v, want top of c", route[6])
	}
	if _, ok := sol.Routes["e1"]; ok {
		t.Error("short edges should not get a route")
	}
}

func TestSolveCycle(t *testing.T) {
	sol := solve(t,
		[]layout.SizedNode{box("a", 50, 20), box("b", 50, 20), box("c", 50, 20)},
		[]layout.DirectedEdge{edge("e1", "a", "b"), edge("e2", "b", "c"), edge("e3", "c", "a")},
	)
	a, b, c := sol.Positions["a"], sol.Positions["b"], sol.Positions["c"]
	if !(a.Y < b.Y && b.Y < c.Y) {
		t.Errorf("y = %v, %v, %v, want increasing", a.Y, b.Y, c.Y)
	}

	route := sol.Routes["e3"]
	if len(route) != 7 {
		t.Fatalf("route points = %d, want 7", len(route))
	}
	if !near(route[0], layout.Point{X: c.X, Y: c.Y - 10}) {
		t.Errorf("reversed route start = %+v, want top of c", route[0])
	}
	if !near(route[6], layout.Point{X: a.X, Y: a.Y + 10}) {
		t.Errorf("reversed route end = %+v, want bottom of a", route[6])
	}
}

func TestSolveIgnoresBadEdges(t *testing.T) {
	sol := solve(t,
		[]layout.SizedNode{box("a", 50, 20), box("b", 50, 20)},
		[]layout.DirectedEdge{edge("e1", "a", "a"), edge("e2", "a", "missing")},
	)
	a, b := sol.Positions["a"], sol.Positions["b"]
	if a.Y != b.Y {
		t.Errorf("unconnected nodes should share layer 0, got y %v and %v", a.Y, b.Y)
	}
	if math.Abs(b.X-a.X) < 50+layout.DefaultNodeSep {
		t.Errorf("nodes overlap: %v and %v", a.X, b.X)
	}
}

func TestSolveReducesCrossings(t *testing.T) {
	sol := solve(t,
		[]layout.SizedNode{box("a", 50, 20), box("b", 50, 20), box("x", 50, 20), box("y", 50, 20)},
		[]layout.DirectedEdge{edge("e1", "a", "y"), edge("e2", "b", "x")},
	)
	p := sol.Positions
	if (p["a"].X < p["b"].X) != (p["y"].X < p["x"].X) {
		t.Errorf("edges cross: a=%v b=%v x=%v y=%v", p["a"].X, p["b"].X, p["x"].X, p["y"].X)
	}
}

func TestSolveSeparation(t *testing.T) {
	nodes := []layout.SizedNode{box("r", 40, 40)}
	var edges []layout.DirectedEdge
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		nodes = append(nodes, box(id, 120, 40))
		edges = append(edges, edge("e"+id, id, "r"))
	}
	sol := solve(t, nodes, edges)

	xs := []float64{sol.Positions["p1"].X, sol.Positions["p2"].X, sol.Positions["p3"].X, sol.Positions["p4"].X}
	for i := 1; i < len(xs); i++ {
		if gap := math.Abs(xs[i] - xs[i-1]); gap < 120+layout.DefaultNodeSep-1e-6 {
			t.Errorf("gap between p%d and p%d = %v", i, i+1, gap)
		}
	}
	r := sol.Positions["r"].X
	if r <= xs[0] || r >= xs[3] {
		t.Errorf("conclusion x = %v, want between its premises %v", r, xs)
	}
}

func TestSolveDeterministic(t *testing.T) {
	nodes := []layout.SizedNode{box("a", 50, 20), box("b", 70, 20), box("c", 50, 30), box("d", 90, 20)}
	edges := []layout.DirectedEdge{edge("e1", "a", "c"), edge("e2", "b", "c"), edge("e3", "a", "d"), edge("e4", "d", "b")}
	first := solve(t, nodes, edges)

	nodes[0], nodes[3] = nodes[3], nodes[0]
	edges[0], edges[2] = edges[2], edges[0]
	if second := solve(t, nodes, edges); !reflect.DeepEqual(first, second) {
		t.Errorf("Solve depends on input order:\n%+v\n%+v", first, second)
	}
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(layout.Spacing{}).Solve(ctx, []layout.SizedNode{box("a", 1, 1)}, nil)
	if err != context.Canceled {
		t.Errorf("Solve() err = %v, want context.Canceled", err)
	}
}

func TestLayerCrossings(t *testing.T) {
	g := build(
		[]layout.SizedNode{box("a", 1, 1), box("b", 1, 1), box("x", 1, 1), box("y", 1, 1)},
		[]layout.DirectedEdge{edge("e1", "a", "y"), edge("e2", "b", "x"), edge("e3", "a", "x")},
	)
	breakCycles(g)
	assignLayers(g)
	subdivide(g)

	tests := []struct {
		name  string
		lower []int
		want  int
	}{
		{"x before y", []int{2, 3}, 1},
		{"y before x", []int{3, 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := make([]int, len(g.ids))
			pos[0], pos[1] = 0, 1
			for i, n := range tt.lower {
				pos[n] = i
			}
			if got := g.layerCrossings([]int{0, 1}, 2, pos); got != tt.want {
				t.Errorf("layerCrossings() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIDGen(t *testing.T) {
	gen := newIDGen([]string{"e1_sub_1"})
	if got := gen.next("e1", 1); got != "e1_sub_1__1" {
		t.Errorf("next() = %q, want e1_sub_1__1", got)
	}
	if got := gen.next("e1", 2); got != "e1_sub_2" {
		t.Errorf("next() = %q, want e1_sub_2", got)
	}
}

func TestShiftToOrigin(t *testing.T) {
	tests := []struct {
		name  string
		xs    []float64
		width []float64
		want  []float64
	}{
		{"moves right", []float64{-50, 100}, []float64{100, 20}, []float64{50, 200}},
		{"moves left", []float64{300, 500}, []float64{100, 20}, []float64{50, 250}},
		{"already at origin", []float64{50}, []float64{100}, []float64{50}},
		{"empty", nil, nil, nil},
		{"dummy left of nodes", []float64{100, 20, -30}, []float64{100, 20, 0}, []float64{90, 10, -40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &graph{width: tt.width, real: len(tt.width)}
			if tt.name == "dummy left of nodes" {
				g.real = 2
			}
			xs := append([]float64(nil), tt.xs...)
			g.shiftToOrigin(xs)
			if !reflect.DeepEqual(xs, tt.want) {
				t.Errorf("xs = %v, want %v", xs, tt.want)
			}
		})
	}
}

func TestSolveLeftEdgeAtOrigin(t *testing.T) {
	nodes := []layout.SizedNode{
		{ID: "a", Width: 300, Height: 40}, {ID: "b", Width: 20, Height: 40},
		{ID: "c", Width: 20, Height: 40}, {ID: "d", Width: 120, Height: 40},
	}
	edges := []layout.DirectedEdge{
		{ID: "e1", From: "a", To: "c"}, {ID: "e2", From: "b", To: "c"},
		{ID: "e3", From: "c", To: "d"}, {ID: "e4", From: "a", To: "d"},
	}
	sol := solve(t, nodes, edges)
	left := math.Inf(1)
	for _, n := range nodes {
		left = min(left, sol.Positions[n.ID].X-n.Width/2)
	}
	if math.Abs(left) > 1e-9 {
		t.Errorf("left edge = %v, want 0", left)
	}
}

func TestDescribe(t *testing.T) {
	a := New(layout.DefaultSpacing()).Describe()
	if a != "sugiyama nodesep=40 ranksep=80 sweeps=8" {
		t.Errorf("Describe() = %q", a)
	}
	if b := New(layout.Spacing{NodeSep: 10, RankSep: 80}).Describe(); b == a {
		t.Error("spacing should change the description")
	}
}
