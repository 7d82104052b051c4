package graphviz

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/argmap/pkg/layout"
)

func sampleInput() ([]layout.SizedNode, []layout.DirectedEdge) {
	nodes := []layout.SizedNode{
		{ID: "RA:a1", Width: 90, Height: 50},
		{ID: "I:p1", Width: 180, Height: 60},
		{ID: "I:p2", Width: 180, Height: 60},
	}
	edges := []layout.DirectedEdge{
		{ID: "e2", From: "I:p2", To: "RA:a1"},
		{ID: "e1", From: "I:p1", To: "RA:a1"},
	}
	return nodes, edges
}

func TestToDOT(t *testing.T) {
	nodes, edges := sampleInput()
	dot := ToDOT(nodes, edges, layout.DefaultSpacing())

	for _, want := range []string{
		"digraph G {",
		"rankdir=TB;",
		"fixedsize=true",
		`"I:p1" [width=2.5000, height=0.8333];`,
		`"RA:a1" [width=1.2500, height=0.6944];`,
		`"I:p1" -> "RA:a1" [id="e1"];`,
		"nodesep=0.5556;",
		"ranksep=1.1111;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}

	if strings.Index(dot, `"I:p1" [`) > strings.Index(dot, `"I:p2" [`) {
		t.Error("nodes should be sorted by id")
	}
	if strings.Index(dot, `[id="e1"]`) > strings.Index(dot, `[id="e2"]`) {
		t.Error("edges should be sorted by id")
	}

	shuffledNodes, shuffledEdges := sampleInput()
	shuffledNodes[0], shuffledNodes[2] = shuffledNodes[2], shuffledNodes[0]
	shuffledEdges[0], shuffledEdges[1] = shuffledEdges[1], shuffledEdges[0]
	if ToDOT(shuffledNodes, shuffledEdges, layout.DefaultSpacing()) != dot {
		t.Error("ToDOT should not depend on input order")
	}
}

const sampleOutput = `digraph G {
	graph [bb="0,0,400,194",
		nodesep=0.5556,
		rankdir=TB,
		ranksep=1.1111,
		splines=spline
	];
	node [fixedsize=true,
		label="",
		shape=box
	];
	"I:p1"	[height=0.8333,
		pos="90,164",
		width=2.5];
	"RA:a1"	[height=0.6944,
		pos="200,25",
		width=1.25];
	"I:p1" -> "RA:a1"	[id=e1,
		pos="e,185.2,50.2 110.5,133.8 125.1,\
111.6 160.3,80.5 180.1,60.3"];
}
`

func TestParseLayout(t *testing.T) {
	sol, err := ParseLayout(sampleOutput)
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}

	tests := []struct {
		id   string
		want layout.Point
	}{
		{"I:p1", layout.Point{X: 90, Y: 30}},
		{"RA:a1", layout.Point{X: 200, Y: 169}},
	}
	for _, tt := range tests {
		got, ok := sol.Positions[tt.id]
		if !ok {
			t.Fatalf("missing position for %s", tt.id)
		}
		if !near(got, tt.want) {
			t.Errorf("%s = %+v, want %+v", tt.id, got, tt.want)
		}
	}

	route := sol.Routes["e1"]
	if len(route) != 4 {
		t.Fatalf("route points = %d, want 4", len(route))
	}
	if !near(route[0], layout.Point{X: 110.5, Y: 60.2}) {
		t.Errorf("route[0] = %+v", route[0])
	}
	if !near(route[1], layout.Point{X: 125.1, Y: 82.4}) {
		t.Errorf("route[1] = %+v (line continuation not joined?)", route[1])
	}
}

func TestParseLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{"NotDOT", "this is not dot"},
		{"MissingPos", `digraph G { graph [bb="0,0,10,10"]; a [width=1]; }`},
		{"BadBB", `digraph G { graph [bb="0,0"]; a [pos="1,1"]; }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseLayout(tt.out); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSolve(t *testing.T) {
	nodes, edges := sampleInput()
	s := New(layout.DefaultSpacing())

	sol, err := s.Solve(context.Background(), nodes, edges)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(sol.Positions) != len(nodes) {
		t.Fatalf("positions = %d, want %d", len(sol.Positions), len(nodes))
	}

	p1, ra := sol.Positions["I:p1"], sol.Positions["RA:a1"]
	if ra.Y <= p1.Y {
		t.Errorf("premise (y=%v) should be above the rule application (y=%v)", p1.Y, ra.Y)
	}
	if len(sol.Routes) != len(edges) {
		t.Errorf("routes = %d, want %d", len(sol.Routes), len(edges))
	}

	again, err := s.Solve(context.Background(), nodes, edges)
	if err != nil {
		t.Fatalf("second Solve: %v", err)
	}
	for id, p := range sol.Positions {
		if !near(again.Positions[id], p) {
			t.Errorf("%s not deterministic: %+v vs %+v", id, p, again.Positions[id])
		}
	}
}

func TestSolveEmpty(t *testing.T) {
	sol, err := New(layout.Spacing{}).Solve(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(sol.Positions) != 0 {
		t.Errorf("positions = %d, want 0", len(sol.Positions))
	}
}

func near(a, b layout.Point) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}

func TestDotQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"I:p1", `"I:p1"`},
		{`say "hi"`, `"say \"hi\""`},
		{"tab\there", "\"tab\there\""},
		{"ünïcode", `"ünïcode"`},
	}
	for _, tt := range tests {
		if got := dotQuote(tt.in); got != tt.want {
			t.Errorf("dotQuote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestAliasRoundTrip(t *testing.T) {
	nodes := []layout.SizedNode{
		{ID: "tab\tid", Width: 10, Height: 10},
		{ID: `quote"id`, Width: 10, Height: 10},
		{ID: `trailing\`, Width: 10, Height: 10},
	}
	edges := []layout.DirectedEdge{
		{ID: "e\x01", From: "tab\tid", To: `quote"id`},
		{ID: "dangling", From: "tab\tid", To: "missing"},
	}
	an, ae, names := alias(nodes, edges)
	if len(an) != 3 || len(ae) != 1 {
		t.Fatalf("aliased %d nodes, %d edges", len(an), len(ae))
	}
	for _, n := range an {
		if strings.ContainsAny(n.ID, "\"\\\t") {
			t.Errorf("alias %q is not a plain DOT name", n.ID)
		}
	}

	sol := layout.Solution{
		Positions: map[string]layout.Point{an[0].ID: {X: 1}, an[1].ID: {X: 2}, an[2].ID: {X: 3}},
		Routes:    map[string][]layout.Point{ae[0].ID: {{X: 1}, {X: 2}}},
	}
	got := names.restore(sol)
	for _, n := range nodes {
		if _, ok := got.Positions[n.ID]; !ok {
			t.Errorf("position for %q lost", n.ID)
		}
	}
	if _, ok := got.Routes["e\x01"]; !ok {
		t.Error("route lost its edge id")
	}
}

func TestSolveUnusualIDs(t *testing.T) {
	nodes := []layout.SizedNode{
		{ID: "I:\tp1", Width: 100, Height: 40},
		{ID: `RA:"x"\`, Width: 100, Height: 40},
	}
	edges := []layout.DirectedEdge{{ID: "e\u00001", From: "I:\tp1", To: `RA:"x"\`}}

	sol, err := New(layout.DefaultSpacing()).Solve(context.Background(), nodes, edges)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for _, n := range nodes {
		if _, ok := sol.Positions[n.ID]; !ok {
			t.Errorf("no position for %q", n.ID)
		}
	}
	if _, ok := sol.Routes[edges[0].ID]; !ok {
		t.Errorf("no route for %q", edges[0].ID)
	}
}
