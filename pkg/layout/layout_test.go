package layout

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/cache"
	apperrors "github.com/matzehuels/argmap/pkg/errors"
	"github.com/matzehuels/argmap/pkg/style"
)

// gridSolver places node i of rank r at (200*i, 150*r), where rank is the
// longest path from a source. It routes every edge as a two-point line.
type gridSolver struct {
	calls    int
	gotNodes []SizedNode
	gotEdges []DirectedEdge
}

func (s *gridSolver) Solve(_ context.Context, nodes []SizedNode, edges []DirectedEdge) (Solution, error) {
	s.calls++
	s.gotNodes, s.gotEdges = nodes, edges

	rank := make(map[string]int, len(nodes))
	for range nodes {
		for _, e := range edges {
			if r := rank[e.From] + 1; r > rank[e.To] {
				rank[e.To] = r
			}
		}
	}
	col := make(map[int]int)
	sol := Solution{Positions: map[string]Point{}, Routes: map[string][]Point{}}
	for _, n := range nodes {
		r := rank[n.ID]
		sol.Positions[n.ID] = Point{X: float64(200 * col[r]), Y: float64(150 * r)}
		col[r]++
	}
	for _, e := range edges {
		sol.Routes[e.ID] = []Point{sol.Positions[e.From], sol.Positions[e.To]}
	}
	return sol, nil
}

func danglingGraph(t *testing.T) *argument.Graph {
	t.Helper()
	g, err := argument.FromElements(
		[]argument.Node{
			{ID: "p1", Kind: argument.KindStatement},
			{ID: "p2", Kind: argument.KindStatement},
			{ID: "ra1", Kind: argument.KindRuleApplication},
		},
		[]argument.Edge{
			{ID: "e1", From: "p1", To: "ra1", Role: argument.RolePremise},
			{ID: "e2", From: "p2", To: "ra1", Role: argument.RolePremise},
			{ID: "e3", From: "ra1", To: "c1", Role: argument.RoleConclusion},
		},
	)
	if err != nil {
		t.Fatalf("FromElements: %v", err)
	}
	return g
}

func TestLayeredOneNodePerNode(t *testing.T) {
	solver := &gridSolver{}
	r, err := Layered{Solver: solver}.Compute(context.Background(), danglingGraph(t))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if len(r.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(r.Nodes))
	}
	if len(solver.gotEdges) != 2 {
		t.Errorf("solver saw %d edges, want 2 (dangling dropped)", len(solver.gotEdges))
	}
	if len(r.Edges) != 2 {
		t.Errorf("result edges = %d, want 2", len(r.Edges))
	}

	ra, ok := r.Node("ra1")
	if !ok {
		t.Fatal("ra1 missing")
	}
	want := style.Dimensions(argument.KindRuleApplication)
	if ra.Width != want.Width || ra.Height != want.Height {
		t.Errorf("ra1 size = %vx%v, want %vx%v", ra.Width, ra.Height, want.Width, want.Height)
	}
	// Solver returns centers; the result stores the top-left corner.
	if c := ra.Center(); c.X != 0 || c.Y != 150 {
		t.Errorf("ra1 center = %+v, want (0, 150)", c)
	}
	for _, e := range r.Edges {
		if !e.Routed() {
			t.Errorf("edge %s should keep its route", e.ID)
		}
	}
}

func TestLayeredErrors(t *testing.T) {
	g := danglingGraph(t)

	if _, err := (Layered{}).Compute(context.Background(), g); !errors.Is(err, ErrNoSolver) {
		t.Errorf("no solver err = %v, want ErrNoSolver", err)
	}

	missing := SolverFunc(func(context.Context, []SizedNode, []DirectedEdge) (Solution, error) {
		return Solution{Positions: map[string]Point{"p1": {}}}, nil
	})
	if _, err := (Layered{Solver: missing}).Compute(context.Background(), g); err == nil {
		t.Error("expected error when solver omits nodes")
	}
}

func TestLayeredEmptyGraph(t *testing.T) {
	solver := &gridSolver{}
	r, err := Layered{Solver: solver}.Compute(context.Background(), argument.NewGraph())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(r.Nodes) != 0 || solver.calls != 0 {
		t.Errorf("empty graph: %d nodes, %d solver calls", len(r.Nodes), solver.calls)
	}
}

func TestStrata(t *testing.T) {
	tests := []struct {
		name string
		tree argument.Tree
		want [][]string
	}{
		{
			name: "SingleInference",
			tree: argument.Tree{
				Statements: stmts("c", "p1", "p2", "p3"),
				Inferences: []argument.Inference{{ID: "i", ConclusionID: "c", PremiseIDs: []string{"p1", "p2", "p3"}}},
			},
			want: [][]string{{"p1", "p2", "p3"}, {"c"}},
		},
		{
			name: "Chain",
			tree: argument.Tree{
				Statements: stmts("A", "B", "C"),
				Inferences: []argument.Inference{
					{ID: "i2", ConclusionID: "C", PremiseIDs: []string{"B"}},
					{ID: "i1", ConclusionID: "B", PremiseIDs: []string{"A"}},
				},
			},
			want: [][]string{{"A"}, {"B"}, {"C"}},
		},
		{
			name: "ConvergentSharedPremise",
			tree: argument.Tree{
				Statements: stmts("a", "b", "x", "y", "z"),
				Inferences: []argument.Inference{
					{ID: "i1", ConclusionID: "x", PremiseIDs: []string{"a", "b"}},
					{ID: "i2", ConclusionID: "y", PremiseIDs: []string{"b"}},
					{ID: "i3", ConclusionID: "z", PremiseIDs: []string{"x", "y"}},
				},
			},
			want: [][]string{{"a", "b"}, {"x", "y"}, {"z"}},
		},
		{
			name: "WaitsForEveryInference",
			tree: argument.Tree{
				Statements: stmts("a", "b", "c"),
				Inferences: []argument.Inference{
					{ID: "i1", ConclusionID: "c", PremiseIDs: []string{"a"}},
					{ID: "i2", ConclusionID: "c", PremiseIDs: []string{"b"}},
					{ID: "i3", ConclusionID: "b", PremiseIDs: []string{"a"}},
				},
			},
			want: [][]string{{"a"}, {"b"}, {"c"}},
		},
		{
			name: "IsolatedAndUnknownPremises",
			tree: argument.Tree{
				Statements: stmts("c", "p", "lonely"),
				Inferences: []argument.Inference{{ID: "i", ConclusionID: "c", PremiseIDs: []string{"p", "ghost"}}},
			},
			want: [][]string{{"lonely", "p"}, {"c"}},
		},
		{
			name: "CycleFallsBack",
			tree: argument.Tree{
				Statements: stmts("a", "b", "root"),
				Inferences: []argument.Inference{
					{ID: "i1", ConclusionID: "a", PremiseIDs: []string{"b"}},
					{ID: "i2", ConclusionID: "b", PremiseIDs: []string{"a"}},
				},
			},
			want: [][]string{{"root"}, {"a", "b"}},
		},
		{
			name: "Empty",
			tree: argument.Tree{},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Strata(tt.tree)
			if !equalLayers(got, tt.want) {
				t.Errorf("Strata = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrataIdempotentAndOrderIndependent(t *testing.T) {
	tree := argument.Tree{
		Statements: stmts("a", "b", "c", "d", "e"),
		Inferences: []argument.Inference{
			{ID: "i1", ConclusionID: "c", PremiseIDs: []string{"a", "b"}},
			{ID: "i2", ConclusionID: "d", PremiseIDs: []string{"c"}},
			{ID: "i3", ConclusionID: "e", PremiseIDs: []string{"c", "b"}},
		},
	}
	first := Strata(tree)
	if again := Strata(tree); !equalLayers(first, again) {
		t.Errorf("not idempotent: %v vs %v", first, again)
	}

	shuffled := tree.Clone()
	slices.Reverse(shuffled.Statements)
	slices.Reverse(shuffled.Inferences)
	slices.Reverse(shuffled.Inferences[0].PremiseIDs)
	if got := Strata(shuffled); !equalLayers(first, got) {
		t.Errorf("order dependent: %v vs %v", first, got)
	}
}

func TestTopologicalPlacesConclusionAbove(t *testing.T) {
	tree := argument.Tree{
		Statements: []argument.Statement{
			{ID: "c", Kind: argument.KindClaim},
			{ID: "p1", Kind: argument.KindPremise},
			{ID: "p2", Kind: argument.KindPremise},
		},
		Inferences: []argument.Inference{{ID: "i", ConclusionID: "c", PremiseIDs: []string{"p1", "p2"}}},
	}
	r, err := Topological{}.Compute(tree)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(r.Nodes) != 3 || len(r.Edges) != 2 || len(r.Layers) != 2 {
		t.Fatalf("got %d nodes, %d edges, %d layers", len(r.Nodes), len(r.Edges), len(r.Layers))
	}

	c, _ := r.Node("c")
	p1, _ := r.Node("p1")
	p2, _ := r.Node("p2")
	if c.Y >= p1.Y {
		t.Errorf("conclusion y=%v should be above premise y=%v", c.Y, p1.Y)
	}
	if p1.Y != p2.Y {
		t.Error("premises should share a row")
	}
	if gap := p2.X - p1.Right(); gap != DefaultNodeSep {
		t.Errorf("node gap = %v, want %v", gap, DefaultNodeSep)
	}
	if gap := p1.Y - c.Bottom(); gap != DefaultRankSep {
		t.Errorf("rank gap = %v, want %v", gap, DefaultRankSep)
	}
	if cx := c.Center().X; cx != 0 {
		t.Errorf("single-node row should be centered on 0, got %v", cx)
	}
}

func TestEngineSelectsStrategy(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(&gridSolver{}, DefaultSpacing(), nil, nil)

	g := danglingGraph(t)
	r, err := e.Compute(ctx, Input{Type: argument.TypeAIF, Graph: g})
	if err != nil {
		t.Fatalf("aif: %v", err)
	}
	if r.Strategy != StrategyLayered {
		t.Errorf("strategy = %s, want layered", r.Strategy)
	}

	tree := &argument.Tree{Statements: stmts("c", "p"), Inferences: []argument.Inference{{ID: "i", ConclusionID: "c", PremiseIDs: []string{"p"}}}}
	r, err = e.Compute(ctx, Input{Type: argument.TypeTree, Tree: tree})
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if r.Strategy != StrategyTopological {
		t.Errorf("strategy = %s, want topological", r.Strategy)
	}
}

func TestEngineWrapsFailures(t *testing.T) {
	failing := SolverFunc(func(context.Context, []SizedNode, []DirectedEdge) (Solution, error) {
		return Solution{}, errors.New("solver crashed")
	})
	e := NewEngine(failing, DefaultSpacing(), nil, nil)

	_, err := e.Compute(context.Background(), Input{Type: argument.TypeAIF, Graph: danglingGraph(t)})
	if !apperrors.Is(err, apperrors.ErrCodeLayout) {
		t.Errorf("err = %v, want LAYOUT_FAILED", err)
	}

	_, err = e.Compute(context.Background(), Input{Type: "mystery"})
	if !apperrors.Is(err, apperrors.ErrCodeLayout) {
		t.Errorf("unknown type err = %v, want LAYOUT_FAILED", err)
	}
}

// columnSolver stacks every node at x and counts its calls.
func columnSolver(x float64, calls *int) SolverFunc {
	return func(_ context.Context, nodes []SizedNode, _ []DirectedEdge) (Solution, error) {
		*calls++
		pos := make(map[string]Point, len(nodes))
		for i, n := range nodes {
			pos[n.ID] = Point{X: x, Y: float64(i) * 200}
		}
		return Solution{Positions: pos}, nil
	}
}

func TestEngineCacheKeyedBySolver(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	in := Input{Type: argument.TypeAIF, Graph: danglingGraph(t)}

	var callsA, callsB int
	tests := []struct {
		name   string
		solver Solver
		calls  *int
		wantX  float64
	}{
		{"first solver", Named("right", columnSolver(1000, &callsA)), &callsA, 1000},
		{"second solver", Named("left", columnSolver(0, &callsB)), &callsB, 0},
		{"first solver again", Named("right", columnSolver(1000, &callsA)), &callsA, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := *tt.calls
			r, err := NewEngine(tt.solver, DefaultSpacing(), fc, nil).Compute(ctx, in)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			n, _ := r.Node("p1")
			if got := n.Center().X; got != tt.wantX {
				t.Errorf("p1 center x = %v, want %v", got, tt.wantX)
			}
			if tt.name == "first solver again" && *tt.calls != before {
				t.Error("repeat layout with the same solver should come from the cache")
			}
		})
	}
	if callsA != 1 || callsB != 1 {
		t.Errorf("solver calls = %d, %d, want 1 each", callsA, callsB)
	}
}

func TestDescribeSolver(t *testing.T) {
	var calls int
	f1, f2 := columnSolver(0, &calls), columnSolver(0, &calls)
	if describeSolver(f1) == describeSolver(f2) {
		t.Error("distinct solver funcs should not share an identity")
	}
	if describeSolver(f1) != describeSolver(f1) {
		t.Error("identity should be stable")
	}
	if got := describeSolver(Named("dot", f1)); got != "dot" {
		t.Errorf("named identity = %q", got)
	}
	if describeSolver(&gridSolver{}) != describeSolver(&gridSolver{calls: 3}) {
		t.Error("identity of undescribed solvers should not depend on their state")
	}
}

func TestBounds(t *testing.T) {
	r := newResult(StrategyLayered, []Node{
		{ID: "a", X: -10, Y: 0, Width: 20, Height: 10},
		{ID: "b", X: 50, Y: 40, Width: 30, Height: 20},
	}, nil)
	want := Rect{X: -10, Y: 0, Width: 90, Height: 60}
	if got := r.Bounds(); got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
	if (&Result{}).Bounds() != (Rect{}) {
		t.Error("empty result should have zero bounds")
	}
}

func stmts(ids ...string) []argument.Statement {
	out := make([]argument.Statement, len(ids))
	for i, id := range ids {
		out[i] = argument.Statement{ID: id, Text: id}
	}
	return out
}

func equalLayers(a, b [][]string) bool {
	return slices.EqualFunc(a, b, func(x, y []string) bool { return slices.Equal(x, y) })
}
