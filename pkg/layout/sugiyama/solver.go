package sugiyama

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/matzehuels/argmap/pkg/layout"
)

// Default tuning.
const (
	DefaultSweeps = 8
	refinePasses  = 4
)

// Solver computes layered layouts without external tools. A Solver holds no
// state between calls and is safe for concurrent use.
type Solver struct {
	Spacing layout.Spacing
	// Sweeps is the number of down-and-up barycenter sweeps. Zero means
	// DefaultSweeps.
	Sweeps int
}

// New returns a solver using the given spacing.
func New(spacing layout.Spacing) *Solver {
	return &Solver{Spacing: spacing}
}

// Solve lays out nodes and edges top-down. Edges naming unknown nodes and
// self loops are ignored. Equal input yields equal output regardless of
// slice order.
func (s *Solver) Solve(ctx context.Context, nodes []layout.SizedNode, edges []layout.DirectedEdge) (layout.Solution, error) {
	sol := layout.Solution{Positions: map[string]layout.Point{}}
	if len(nodes) == 0 {
		return sol, nil
	}

	g := build(nodes, edges)
	breakCycles(g)
	assignLayers(g)
	subdivide(g)
	if err := ctx.Err(); err != nil {
		return layout.Solution{}, err
	}

	sweeps := s.Sweeps
	if sweeps <= 0 {
		sweeps = DefaultSweeps
	}
	order := g.order(sweeps)
	if err := ctx.Err(); err != nil {
		return layout.Solution{}, err
	}

	sp := s.spacing()
	xs, ys := g.coordinates(order, sp)

	for i := 0; i < g.real; i++ {
		sol.Positions[g.ids[i]] = layout.Point{X: xs[i], Y: ys[i]}
	}
	for _, l := range g.links {
		if len(l.chain) == 0 {
			continue
		}
		if sol.Routes == nil {
			sol.Routes = map[string][]layout.Point{}
		}
		sol.Routes[l.id] = g.route(l, xs, ys)
	}
	return sol, nil
}

// Describe identifies the solver and its settings for layout cache keys.
func (s *Solver) Describe() string {
	sweeps := s.Sweeps
	if sweeps <= 0 {
		sweeps = DefaultSweeps
	}
	sp := s.spacing()
	return fmt.Sprintf("sugiyama nodesep=%g ranksep=%g sweeps=%d", sp.NodeSep, sp.RankSep, sweeps)
}

func (s *Solver) spacing() layout.Spacing {
	sp := s.Spacing
	if sp.NodeSep <= 0 {
		sp.NodeSep = layout.DefaultNodeSep
	}
	if sp.RankSep <= 0 {
		sp.RankSep = layout.DefaultRankSep
	}
	return sp
}

// link is one input edge. from and to point downward after cycle breaking;
// reversed records whether that flipped the input direction.
type link struct {
	id       string
	from, to int
	reversed bool
	chain    []int
}

// graph indexes real nodes first, sorted by id, then dummy nodes in
// creation order.
type graph struct {
	ids    []string
	width  []float64
	height []float64
	real   int
	links  []*link
	layer  []int
	layers int
	up     [][]int
	down   [][]int
}

func build(nodes []layout.SizedNode, edges []layout.DirectedEdge) *graph {
	nodes = slices.SortedFunc(slices.Values(nodes), func(a, b layout.SizedNode) int { return cmp.Compare(a.ID, b.ID) })
	edges = slices.SortedFunc(slices.Values(edges), func(a, b layout.DirectedEdge) int { return cmp.Compare(a.ID, b.ID) })

	g := &graph{}
	index := make(map[string]int, len(nodes))
	for _, n := range nodes {
		if _, dup := index[n.ID]; dup {
			continue
		}
		index[n.ID] = len(g.ids)
		g.ids = append(g.ids, n.ID)
		g.width = append(g.width, n.Width)
		g.height = append(g.height, n.Height)
	}
	g.real = len(g.ids)

	for _, e := range edges {
		from, okFrom := index[e.From]
		to, okTo := index[e.To]
		if !okFrom || !okTo || from == to {
			continue
		}
		g.links = append(g.links, &link{id: e.ID, from: from, to: to})
	}
	return g
}

// route returns the edge's path in input direction as cubic Bezier control
// points: start, then two controls and an end point per segment.
func (g *graph) route(l *link, xs, ys []float64) []layout.Point {
	path := make([]layout.Point, 0, len(l.chain)+2)
	path = append(path, layout.Point{X: xs[l.from], Y: ys[l.from] + g.height[l.from]/2})
	for _, d := range l.chain {
		path = append(path, layout.Point{X: xs[d], Y: ys[d]})
	}
	path = append(path, layout.Point{X: xs[l.to], Y: ys[l.to] - g.height[l.to]/2})
	if l.reversed {
		slices.Reverse(path)
	}

	pts := []layout.Point{path[0]}
	for i := 1; i < len(path); i++ {
		p, q := path[i-1], path[i]
		mid := (p.Y + q.Y) / 2
		pts = append(pts, layout.Point{X: p.X, Y: mid}, layout.Point{X: q.X, Y: mid}, q)
	}
	return pts
}
