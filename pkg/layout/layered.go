package layout

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/style"
)

// ErrNoSolver is returned by [Layered.Compute] when no solver is configured.
var ErrNoSolver = errors.New("layout: no solver configured")

// Layered delegates node placement of a general graph to a [Solver].
type Layered struct {
	Solver Solver
}

// Compute sizes every node by kind, drops dangling edges, runs the solver and
// converts the returned centers into top-left boxes.
//
// The result contains exactly one [Node] per graph node and one [Edge] per
// drawable edge. A solver that omits a node is an error.
func (l Layered) Compute(ctx context.Context, g *argument.Graph) (*Result, error) {
	if l.Solver == nil {
		return nil, ErrNoSolver
	}

	nodes := g.Nodes()
	if len(nodes) == 0 {
		return newResult(StrategyLayered, nil, nil), nil
	}

	sized := make([]SizedNode, len(nodes))
	for i, n := range nodes {
		d := style.Dimensions(n.Kind)
		sized[i] = SizedNode{ID: n.ID, Width: d.Width, Height: d.Height}
	}

	drawable := g.DrawableEdges()
	directed := make([]DirectedEdge, len(drawable))
	for i, e := range drawable {
		directed[i] = DirectedEdge{ID: e.ID, From: e.From, To: e.To}
	}

	sol, err := l.Solver.Solve(ctx, sized, directed)
	if err != nil {
		return nil, err
	}

	out := make([]Node, len(sized))
	for i, s := range sized {
		c, ok := sol.Positions[s.ID]
		if !ok {
			return nil, fmt.Errorf("solver returned no position for %q", s.ID)
		}
		out[i] = Node{
			ID:     s.ID,
			X:      c.X - s.Width/2,
			Y:      c.Y - s.Height/2,
			Width:  s.Width,
			Height: s.Height,
		}
	}

	edges := make([]Edge, len(drawable))
	for i, e := range drawable {
		edges[i] = Edge{ID: e.ID, Source: e.From, Target: e.To, Role: e.Role}
		if pts := sol.Routes[e.ID]; len(pts) >= 2 {
			edges[i].Points = append([]Point(nil), pts...)
		}
	}

	return newResult(StrategyLayered, out, edges), nil
}
