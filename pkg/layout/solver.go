package layout

import (
	"context"
	"fmt"
)

// Default spacing between nodes in a layer and between layers, in world
// units.
const (
	DefaultNodeSep = 40.0
	DefaultRankSep = 80.0
)

// Spacing holds the fixed gaps used by both strategies.
type Spacing struct {
	NodeSep float64
	RankSep float64
}

// DefaultSpacing returns the default gaps.
func DefaultSpacing() Spacing {
	return Spacing{NodeSep: DefaultNodeSep, RankSep: DefaultRankSep}
}

func (s Spacing) withDefaults() Spacing {
	if s.NodeSep <= 0 {
		s.NodeSep = DefaultNodeSep
	}
	if s.RankSep <= 0 {
		s.RankSep = DefaultRankSep
	}
	return s
}

// SizedNode is a node with a fixed footprint handed to a [Solver].
type SizedNode struct {
	ID     string
	Width  float64
	Height float64
}

// DirectedEdge is an edge handed to a [Solver]. Both endpoints are always
// present in the node list.
type DirectedEdge struct {
	ID   string
	From string
	To   string
}

// Solution is what a [Solver] returns. Positions holds node centers in a
// y-down coordinate system. Routes is optional and keyed by edge id.
type Solution struct {
	Positions map[string]Point
	Routes    map[string][]Point
}

// Solver places sized nodes in top-down layers. Implementations must be
// deterministic for identical input.
type Solver interface {
	Solve(ctx context.Context, nodes []SizedNode, edges []DirectedEdge) (Solution, error)
}

// Describer is implemented by solvers whose output depends on settings of
// their own. Describe must change whenever the output would, since the
// engine keys cached layouts by it.
type Describer interface {
	Describe() string
}

// describeSolver identifies s for cache keys. Solvers without a
// [Describer] fall back to their type, and a [SolverFunc] to its address.
func describeSolver(s Solver) string {
	switch s := s.(type) {
	case Describer:
		return s.Describe()
	case SolverFunc:
		return fmt.Sprintf("func@%p", s)
	}
	return fmt.Sprintf("%T", s)
}

// Named gives s a fixed identity, so solvers sharing a Go type (such as two
// [SolverFunc] values) never share cached layouts.
func Named(name string, s Solver) Solver { return namedSolver{name, s} }

type namedSolver struct {
	name string
	Solver
}

func (n namedSolver) Describe() string { return n.name }

// SolverFunc adapts a function to the [Solver] interface.
type SolverFunc func(ctx context.Context, nodes []SizedNode, edges []DirectedEdge) (Solution, error)

// Solve calls f.
func (f SolverFunc) Solve(ctx context.Context, nodes []SizedNode, edges []DirectedEdge) (Solution, error) {
	return f(ctx, nodes, edges)
}
