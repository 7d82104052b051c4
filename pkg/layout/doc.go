// Package layout positions the nodes of an argument diagram.
//
// # Strategies
//
// Two strategies are available, selected by diagram type:
//
//   - [Layered] sizes each node by kind and hands the graph to a [Solver]
//     that places it in top-down layers. The graphviz subpackage provides
//     the production solver; sugiyama is a pure-Go alternative.
//   - [Topological] stacks the statements of a tree diagram on the layers
//     computed by [Strata], conclusions above premises.
//
// Both return a [Result] holding one box per node in world coordinates and
// one entry per drawable edge. Edges whose endpoints are missing from the
// graph never reach a strategy.
//
// # Engine
//
// [Engine] selects the strategy, reports to the observability hooks and
// caches results keyed by a hash of the input:
//
//	eng := layout.NewEngine(graphviz.New(spacing), spacing, c, logger)
//	r, err := eng.Compute(ctx, layout.Input{Type: argument.TypeAIF, Graph: g})
//
// A failed layout is returned as a LAYOUT_FAILED error. Callers draw a
// placeholder rather than keep a stale layout.
package layout
