// Package graphviz implements [layout.Solver] on top of the Graphviz dot
// engine.
//
// Nodes are emitted with fixed sizes so Graphviz never resizes them for
// labels. The engine output is requested in DOT format, which carries the
// computed pos attributes, and parsed back with gographviz:
//
//	dot := graphviz.ToDOT(nodes, edges, layout.DefaultSpacing())
//	out, err := graphviz.Render(ctx, dot)
//	sol, err := graphviz.ParseLayout(out)
//
// Edge routes are the Bezier control points of the spline Graphviz chose.
package graphviz
