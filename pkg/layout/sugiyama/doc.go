// Package sugiyama implements [layout.Solver] in pure Go with the classic
// layered pipeline:
//
//  1. Cycle breaking: a depth-first search reverses back edges.
//  2. Layering: longest path over a topological order, so every edge points
//     at least one layer down and sources sit in layer 0.
//  3. Subdivision: edges spanning several layers become chains of dummy
//     nodes, one per intermediate layer.
//  4. Ordering: barycenter sweeps, keeping the order with the fewest
//     crossings as counted with a Fenwick tree.
//  5. Coordinates: layers are stacked by their tallest node and packed
//     horizontally, then nodes are pulled toward their neighbors without
//     breaking the minimum separation.
//
// It needs no native libraries, which makes it the fallback when Graphviz is
// unavailable. Long edges are routed through their dummy nodes and returned
// as cubic Bezier control points, like the Graphviz solver's splines.
package sugiyama
