package graphviz

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/argmap/pkg/layout"
)

// pointsPerInch converts world units to graphviz inches. World units are
// treated as points so positions come back unscaled.
const pointsPerInch = 72.0

// ToDOT converts sized nodes and edges to a Graphviz DOT document configured
// for top-down layered placement. Nodes and edges are sorted by id so equal
// input always yields equal output.
func ToDOT(nodes []layout.SizedNode, edges []layout.DirectedEdge, spacing layout.Spacing) string {
	if spacing.NodeSep <= 0 {
		spacing.NodeSep = layout.DefaultNodeSep
	}
	if spacing.RankSep <= 0 {
		spacing.RankSep = layout.DefaultRankSep
	}

	nodes = slices.SortedFunc(slices.Values(nodes), func(a, b layout.SizedNode) int { return cmp.Compare(a.ID, b.ID) })
	edges = slices.SortedFunc(slices.Values(edges), func(a, b layout.DirectedEdge) int { return cmp.Compare(a.ID, b.ID) })

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  splines=spline;\n")
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(spacing.NodeSep))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(spacing.RankSep))
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %s [width=%s, height=%s];\n", dotQuote(n.ID), inches(n.Width), inches(n.Height))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %s -> %s [id=%s];\n", dotQuote(e.From), dotQuote(e.To), dotQuote(e.ID))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// dotQuote writes s as a DOT quoted string. DOT knows a single escape, \",
// and keeps every other byte as is. A trailing backslash cannot be
// expressed, which is why [Solver] never sends raw ids to Graphviz.
func dotQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// aliases maps ids to plain DOT names and back.
type aliases struct {
	nodes map[string]string // alias -> id
	edges map[string]string
}

// alias renames nodes and edges to n000000, e000000 and so on, numbered in
// id order so the DOT document keeps the order [ToDOT] would give the raw
// ids. Edges with an unknown endpoint are dropped.
func alias(nodes []layout.SizedNode, edges []layout.DirectedEdge) ([]layout.SizedNode, []layout.DirectedEdge, aliases) {
	nodes = slices.SortedFunc(slices.Values(nodes), func(a, b layout.SizedNode) int { return cmp.Compare(a.ID, b.ID) })
	edges = slices.SortedFunc(slices.Values(edges), func(a, b layout.DirectedEdge) int { return cmp.Compare(a.ID, b.ID) })

	a := aliases{nodes: make(map[string]string, len(nodes)), edges: make(map[string]string, len(edges))}
	byID := make(map[string]string, len(nodes))
	outNodes := make([]layout.SizedNode, 0, len(nodes))
	for i, n := range nodes {
		name := fmt.Sprintf("n%06d", i)
		a.nodes[name], byID[n.ID] = n.ID, name
		n.ID = name
		outNodes = append(outNodes, n)
	}
	outEdges := make([]layout.DirectedEdge, 0, len(edges))
	for i, e := range edges {
		from, okFrom := byID[e.From]
		to, okTo := byID[e.To]
		if !okFrom || !okTo {
			continue
		}
		name := fmt.Sprintf("e%06d", i)
		a.edges[name] = e.ID
		outEdges = append(outEdges, layout.DirectedEdge{ID: name, From: from, To: to})
	}
	return outNodes, outEdges, a
}

// restore renames a solution computed on aliased input back to the
// original ids.
func (a aliases) restore(sol layout.Solution) layout.Solution {
	out := layout.Solution{
		Positions: make(map[string]layout.Point, len(sol.Positions)),
		Routes:    make(map[string][]layout.Point, len(sol.Routes)),
	}
	for name, p := range sol.Positions {
		if id, ok := a.nodes[name]; ok {
			out.Positions[id] = p
		}
	}
	for name, pts := range sol.Routes {
		if id, ok := a.edges[name]; ok {
			out.Routes[id] = pts
		}
	}
	return out
}

func inches(units float64) string {
	return fmt.Sprintf("%.4f", units/pointsPerInch)
}
