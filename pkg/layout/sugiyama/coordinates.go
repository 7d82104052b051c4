package sugiyama

import (
	"math"

	"github.com/matzehuels/argmap/pkg/layout"
)

// coordinates returns node centers. Layers are stacked by their tallest
// node with RankSep between them. Within a layer nodes keep their order
// and stay at least NodeSep apart. The result is shifted so the leftmost
// edge sits at x = 0.
func (g *graph) coordinates(order [][]int, sp layout.Spacing) (xs, ys []float64) {
	xs = make([]float64, len(g.ids))
	ys = make([]float64, len(g.ids))

	top := 0.0
	for _, nodes := range order {
		h := 0.0
		for _, n := range nodes {
			h = max(h, g.height[n])
		}
		for _, n := range nodes {
			ys[n] = top + h/2
		}
		top += h + sp.RankSep
	}

	for _, nodes := range order {
		x := 0.0
		for _, n := range nodes {
			xs[n] = x + g.width[n]/2
			x += g.width[n] + sp.NodeSep
		}
		shift := -(x - sp.NodeSep) / 2
		for _, n := range nodes {
			xs[n] += shift
		}
	}

	for range refinePasses {
		for row := 1; row < len(order); row++ {
			g.align(order[row], g.up, xs, sp.NodeSep)
		}
		for row := len(order) - 2; row >= 0; row-- {
			g.align(order[row], g.down, xs, sp.NodeSep)
		}
	}

	g.shiftToOrigin(xs)
	return xs, ys
}

// shiftToOrigin moves xs so the leftmost box edge of a real node lies at
// x = 0, in either direction. Dummies may end up left of it.
func (g *graph) shiftToOrigin(xs []float64) {
	if g.real == 0 {
		return
	}
	minLeft := math.Inf(1)
	for n := range g.real {
		minLeft = min(minLeft, xs[n]-g.width[n]/2)
	}
	for n := range xs {
		xs[n] -= minLeft
	}
}

// align moves each node toward the mean x of its neighbors in adj. Nodes
// are placed left to right with the minimum separation, then the whole
// layer is shifted by the mean remaining offset.
func (g *graph) align(nodes []int, adj [][]int, xs []float64, sep float64) {
	if len(nodes) == 0 {
		return
	}
	want := make([]float64, len(nodes))
	for i, n := range nodes {
		want[i] = xs[n]
		if len(adj[n]) == 0 {
			continue
		}
		sum := 0.0
		for _, m := range adj[n] {
			sum += xs[m]
		}
		want[i] = sum / float64(len(adj[n]))
	}

	placed := make([]float64, len(nodes))
	offset := 0.0
	for i, n := range nodes {
		placed[i] = want[i]
		if i > 0 {
			prev := nodes[i-1]
			placed[i] = max(want[i], placed[i-1]+(g.width[prev]+g.width[n])/2+sep)
		}
		offset += want[i] - placed[i]
	}
	offset /= float64(len(nodes))
	for i, n := range nodes {
		xs[n] = placed[i] + offset
	}
}
