package sugiyama

import (
	"cmp"
	"slices"
)

// order returns the nodes of each layer left to right. It runs the given
// number of barycenter sweeps and keeps the order with the fewest
// crossings seen.
func (g *graph) order(sweeps int) [][]int {
	layers := make([][]int, g.layers)
	for n, row := range g.layer {
		layers[row] = append(layers[row], n)
	}
	pos := make([]int, len(g.ids))
	for _, nodes := range layers {
		for i, n := range nodes {
			pos[n] = i
		}
	}

	best := cloneLayers(layers)
	bestCrossings := g.crossings(layers, pos)
	for i := 0; i < sweeps && bestCrossings > 0; i++ {
		for row := 1; row < len(layers); row++ {
			reorder(layers[row], g.up, pos)
		}
		for row := len(layers) - 2; row >= 0; row-- {
			reorder(layers[row], g.down, pos)
		}
		if c := g.crossings(layers, pos); c < bestCrossings {
			best, bestCrossings = cloneLayers(layers), c
		}
	}
	return best
}

// reorder sorts nodes by the mean position of their neighbors in the
// adjacent layer. Nodes without neighbors keep their current position.
func reorder(nodes []int, adj [][]int, pos []int) {
	bary := make(map[int]float64, len(nodes))
	for _, n := range nodes {
		if len(adj[n]) == 0 {
			bary[n] = float64(pos[n])
			continue
		}
		sum := 0
		for _, m := range adj[n] {
			sum += pos[m]
		}
		bary[n] = float64(sum) / float64(len(adj[n]))
	}
	slices.SortStableFunc(nodes, func(a, b int) int { return cmp.Compare(bary[a], bary[b]) })
	for i, n := range nodes {
		pos[n] = i
	}
}

// crossings sums the crossings between each pair of consecutive layers.
func (g *graph) crossings(layers [][]int, pos []int) int {
	total := 0
	for row := 0; row+1 < len(layers); row++ {
		total += g.layerCrossings(layers[row], len(layers[row+1]), pos)
	}
	return total
}

// layerCrossings counts crossing segments between upper and the layer below
// it. Visiting segments by source position, a segment crosses every earlier
// one whose target lies further right, which a Fenwick tree over target
// positions counts in O(E log V).
func (g *graph) layerCrossings(upper []int, lowerWidth int, pos []int) int {
	if len(upper) == 0 || lowerWidth == 0 {
		return 0
	}
	fenwick := make([]int, lowerWidth+1)
	targets := make([]int, 0, 4)
	crossings, total := 0, 0
	for _, n := range upper {
		targets = targets[:0]
		for _, m := range g.down[n] {
			targets = append(targets, pos[m])
		}
		slices.Sort(targets)
		for _, t := range targets {
			lessOrEqual := 0
			for q := t + 1; q > 0; q -= q & (-q) {
				lessOrEqual += fenwick[q]
			}
			crossings += total - lessOrEqual
		}
		for _, t := range targets {
			total++
			for i := t + 1; i < len(fenwick); i += i & (-i) {
				fenwick[i]++
			}
		}
	}
	return crossings
}

func cloneLayers(layers [][]int) [][]int {
	out := make([][]int, len(layers))
	for i, l := range layers {
		out[i] = slices.Clone(l)
	}
	return out
}
