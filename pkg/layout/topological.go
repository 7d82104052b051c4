package layout

import (
	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/style"
)

// Topological places the statements of a tree diagram on the layers computed
// by [Strata]. Layer 0 is drawn at the bottom so conclusions sit above their
// premises. Each row is centered on x = 0.
type Topological struct {
	Spacing Spacing
}

// Compute lays out t. Cyclic input ends up in the fallback layer; the only
// error is a duplicate statement id.
func (tp Topological) Compute(t argument.Tree) (*Result, error) {
	sp := tp.Spacing.withDefaults()
	layers := Strata(t)

	kinds := make(map[string]argument.Kind, len(t.Statements))
	for _, s := range t.Statements {
		if _, dup := kinds[s.ID]; !dup {
			kinds[s.ID] = s.Kind
		}
	}

	rowHeight := make([]float64, len(layers))
	for i, layer := range layers {
		for _, id := range layer {
			if h := style.Dimensions(kinds[id]).Height; h > rowHeight[i] {
				rowHeight[i] = h
			}
		}
	}

	var nodes []Node
	y := 0.0
	for i := len(layers) - 1; i >= 0; i-- {
		layer := layers[i]
		width := 0.0
		for j, id := range layer {
			if j > 0 {
				width += sp.NodeSep
			}
			width += style.Dimensions(kinds[id]).Width
		}

		x := -width / 2
		for _, id := range layer {
			d := style.Dimensions(kinds[id])
			nodes = append(nodes, Node{
				ID:     id,
				X:      x,
				Y:      y + (rowHeight[i]-d.Height)/2,
				Width:  d.Width,
				Height: d.Height,
				Layer:  i,
			})
			x += d.Width + sp.NodeSep
		}
		y += rowHeight[i] + sp.RankSep
	}

	g, err := t.Graph()
	if err != nil {
		return nil, err
	}
	var edges []Edge
	for _, e := range g.DrawableEdges() {
		edges = append(edges, Edge{ID: e.ID, Source: e.From, Target: e.To, Role: e.Role})
	}

	r := newResult(StrategyTopological, nodes, edges)
	r.Layers = layers
	return r, nil
}
