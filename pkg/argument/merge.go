package argument

// Delta is an incremental set of elements fetched for a neighborhood.
type Delta struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Empty reports whether the delta carries no elements.
func (d Delta) Empty() bool { return len(d.Nodes) == 0 && len(d.Edges) == 0 }

// MergeStats counts what a merge actually added.
type MergeStats struct {
	NodesAdded int
	EdgesAdded int
}

// Merge adds every element of d whose id is not already present. Existing
// elements are never replaced, and ids repeated inside d are added once.
// Elements with empty ids are skipped.
func (g *Graph) Merge(d Delta) MergeStats {
	var s MergeStats
	for _, n := range d.Nodes {
		if n.ID == "" || g.HasNode(n.ID) {
			continue
		}
		_ = g.AddNode(n)
		s.NodesAdded++
	}
	for _, e := range d.Edges {
		if e.ID == "" || g.HasEdge(e.ID) {
			continue
		}
		_ = g.AddEdge(e)
		s.EdgesAdded++
	}
	return s
}
