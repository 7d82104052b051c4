package neighborhood

import (
	"context"
	"sync"

	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/errors"
	"github.com/matzehuels/argmap/pkg/expand"
)

// Memory serves neighborhoods from a complete argument graph held in
// memory. It backs the CLI and tests, and any host that already has the
// whole graph.
type Memory struct {
	mu sync.RWMutex
	g  *argument.Graph
}

// NewMemory serves g. The graph is copied.
func NewMemory(g *argument.Graph) *Memory {
	return &Memory{g: g.Clone()}
}

// Add merges more elements into the served graph.
func (m *Memory) Add(d argument.Delta) argument.MergeStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.g.Merge(d)
}

// Neighborhood returns the rule application RA:argID and everything within
// f.Depth hops of it over edges whose role f allows.
func (m *Memory) Neighborhood(ctx context.Context, argID string, f expand.Filters) (argument.Delta, error) {
	if err := ctx.Err(); err != nil {
		return argument.Delta{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	start := argument.CompoundID(argument.KindRuleApplication, argID)
	if !m.g.HasNode(start) {
		return argument.Delta{}, errors.New(errors.ErrCodeNotFound, "argument %s not found", argID)
	}
	return Walk(m.g, start, f), nil
}

// Summary counts the edges incident to RA:argID by role family.
func (m *Memory) Summary(ctx context.Context, argID string) (expand.Summary, error) {
	if err := ctx.Err(); err != nil {
		return expand.Summary{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	id := argument.CompoundID(argument.KindRuleApplication, argID)
	if !m.g.HasNode(id) {
		return expand.Summary{}, errors.New(errors.ErrCodeNotFound, "argument %s not found", argID)
	}
	return Count(m.g.IncidentEdges(id)), nil
}

// Walk collects the nodes reachable from start within f.Depth hops,
// following edges in either direction when f allows their role, plus every
// edge between collected nodes that f allows. Output order follows the
// graph's insertion order.
func Walk(g *argument.Graph, start string, f expand.Filters) argument.Delta {
	depth := max(f.Depth, 1)
	seen := map[string]bool{start: true}
	frontier := []string{start}

	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []string
		for _, id := range frontier {
			for _, e := range g.IncidentEdges(id) {
				if !f.Allows(e.Role) {
					continue
				}
				other := e.To
				if other == id {
					other = e.From
				}
				if !seen[other] && g.HasNode(other) {
					seen[other] = true
					next = append(next, other)
				}
			}
		}
		frontier = next
	}

	var d argument.Delta
	for _, n := range g.Nodes() {
		if seen[n.ID] {
			d.Nodes = append(d.Nodes, n)
		}
	}
	for _, e := range g.Edges() {
		if f.Allows(e.Role) && seen[e.From] && seen[e.To] {
			d.Edges = append(d.Edges, e)
		}
	}
	return d
}

// Count tallies edges by role family.
func Count(edges []argument.Edge) expand.Summary {
	var s expand.Summary
	for _, e := range edges {
		switch {
		case e.Role.IsSupporting():
			s.SupportCount++
		case e.Role.IsOpposing():
			s.ConflictCount++
		case e.Role.IsPreference():
			s.PreferenceCount++
		}
	}
	s.TotalConnections = s.SupportCount + s.ConflictCount + s.PreferenceCount
	return s
}
