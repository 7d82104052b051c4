package argument

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidEdgeID is returned by [Graph.AddEdge] when the edge ID is empty.
	ErrInvalidEdgeID = errors.New("edge ID must not be empty")

	// ErrDuplicateEdgeID is returned by [Graph.AddEdge] when an edge with the
	// same ID already exists.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownKind is returned when a node kind string is not recognized.
	ErrUnknownKind = errors.New("unknown node kind")
)

// Graph stores nodes and edges in id-keyed maps with insertion-order slices
// for deterministic iteration. Merges are unions by id and cost O(new elements).
//
// The zero value is not usable; use [NewGraph]. Graph is not safe for
// concurrent use without external synchronization.
type Graph struct {
	nodes     map[string]*Node
	edges     map[string]*Edge
	nodeOrder []string
	edgeOrder []string
	incident  map[string][]string // nodeID -> ids of edges touching it
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		edges:    make(map[string]*Edge),
		incident: make(map[string][]string),
	}
}

// FromElements builds a graph, rejecting empty or duplicate ids.
func FromElements(nodes []Node, edges []Edge) (*Graph, error) {
	g := NewGraph()
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddNode adds a node. Returns ErrInvalidNodeID or ErrDuplicateNodeID.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := n
	g.nodes[n.ID] = &node
	g.nodeOrder = append(g.nodeOrder, n.ID)
	return nil
}

// AddEdge adds an edge. Endpoints are not required to exist.
func (g *Graph) AddEdge(e Edge) error {
	if e.ID == "" {
		return ErrInvalidEdgeID
	}
	if _, exists := g.edges[e.ID]; exists {
		return ErrDuplicateEdgeID
	}
	edge := e
	g.edges[e.ID] = &edge
	g.edgeOrder = append(g.edgeOrder, e.ID)
	g.incident[e.From] = append(g.incident[e.From], e.ID)
	if e.To != e.From {
		g.incident[e.To] = append(g.incident[e.To], e.ID)
	}
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// HasNode reports whether id is present.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether an edge with id is present.
func (g *Graph) HasEdge(id string) bool {
	_, ok := g.edges[id]
	return ok
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodeOrder))
	for i, id := range g.nodeOrder {
		out[i] = *g.nodes[id]
	}
	return out
}

// Edges returns copies of all edges in insertion order, dangling ones included.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edgeOrder))
	for i, id := range g.edgeOrder {
		out[i] = *g.edges[id]
	}
	return out
}

// DrawableEdges returns the edges whose endpoints both exist.
func (g *Graph) DrawableEdges() []Edge {
	out := make([]Edge, 0, len(g.edgeOrder))
	for _, id := range g.edgeOrder {
		e := g.edges[id]
		if g.HasNode(e.From) && g.HasNode(e.To) {
			out = append(out, *e)
		}
	}
	return out
}

// IncidentEdges returns the edges with id as an endpoint, in insertion order.
func (g *Graph) IncidentEdges(id string) []Edge {
	ids := g.incident[id]
	out := make([]Edge, len(ids))
	for i, eid := range ids {
		out[i] = *g.edges[eid]
	}
	return out
}

// NodesOfKind returns the nodes of kind k in insertion order.
func (g *Graph) NodesOfKind(k Kind) []Node {
	var out []Node
	for _, id := range g.nodeOrder {
		if n := g.nodes[id]; n.Kind == k {
			out = append(out, *n)
		}
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, dangling ones included.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// NodeIDs returns node ids in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.nodeOrder) }

// Clone returns an independent copy of the graph.
func (g *Graph) Clone() *Graph {
	c := NewGraph()
	for _, id := range g.nodeOrder {
		_ = c.AddNode(*g.nodes[id])
	}
	for _, id := range g.edgeOrder {
		_ = c.AddEdge(*g.edges[id])
	}
	return c
}
