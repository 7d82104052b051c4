package layout

import (
	"math"

	"github.com/matzehuels/argmap/pkg/argument"
)

// Strategy names the algorithm that produced a [Result].
type Strategy string

const (
	StrategyLayered     Strategy = "layered"
	StrategyTopological Strategy = "topological"
)

// Point is a position in world units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in world units. X and Y are the top-left
// corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of r.
func (r Rect) Center() Point { return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2} }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	const eps = 1e-9
	return o.X >= r.X-eps && o.Y >= r.Y-eps && o.Right() <= r.Right()+eps && o.Bottom() <= r.Bottom()+eps
}

// Node is a positioned node box.
type Node struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Layer  int     `json:"layer,omitempty"`
}

// Rect returns the node box.
func (n Node) Rect() Rect { return Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height} }

// Center returns the center of the node box.
func (n Node) Center() Point { return n.Rect().Center() }

// Right returns the x coordinate of the node's right edge.
func (n Node) Right() float64 { return n.X + n.Width }

// Bottom returns the y coordinate of the node's bottom edge.
func (n Node) Bottom() float64 { return n.Y + n.Height }

// Edge is a drawable edge. Points holds the routed path when the solver
// produced one; an empty Points means a straight segment between the nodes.
type Edge struct {
	ID     string        `json:"id"`
	Source string        `json:"source"`
	Target string        `json:"target"`
	Role   argument.Role `json:"role"`
	Points []Point       `json:"points,omitempty"`
}

// Routed reports whether the edge carries solver-provided bend points.
func (e Edge) Routed() bool { return len(e.Points) >= 2 }

// Result is the output of a layout run. It is never mutated after it is
// returned; a new run produces a new Result.
type Result struct {
	Strategy Strategy   `json:"strategy"`
	Nodes    []Node     `json:"nodes"`
	Edges    []Edge     `json:"edges"`
	Layers   [][]string `json:"layers,omitempty"`

	index map[string]int
}

func newResult(s Strategy, nodes []Node, edges []Edge) *Result {
	r := &Result{Strategy: s, Nodes: nodes, Edges: edges, index: make(map[string]int, len(nodes))}
	for i, n := range nodes {
		r.index[n.ID] = i
	}
	return r
}

// Node returns the positioned node with the given id.
func (r *Result) Node(id string) (Node, bool) {
	if r.index == nil {
		for _, n := range r.Nodes {
			if n.ID == id {
				return n, true
			}
		}
		return Node{}, false
	}
	i, ok := r.index[id]
	if !ok {
		return Node{}, false
	}
	return r.Nodes[i], true
}

// Bounds returns the bounding box of all nodes. An empty result has a zero
// Rect.
func (r *Result) Bounds() Rect {
	if r == nil || len(r.Nodes) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range r.Nodes {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X+n.Width)
		maxY = math.Max(maxY, n.Y+n.Height)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
