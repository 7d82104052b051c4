package sugiyama

import "fmt"

// breakCycles reverses every link the depth-first search finds pointing
// back at a node still on the stack.
func breakCycles(g *graph) {
	const (
		white = iota
		gray
		black
	)

	out := make([][]*link, g.real)
	for _, l := range g.links {
		out[l.from] = append(out[l.from], l)
	}

	color := make([]int, g.real)
	var dfs func(n int)
	dfs = func(n int) {
		color[n] = gray
		for _, l := range out[n] {
			switch color[l.to] {
			case white:
				dfs(l.to)
			case gray:
				l.reversed = true
			}
		}
		color[n] = black
	}
	for n := range g.real {
		if color[n] == white {
			dfs(n)
		}
	}

	for _, l := range g.links {
		if l.reversed {
			l.from, l.to = l.to, l.from
		}
	}
}

// assignLayers puts every node one layer below its deepest parent. Nodes
// without parents, isolated ones included, land in layer 0.
func assignLayers(g *graph) {
	inDegree := make([]int, g.real)
	children := make([][]int, g.real)
	for _, l := range g.links {
		inDegree[l.to]++
		children[l.from] = append(children[l.from], l.to)
	}

	g.layer = make([]int, g.real)
	queue := make([]int, 0, g.real)
	for n := range g.real {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, child := range children[curr] {
			g.layer[child] = max(g.layer[child], g.layer[curr]+1)
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	for _, row := range g.layer {
		g.layers = max(g.layers, row+1)
	}
}

// subdivide replaces links spanning several layers with chains of
// zero-sized dummy nodes and fills the unit-step adjacency lists.
func subdivide(g *graph) {
	gen := newIDGen(g.ids)
	g.up = make([][]int, g.real)
	g.down = make([][]int, g.real)
	for _, l := range g.links {
		prev := l.from
		for row := g.layer[l.from] + 1; row < g.layer[l.to]; row++ {
			d := g.addDummy(gen.next(l.id, row), row)
			l.chain = append(l.chain, d)
			g.connect(prev, d)
			prev = d
		}
		g.connect(prev, l.to)
	}
}

func (g *graph) addDummy(id string, row int) int {
	g.ids = append(g.ids, id)
	g.width = append(g.width, 0)
	g.height = append(g.height, 0)
	g.layer = append(g.layer, row)
	g.up = append(g.up, nil)
	g.down = append(g.down, nil)
	return len(g.ids) - 1
}

func (g *graph) connect(from, to int) {
	g.down[from] = append(g.down[from], to)
	g.up[to] = append(g.up[to], from)
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(ids []string) *idGen {
	m := make(map[string]struct{}, len(ids)*2)
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, row int) string {
	prefix := fmt.Sprintf("%s_sub_%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
