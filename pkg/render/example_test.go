package render_test

import (
	"fmt"

	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/layout"
	"github.com/matzehuels/argmap/pkg/render"
	"github.com/matzehuels/argmap/pkg/viewport"
)

func ExampleRender() {
	g, _ := argument.FromElements(
		[]argument.Node{
			{ID: "I:p1", Kind: argument.KindStatement},
			{ID: "RA:ra1", Kind: argument.KindRuleApplication},
		},
		[]argument.Edge{
			{ID: "e1", From: "I:p1", To: "RA:ra1", Role: argument.RolePremise},
			{ID: "e2", From: "RA:ra1", To: "I:missing", Role: argument.RoleConclusion},
		},
	)
	result := &layout.Result{
		Nodes: []layout.Node{
			{ID: "I:p1", X: 0, Y: 0, Width: 180, Height: 60},
			{ID: "RA:ra1", X: 45, Y: 140, Width: 90, Height: 50},
		},
		Edges: []layout.Edge{{ID: "e1", Source: "I:p1", Target: "RA:ra1", Role: argument.RolePremise}},
	}

	scene := render.Render(render.Frame{
		Graph:    g,
		Layout:   result,
		Viewport: viewport.Viewport{Width: 400, Height: 300},
		Canvas:   viewport.DefaultCanvas(),
	})
	for _, e := range scene.Edges {
		fmt.Println(e.ID, e.Points)
	}
	fmt.Println(len(scene.Nodes), "nodes")
	// Output:
	// e1 [{90 60} {90 140}]
	// 2 nodes
}
