package argument_test

import (
	"fmt"

	"github.com/matzehuels/argmap/pkg/argument"
)

func ExampleGraph_Merge() {
	g, _ := argument.FromElements(
		[]argument.Node{{ID: "I:p1"}, {ID: "RA:a1", Kind: argument.KindRuleApplication}},
		[]argument.Edge{{ID: "e1", From: "I:p1", To: "RA:a1", Role: argument.RolePremise}},
	)

	stats := g.Merge(argument.Delta{
		Nodes: []argument.Node{{ID: "RA:a1", Kind: argument.KindRuleApplication}, {ID: "I:c1"}},
		Edges: []argument.Edge{{ID: "e2", From: "RA:a1", To: "I:c1", Role: argument.RoleConclusion}},
	})

	fmt.Println(stats.NodesAdded, stats.EdgesAdded, g.NodeCount())
	// Output: 1 1 3
}

func ExampleParseCompoundID() {
	kind, argID, ok := argument.ParseCompoundID("RA:arg-17")
	fmt.Println(kind, argID, ok)
	// Output: RA arg-17 true
}
