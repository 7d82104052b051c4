package argument

import "slices"

// Statement is a node of a Toulmin tree diagram.
type Statement struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Kind Kind   `json:"kind"`
}

// Inference derives ConclusionID from PremiseIDs.
type Inference struct {
	ID           string   `json:"id"`
	ConclusionID string   `json:"conclusionId"`
	PremiseIDs   []string `json:"premiseIds"`
}

// Evidence is a source attached to a tree diagram.
type Evidence struct {
	ID   string `json:"id"`
	URI  string `json:"uri"`
	Note string `json:"note,omitempty"`
}

// Tree is the statement/inference form of a diagram. Edges are implicit.
type Tree struct {
	Statements []Statement `json:"statements"`
	Inferences []Inference `json:"inferences"`
	Evidence   []Evidence  `json:"evidence,omitempty"`
}

// StatementIDs returns the statement ids in input order.
func (t Tree) StatementIDs() []string {
	ids := make([]string, len(t.Statements))
	for i, s := range t.Statements {
		ids[i] = s.ID
	}
	return ids
}

// PremiseEdgeID is the id of the implicit edge from premise to the
// conclusion of inference.
func PremiseEdgeID(inferenceID, premiseID string) string {
	return inferenceID + ":" + premiseID
}

// Graph derives the node-link form: one node per statement and one premise
// edge per (inference, premise) pair pointing at the conclusion. Repeated
// premise ids inside an inference yield one edge.
func (t Tree) Graph() (*Graph, error) {
	g := NewGraph()
	for _, s := range t.Statements {
		if err := g.AddNode(Node{ID: s.ID, Kind: s.Kind, Label: s.Text}); err != nil {
			return nil, err
		}
	}
	for _, inf := range t.Inferences {
		seen := make(map[string]bool, len(inf.PremiseIDs))
		for _, p := range inf.PremiseIDs {
			if seen[p] {
				continue
			}
			seen[p] = true
			e := Edge{ID: PremiseEdgeID(inf.ID, p), From: p, To: inf.ConclusionID, Role: RolePremise}
			if err := g.AddEdge(e); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Clone returns a deep copy of the tree.
func (t Tree) Clone() Tree {
	c := Tree{
		Statements: slices.Clone(t.Statements),
		Inferences: make([]Inference, len(t.Inferences)),
		Evidence:   slices.Clone(t.Evidence),
	}
	for i, inf := range t.Inferences {
		inf.PremiseIDs = slices.Clone(inf.PremiseIDs)
		c.Inferences[i] = inf
	}
	return c
}
