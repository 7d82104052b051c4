package argument

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DiagramType selects the node-link (AIF) or the tree representation.
type DiagramType string

const (
	TypeAIF  DiagramType = "aif"
	TypeTree DiagramType = "tree"
)

// Payload is a decoded initial graph. Exactly one of AIF and Tree is set,
// matching Type.
type Payload struct {
	Type DiagramType
	AIF  *Graph
	Tree *Tree
}

// Graph returns the node-link graph for either payload type.
func (p Payload) Graph() (*Graph, error) {
	switch p.Type {
	case TypeAIF:
		if p.AIF == nil {
			return NewGraph(), nil
		}
		return p.AIF, nil
	case TypeTree:
		if p.Tree == nil {
			return NewGraph(), nil
		}
		return p.Tree.Graph()
	}
	return nil, fmt.Errorf("unknown diagram type %q", p.Type)
}

// rawPayload accepts both wire shapes.
type rawPayload struct {
	Nodes      []Node      `json:"nodes"`
	Edges      []Edge      `json:"edges"`
	Statements []Statement `json:"statements"`
	Inferences []Inference `json:"inferences"`
	Evidence   []Evidence  `json:"evidence"`
}

// DecodePayload reads either {nodes, edges} or {statements, inferences,
// evidence?}. A document carrying statements or inferences is a tree.
func DecodePayload(r io.Reader) (Payload, error) {
	var raw rawPayload
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Payload{}, fmt.Errorf("decode: %w", err)
	}
	if len(raw.Statements) > 0 || len(raw.Inferences) > 0 {
		t := &Tree{Statements: raw.Statements, Inferences: raw.Inferences, Evidence: raw.Evidence}
		if _, err := t.Graph(); err != nil {
			return Payload{}, fmt.Errorf("tree: %w", err)
		}
		return Payload{Type: TypeTree, Tree: t}, nil
	}
	g, err := FromElements(raw.Nodes, raw.Edges)
	if err != nil {
		return Payload{}, fmt.Errorf("graph: %w", err)
	}
	return Payload{Type: TypeAIF, AIF: g}, nil
}

// ReadPayloadFile decodes the payload stored at path.
func ReadPayloadFile(path string) (Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return Payload{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return DecodePayload(f)
}

// MarshalGraph encodes g in the AIF wire shape.
func MarshalGraph(g *Graph) ([]byte, error) {
	return json.MarshalIndent(Delta{Nodes: g.Nodes(), Edges: g.Edges()}, "", "  ")
}
