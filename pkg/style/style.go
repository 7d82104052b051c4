// Package style is the single source of truth for the visual encoding of
// node kinds and edge roles. Renderers and layout strategies look sizes,
// shapes and strokes up here and never hardcode them.
package style

import (
	"fmt"

	"github.com/matzehuels/argmap/pkg/argument"
)

// Size is a fixed node footprint in world units.
type Size struct {
	Width  float64
	Height float64
}

// Shape is the outline a node is drawn with.
type Shape int

const (
	ShapeRect Shape = iota
	ShapeEllipse
)

func (s Shape) String() string {
	switch s {
	case ShapeRect:
		return "rect"
	case ShapeEllipse:
		return "ellipse"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// Statement nodes are sized for wrapped text; application nodes are compact.
var (
	statementSize  = Size{Width: 180, Height: 60}
	ruleSize       = Size{Width: 90, Height: 50}
	conflictSize   = Size{Width: 90, Height: 50}
	preferenceSize = Size{Width: 100, Height: 50}
)

// Dimensions returns the fixed footprint of a node kind.
func Dimensions(k argument.Kind) Size {
	switch k {
	case argument.KindStatement,
		argument.KindClaim, argument.KindPremise, argument.KindWarrant,
		argument.KindBacking, argument.KindRebuttal:
		return statementSize
	case argument.KindRuleApplication:
		return ruleSize
	case argument.KindConflictApplication:
		return conflictSize
	case argument.KindPreferenceApplication:
		return preferenceSize
	}
	panic(fmt.Sprintf("style: unhandled kind %v", k))
}

// ShapeOf returns the outline for a node kind.
func ShapeOf(k argument.Kind) Shape {
	switch k {
	case argument.KindStatement,
		argument.KindClaim, argument.KindPremise, argument.KindWarrant,
		argument.KindBacking, argument.KindRebuttal:
		return ShapeRect
	case argument.KindRuleApplication, argument.KindConflictApplication, argument.KindPreferenceApplication:
		return ShapeEllipse
	}
	panic(fmt.Sprintf("style: unhandled kind %v", k))
}

// NodeStyle is the fill and outline of a node kind.
type NodeStyle struct {
	Fill   string
	Stroke string
	Text   string
}

// ForKind returns the node colors for a kind.
func ForKind(k argument.Kind) NodeStyle {
	switch k {
	case argument.KindStatement:
		return NodeStyle{Fill: "#ffffff", Stroke: "#37474f", Text: "#263238"}
	case argument.KindRuleApplication:
		return NodeStyle{Fill: "#e8f5e9", Stroke: "#2e7d32", Text: "#1b5e20"}
	case argument.KindConflictApplication:
		return NodeStyle{Fill: "#ffebee", Stroke: "#c62828", Text: "#b71c1c"}
	case argument.KindPreferenceApplication:
		return NodeStyle{Fill: "#e3f2fd", Stroke: "#1565c0", Text: "#0d47a1"}
	case argument.KindClaim:
		return NodeStyle{Fill: "#fff8e1", Stroke: "#ff8f00", Text: "#3e2723"}
	case argument.KindPremise:
		return NodeStyle{Fill: "#ffffff", Stroke: "#546e7a", Text: "#263238"}
	case argument.KindWarrant:
		return NodeStyle{Fill: "#f3e5f5", Stroke: "#6a1b9a", Text: "#4a148c"}
	case argument.KindBacking:
		return NodeStyle{Fill: "#ede7f6", Stroke: "#4527a0", Text: "#311b92"}
	case argument.KindRebuttal:
		return NodeStyle{Fill: "#fbe9e7", Stroke: "#d84315", Text: "#bf360c"}
	}
	panic(fmt.Sprintf("style: unhandled kind %v", k))
}

// Arrow is the marker drawn at the target end of an edge.
type Arrow int

const (
	ArrowTriangle Arrow = iota
	ArrowOpen
	ArrowBar
	ArrowDiamond
	ArrowNone
)

// MarkerID is the SVG marker id for an arrow.
func (a Arrow) MarkerID() string {
	switch a {
	case ArrowTriangle:
		return "arrow-triangle"
	case ArrowOpen:
		return "arrow-open"
	case ArrowBar:
		return "arrow-bar"
	case ArrowDiamond:
		return "arrow-diamond"
	case ArrowNone:
		return ""
	}
	panic(fmt.Sprintf("style: unhandled arrow %d", int(a)))
}

// EdgeStyle is the stroke of an edge role. Dash is an SVG dasharray; empty
// means solid.
type EdgeStyle struct {
	Stroke string
	Width  float64
	Dash   string
	Arrow  Arrow
}

// ForRole returns the stroke for an edge role. Every role maps to a
// distinct encoding.
func ForRole(r argument.Role) EdgeStyle {
	switch r {
	case argument.RolePremise:
		return EdgeStyle{Stroke: "#2e7d32", Width: 1.5, Arrow: ArrowTriangle}
	case argument.RoleConclusion:
		return EdgeStyle{Stroke: "#1b5e20", Width: 2, Arrow: ArrowTriangle}
	case argument.RoleConflictingElement:
		return EdgeStyle{Stroke: "#e53935", Width: 3, Arrow: ArrowBar}
	case argument.RoleConflictedElement:
		return EdgeStyle{Stroke: "#b71c1c", Width: 3, Arrow: ArrowTriangle}
	case argument.RolePreferredElement:
		return EdgeStyle{Stroke: "#1565c0", Width: 2, Dash: "6 4", Arrow: ArrowDiamond}
	case argument.RoleDispreferredElement:
		return EdgeStyle{Stroke: "#64b5f6", Width: 2, Dash: "2 4", Arrow: ArrowOpen}
	case argument.RoleOther:
		return EdgeStyle{Stroke: "#9e9e9e", Width: 1, Arrow: ArrowNone}
	}
	panic(fmt.Sprintf("style: unhandled role %v", r))
}
