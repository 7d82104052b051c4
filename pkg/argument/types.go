package argument

import (
	"fmt"
	"strings"
)

// Kind is the closed set of node kinds. The first four are AIF kinds; the
// remaining five appear in Toulmin tree diagrams.
type Kind int

const (
	// KindStatement is an AIF information node (I-node).
	KindStatement Kind = iota
	// KindRuleApplication is an inference application (RA-node).
	KindRuleApplication
	// KindConflictApplication is an attack (CA-node).
	KindConflictApplication
	// KindPreferenceApplication is a preference (PA-node).
	KindPreferenceApplication

	KindClaim
	KindPremise
	KindWarrant
	KindBacking
	KindRebuttal
)

var kindNames = [...]string{
	KindStatement:             "I",
	KindRuleApplication:       "RA",
	KindConflictApplication:   "CA",
	KindPreferenceApplication: "PA",
	KindClaim:                 "claim",
	KindPremise:               "premise",
	KindWarrant:               "warrant",
	KindBacking:               "backing",
	KindRebuttal:              "rebuttal",
}

// AllKinds returns every kind in declaration order.
func AllKinds() []Kind {
	return []Kind{
		KindStatement, KindRuleApplication, KindConflictApplication, KindPreferenceApplication,
		KindClaim, KindPremise, KindWarrant, KindBacking, KindRebuttal,
	}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsTree reports whether k belongs to the Toulmin tree family.
func (k Kind) IsTree() bool { return k >= KindClaim && k <= KindRebuttal }

// ParseKind accepts the short AIF codes (I, RA, CA, PA), their long names
// and the tree kinds. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "i", "statement", "i-node":
		return KindStatement, nil
	case "ra", "ruleapplication", "rule_application", "inference":
		return KindRuleApplication, nil
	case "ca", "conflictapplication", "conflict_application", "conflict":
		return KindConflictApplication, nil
	case "pa", "preferenceapplication", "preference_application", "preference":
		return KindPreferenceApplication, nil
	case "claim":
		return KindClaim, nil
	case "premise":
		return KindPremise, nil
	case "warrant":
		return KindWarrant, nil
	case "backing":
		return KindBacking, nil
	case "rebuttal":
		return KindRebuttal, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Role labels how an edge's endpoints participate in an inference,
// conflict or preference.
type Role int

const (
	RolePremise Role = iota
	RoleConclusion
	RoleConflictingElement
	RoleConflictedElement
	RolePreferredElement
	RoleDispreferredElement
	RoleOther
)

var roleNames = [...]string{
	RolePremise:             "premise",
	RoleConclusion:          "conclusion",
	RoleConflictingElement:  "conflictingElement",
	RoleConflictedElement:   "conflictedElement",
	RolePreferredElement:    "preferredElement",
	RoleDispreferredElement: "dispreferredElement",
	RoleOther:               "other",
}

// AllRoles returns every role in declaration order.
func AllRoles() []Role {
	return []Role{
		RolePremise, RoleConclusion, RoleConflictingElement, RoleConflictedElement,
		RolePreferredElement, RoleDispreferredElement, RoleOther,
	}
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// ParseRole maps a role name to a Role. Unrecognized names become RoleOther.
func ParseRole(s string) Role {
	for i, name := range roleNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Role(i)
		}
	}
	return RoleOther
}

// IsSupporting reports whether the role is part of an inference.
func (r Role) IsSupporting() bool { return r == RolePremise || r == RoleConclusion }

// IsOpposing reports whether the role is part of a conflict.
func (r Role) IsOpposing() bool {
	return r == RoleConflictingElement || r == RoleConflictedElement
}

// IsPreference reports whether the role is part of a preference.
func (r Role) IsPreference() bool {
	return r == RolePreferredElement || r == RoleDispreferredElement
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(b []byte) error {
	*r = ParseRole(string(b))
	return nil
}

// Node is a vertex of an argument graph.
type Node struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"kind"`
	Label     string `json:"label,omitempty"`
	SchemeKey string `json:"schemeKey,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed, role-labelled connection. Either endpoint may be
// missing from the graph; such edges are never drawn.
type Edge struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Role Role   `json:"role"`
}
