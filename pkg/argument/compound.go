package argument

import "strings"

// CompoundID joins a kind prefix and a domain argument identifier as
// "<kind>:<argumentId>".
func CompoundID(k Kind, argumentID string) string {
	return k.String() + ":" + argumentID
}

// ParseCompoundID splits "<kind>:<argumentId>". It reports false when the
// separator is missing, either part is empty, or the prefix is not a known kind.
func ParseCompoundID(id string) (Kind, string, bool) {
	prefix, rest, ok := strings.Cut(id, ":")
	if !ok || prefix == "" || rest == "" {
		return 0, "", false
	}
	k, err := ParseKind(prefix)
	if err != nil {
		return 0, "", false
	}
	return k, rest, true
}
