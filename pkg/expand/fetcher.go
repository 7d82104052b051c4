package expand

import (
	"context"

	"github.com/matzehuels/argmap/pkg/argument"
)

// Filters narrow a neighborhood lookup.
type Filters struct {
	Depth              int  `json:"depth" toml:"depth"`
	IncludeSupporting  bool `json:"includeSupporting" toml:"include_supporting"`
	IncludeOpposing    bool `json:"includeOpposing" toml:"include_opposing"`
	IncludePreferences bool `json:"includePreferences" toml:"include_preferences"`
}

// DefaultFilters fetches direct neighbors of every role.
func DefaultFilters() Filters {
	return Filters{Depth: 1, IncludeSupporting: true, IncludeOpposing: true, IncludePreferences: true}
}

// Allows reports whether an edge with role r passes the filters. Roles that
// are neither supporting, opposing nor preference always pass.
func (f Filters) Allows(r argument.Role) bool {
	switch {
	case r.IsSupporting():
		return f.IncludeSupporting
	case r.IsOpposing():
		return f.IncludeOpposing
	case r.IsPreference():
		return f.IncludePreferences
	}
	return true
}

// Summary counts the connections of an argument without fetching them.
type Summary struct {
	SupportCount     int `json:"supportCount"`
	ConflictCount    int `json:"conflictCount"`
	PreferenceCount  int `json:"preferenceCount"`
	TotalConnections int `json:"totalConnections"`
}

// Fetcher looks up argument neighborhoods. Implementations live in
// pkg/neighborhood.
type Fetcher interface {
	// Neighborhood returns the elements around argumentID. The result may
	// overlap the current graph; merging deduplicates by id.
	Neighborhood(ctx context.Context, argumentID string, f Filters) (argument.Delta, error)

	// Summary returns connection counts for argumentID.
	Summary(ctx context.Context, argumentID string) (Summary, error)
}
