package expand

import (
	"context"
	"runtime"
	"testing"

	"github.com/matzehuels/argmap/pkg/argument"
)

func runtimeYield() { runtime.Gosched() }

func TestRefreshSummaries(t *testing.T) {
	g := seedGraph(t)
	f := &fakeFetcher{
		deltas:    map[string]argument.Delta{"a1": a1Delta()},
		summaries: map[string]Summary{"a2": {SupportCount: 2, ConflictCount: 1, TotalConnections: 3}},
	}
	c := New(g, f, Options{})
	if _, err := c.Expand(context.Background(), "RA:a1"); err != nil {
		t.Fatalf("Expand: %v", err)
	}

	// RA:a1 is expanded and RA:a3 has no summary (fetch fails silently).
	n := c.RefreshSummaries(context.Background(), g.Nodes())
	if n != 1 {
		t.Errorf("stored = %d, want 1", n)
	}
	if got := f.sumCalls.Load(); got != 2 {
		t.Errorf("summary calls = %d, want 2 (a2, a3)", got)
	}
	s, ok := c.Summary("RA:a2")
	if !ok || s.TotalConnections != 3 {
		t.Errorf("Summary(RA:a2) = %+v, %v", s, ok)
	}
	if _, ok := c.Summary("RA:a3"); ok {
		t.Error("failed summary should be absent")
	}

	// Already summarized nodes are skipped; failed ones are retried.
	c.RefreshSummaries(context.Background(), g.Nodes())
	if got := f.sumCalls.Load(); got != 3 {
		t.Errorf("summary calls = %d, want 3", got)
	}
	if len(c.Summaries()) != 1 {
		t.Errorf("Summaries = %v", c.Summaries())
	}
}

func TestFiltersAllows(t *testing.T) {
	f := Filters{IncludeSupporting: true}
	if !f.Allows(argument.RolePremise) || f.Allows(argument.RoleConflictedElement) || f.Allows(argument.RolePreferredElement) {
		t.Error("Allows mismatch for supporting-only filters")
	}
	if !f.Allows(argument.RoleOther) {
		t.Error("other roles always pass")
	}
}
