// Package expand grows an argument graph one rule application at a time.
//
// # Overview
//
// A [Controller] owns the expansion state of a single diagram: which nodes
// have been expanded, how deep the diagram has grown, and whether a fetch is
// in flight. It is either idle or expanding exactly one node. Requests made
// while a fetch is running are rejected with EXPANSION_BUSY rather than
// queued.
//
// # Expanding
//
// [Controller.Expand] checks the guard, asks the [Fetcher] for the node's
// neighborhood and merges the result into the graph by id:
//
//	c := expand.New(g, fetcher, expand.Options{MaxDepth: 3})
//	stats, err := c.Expand(ctx, "RA:42")
//
// Only RA nodes can be expanded. Malformed ids, other kinds and nodes that
// were already expanded are rejected silently; reaching the depth limit is
// reported as an informational notice. A failed fetch leaves the node
// unexpanded so the user can try again. Use [errors.Severity] to decide how
// to surface a rejection.
//
// Callers that fetch asynchronously can drive the state machine directly
// with [Controller.Begin], [Controller.Succeed] and [Controller.Fail].
//
// # Summaries
//
// [Controller.RefreshSummaries] fetches connection counts for unexpanded RA
// nodes concurrently. Renderers use them to badge nodes that have more to
// show.
//
// [errors.Severity]: github.com/matzehuels/argmap/pkg/errors.Severity
package expand
