package expand

import (
	"context"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/errors"
	"github.com/matzehuels/argmap/pkg/observability"
)

// DefaultMaxDepth is the number of expansions allowed per diagram.
const DefaultMaxDepth = 3

// Graph is the part of the diagram model the controller reads and grows.
// *argument.Graph satisfies it.
type Graph interface {
	Node(id string) (argument.Node, bool)
	Merge(d argument.Delta) argument.MergeStats
}

// State is a snapshot of the expansion state. Pending is empty when idle.
type State struct {
	Expanded     []string `json:"expanded"`
	CurrentDepth int      `json:"currentDepth"`
	MaxDepth     int      `json:"maxDepth"`
	Pending      string   `json:"pending,omitempty"`
}

// Busy reports whether an expansion is in flight.
func (s State) Busy() bool { return s.Pending != "" }

// IsExpanded reports whether id has been expanded.
func (s State) IsExpanded(id string) bool {
	_, ok := slices.BinarySearch(s.Expanded, id)
	return ok
}

// Options configures a [Controller].
type Options struct {
	Filters  Filters
	MaxDepth int

	// SummaryConcurrency bounds parallel summary fetches.
	SummaryConcurrency int

	// OnMerged runs after every successful merge, outside the controller
	// lock. Diagrams use it to trigger relayout.
	OnMerged func(argument.MergeStats)

	Logger *log.Logger
}

// Controller is the per-diagram expansion state machine. It is either idle
// or expanding exactly one node; requests while expanding are rejected, not
// queued.
type Controller struct {
	graph   Graph
	fetcher Fetcher
	opts    Options

	mu        sync.Mutex
	expanded  map[string]bool
	depth     int
	pending   string
	startedAt time.Time

	sumMu     sync.Mutex
	summaries map[string]Summary
	inflight  map[string]bool
}

// New creates an idle controller over g.
func New(g Graph, f Fetcher, opts Options) *Controller {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Filters == (Filters{}) {
		opts.Filters = DefaultFilters()
	}
	if opts.SummaryConcurrency <= 0 {
		opts.SummaryConcurrency = 4
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Controller{
		graph:     g,
		fetcher:   f,
		opts:      opts,
		expanded:  make(map[string]bool),
		summaries: make(map[string]Summary),
		inflight:  make(map[string]bool),
	}
}

// State returns a snapshot with Expanded sorted.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.expanded))
	for id := range c.expanded {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return State{Expanded: ids, CurrentDepth: c.depth, MaxDepth: c.opts.MaxDepth, Pending: c.pending}
}

// Begin checks the guard and moves to Expanding(nodeID). It returns the
// domain argument id to fetch.
//
// Guard order: busy, malformed or non-rule-application id, already
// expanded, depth limit. Only the depth limit is meant to be shown to the
// user; see [errors.Severity].
func (c *Controller) Begin(ctx context.Context, nodeID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != "" {
		return "", c.reject(ctx, nodeID, errors.New(errors.ErrCodeExpansionBusy, "already expanding %s", c.pending))
	}

	argID, err := c.expandableArgument(nodeID)
	if err != nil {
		return "", c.reject(ctx, nodeID, err)
	}

	if c.expanded[nodeID] {
		return "", c.reject(ctx, nodeID, errors.New(errors.ErrCodeAlreadyExpanded, "%s is already expanded", nodeID))
	}

	if c.depth >= c.opts.MaxDepth {
		return "", c.reject(ctx, nodeID, errors.New(errors.ErrCodeDepthLimit,
			"maximum expansion depth of %d reached", c.opts.MaxDepth))
	}

	c.pending = nodeID
	c.startedAt = time.Now()
	observability.Expansion().OnExpandStart(ctx, nodeID, c.depth)
	return argID, nil
}

func (c *Controller) expandableArgument(nodeID string) (string, error) {
	kind, argID, ok := argument.ParseCompoundID(nodeID)
	if !ok {
		return "", errors.New(errors.ErrCodeMalformedID, "not a compound id: %q", nodeID)
	}
	if err := errors.ValidateArgumentID(argID); err != nil {
		return "", err
	}
	if kind != argument.KindRuleApplication {
		return "", errors.New(errors.ErrCodeNotExpandable, "%s is not a rule application", nodeID)
	}
	n, ok := c.graph.Node(nodeID)
	if !ok || n.Kind != argument.KindRuleApplication {
		return "", errors.New(errors.ErrCodeNotExpandable, "%s is not a rule application in this diagram", nodeID)
	}
	return argID, nil
}

func (c *Controller) reject(ctx context.Context, nodeID string, err error) error {
	observability.Expansion().OnExpandRejected(ctx, nodeID, string(errors.GetCode(err)))
	c.opts.Logger.Debug("expansion rejected", "node", nodeID, "reason", errors.GetCode(err))
	return err
}

// Succeed merges delta, marks the pending node expanded, increments the
// depth up to the maximum and returns to idle. Calls for a node that is not
// pending are ignored.
func (c *Controller) Succeed(ctx context.Context, nodeID string, delta argument.Delta) argument.MergeStats {
	c.mu.Lock()
	if c.pending != nodeID || nodeID == "" {
		c.mu.Unlock()
		return argument.MergeStats{}
	}
	stats := c.graph.Merge(delta)
	c.expanded[nodeID] = true
	c.depth = min(c.depth+1, c.opts.MaxDepth)
	c.pending = ""
	elapsed := time.Since(c.startedAt)
	depth := c.depth
	c.mu.Unlock()

	observability.Expansion().OnExpandComplete(ctx, nodeID, stats.NodesAdded, stats.EdgesAdded, elapsed, nil)
	c.opts.Logger.Info("expanded node",
		"node", nodeID,
		"nodes_added", stats.NodesAdded,
		"edges_added", stats.EdgesAdded,
		"depth", depth,
		"duration", elapsed)

	if c.opts.OnMerged != nil {
		c.opts.OnMerged(stats)
	}
	return stats
}

// Fail returns to idle without merging. The node stays unexpanded and can
// be requested again. The returned error is blocking.
func (c *Controller) Fail(ctx context.Context, nodeID string, cause error) error {
	c.mu.Lock()
	if c.pending == nodeID {
		c.pending = ""
	}
	elapsed := time.Since(c.startedAt)
	c.mu.Unlock()

	observability.Expansion().OnExpandComplete(ctx, nodeID, 0, 0, elapsed, cause)
	c.opts.Logger.Warn("expansion failed", "node", nodeID, "error", cause)
	return errors.Wrap(errors.ErrCodeExpansion, cause, "could not expand %s", nodeID)
}

// Expand runs Begin, the neighborhood fetch, and Succeed or Fail.
func (c *Controller) Expand(ctx context.Context, nodeID string) (argument.MergeStats, error) {
	argID, err := c.Begin(ctx, nodeID)
	if err != nil {
		return argument.MergeStats{}, err
	}
	delta, err := c.fetcher.Neighborhood(ctx, argID, c.opts.Filters)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return argument.MergeStats{}, c.Fail(ctx, nodeID, err)
	}
	return c.Succeed(ctx, nodeID, delta), nil
}
