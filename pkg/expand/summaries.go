package expand

import (
	"context"
	"maps"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/argmap/pkg/argument"
)

// RefreshSummaries fetches connection counts for every rule application in
// nodes that is neither expanded nor summarized yet. Fetches run
// concurrently and are best effort: failures are logged at debug level and
// leave the badge absent. It returns the number of summaries stored.
func (c *Controller) RefreshSummaries(ctx context.Context, nodes []argument.Node) int {
	targets := c.summaryTargets(nodes)
	if len(targets) == 0 {
		return 0
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.SummaryConcurrency)

	stored := make(chan struct{}, len(targets))
	for nodeID, argID := range targets {
		g.Go(func() error {
			defer c.release(nodeID)
			s, err := c.fetcher.Summary(gctx, argID)
			if err != nil {
				c.opts.Logger.Debug("summary unavailable", "node", nodeID, "error", err)
				return nil
			}
			c.sumMu.Lock()
			c.summaries[nodeID] = s
			c.sumMu.Unlock()
			stored <- struct{}{}
			return nil
		})
	}
	_ = g.Wait()
	close(stored)
	return len(stored)
}

// summaryTargets claims the nodes that need a summary so concurrent
// refreshes never fetch the same node twice.
func (c *Controller) summaryTargets(nodes []argument.Node) map[string]string {
	st := c.State()

	c.sumMu.Lock()
	defer c.sumMu.Unlock()
	targets := make(map[string]string)
	for _, n := range nodes {
		if n.Kind != argument.KindRuleApplication || st.IsExpanded(n.ID) {
			continue
		}
		if _, done := c.summaries[n.ID]; done || c.inflight[n.ID] {
			continue
		}
		_, argID, ok := argument.ParseCompoundID(n.ID)
		if !ok {
			continue
		}
		c.inflight[n.ID] = true
		targets[n.ID] = argID
	}
	return targets
}

func (c *Controller) release(nodeID string) {
	c.sumMu.Lock()
	delete(c.inflight, nodeID)
	c.sumMu.Unlock()
}

// Summary returns the stored counts for nodeID.
func (c *Controller) Summary(nodeID string) (Summary, bool) {
	c.sumMu.Lock()
	defer c.sumMu.Unlock()
	s, ok := c.summaries[nodeID]
	return s, ok
}

// Summaries returns a copy of all stored counts keyed by node id.
func (c *Controller) Summaries() map[string]Summary {
	c.sumMu.Lock()
	defer c.sumMu.Unlock()
	return maps.Clone(c.summaries)
}
