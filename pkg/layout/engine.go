package layout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/cache"
	"github.com/matzehuels/argmap/pkg/errors"
	"github.com/matzehuels/argmap/pkg/observability"
)

// TTLLayout is how long computed layouts stay in the cache.
const TTLLayout = 24 * time.Hour

// Input is what the engine lays out. Graph is required for AIF diagrams and
// Tree for tree diagrams.
type Input struct {
	Type  argument.DiagramType
	Graph *argument.Graph
	Tree  *argument.Tree
}

// Engine selects a strategy by diagram type and runs it.
//
// The Engine holds no per-diagram state, so one Engine can serve many
// diagrams concurrently.
type Engine struct {
	Layered     Layered
	Topological Topological
	Cache       cache.Cache
	Logger      *log.Logger
}

// NewEngine creates an engine using solver for AIF diagrams. A nil cache
// disables caching; a nil logger discards output.
func NewEngine(solver Solver, spacing Spacing, c cache.Cache, logger *log.Logger) *Engine {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		Layered:     Layered{Solver: solver},
		Topological: Topological{Spacing: spacing},
		Cache:       c,
		Logger:      logger,
	}
}

// Compute lays out in. Failures are wrapped with [errors.ErrCodeLayout]; the
// caller shows a placeholder instead of any earlier layout.
func (e *Engine) Compute(ctx context.Context, in Input) (*Result, error) {
	strategy, err := strategyFor(in)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayout, err, "select layout strategy")
	}

	key, keyErr := e.cacheKey(strategy, in)
	if keyErr == nil && e.Cache != nil {
		if data, hit, err := e.Cache.Get(ctx, key); err == nil && hit {
			if r, err := UnmarshalResult(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return r, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	nodeCount := 0
	if in.Graph != nil {
		nodeCount = in.Graph.NodeCount()
	} else if in.Tree != nil {
		nodeCount = len(in.Tree.Statements)
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, string(strategy), nodeCount)
	start := time.Now()

	var r *Result
	switch strategy {
	case StrategyLayered:
		r, err = e.Layered.Compute(ctx, in.Graph)
	case StrategyTopological:
		r, err = e.Topological.Compute(*in.Tree)
	}
	hooks.OnLayoutComplete(ctx, string(strategy), time.Since(start), err)

	if err != nil {
		e.logger().Warn("layout failed", "strategy", strategy, "nodes", nodeCount, "error", err)
		return nil, errors.Wrap(errors.ErrCodeLayout, err, "no layout available")
	}

	e.logger().Debug("computed layout",
		"strategy", strategy,
		"nodes", len(r.Nodes),
		"edges", len(r.Edges),
		"duration", time.Since(start))

	if keyErr == nil && e.Cache != nil {
		if data, err := json.Marshal(r); err == nil {
			if err := e.Cache.Set(ctx, key, data, TTLLayout); err == nil {
				observability.Cache().OnCacheSet(ctx, "layout", len(data))
			}
		}
	}
	return r, nil
}

func (e *Engine) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}

func strategyFor(in Input) (Strategy, error) {
	switch in.Type {
	case argument.TypeAIF:
		if in.Graph == nil {
			return "", fmt.Errorf("aif diagram without graph")
		}
		return StrategyLayered, nil
	case argument.TypeTree:
		if in.Tree == nil {
			return "", fmt.Errorf("tree diagram without statements")
		}
		return StrategyTopological, nil
	}
	return "", fmt.Errorf("unknown diagram type %q", in.Type)
}

// cacheKey hashes everything the result depends on.
func (e *Engine) cacheKey(s Strategy, in Input) (string, error) {
	var (
		payload any
		solver  string
		spacing Spacing
	)
	switch s {
	case StrategyLayered:
		payload = argument.Delta{Nodes: in.Graph.Nodes(), Edges: in.Graph.DrawableEdges()}
		solver = describeSolver(e.Layered.Solver)
	case StrategyTopological:
		payload = in.Tree
		spacing = e.Topological.Spacing.withDefaults()
	}
	data, err := json.Marshal(struct {
		Strategy Strategy `json:"strategy"`
		Solver   string   `json:"solver,omitempty"`
		Spacing  Spacing  `json:"spacing"`
		Graph    any      `json:"graph"`
	}{s, solver, spacing, payload})
	if err != nil {
		return "", err
	}
	return "layout:" + cache.Hash(data), nil
}

// UnmarshalResult decodes a JSON-encoded [Result].
func UnmarshalResult(data []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	out := newResult(r.Strategy, r.Nodes, r.Edges)
	out.Layers = r.Layers
	return out, nil
}
