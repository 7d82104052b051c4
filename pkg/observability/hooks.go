// Package observability lets a host watch the diagram engine without the
// engine depending on a metrics or tracing backend.
//
// Events are grouped by concern. Each group is an interface with a no-op
// default, and a host swaps in its own implementations once at startup:
//
//	observability.Register(observability.Hooks{
//	    Layout: myLayoutMetrics{},
//	    HTTP:   myTracer{},
//	})
//
// Groups left nil keep their current implementation. [NewLogHooks] returns a
// ready-made set that writes every event to a charmbracelet logger at debug
// level; the CLI registers it for --verbose.
//
// Emitting is a call on the current group:
//
//	observability.Layout().OnLayoutStart(ctx, "layered", len(nodes))
package observability

import (
	"context"
	"sync"
	"time"
)

// LayoutHooks receives layout engine runs.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, strategy string, nodeCount int)
	OnLayoutComplete(ctx context.Context, strategy string, duration time.Duration, err error)
}

// ExpansionHooks receives expansion state machine transitions.
type ExpansionHooks interface {
	// OnExpandStart fires when a fetch leaves the Idle state.
	OnExpandStart(ctx context.Context, nodeID string, depth int)
	// OnExpandComplete fires when the fetch finished, with the elements the
	// merge added.
	OnExpandComplete(ctx context.Context, nodeID string, nodesAdded, edgesAdded int, duration time.Duration, err error)
	// OnExpandRejected fires when the guard refused without fetching.
	OnExpandRejected(ctx context.Context, nodeID string, reason string)
}

// CacheHooks receives cache lookups by key kind (neighborhood, summary,
// layout).
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// HTTPHooks receives requests to the argument service.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, status int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// SessionHooks receives diagram session lifecycle events from the server.
// live is the number of sessions after the event.
type SessionHooks interface {
	OnSessionOpen(id string, live int)
	OnSessionClose(id, reason string, live int)
}

// Session close reasons.
const (
	CloseDeleted  = "deleted"
	CloseExpired  = "expired"
	CloseShutdown = "shutdown"
)

// Hooks bundles one implementation per group.
type Hooks struct {
	Layout    LayoutHooks
	Expansion ExpansionHooks
	Cache     CacheHooks
	HTTP      HTTPHooks
	Session   SessionHooks
}

// Noop implements every hook group and does nothing.
type Noop struct{}

func (Noop) OnLayoutStart(context.Context, string, int)                               {}
func (Noop) OnLayoutComplete(context.Context, string, time.Duration, error)           {}
func (Noop) OnExpandStart(context.Context, string, int)                               {}
func (Noop) OnExpandComplete(context.Context, string, int, int, time.Duration, error) {}
func (Noop) OnExpandRejected(context.Context, string, string)                         {}
func (Noop) OnCacheHit(context.Context, string)                                       {}
func (Noop) OnCacheMiss(context.Context, string)                                      {}
func (Noop) OnCacheSet(context.Context, string, int)                                  {}
func (Noop) OnRequest(context.Context, string, string, string)                        {}
func (Noop) OnResponse(context.Context, string, string, string, int, time.Duration)   {}
func (Noop) OnError(context.Context, string, string, string, error)                   {}
func (Noop) OnSessionOpen(string, int)                                                {}
func (Noop) OnSessionClose(string, string, int)                                       {}

func defaults() Hooks {
	return Hooks{Layout: Noop{}, Expansion: Noop{}, Cache: Noop{}, HTTP: Noop{}, Session: Noop{}}
}

var (
	mu      sync.RWMutex
	current = defaults()
)

// Register replaces the groups set in h. Nil groups are left alone.
func Register(h Hooks) {
	mu.Lock()
	defer mu.Unlock()
	if h.Layout != nil {
		current.Layout = h.Layout
	}
	if h.Expansion != nil {
		current.Expansion = h.Expansion
	}
	if h.Cache != nil {
		current.Cache = h.Cache
	}
	if h.HTTP != nil {
		current.HTTP = h.HTTP
	}
	if h.Session != nil {
		current.Session = h.Session
	}
}

// Reset restores the no-op defaults.
func Reset() {
	mu.Lock()
	current = defaults()
	mu.Unlock()
}

func get() Hooks {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks { return get().Layout }

// Expansion returns the registered expansion hooks.
func Expansion() ExpansionHooks { return get().Expansion }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return get().Cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return get().HTTP }

// Session returns the registered session hooks.
func Session() SessionHooks { return get().Session }
