package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks writes every event to a logger at debug level.
type logHooks struct {
	l *log.Logger
}

// NewLogHooks returns hooks for every group that log to l.
func NewLogHooks(l *log.Logger) Hooks {
	h := logHooks{l: l.WithPrefix("obs")}
	return Hooks{Layout: h, Expansion: h, Cache: h, HTTP: h, Session: h}
}

func (h logHooks) OnLayoutStart(_ context.Context, strategy string, nodeCount int) {
	h.l.Debug("layout start", "strategy", strategy, "nodes", nodeCount)
}

func (h logHooks) OnLayoutComplete(_ context.Context, strategy string, d time.Duration, err error) {
	if err != nil {
		h.l.Debug("layout failed", "strategy", strategy, "duration", d, "error", err)
		return
	}
	h.l.Debug("layout done", "strategy", strategy, "duration", d)
}

func (h logHooks) OnExpandStart(_ context.Context, nodeID string, depth int) {
	h.l.Debug("expand start", "node", nodeID, "depth", depth)
}

func (h logHooks) OnExpandComplete(_ context.Context, nodeID string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.l.Debug("expand failed", "node", nodeID, "duration", d, "error", err)
		return
	}
	h.l.Debug("expand done", "node", nodeID, "nodes", nodes, "edges", edges, "duration", d)
}

func (h logHooks) OnExpandRejected(_ context.Context, nodeID, reason string) {
	h.l.Debug("expand rejected", "node", nodeID, "reason", reason)
}

func (h logHooks) OnCacheHit(_ context.Context, kind string) {
	h.l.Debug("cache hit", "kind", kind)
}

func (h logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.l.Debug("cache miss", "kind", kind)
}

func (h logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.l.Debug("cache set", "kind", kind, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.l.Debug("request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.l.Debug("response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.l.Debug("request failed", "method", method, "host", host, "path", path, "error", err)
}

func (h logHooks) OnSessionOpen(id string, live int) {
	h.l.Debug("session open", "id", id, "live", live)
}

func (h logHooks) OnSessionClose(id, reason string, live int) {
	h.l.Debug("session close", "id", id, "reason", reason, "live", live)
}
