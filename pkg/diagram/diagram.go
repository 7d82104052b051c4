package diagram

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/errors"
	"github.com/matzehuels/argmap/pkg/expand"
	"github.com/matzehuels/argmap/pkg/layout"
	"github.com/matzehuels/argmap/pkg/layout/graphviz"
	"github.com/matzehuels/argmap/pkg/render"
	"github.com/matzehuels/argmap/pkg/viewport"
)

// Options configures a [Diagram]. The zero value is usable: it lays out with
// Graphviz, has no neighborhood source and draws on the default canvas.
type Options struct {
	// Engine computes layouts. Nil uses the Graphviz solver with default
	// spacing and no cache.
	Engine *layout.Engine

	// Fetcher loads neighborhoods and summaries. Nil disables expansion.
	Fetcher expand.Fetcher

	Filters  expand.Filters
	MaxDepth int

	Canvas      viewport.Canvas
	ZoomOut     float64
	Sensitivity float64
	Minimap     bool

	// OnNodeClick receives the domain node of every click on a node.
	OnNodeClick func(argument.Node)

	// OnNotice receives every notice meant for the user.
	OnNotice func(errors.Notice)

	Logger *log.Logger
}

// Diagram is one interactive diagram instance. It owns its graph, layout,
// viewport and expansion state; nothing is shared between diagrams.
//
// All methods are safe for concurrent use.
type Diagram struct {
	id     string
	kind   argument.DiagramType
	opts   Options
	logger *log.Logger
	engine *layout.Engine

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	expander *expand.Controller

	mu       sync.RWMutex
	graph    *argument.Graph
	tree     *argument.Tree
	version  uint64 // bumped on every graph change
	applied  uint64 // version of the graph the current layout was computed from
	shown    *argument.Graph
	layout   *layout.Result
	view     *viewport.Controller
	hover    string
	selected string
	notice   *errors.Notice
	closed   bool
}

// New builds a diagram from p, runs the initial layout and fits the
// viewport to it. A failed initial layout is not an error: the diagram
// shows the placeholder and records a notice.
func New(ctx context.Context, p argument.Payload, opts Options) (*Diagram, error) {
	g, err := p.Graph()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPayload, err, "invalid diagram payload")
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if !opts.Canvas.Valid() {
		opts.Canvas = viewport.DefaultCanvas()
	}
	engine := opts.Engine
	if engine == nil {
		sp := layout.DefaultSpacing()
		engine = layout.NewEngine(graphviz.New(sp), sp, nil, opts.Logger)
	}

	var vopts []viewport.Option
	if opts.ZoomOut > 0 {
		vopts = append(vopts, viewport.WithZoomOut(opts.ZoomOut))
	}
	if opts.Sensitivity > 0 {
		vopts = append(vopts, viewport.WithSensitivity(opts.Sensitivity))
	}

	d := &Diagram{
		id:     uuid.NewString(),
		kind:   p.Type,
		opts:   opts,
		logger: opts.Logger,
		engine: engine,
		graph:  g,
		view:   viewport.NewController(opts.Canvas, vopts...),
	}
	if p.Type == argument.TypeTree && p.Tree != nil {
		t := p.Tree.Clone()
		d.tree = &t
	}
	d.ctx, d.cancel = context.WithCancel(context.Background())

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = noFetcher{}
	}
	d.expander = expand.New(lockedGraph{d}, fetcher, expand.Options{
		Filters:  opts.Filters,
		MaxDepth: opts.MaxDepth,
		Logger:   opts.Logger,
	})

	d.Relayout(ctx)
	d.ResetView()

	if opts.Fetcher != nil {
		d.refreshInBackground()
	}

	d.logger.Debug("created diagram", "id", d.id, "type", d.kind, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return d, nil
}

// ID returns the random session id assigned by [New].
func (d *Diagram) ID() string { return d.id }

// Type returns the diagram type.
func (d *Diagram) Type() argument.DiagramType { return d.kind }

// Relayout lays out the current graph. The computation runs without holding
// the diagram lock; the previous layout stays visible until the result is
// swapped in. A result computed from an older graph than the one already
// shown is discarded. On failure the layout is cleared and a blocking notice
// recorded, so a stale layout is never shown.
func (d *Diagram) Relayout(ctx context.Context) error {
	ctx, done := d.bind(ctx)
	defer done()

	d.mu.RLock()
	version := d.version
	in := layout.Input{Type: d.kind}
	var snapshot *argument.Graph
	switch {
	case d.tree != nil:
		t := d.tree.Clone()
		in.Tree = &t
	default:
		snapshot = d.graph.Clone()
		in.Graph = snapshot
	}
	d.mu.RUnlock()

	if in.Tree != nil {
		g, err := in.Tree.Graph()
		if err != nil {
			return d.applyLayout(version, nil, nil, errors.Wrap(errors.ErrCodeLayout, err, "no layout available"))
		}
		snapshot = g
	}

	start := time.Now()
	r, err := d.engine.Compute(ctx, in)
	if err != nil {
		return d.applyLayout(version, nil, nil, err)
	}
	d.logger.Debug("relayout", "id", d.id, "nodes", len(r.Nodes), "duration", time.Since(start))
	return d.applyLayout(version, snapshot, r, nil)
}

func (d *Diagram) applyLayout(version uint64, g *argument.Graph, r *layout.Result, err error) error {
	d.mu.Lock()
	if d.closed || version < d.applied {
		d.mu.Unlock()
		return err
	}
	d.applied = version
	d.shown, d.layout = g, r
	var n *errors.Notice
	if err != nil {
		d.logger.Warn("layout failed", "id", d.id, "error", err)
		if notice, ok := errors.NoticeFor(err); ok {
			n = &notice
		}
		d.notice = n
	} else if d.notice != nil && d.notice.Code == errors.ErrCodeLayout {
		d.notice = nil
	}
	d.mu.Unlock()

	if n != nil {
		d.emit(*n)
	}
	return err
}

// Expand fetches and merges the neighborhood of nodeID and relays out. It
// returns the notice to show, if any; silent rejections return false.
func (d *Diagram) Expand(ctx context.Context, nodeID string) (errors.Notice, bool) {
	ctx, done := d.bind(ctx)
	defer done()

	stats, err := d.expander.Expand(ctx, nodeID)
	if err != nil {
		n, ok := errors.NoticeFor(err)
		if ok {
			d.mu.Lock()
			d.notice = &n
			d.mu.Unlock()
			d.emit(n)
		}
		return n, ok
	}

	if stats.NodesAdded > 0 || stats.EdgesAdded > 0 {
		d.Relayout(ctx)
		d.refreshInBackground()
	}
	return errors.Notice{}, false
}

// RefreshSummaries fetches connection counts for every unexpanded rule
// application and returns how many were stored.
func (d *Diagram) RefreshSummaries(ctx context.Context) int {
	ctx, done := d.bind(ctx)
	defer done()

	d.mu.RLock()
	nodes := d.graph.NodesOfKind(argument.KindRuleApplication)
	d.mu.RUnlock()
	return d.expander.RefreshSummaries(ctx, nodes)
}

func (d *Diagram) refreshInBackground() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()
	go func() {
		defer d.wg.Done()
		d.RefreshSummaries(d.ctx)
	}()
}

// Hover sets the hovered node. An empty id clears it.
func (d *Diagram) Hover(nodeID string) {
	d.mu.Lock()
	d.hover = nodeID
	d.mu.Unlock()
}

// Select sets the selected node. An empty id clears it.
func (d *Diagram) Select(nodeID string) {
	d.mu.Lock()
	d.selected = nodeID
	d.mu.Unlock()
}

// Click selects nodeID and passes the node to the click callback. It
// reports false when the node does not exist.
func (d *Diagram) Click(nodeID string) bool {
	d.mu.Lock()
	n, ok := d.graph.Node(nodeID)
	if ok {
		d.selected = nodeID
	}
	d.mu.Unlock()

	if ok && d.opts.OnNodeClick != nil {
		d.opts.OnNodeClick(n)
	}
	return ok
}

// PointerDown starts a pan or zoom drag at screen point p.
func (d *Diagram) PointerDown(p viewport.Point, m viewport.Mode) {
	d.mu.Lock()
	d.view.PointerDown(p, m)
	d.mu.Unlock()
}

// PointerMove continues a drag and returns the new viewport.
func (d *Diagram) PointerMove(p viewport.Point) viewport.Viewport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.PointerMove(p)
}

// PointerUp ends a drag.
func (d *Diagram) PointerUp() {
	d.mu.Lock()
	d.view.PointerUp()
	d.mu.Unlock()
}

// Wheel zooms around the screen point anchor by a wheel delta.
func (d *Diagram) Wheel(anchor viewport.Point, dy float64) viewport.Viewport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.Wheel(anchor, dy)
}

// Pan moves the viewport by a screen-space delta.
func (d *Diagram) Pan(delta viewport.Point) viewport.Viewport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.PanBy(delta)
}

// ResetView fits the viewport to the current layout.
func (d *Diagram) ResetView() viewport.Viewport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.Reset(d.layout.Bounds())
}

// Viewport returns the current viewport.
func (d *Diagram) Viewport() viewport.Viewport {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.view.Viewport()
}

// Layout returns the current layout, or nil when none is available.
func (d *Diagram) Layout() *layout.Result {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.layout
}

// Graph returns a copy of the current graph.
func (d *Diagram) Graph() *argument.Graph {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.graph.Clone()
}

// Expansion returns the expansion state.
func (d *Diagram) Expansion() expand.State { return d.expander.State() }

// Notice returns the last notice meant for the user.
func (d *Diagram) Notice() (errors.Notice, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.notice == nil {
		return errors.Notice{}, false
	}
	return *d.notice, true
}

// DismissNotice clears the last notice.
func (d *Diagram) DismissNotice() {
	d.mu.Lock()
	d.notice = nil
	d.mu.Unlock()
}

// Frame returns everything needed to draw the diagram now. The graph in the
// frame is the one the layout was computed from.
func (d *Diagram) Frame() render.Frame {
	state := d.expander.State()
	summaries := d.expander.Summaries()

	d.mu.RLock()
	defer d.mu.RUnlock()
	return render.Frame{
		Graph:     d.shown,
		Layout:    d.layout,
		Viewport:  d.view.Viewport(),
		Canvas:    d.view.Canvas(),
		Expansion: state,
		Summaries: summaries,
		Hover:     d.hover,
		Selected:  d.selected,
		Minimap:   d.opts.Minimap,
	}
}

// Scene renders the current frame.
func (d *Diagram) Scene() render.Scene { return render.Render(d.Frame()) }

// SVG renders the current frame as SVG.
func (d *Diagram) SVG() []byte { return render.SVG(d.Scene()) }

// Close cancels in-flight fetches and layouts and waits for background
// work to stop. Close is idempotent.
func (d *Diagram) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
	d.logger.Debug("closed diagram", "id", d.id)
}

// bind derives a context that is also cancelled by Close.
func (d *Diagram) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(d.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (d *Diagram) emit(n errors.Notice) {
	if d.opts.OnNotice != nil {
		d.opts.OnNotice(n)
	}
}

// lockedGraph lets the expansion controller read and grow the diagram's
// graph under the diagram lock. The controller holds its own lock while
// calling in, so the diagram never calls the controller with d.mu held.
type lockedGraph struct{ d *Diagram }

func (l lockedGraph) Node(id string) (argument.Node, bool) {
	l.d.mu.RLock()
	defer l.d.mu.RUnlock()
	return l.d.graph.Node(id)
}

func (l lockedGraph) Merge(delta argument.Delta) argument.MergeStats {
	l.d.mu.Lock()
	defer l.d.mu.Unlock()
	stats := l.d.graph.Merge(delta)
	if stats.NodesAdded > 0 || stats.EdgesAdded > 0 {
		l.d.version++
	}
	return stats
}

type noFetcher struct{}

func (noFetcher) Neighborhood(context.Context, string, expand.Filters) (argument.Delta, error) {
	return argument.Delta{}, errors.New(errors.ErrCodeUnsupported, "this diagram has no neighborhood source")
}

func (noFetcher) Summary(context.Context, string) (expand.Summary, error) {
	return expand.Summary{}, errors.New(errors.ErrCodeUnsupported, "this diagram has no neighborhood source")
}
