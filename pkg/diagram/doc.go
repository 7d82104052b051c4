// Package diagram ties the graph model, layout engine, viewport and
// expansion controller into one interactive diagram.
//
// # Usage
//
//	d, err := diagram.New(ctx, payload, diagram.Options{
//		Fetcher:     client,
//		MaxDepth:    3,
//		OnNodeClick: func(n argument.Node) { ... },
//	})
//	defer d.Close()
//
//	d.PointerDown(p, viewport.ModePan)
//	d.PointerMove(q)
//	d.PointerUp()
//
//	if notice, ok := d.Expand(ctx, "RA:42"); ok {
//		show(notice)
//	}
//	svg := d.SVG()
//
// # Layout Swaps
//
// Every change to the graph bumps a version counter. [Diagram.Relayout]
// lays out a snapshot outside the lock and swaps the result in only if no
// layout of a newer graph has been applied meanwhile. Until then the
// previous layout stays visible, and the frame's graph is always the
// snapshot the layout was computed from. A failed layout clears the
// picture to a placeholder rather than keep a stale one.
//
// # Lifetime
//
// [Diagram.Close] cancels in-flight fetches and layouts and waits for the
// background summary refresh to stop.
package diagram
