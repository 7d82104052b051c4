// Package render draws argument diagrams.
//
// # Overview
//
// [Render] is a pure function from a [Frame] (graph, layout, viewport,
// expansion state, hover and selection) to a [Scene]: the list of
// primitives to draw, in order. Hosts either walk the scene themselves or
// encode it with [WriteSVG].
//
// Draw order is background grid, edges, nodes, busy overlays, badges and
// finally the optional minimap. Node shapes, colors and edge strokes come
// from the style package; nothing here hardcodes the visual encoding of a
// kind or role.
//
//	scene := render.Render(render.Frame{
//		Graph:    g,
//		Layout:   result,
//		Viewport: vp,
//		Canvas:   viewport.DefaultCanvas(),
//	})
//	err := render.WriteSVG(w, scene)
//
// # Degraded Input
//
// A nil layout renders only a "No layout available" placeholder. Edges
// whose source or target is missing are skipped; the rest of the diagram
// renders normally.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg).
package render
