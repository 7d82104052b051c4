package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/style"
)

const interactionCSS = `
    .node { cursor: pointer; }
    .node.selected .outline { stroke-width: 3; }
    .node.expanded .outline { stroke-dasharray: none; }
    .badge text { font: bold 11px sans-serif; fill: #ffffff; }
    .placeholder { font: 16px sans-serif; fill: #9e9e9e; }`

// WriteSVG encodes s as a standalone SVG document. The viewBox is the
// scene viewport and the width and height are the canvas size.
func WriteSVG(w io.Writer, s Scene) error {
	_, err := w.Write(SVG(s))
	return err
}

// SVG returns s encoded as SVG.
func SVG(s Scene) []byte {
	var buf bytes.Buffer
	v := s.Viewport
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(v.X), num(v.Y), num(v.Width), num(v.Height), s.Canvas.Width, s.Canvas.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)

	if s.Placeholder != "" {
		c := v.Center()
		fmt.Fprintf(&buf, `  <text class="placeholder" x="%s" y="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			num(c.X), num(c.Y), escapeXML(s.Placeholder))
		buf.WriteString("</svg>\n")
		return buf.Bytes()
	}

	renderDefs(&buf, s)
	if s.Grid != nil {
		renderGrid(&buf, *s.Grid)
	}
	for _, e := range s.Edges {
		renderEdge(&buf, e)
	}
	for _, n := range s.Nodes {
		renderNode(&buf, n)
	}
	for _, o := range s.Overlays {
		renderOverlay(&buf, o)
	}
	for _, b := range s.Badges {
		renderBadge(&buf, b)
	}
	if s.Minimap != nil {
		renderMinimap(&buf, *s.Minimap)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// markerID names the arrowhead of a role. Colors differ per role, so each
// role gets its own marker.
func markerID(r argument.Role) string {
	id := style.ForRole(r).Arrow.MarkerID()
	if id == "" {
		return ""
	}
	return id + "-" + r.String()
}

func renderDefs(buf *bytes.Buffer, s Scene) {
	buf.WriteString("  <defs>\n")
	if s.Grid != nil {
		sp := num(s.Grid.Spacing)
		fmt.Fprintf(buf, `    <pattern id="grid" width="%s" height="%s" patternUnits="userSpaceOnUse">`+
			`<path d="M %s 0 L 0 0 0 %s" fill="none" stroke="#eceff1" stroke-width="1"/></pattern>`+"\n",
			sp, sp, sp, sp)
	}

	seen := make(map[argument.Role]bool)
	for _, e := range s.Edges {
		if seen[e.Role] {
			continue
		}
		seen[e.Role] = true
		renderMarker(buf, e.Role)
	}
	buf.WriteString("  </defs>\n")
}

func renderMarker(buf *bytes.Buffer, r argument.Role) {
	es := style.ForRole(r)
	id := markerID(r)
	if id == "" {
		return
	}
	var shape string
	switch es.Arrow {
	case style.ArrowTriangle:
		shape = fmt.Sprintf(`<path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/>`, es.Stroke)
	case style.ArrowOpen:
		shape = fmt.Sprintf(`<path d="M 0 0 L 10 5 L 0 10" fill="none" stroke="%s" stroke-width="1.5"/>`, es.Stroke)
	case style.ArrowBar:
		shape = fmt.Sprintf(`<path d="M 8 0 L 8 10" stroke="%s" stroke-width="3"/>`, es.Stroke)
	case style.ArrowDiamond:
		shape = fmt.Sprintf(`<path d="M 0 5 L 5 0 L 10 5 L 5 10 z" fill="%s"/>`, es.Stroke)
	case style.ArrowNone:
		return
	}
	fmt.Fprintf(buf, `    <marker id="%s" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse">%s</marker>`+"\n",
		id, shape)
}

func renderGrid(buf *bytes.Buffer, g Grid) {
	fmt.Fprintf(buf, `  <rect class="grid" x="%s" y="%s" width="%s" height="%s" fill="url(#grid)"/>`+"\n",
		num(g.Area.X), num(g.Area.Y), num(g.Area.Width), num(g.Area.Height))
}

func renderEdge(buf *bytes.Buffer, e EdgeShape) {
	fmt.Fprintf(buf, `  <path class="edge edge-%s" id="edge-%s" data-source="%s" data-target="%s" d="%s" fill="none" stroke="%s" stroke-width="%s"`,
		e.Role, escapeXML(e.ID), escapeXML(e.Source), escapeXML(e.Target), pathData(e), e.Style.Stroke, num(e.Style.Width))
	if e.Style.Dash != "" {
		fmt.Fprintf(buf, ` stroke-dasharray="%s"`, e.Style.Dash)
	}
	if id := markerID(e.Role); id != "" {
		fmt.Fprintf(buf, ` marker-end="url(#%s)"`, id)
	}
	if e.Opacity < 1 {
		fmt.Fprintf(buf, ` opacity="%s"`, num(e.Opacity))
	}
	buf.WriteString("/>\n")
}

func pathData(e EdgeShape) string {
	if len(e.Points) == 0 {
		return ""
	}
	var b strings.Builder
	p := e.Points[0]
	fmt.Fprintf(&b, "M %s %s", num(p.X), num(p.Y))
	if e.Curved {
		for i := 1; i+2 < len(e.Points); i += 3 {
			c1, c2, end := e.Points[i], e.Points[i+1], e.Points[i+2]
			fmt.Fprintf(&b, " C %s %s %s %s %s %s",
				num(c1.X), num(c1.Y), num(c2.X), num(c2.Y), num(end.X), num(end.Y))
		}
		return b.String()
	}
	for _, p := range e.Points[1:] {
		fmt.Fprintf(&b, " L %s %s", num(p.X), num(p.Y))
	}
	return b.String()
}

func renderNode(buf *bytes.Buffer, n NodeShape) {
	class := "node node-" + n.Kind.String()
	if n.Selected {
		class += " selected"
	}
	if n.Hovered {
		class += " hovered"
	}
	if n.Expanded {
		class += " expanded"
	}
	fmt.Fprintf(buf, `  <g class="%s" id="node-%s" data-id="%s"`, class, escapeXML(n.ID), escapeXML(n.ID))
	if n.Opacity < 1 {
		fmt.Fprintf(buf, ` opacity="%s"`, num(n.Opacity))
	}
	buf.WriteString(">\n")

	b := n.Box
	switch n.Shape {
	case style.ShapeRect:
		fmt.Fprintf(buf, `    <rect class="outline" x="%s" y="%s" width="%s" height="%s" rx="4" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
			num(b.X), num(b.Y), num(b.Width), num(b.Height), n.Style.Fill, n.Style.Stroke)
	case style.ShapeEllipse:
		c := b.Center()
		fmt.Fprintf(buf, `    <ellipse class="outline" cx="%s" cy="%s" rx="%s" ry="%s" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
			num(c.X), num(c.Y), num(b.Width/2), num(b.Height/2), n.Style.Fill, n.Style.Stroke)
	}

	c := b.Center()
	size := fontSize(b.Width, b.Height, len(n.Label))
	fmt.Fprintf(buf, `    <text x="%s" y="%s" font-family="sans-serif" font-size="%s" text-anchor="middle" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
		num(c.X), num(c.Y), num(size), n.Style.Text, escapeXML(truncateLabel(n.Label, b.Width, size)))
	buf.WriteString("  </g>\n")
}

func renderOverlay(buf *bytes.Buffer, o Overlay) {
	b := o.Box
	c := b.Center()
	r := min(b.Width, b.Height) / 4
	fmt.Fprintf(buf, `  <g class="busy" data-id="%s">`+"\n", escapeXML(o.NodeID))
	fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" rx="4" fill="#ffffff" opacity="0.6"/>`+"\n",
		num(b.X), num(b.Y), num(b.Width), num(b.Height))
	fmt.Fprintf(buf, `    <path d="M %s %s A %s %s 0 1 1 %s %s" fill="none" stroke="#546e7a" stroke-width="3">`,
		num(c.X), num(c.Y-r), num(r), num(r), num(c.X-r), num(c.Y))
	fmt.Fprintf(buf, `<animateTransform attributeName="transform" type="rotate" from="0 %s %s" to="360 %s %s" dur="1s" repeatCount="indefinite"/></path>`+"\n",
		num(c.X), num(c.Y), num(c.X), num(c.Y))
	buf.WriteString("  </g>\n")
}

func renderBadge(buf *bytes.Buffer, b Badge) {
	fmt.Fprintf(buf, `  <g class="badge" data-id="%s">`+"\n", escapeXML(b.NodeID))
	fmt.Fprintf(buf, `    <circle cx="%s" cy="%s" r="%s" fill="#ff6f00">`, num(b.Center.X), num(b.Center.Y), num(b.Radius))
	fmt.Fprintf(buf, `<animate attributeName="r" values="%s;%s;%s" dur="1.6s" repeatCount="indefinite"/></circle>`+"\n",
		num(b.Radius), num(b.Radius*1.2), num(b.Radius))
	fmt.Fprintf(buf, `    <text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle">%d</text>`+"\n",
		num(b.Center.X), num(b.Center.Y), b.Count)
	buf.WriteString("  </g>\n")
}

func renderMinimap(buf *bytes.Buffer, m Minimap) {
	a, c := m.Area, m.Content
	fmt.Fprintf(buf, `  <svg class="minimap" x="%s" y="%s" width="%s" height="%s" viewBox="%s %s %s %s" preserveAspectRatio="xMidYMid meet">`+"\n",
		num(a.X), num(a.Y), num(a.Width), num(a.Height), num(c.X), num(c.Y), num(c.Width), num(c.Height))
	fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" fill="#fafafa" stroke="#90a4ae" vector-effect="non-scaling-stroke"/>`+"\n",
		num(c.X), num(c.Y), num(c.Width), num(c.Height))
	for _, n := range m.Nodes {
		fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" fill="#b0bec5"/>`+"\n",
			num(n.X), num(n.Y), num(n.Width), num(n.Height))
	}
	fmt.Fprintf(buf, `    <rect class="minimap-view" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="#e53935" stroke-width="2" vector-effect="non-scaling-stroke"/>`+"\n",
		num(m.View.X), num(m.View.Y), num(m.View.Width), num(m.View.Height))
	buf.WriteString("  </svg>\n")
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
