package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/relayout/pkg/layout"
)

const componentCSS = `
    .component { fill: #f8f9fa; stroke: #343a40; stroke-width: 1; }
    .component.highlight { stroke: #e8590c; stroke-width: 3; }
    .slot { fill: none; stroke: #adb5bd; stroke-dasharray: 4 2; }
    .label { font-family: ui-monospace, monospace; font-size: 12px; fill: #212529; }`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels    map[string]string
	slots     bool
	highlight string
}

// WithLabels sets the text drawn inside each component. Components without
// a label show their ID.
func WithLabels(labels map[string]string) SVGOption {
	return func(r *svgRenderer) { r.labels = labels }
}

// WithSlots also draws each component's slot, the area between its edges
// before insets, as a dashed outline.
func WithSlots() SVGOption { return func(r *svgRenderer) { r.slots = true } }

// WithHighlight emphasizes one component.
func WithHighlight(id string) SVGOption { return func(r *svgRenderer) { r.highlight = id } }

// RenderSVG draws placements in a container of the given size.
func RenderSVG(placements []layout.Placement, width, height float64, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", componentCSS)

	for _, p := range placements {
		r.renderComponent(&buf, p)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderComponent(buf *bytes.Buffer, p layout.Placement) {
	id := html.EscapeString(p.ID)
	fmt.Fprintf(buf, "  <g id=\"component-%s\">\n", id)
	if r.slots {
		fmt.Fprintf(buf, "    <rect class=\"slot\" x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\"/>\n",
			p.Slot.Left, p.Slot.Top, p.Slot.Width(), p.Slot.Height())
	}
	class := "component"
	if p.ID == r.highlight {
		class += " highlight"
	}
	fmt.Fprintf(buf, "    <rect class=%q x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\"/>\n",
		class, p.Box.Left, p.Box.Top, p.Box.Width(), p.Box.Height())

	label := p.ID
	if l, ok := r.labels[p.ID]; ok && l != "" {
		label = l
	}
	fmt.Fprintf(buf, "    <text class=\"label\" x=\"%.2f\" y=\"%.2f\" text-anchor=\"middle\" dominant-baseline=\"middle\">%s</text>\n",
		p.Box.CenterX(), p.Box.CenterY(), html.EscapeString(label))
	buf.WriteString("  </g>\n")
}
