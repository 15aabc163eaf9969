// Package graphviz draws the constraint graph of a layout container.
//
// Each component is a node. Every edge constraint becomes an arrow: anchors
// point at the container node, component references at the referenced
// component. Unconstrained edges draw nothing. References to missing
// components point at a dashed placeholder, and edges on a reported cycle are
// drawn in red.
package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	gographviz "github.com/goccy/go-graphviz"

	"github.com/matzehuels/relayout/pkg/layout"
)

// ContainerNode is the node ID standing for the container itself.
const ContainerNode = "@container"

// Options configures constraint graph rendering.
type Options struct {
	// Labels replaces component IDs in node labels.
	Labels map[string]string
	// Cycles highlights the edges of these cycles, usually taken from an
	// *layout.UnresolvedError.
	Cycles [][]layout.EdgeRef
}

// ToDOT converts a container's constraints to Graphviz DOT format.
func ToDOT(c *layout.Container, opts Options) string {
	onCycle := make(map[layout.EdgeRef]bool)
	for _, cycle := range opts.Cycles {
		for _, r := range cycle {
			onCycle[r] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  %q [label=\"container\", shape=doubleoctagon, fillcolor=lightgrey];\n", ContainerNode)

	for _, comp := range c.Components() {
		label := comp.ID
		if l, ok := opts.Labels[comp.ID]; ok && l != "" {
			label = l
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", comp.ID, label)
	}

	missing := make(map[string]bool)
	buf.WriteString("\n")
	for _, comp := range c.Components() {
		for _, e := range layout.AllEdges {
			con := comp.Edge(e)
			switch con.Kind {
			case layout.KindAnchor:
				fmt.Fprintf(&buf, "  %q -> %q [label=%q, style=dashed];\n",
					comp.ID, ContainerNode, fmt.Sprintf("%s @ %g", e, con.Fraction))
			case layout.KindLocked:
				fmt.Fprintf(&buf, "  %q -> %q [label=%q, style=dotted];\n",
					comp.ID, ContainerNode, fmt.Sprintf("%s = %s", e, con))
			case layout.KindComponent:
				attrs := fmt.Sprintf("label=%q", fmt.Sprintf("%s -> %s", e, e.Opposite()))
				if onCycle[layout.EdgeRef{Component: comp.ID, Edge: e}] {
					attrs += ", color=red, fontcolor=red, penwidth=2"
				}
				if _, ok := c.Component(con.Target); !ok {
					missing[con.Target] = true
					attrs += ", style=dashed"
				}
				fmt.Fprintf(&buf, "  %q -> %q [%s];\n", comp.ID, con.Target, attrs)
			}
		}
	}

	if len(missing) > 0 {
		buf.WriteString("\n")
		for _, comp := range c.Components() {
			for _, e := range layout.AllEdges {
				if t := comp.Edge(e).Target; missing[t] {
					fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,dashed\", fontcolor=grey];\n", t, t+" (missing)")
					delete(missing, t)
				}
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := gographviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := gographviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gographviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one sized
// in pixels and anchored at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
