// Package render turns solved layouts into output formats.
//
// # Sinks
//
// The [sink] subpackage writes placements produced by [layout.Place]:
//
//   - SVG: boxes and labels, one group per component
//   - JSON: the solution and the final boxes, for external tools
//   - Text: an ASCII drawing for terminals and the preview
//
//	placements := layout.Place(sol, width, height)
//	svg := sink.RenderSVG(placements, width, height, sink.WithLabels(doc.Labels()))
//
// # Constraint Graphs
//
// The [graphviz] subpackage draws the constraint dependency graph of a
// container with Graphviz: one node per component, one arrow per constrained
// edge. It is the tool of choice for finding the cycle behind an unresolved
// layout.
//
//	dot := graphviz.ToDOT(c, graphviz.Options{Cycles: unresolved.Cycles})
//	svg, err := graphviz.RenderSVG(ctx, dot)
//
// [sink]: github.com/matzehuels/relayout/pkg/render/sink
// [graphviz]: github.com/matzehuels/relayout/pkg/render/graphviz
// [layout.Place]: github.com/matzehuels/relayout/pkg/layout#Place
package render
