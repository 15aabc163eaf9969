// Package sink provides output format renderers for solved layouts.
//
// A "sink" transforms the placements of a [layout.Solution] into a final
// output format:
//
//   - [RenderSVG]: scalable vector graphics, one rect and label per component
//   - [RenderJSON]: solution and boxes for external tools
//   - [RenderText]: ASCII box drawing for terminals
//
// Every sink is a pure function of its input; the same placements always
// produce the same bytes.
package sink
