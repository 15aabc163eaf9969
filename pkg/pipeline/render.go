package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/relayout/pkg/document"
	"github.com/matzehuels/relayout/pkg/errors"
	"github.com/matzehuels/relayout/pkg/layout"
	"github.com/matzehuels/relayout/pkg/observability"
	"github.com/matzehuels/relayout/pkg/render/graphviz"
	"github.com/matzehuels/relayout/pkg/render/sink"
)

// Render generates output artifacts in the requested formats from a solved
// document. Options must have been validated with ValidateForRender.
func Render(ctx context.Context, doc *document.Document, sol *layout.Solution, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := render(ctx, doc, sol, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func render(ctx context.Context, doc *document.Document, sol *layout.Solution, opts Options) (map[string][]byte, error) {
	width, height := sol.Fit(opts.Width, opts.Height)
	placements := layout.Place(sol, width, height)
	labels := doc.Labels()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(placements, width, height, buildSVGOptions(labels, opts)...)
		case FormatJSON:
			data, err = sink.RenderJSON(sol, width, height,
				sink.WithJSONName(doc.Name),
				sink.WithJSONLabels(labels),
				sink.WithJSONIndent(),
			)
		case FormatText:
			data = []byte(sink.RenderText(placements, width, height,
				sink.WithTextScale(opts.TextScaleX, opts.TextScaleY),
				sink.WithTextLabels(labels),
				sink.WithTextHighlight(opts.Highlight),
			) + "\n")
		case FormatDOT, FormatGraph:
			data, err = renderGraph(ctx, doc, opts, format)
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func buildSVGOptions(labels map[string]string, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithLabels(labels)}
	if opts.Slots {
		svgOpts = append(svgOpts, sink.WithSlots())
	}
	if opts.Highlight != "" {
		svgOpts = append(svgOpts, sink.WithHighlight(opts.Highlight))
	}
	return svgOpts
}

// renderGraph draws the document's constraint graph. It does not need a
// solution, so it also serves documents that fail to solve.
func renderGraph(ctx context.Context, doc *document.Document, opts Options, format string) ([]byte, error) {
	dot, err := GraphDOT(doc, opts, nil)
	if err != nil {
		return nil, err
	}
	if format == FormatDOT {
		return []byte(dot), nil
	}
	return graphviz.RenderSVG(ctx, dot)
}

// GraphDOT returns the constraint graph of a document in DOT format, with
// the cycles of unresolved (if any) highlighted.
func GraphDOT(doc *document.Document, opts Options, unresolved *layout.UnresolvedError) (string, error) {
	c, err := doc.Container(opts.MeasureOptions()...)
	if err != nil {
		return "", err
	}
	gopts := graphviz.Options{Labels: doc.Labels()}
	if unresolved != nil {
		gopts.Cycles = unresolved.Cycles
	}
	return graphviz.ToDOT(c, gopts), nil
}
