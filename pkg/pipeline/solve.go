package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/relayout/pkg/document"
	"github.com/matzehuels/relayout/pkg/layout"
	"github.com/matzehuels/relayout/pkg/observability"
)

// Parse decodes a document and reports the event to the pipeline hooks.
func Parse(ctx context.Context, data []byte, format document.Format) (*document.Document, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, string(format))
	start := time.Now()

	doc, err := document.Parse(data, format)
	components := 0
	if doc != nil {
		components = len(doc.Components)
	}
	hooks.OnParseComplete(ctx, string(format), components, time.Since(start), err)
	return doc, err
}

// Solve builds the document's container, measures labelled components and
// solves it. It never consults a cache; see Runner.SolveWithCacheInfo.
func Solve(ctx context.Context, opts Options) (*layout.Solution, error) {
	if err := opts.ValidateForSolve(); err != nil {
		return nil, err
	}
	c, err := opts.Document.Container(opts.MeasureOptions()...)
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnSolveStart(ctx, c.Len())
	start := time.Now()

	sol, err := layout.Solve(c)
	passes := 0
	if sol != nil {
		passes = max(sol.PassesX, sol.PassesY)
	}
	hooks.OnSolveComplete(ctx, passes, time.Since(start), err)
	return sol, err
}
