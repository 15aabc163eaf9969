// Package pkg provides the libraries behind relayout, a relative layout
// constraint solver.
//
// # Overview
//
// Relayout places rectangular components inside a container. Every edge of a
// component is either unconstrained, anchored to a fraction of the container,
// attached to the opposite edge of another component, or locked at a fixed
// position. The pkg directory is organized into these areas:
//
//  1. [layout] - The solver: components, constraints, passes and placement
//  2. [document] - Layout documents in JSON, YAML or TOML
//  3. [render] - SVG, JSON and text output plus constraint graphs
//  4. [pipeline] - Orchestration (parse → solve → render) with caching
//  5. [store], [server] - Stored documents and the HTTP API
//
// # Architecture
//
//	Layout document (JSON/YAML/TOML)
//	         ↓
//	    [document] package (parse + schema validation)
//	         ↓
//	    [layout] package (fixed-point resolver, minimum size)
//	         ↓
//	    [render] package (placements → SVG/JSON/text/DOT)
//
// # Quick Start
//
//	c := layout.NewContainer()
//	c.Add(
//	    layout.NewComponent("a", 40, 10).MustSetEdge(layout.EdgeLeft, layout.ToAnchor(0)),
//	    layout.NewComponent("b", 50, 10).
//	        MustSetEdge(layout.EdgeLeft, layout.ToComponent("a")).
//	        MustSetEdge(layout.EdgeRight, layout.ToAnchor(1)),
//	)
//	sol, err := layout.Solve(c)
//	if err != nil {
//	    var ue *layout.UnresolvedError
//	    if errors.As(err, &ue) {
//	        // ue.Unresolved and ue.Cycles name what did not converge
//	    }
//	    return err
//	}
//	placements := layout.Place(sol, 200, 40)
//
// [layout]: github.com/matzehuels/relayout/pkg/layout
// [document]: github.com/matzehuels/relayout/pkg/document
// [render]: github.com/matzehuels/relayout/pkg/render
// [pipeline]: github.com/matzehuels/relayout/pkg/pipeline
// [store]: github.com/matzehuels/relayout/pkg/store
// [server]: github.com/matzehuels/relayout/pkg/server
package pkg
