package graphviz

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/relayout/pkg/layout"
)

func cycleContainer(t *testing.T) *layout.Container {
	t.Helper()
	c := layout.NewContainer()
	err := c.Add(
		layout.NewComponent("a", 10, 10).
			MustSetEdge(layout.EdgeLeft, layout.ToAnchor(0)).
			MustSetEdge(layout.EdgeRight, layout.ToComponent("b")),
		layout.NewComponent("b", 10, 10).
			MustSetEdge(layout.EdgeLeft, layout.ToComponent("a")).
			MustSetEdge(layout.EdgeTop, layout.ToComponent("ghost")),
	)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestToDOT(t *testing.T) {
	c := cycleContainer(t)
	dot := ToDOT(c, Options{
		Labels: map[string]string{"a": "Alpha"},
		Cycles: [][]layout.EdgeRef{{{Component: "a", Edge: layout.EdgeRight}, {Component: "b", Edge: layout.EdgeLeft}}},
	})

	tests := []struct {
		name string
		want string
	}{
		{"header", "digraph G {"},
		{"container", `"@container" [label="container"`},
		{"label", `"a" [label="Alpha"];`},
		{"anchor", `"a" -> "@container" [label="left @ 0", style=dashed];`},
		{"cycle", `"a" -> "b" [label="right -> left", color=red, fontcolor=red, penwidth=2];`},
		{"dangling", `"b" -> "ghost" [label="top -> bottom", style=dashed];`},
		{"placeholder", `"ghost" [label="ghost (missing)"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(dot, tt.want) {
				t.Errorf("DOT missing %s:\n%s", tt.want, dot)
			}
		})
	}

	if strings.Count(dot, `"ghost" [label=`) != 1 {
		t.Error("placeholder node declared more than once")
	}
}

func TestToDOTUnconstrainedDrawsNothing(t *testing.T) {
	c := layout.NewContainer()
	_ = c.Add(layout.NewComponent("free", 1, 1))
	if dot := ToDOT(c, Options{}); strings.Contains(dot, "->") {
		t.Errorf("unconstrained component produced arrows:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(cycleContainer(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("root element not normalized: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	if out := normalizeViewBox([]byte("<svg/>")); string(out) != "<svg/>" {
		t.Errorf("svg without viewBox changed: %s", out)
	}
}
