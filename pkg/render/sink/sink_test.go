package sink

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/relayout/pkg/layout"
)

func solveRow(t *testing.T) *layout.Solution {
	t.Helper()
	c := layout.NewContainer()
	err := c.Add(
		layout.NewComponent("A", 40, 10).
			MustSetEdge(layout.EdgeLeft, layout.ToAnchor(0)).
			MustSetEdge(layout.EdgeRight, layout.ToComponent("B")),
		layout.NewComponent("B", 50, 10).
			MustSetEdge(layout.EdgeRight, layout.ToAnchor(1)),
		layout.NewComponent("C", 30, 10).
			MustSetEdge(layout.EdgeLeft, layout.ToAnchor(0.5)).
			MustSetEdge(layout.EdgeRight, layout.ToAnchor(0.5)),
	)
	if err != nil {
		t.Fatal(err)
	}
	sol, err := layout.Solve(c)
	if err != nil {
		t.Fatal(err)
	}
	return sol
}

func TestRenderText(t *testing.T) {
	sol := solveRow(t)
	got := RenderText(layout.Place(sol, 90, 10), 90, 10, WithTextScale(0.2, 0.3))
	want := strings.Join([]string{
		"+-----+----+-----+",
		"|A    |C   |     |",
		"+-----+----+-----+",
	}, "\n")
	if got != want {
		t.Errorf("RenderText() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderTextHighlightAndLabels(t *testing.T) {
	pl := []layout.Placement{{ID: "x", Box: layout.Box{Right: 40, Bottom: 30}}}
	got := RenderText(pl, 40, 30,
		WithTextScale(0.25, 0.1),
		WithTextLabels(map[string]string{"x": "hi"}),
		WithTextHighlight("x"),
	)
	want := "#========#\n#hi      #\n#========#"
	if got != want {
		t.Errorf("RenderText() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderTextClipsAndTruncates(t *testing.T) {
	pl := []layout.Placement{{ID: "a-very-long-label", Box: layout.Box{Left: -8, Right: 48, Bottom: 48}}}
	got := RenderText(pl, 40, 48, WithTextScale(0.125, 0.0625))
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), got)
	}
	for _, l := range lines {
		if len([]rune(l)) > 5 {
			t.Errorf("line %q exceeds the 5-cell grid", l)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	sol := solveRow(t)
	svg := string(RenderSVG(layout.Place(sol, 0, 0), sol.MinWidth, sol.MinHeight,
		WithLabels(map[string]string{"A": "<b>"}),
		WithHighlight("B"),
		WithSlots(),
	))

	for _, want := range []string{
		`viewBox="0 0 90.0 10.0"`,
		`<g id="component-A">`,
		`&lt;b&gt;`,
		`class="component highlight"`,
		`class="slot"`,
		`>C</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not closed")
	}
}

func TestRenderJSON(t *testing.T) {
	sol := solveRow(t)
	data, err := RenderJSON(sol, 0, 0,
		WithJSONName("row"),
		WithJSONLabels(map[string]string{"C": "centered"}),
		WithJSONIndent(),
	)
	if err != nil {
		t.Fatal(err)
	}

	var out Output
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Name != "row" || out.Width != 90 || out.MinWidth != 90 {
		t.Errorf("header = %+v", out)
	}
	if out.Passes != (OutputPasses{X: 2, Y: 1}) {
		t.Errorf("passes = %+v", out.Passes)
	}
	if len(out.Components) != 3 {
		t.Fatalf("got %d components", len(out.Components))
	}

	a := out.Components[0]
	if got := a.Edges["right"]; got != (OutputEdge{Fraction: 1, Offset: -50, Pass: 2}) {
		t.Errorf("A.right = %+v", got)
	}
	c := out.Components[2]
	if c.Label != "centered" || len(c.SizeDelta) != 1 || c.SizeDelta[0] != "x" {
		t.Errorf("C = %+v", c)
	}
	if c.Box != (layout.Box{Left: 30, Right: 60, Bottom: 10}) {
		t.Errorf("C box = %+v", c.Box)
	}
}
