package sink

import (
	"encoding/json"

	"github.com/matzehuels/relayout/pkg/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	name   string
	labels map[string]string
	indent bool
}

// WithJSONName records the document name in the output.
func WithJSONName(name string) JSONOption { return func(r *jsonRenderer) { r.name = name } }

// WithJSONLabels adds component labels to the output.
func WithJSONLabels(labels map[string]string) JSONOption {
	return func(r *jsonRenderer) { r.labels = labels }
}

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// Output is the JSON export format.
type Output struct {
	Name       string            `json:"name,omitempty"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	MinWidth   float64           `json:"min_width"`
	MinHeight  float64           `json:"min_height"`
	Margin     layout.Insets     `json:"margin"`
	Passes     OutputPasses      `json:"passes"`
	Components []OutputComponent `json:"components"`
}

// OutputPasses records how many passes each axis needed.
type OutputPasses struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// OutputComponent is one component in the export.
type OutputComponent struct {
	ID        string                `json:"id"`
	Label     string                `json:"label,omitempty"`
	Slot      layout.Box            `json:"slot"`
	Box       layout.Box            `json:"box"`
	Edges     map[string]OutputEdge `json:"edges"`
	SizeDelta []string              `json:"size_delta,omitempty"`
}

// OutputEdge is a locked edge and the pass that locked it.
type OutputEdge struct {
	Fraction float64 `json:"fraction"`
	Offset   float64 `json:"offset"`
	Pass     int     `json:"pass"`
}

// RenderJSON exports a solution and its placements in a container of the
// given size.
func RenderJSON(sol *layout.Solution, width, height float64, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}
	out := BuildOutput(sol, width, height)
	out.Name = r.name
	for i := range out.Components {
		out.Components[i].Label = r.labels[out.Components[i].ID]
	}
	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

// BuildOutput assembles the export structure without encoding it.
func BuildOutput(sol *layout.Solution, width, height float64) Output {
	width, height = sol.Fit(width, height)
	placements := layout.Place(sol, width, height)

	out := Output{
		Width:      width,
		Height:     height,
		MinWidth:   sol.MinWidth,
		MinHeight:  sol.MinHeight,
		Margin:     sol.Margin,
		Passes:     OutputPasses{X: sol.PassesX, Y: sol.PassesY},
		Components: make([]OutputComponent, len(sol.Components)),
	}
	for i, r := range sol.Components {
		oc := OutputComponent{
			ID:    r.ID,
			Slot:  placements[i].Slot,
			Box:   placements[i].Box,
			Edges: make(map[string]OutputEdge, len(layout.AllEdges)),
		}
		for _, e := range layout.AllEdges {
			con := r.Edge(e)
			oc.Edges[e.String()] = OutputEdge{Fraction: con.Fraction, Offset: con.Offset, Pass: r.LockedIn[e]}
		}
		for _, a := range layout.Axes {
			if r.SizeDelta(a) {
				oc.SizeDelta = append(oc.SizeDelta, a.String())
			}
		}
		out.Components[i] = oc
	}
	return out
}
