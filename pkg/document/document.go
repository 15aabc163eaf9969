// Package document reads and writes layout documents.
//
// A document describes one container and its components in JSON, YAML or
// TOML. Every format is normalized to JSON, checked against an embedded JSON
// Schema and then decoded, so all three accept exactly the same documents.
//
//	doc, err := document.ReadFile("dialog.yaml")
//	c, err := doc.Container()
//	sol, err := layout.Solve(c)
package document

import (
	"encoding/json"

	"github.com/matzehuels/relayout/pkg/cache"
	"github.com/matzehuels/relayout/pkg/layout"
)

// Document is one container and its components.
type Document struct {
	Name       string      `json:"name,omitempty"`
	Width      float64     `json:"width,omitempty"`
	Height     float64     `json:"height,omitempty"`
	Margin     Insets      `json:"margin,omitzero"`
	Components []Component `json:"components"`
}

// Insets mirrors layout.Insets with document field names.
type Insets struct {
	Top    float64 `json:"top,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`
	Left   float64 `json:"left,omitempty"`
	Right  float64 `json:"right,omitempty"`
}

// Component describes one component. A zero width or height is measured from
// the label.
type Component struct {
	ID             string   `json:"id"`
	Label          string   `json:"label,omitempty"`
	Width          float64  `json:"width,omitempty"`
	Height         float64  `json:"height,omitempty"`
	OverrideWidth  *float64 `json:"override_width,omitempty"`
	OverrideHeight *float64 `json:"override_height,omitempty"`
	Insets         Insets   `json:"insets,omitzero"`
	Left           *Edge    `json:"left,omitempty"`
	Right          *Edge    `json:"right,omitempty"`
	Top            *Edge    `json:"top,omitempty"`
	Bottom         *Edge    `json:"bottom,omitempty"`
}

// Edge is either an anchor fraction or a reference to another component.
// An absent edge is unconstrained.
type Edge struct {
	Anchor    *float64 `json:"anchor,omitempty"`
	Component string   `json:"component,omitempty"`
}

// Anchor returns an edge pinned to a fraction of the container.
func Anchor(f float64) *Edge { return &Edge{Anchor: &f} }

// Ref returns an edge pinned to the opposite edge of component id.
func Ref(id string) *Edge { return &Edge{Component: id} }

// Constraint converts the edge to a layout constraint.
func (e *Edge) Constraint() layout.Constraint {
	switch {
	case e == nil:
		return layout.Unconstrained()
	case e.Anchor != nil:
		return layout.ToAnchor(*e.Anchor)
	case e.Component != "":
		return layout.ToComponent(e.Component)
	default:
		return layout.Unconstrained()
	}
}

// Edge returns the document edge for a layout edge.
func (c *Component) Edge(e layout.Edge) *Edge {
	switch e {
	case layout.EdgeLeft:
		return c.Left
	case layout.EdgeRight:
		return c.Right
	case layout.EdgeTop:
		return c.Top
	default:
		return c.Bottom
	}
}

func (in Insets) layout() layout.Insets {
	return layout.Insets{Top: in.Top, Bottom: in.Bottom, Left: in.Left, Right: in.Right}
}

// Labels returns the non-empty component labels keyed by component ID.
func (d *Document) Labels() map[string]string {
	labels := make(map[string]string)
	for _, c := range d.Components {
		if c.Label != "" {
			labels[c.ID] = c.Label
		}
	}
	return labels
}

// Label returns the label of component id, or the ID itself when it has none.
func (d *Document) Label(id string) string {
	for _, c := range d.Components {
		if c.ID == id && c.Label != "" {
			return c.Label
		}
	}
	return id
}

// Marshal returns the canonical JSON encoding of the document.
func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// Hash returns a content hash of the canonical encoding. Documents that
// differ only in source format or key order hash the same.
func (d *Document) Hash() (string, error) {
	data, err := d.Marshal()
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
