// Package measure sizes components from their text content.
//
// Sizes are computed in terminal cells with lipgloss, which understands wide
// runes and ANSI sequences, and then scaled to layout units.
package measure

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/relayout/pkg/layout"
)

// Default cell metrics, matching the SVG sink's monospace font.
const (
	DefaultCellWidth  = 8.0
	DefaultLineHeight = 16.0
)

// Text measures labelled components. It implements layout.Measurer.
type Text struct {
	labels     map[string]string
	cellWidth  float64
	lineHeight float64
}

var _ layout.Measurer = (*Text)(nil)

// Option configures a Text measurer.
type Option func(*Text)

// WithCellSize sets the size of one terminal cell in layout units.
// Non-positive values keep the default.
func WithCellSize(width, height float64) Option {
	return func(t *Text) {
		if width > 0 {
			t.cellWidth = width
		}
		if height > 0 {
			t.lineHeight = height
		}
	}
}

// NewText creates a measurer for the given component labels.
func NewText(labels map[string]string, opts ...Option) *Text {
	t := &Text{
		labels:     labels,
		cellWidth:  DefaultCellWidth,
		lineHeight: DefaultLineHeight,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Measure returns the size of the label of id. Components without a label
// are not measured.
func (t *Text) Measure(id string) (float64, float64, bool) {
	label, ok := t.labels[id]
	if !ok || label == "" {
		return 0, 0, false
	}
	w, h := Cells(label)
	return float64(w) * t.cellWidth, float64(h) * t.lineHeight, true
}

// Cells returns the width and height of s in terminal cells.
func Cells(s string) (width, height int) {
	return lipgloss.Width(s), lipgloss.Height(s)
}
