package sink

import (
	"math"
	"strings"

	"github.com/matzehuels/relayout/pkg/layout"
)

// Default text scale: one cell per 8 layout units across, 16 down, matching
// the measure package's cell size.
const (
	DefaultTextScaleX = 1.0 / 8
	DefaultTextScaleY = 1.0 / 16
)

// TextOption configures RenderText.
type TextOption func(*textRenderer)

type textRenderer struct {
	scaleX, scaleY float64
	labels         map[string]string
	highlight      string
}

// WithTextScale sets how many cells one layout unit covers on each axis.
// Non-positive values keep the default.
func WithTextScale(x, y float64) TextOption {
	return func(r *textRenderer) {
		if x > 0 {
			r.scaleX = x
		}
		if y > 0 {
			r.scaleY = y
		}
	}
}

// WithTextLabels sets the text written inside each box.
func WithTextLabels(labels map[string]string) TextOption {
	return func(r *textRenderer) { r.labels = labels }
}

// WithTextHighlight draws one component with a double border.
func WithTextHighlight(id string) TextOption {
	return func(r *textRenderer) { r.highlight = id }
}

type borderSet struct{ corner, horizontal, vertical rune }

var (
	plainBorder     = borderSet{'+', '-', '|'}
	highlightBorder = borderSet{'#', '=', '#'}
)

// RenderText draws placements as ASCII boxes. Later components are drawn
// over earlier ones. Trailing spaces are trimmed from every line.
func RenderText(placements []layout.Placement, width, height float64, opts ...TextOption) string {
	r := textRenderer{scaleX: DefaultTextScaleX, scaleY: DefaultTextScaleY}
	for _, opt := range opts {
		opt(&r)
	}

	cols := max(cell(width, r.scaleX), 1)
	rows := max(cell(height, r.scaleY), 1)
	g := newGrid(cols, rows)

	for _, p := range placements {
		left, right := cell(p.Box.Left, r.scaleX), cell(p.Box.Right, r.scaleX)-1
		top, bottom := cell(p.Box.Top, r.scaleY), cell(p.Box.Bottom, r.scaleY)-1
		right, bottom = max(right, left), max(bottom, top)

		border := plainBorder
		if p.ID == r.highlight {
			border = highlightBorder
		}
		g.box(left, top, right, bottom, border)

		label := p.ID
		if l, ok := r.labels[p.ID]; ok && l != "" {
			label = l
		}
		if bottom-top >= 2 && right-left >= 2 {
			g.text(left+1, top+1, right-left-1, label)
		}
	}
	return g.String()
}

func cell(v, scale float64) int { return int(math.Round(v * scale)) }

type grid struct {
	cols  int
	cells [][]rune
}

func newGrid(cols, rows int) *grid {
	g := &grid{cols: cols, cells: make([][]rune, rows)}
	for i := range g.cells {
		g.cells[i] = []rune(strings.Repeat(" ", cols))
	}
	return g
}

func (g *grid) set(x, y int, c rune) {
	if y < 0 || y >= len(g.cells) || x < 0 || x >= g.cols {
		return
	}
	g.cells[y][x] = c
}

func (g *grid) box(left, top, right, bottom int, b borderSet) {
	for x := left; x <= right; x++ {
		g.set(x, top, b.horizontal)
		g.set(x, bottom, b.horizontal)
	}
	for y := top; y <= bottom; y++ {
		g.set(left, y, b.vertical)
		g.set(right, y, b.vertical)
	}
	g.set(left, top, b.corner)
	g.set(right, top, b.corner)
	g.set(left, bottom, b.corner)
	g.set(right, bottom, b.corner)
	for y := top + 1; y < bottom; y++ {
		for x := left + 1; x < right; x++ {
			g.set(x, y, ' ')
		}
	}
}

func (g *grid) text(x, y, width int, s string) {
	for i, c := range []rune(s) {
		if i >= width {
			break
		}
		g.set(x+i, y, c)
	}
}

func (g *grid) String() string {
	lines := make([]string, len(g.cells))
	for i, row := range g.cells {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}
