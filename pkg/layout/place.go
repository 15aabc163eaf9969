package layout

// Placement is the final position of one component.
type Placement struct {
	ID string `json:"id"`
	// Slot is the area between the component's resolved edges.
	Slot Box `json:"slot"`
	// Box is the slot with the component's insets removed.
	Box Box `json:"box"`
}

// Positioner receives final boxes. It is the hook into whatever actually
// draws: a renderer, a terminal grid, a host toolkit's transform.
type Positioner interface {
	Position(id string, box Box) error
}

// PositionerFunc adapts a function to the Positioner interface.
type PositionerFunc func(id string, box Box) error

// Position calls f(id, box).
func (f PositionerFunc) Position(id string, box Box) error { return f(id, box) }

// Fit returns the container size used for placement: the requested size,
// raised to the solution's minimum where it falls short. A zero request means
// "use the minimum".
func (s *Solution) Fit(width, height float64) (float64, float64) {
	return max(width, s.MinWidth), max(height, s.MinHeight)
}

// Place computes every component's box inside a container of the given
// size. It is a pure function of the solution.
//
// Each edge sits at fraction*size + offset. Edges on the container boundary
// (fraction <= 0 or >= 1) are pulled in by the container margin.
func Place(s *Solution, width, height float64) []Placement {
	width, height = s.Fit(width, height)
	out := make([]Placement, len(s.Components))
	for i, r := range s.Components {
		left, right := placeAxis(r, AxisX, width, s.Margin)
		top, bottom := placeAxis(r, AxisY, height, s.Margin)
		slot := Box{Left: left, Top: top, Right: right, Bottom: bottom}
		out[i] = Placement{ID: r.ID, Slot: slot, Box: slot.Inset(r.Insets)}
	}
	return out
}

// Apply places every component and hands its box to p, in component order.
// It stops at the first error.
func Apply(s *Solution, width, height float64, p Positioner) error {
	for _, pl := range Place(s, width, height) {
		if err := p.Position(pl.ID, pl.Box); err != nil {
			return err
		}
	}
	return nil
}

func placeAxis(r Resolved, a Axis, size float64, margin Insets) (float64, float64) {
	lo, hi := r.Effective(a)
	mLow, mHigh := margin.Along(a)
	return edgePixel(lo, size, mLow, mHigh), edgePixel(hi, size, mLow, mHigh)
}

func edgePixel(c Constraint, size, mLow, mHigh float64) float64 {
	px := c.Position(size)
	switch {
	case c.Fraction <= 0:
		px += mLow
	case c.Fraction >= 1:
		px -= mHigh
	}
	return px
}
