package layout

import (
	"math"

	"github.com/matzehuels/relayout/pkg/errors"
)

// Measurer supplies the intrinsic size of a component. It is the collaborator
// that knows about content (text, images); the solver itself never measures.
// ok is false when the measurer has nothing to say about id.
type Measurer interface {
	Measure(id string) (width, height float64, ok bool)
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(id string) (width, height float64, ok bool)

// Measure calls f(id).
func (f MeasurerFunc) Measure(id string) (float64, float64, bool) { return f(id) }

// =============================================================================
// Component
// =============================================================================

// Component is one rectangular layout participant.
//
// Preferred sizes come from the component's content; an override replaces
// the preferred size on its axis. Insets are added on top of either.
type Component struct {
	ID              string
	PreferredWidth  float64
	PreferredHeight float64
	OverrideWidth   *float64
	OverrideHeight  *float64
	Insets          Insets

	edges [4]Constraint
}

// NewComponent creates an unconstrained component with a preferred size.
func NewComponent(id string, width, height float64) *Component {
	return &Component{ID: id, PreferredWidth: width, PreferredHeight: height}
}

// Edge returns the constraint on edge e.
func (c *Component) Edge(e Edge) Constraint { return c.edges[e] }

// SetEdge replaces the constraint on edge e. A reference to the component
// itself is rejected with ErrCodeSelfReference, an anchor outside [0, 1] with
// ErrCodeInvalidConstraint.
func (c *Component) SetEdge(e Edge, con Constraint) error {
	if err := checkConstraint(c.ID, e, con); err != nil {
		return err
	}
	c.edges[e] = con
	return nil
}

// MustSetEdge is SetEdge for statically known constraints. It panics on error.
func (c *Component) MustSetEdge(e Edge, con Constraint) *Component {
	if err := c.SetEdge(e, con); err != nil {
		panic(err)
	}
	return c
}

// Override fixes the component's size on an axis, bypassing the preferred
// size.
func (c *Component) Override(a Axis, v float64) {
	if a == AxisY {
		c.OverrideHeight = &v
		return
	}
	c.OverrideWidth = &v
}

// EffectiveSize returns (override ?? preferred) + insets on the axis.
func (c *Component) EffectiveSize(a Axis) float64 {
	size := c.PreferredWidth
	override := c.OverrideWidth
	if a == AxisY {
		size = c.PreferredHeight
		override = c.OverrideHeight
	}
	if override != nil {
		size = *override
	}
	return size + c.Insets.Sum(a)
}

func checkConstraint(id string, e Edge, con Constraint) error {
	switch con.Kind {
	case KindAnchor:
		if err := errors.ValidateFraction(con.Fraction); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConstraint, err, "%s.%s", id, e)
		}
	case KindComponent:
		if con.Target == id {
			return errors.New(errors.ErrCodeSelfReference, "%s.%s references its own component", id, e)
		}
		if err := errors.ValidateComponentID(con.Target); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConstraint, err, "%s.%s", id, e)
		}
	case KindLocked:
		if math.IsNaN(con.Fraction) || math.IsInf(con.Fraction, 0) ||
			math.IsNaN(con.Offset) || math.IsInf(con.Offset, 0) {
			return errors.New(errors.ErrCodeInvalidConstraint, "%s.%s: locked position must be finite", id, e)
		}
	case KindUnconstrained:
	default:
		return errors.New(errors.ErrCodeInvalidConstraint, "%s.%s: unknown constraint kind %d", id, e, int(con.Kind))
	}
	return nil
}

func (c *Component) validate() error {
	if err := errors.ValidateComponentID(c.ID); err != nil {
		return err
	}
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"width", c.PreferredWidth},
		{"height", c.PreferredHeight},
		{"override width", deref(c.OverrideWidth)},
		{"override height", deref(c.OverrideHeight)},
	} {
		if err := errors.ValidateSize(c.ID+" "+v.name, v.val); err != nil {
			return err
		}
	}
	for _, e := range AllEdges {
		if err := checkConstraint(c.ID, e, c.edges[e]); err != nil {
			return err
		}
	}
	return nil
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// =============================================================================
// Container
// =============================================================================

// Container is the parent whose children are laid out. Insertion order is
// kept for diagnostics; solving does not depend on it.
type Container struct {
	// Margin is applied to edges touching the container boundary.
	Margin Insets

	components []*Component
	index      map[string]int
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{index: make(map[string]int)}
}

// Add appends components. Empty, malformed, or duplicate IDs and
// self-referencing edges are rejected.
func (c *Container) Add(comps ...*Component) error {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	for _, comp := range comps {
		if comp == nil {
			return errors.New(errors.ErrCodeInvalidInput, "nil component")
		}
		if err := comp.validate(); err != nil {
			return err
		}
		if _, dup := c.index[comp.ID]; dup {
			return errors.New(errors.ErrCodeDuplicateComponent, "duplicate component %q", comp.ID)
		}
		c.index[comp.ID] = len(c.components)
		c.components = append(c.components, comp)
	}
	return nil
}

// Components returns the components in insertion order.
// The returned slice must not be modified.
func (c *Container) Components() []*Component { return c.components }

// Component returns the component with the given ID.
func (c *Container) Component(id string) (*Component, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.components[i], true
}

// Len returns the number of components.
func (c *Container) Len() int { return len(c.components) }

// Measure asks m for the intrinsic size of every component whose preferred
// size is zero on an axis. Sizes already declared are kept.
func (c *Container) Measure(m Measurer) {
	if m == nil {
		return
	}
	for _, comp := range c.components {
		if comp.PreferredWidth != 0 && comp.PreferredHeight != 0 {
			continue
		}
		w, h, ok := m.Measure(comp.ID)
		if !ok {
			continue
		}
		if comp.PreferredWidth == 0 {
			comp.PreferredWidth = w
		}
		if comp.PreferredHeight == 0 {
			comp.PreferredHeight = h
		}
	}
}

// Validate re-checks every component. Edges may be changed after Add, so
// Solve calls this before running any pass.
func (c *Container) Validate() error {
	seen := make(map[string]bool, len(c.components))
	for _, comp := range c.components {
		if err := comp.validate(); err != nil {
			return err
		}
		if seen[comp.ID] {
			return errors.New(errors.ErrCodeDuplicateComponent, "duplicate component %q", comp.ID)
		}
		seen[comp.ID] = true
	}
	return nil
}
