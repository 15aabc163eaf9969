package document

import (
	"github.com/matzehuels/relayout/pkg/layout"
	"github.com/matzehuels/relayout/pkg/measure"
)

// Container builds the layout container described by the document.
// Components with a label and no declared size are measured with a
// measure.Text configured by opts.
func (d *Document) Container(opts ...measure.Option) (*layout.Container, error) {
	c := layout.NewContainer()
	c.Margin = d.Margin.layout()

	for i := range d.Components {
		comp, err := d.Components[i].component()
		if err != nil {
			return nil, err
		}
		if err := c.Add(comp); err != nil {
			return nil, err
		}
	}

	c.Measure(measure.NewText(d.Labels(), opts...))
	return c, nil
}

func (dc *Component) component() (*layout.Component, error) {
	comp := layout.NewComponent(dc.ID, dc.Width, dc.Height)
	comp.Insets = dc.Insets.layout()
	if dc.OverrideWidth != nil {
		comp.Override(layout.AxisX, *dc.OverrideWidth)
	}
	if dc.OverrideHeight != nil {
		comp.Override(layout.AxisY, *dc.OverrideHeight)
	}
	for _, e := range layout.AllEdges {
		if err := comp.SetEdge(e, dc.Edge(e).Constraint()); err != nil {
			return nil, err
		}
	}
	return comp, nil
}

// FromContainer describes an existing container as a document. Labels are
// not part of a container and are left empty.
func FromContainer(name string, c *layout.Container) *Document {
	doc := &Document{
		Name: name,
		Margin: Insets{
			Top: c.Margin.Top, Bottom: c.Margin.Bottom,
			Left: c.Margin.Left, Right: c.Margin.Right,
		},
		Components: make([]Component, 0, c.Len()),
	}
	for _, comp := range c.Components() {
		dc := Component{
			ID:             comp.ID,
			Width:          comp.PreferredWidth,
			Height:         comp.PreferredHeight,
			OverrideWidth:  comp.OverrideWidth,
			OverrideHeight: comp.OverrideHeight,
			Insets: Insets{
				Top: comp.Insets.Top, Bottom: comp.Insets.Bottom,
				Left: comp.Insets.Left, Right: comp.Insets.Right,
			},
		}
		for _, e := range layout.AllEdges {
			*dc.edgeField(e) = fromConstraint(comp.Edge(e))
		}
		doc.Components = append(doc.Components, dc)
	}
	return doc
}

func (c *Component) edgeField(e layout.Edge) **Edge {
	switch e {
	case layout.EdgeLeft:
		return &c.Left
	case layout.EdgeRight:
		return &c.Right
	case layout.EdgeTop:
		return &c.Top
	default:
		return &c.Bottom
	}
}

// fromConstraint maps a constraint back to a document edge. Locked edges
// have no document form and become absent.
func fromConstraint(con layout.Constraint) *Edge {
	switch con.Kind {
	case layout.KindAnchor:
		return Anchor(con.Fraction)
	case layout.KindComponent:
		return Ref(con.Target)
	default:
		return nil
	}
}
