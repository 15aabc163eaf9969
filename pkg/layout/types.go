package layout

import (
	"fmt"
	"strings"

	"github.com/matzehuels/relayout/pkg/errors"
)

// =============================================================================
// Axis & Edge
// =============================================================================

// Axis is one of the two layout dimensions.
type Axis int

const (
	AxisX Axis = iota // horizontal, edges Left/Right
	AxisY             // vertical, edges Top/Bottom
)

// Axes lists both axes in solve order.
var Axes = [2]Axis{AxisX, AxisY}

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// Edges returns the low and high edge of the axis.
func (a Axis) Edges() (low, high Edge) {
	if a == AxisY {
		return EdgeTop, EdgeBottom
	}
	return EdgeLeft, EdgeRight
}

// Edge identifies one side of a component.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// AllEdges lists the four edges in canonical order.
var AllEdges = [4]Edge{EdgeLeft, EdgeRight, EdgeTop, EdgeBottom}

var edgeNames = [4]string{"left", "right", "top", "bottom"}

func (e Edge) String() string {
	if e < EdgeLeft || e > EdgeBottom {
		return fmt.Sprintf("edge(%d)", int(e))
	}
	return edgeNames[e]
}

// Opposite returns the other edge on the same axis.
func (e Edge) Opposite() Edge {
	switch e {
	case EdgeLeft:
		return EdgeRight
	case EdgeRight:
		return EdgeLeft
	case EdgeTop:
		return EdgeBottom
	default:
		return EdgeTop
	}
}

// Axis returns the axis the edge belongs to.
func (e Edge) Axis() Axis {
	if e == EdgeTop || e == EdgeBottom {
		return AxisY
	}
	return AxisX
}

// IsLow reports whether e is the low edge of its axis (Left or Top).
func (e Edge) IsLow() bool { return e == EdgeLeft || e == EdgeTop }

// ParseEdge parses an edge name ("left", "right", "top", "bottom").
func ParseEdge(s string) (Edge, error) {
	for i, name := range edgeNames {
		if strings.EqualFold(s, name) {
			return Edge(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown edge %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (e Edge) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Edge) UnmarshalText(b []byte) error {
	v, err := ParseEdge(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// =============================================================================
// Constraint
// =============================================================================

// Kind discriminates the Constraint variants.
type Kind int

const (
	KindUnconstrained Kind = iota
	KindAnchor
	KindComponent
	KindLocked
)

var kindNames = [4]string{"unconstrained", "anchor", "component", "locked"}

func (k Kind) String() string {
	if k < KindUnconstrained || k > KindLocked {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if string(b) == name {
			*k = Kind(i)
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown constraint kind %q", string(b))
}

// Constraint describes where one edge of a component sits.
//
// The zero value is Unconstrained. Fraction is used by anchors and locks,
// Offset only by locks, Target only by component references.
type Constraint struct {
	Kind     Kind    `json:"kind"`
	Fraction float64 `json:"fraction,omitempty"`
	Offset   float64 `json:"offset,omitempty"`
	Target   string  `json:"component,omitempty"`
}

// Unconstrained returns an edge constraint carrying no information.
func Unconstrained() Constraint { return Constraint{} }

// ToAnchor pins an edge to a fraction (0..1) of the container's size.
func ToAnchor(fraction float64) Constraint {
	return Constraint{Kind: KindAnchor, Fraction: fraction}
}

// ToComponent pins an edge to the opposite edge of the component with the
// given ID.
func ToComponent(id string) Constraint {
	return Constraint{Kind: KindComponent, Target: id}
}

// Lock returns a resolved constraint at fraction*size + offset.
func Lock(fraction, offset float64) Constraint {
	return Constraint{Kind: KindLocked, Fraction: fraction, Offset: offset}
}

// IsLocked reports whether the constraint is fully resolved.
func (c Constraint) IsLocked() bool { return c.Kind == KindLocked }

// Position returns the edge position inside a container of the given size.
// Only meaningful for locked constraints.
func (c Constraint) Position(size float64) float64 {
	return c.Fraction*size + c.Offset
}

func (c Constraint) String() string {
	switch c.Kind {
	case KindAnchor:
		return fmt.Sprintf("anchor(%g)", c.Fraction)
	case KindComponent:
		return fmt.Sprintf("component(%s)", c.Target)
	case KindLocked:
		return fmt.Sprintf("locked(%g%+g)", c.Fraction, c.Offset)
	default:
		return "unconstrained"
	}
}

// =============================================================================
// Geometry
// =============================================================================

// Insets is a fixed margin box around a component or inside a container.
type Insets struct {
	Top    float64 `json:"top,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`
	Left   float64 `json:"left,omitempty"`
	Right  float64 `json:"right,omitempty"`
}

// Uniform returns insets with the same value on all four sides.
func Uniform(v float64) Insets { return Insets{Top: v, Bottom: v, Left: v, Right: v} }

// Along returns the low and high inset on the axis.
func (in Insets) Along(a Axis) (low, high float64) {
	if a == AxisY {
		return in.Top, in.Bottom
	}
	return in.Left, in.Right
}

// Sum returns the total inset on the axis.
func (in Insets) Sum(a Axis) float64 {
	lo, hi := in.Along(a)
	return lo + hi
}

// Box is an axis-aligned rectangle in container pixels.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width returns the horizontal span of the box.
func (b Box) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the box.
func (b Box) Height() float64 { return b.Bottom - b.Top }

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// Inset shrinks the box by the given insets.
func (b Box) Inset(in Insets) Box {
	return Box{
		Left:   b.Left + in.Left,
		Top:    b.Top + in.Top,
		Right:  b.Right - in.Right,
		Bottom: b.Bottom - in.Bottom,
	}
}

// Span returns the low and high coordinate of the box on the axis.
func (b Box) Span(a Axis) (low, high float64) {
	if a == AxisY {
		return b.Top, b.Bottom
	}
	return b.Left, b.Right
}
