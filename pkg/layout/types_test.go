package layout

import (
	"encoding/json"
	"testing"
)

func TestEdge(t *testing.T) {
	tests := []struct {
		edge     Edge
		name     string
		opposite Edge
		axis     Axis
		low      bool
	}{
		{EdgeLeft, "left", EdgeRight, AxisX, true},
		{EdgeRight, "right", EdgeLeft, AxisX, false},
		{EdgeTop, "top", EdgeBottom, AxisY, true},
		{EdgeBottom, "bottom", EdgeTop, AxisY, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.edge.String() != tt.name {
				t.Errorf("String() = %q", tt.edge.String())
			}
			if tt.edge.Opposite() != tt.opposite {
				t.Errorf("Opposite() = %v", tt.edge.Opposite())
			}
			if tt.edge.Axis() != tt.axis {
				t.Errorf("Axis() = %v", tt.edge.Axis())
			}
			if tt.edge.IsLow() != tt.low {
				t.Errorf("IsLow() = %v", tt.edge.IsLow())
			}
			parsed, err := ParseEdge(tt.name)
			if err != nil || parsed != tt.edge {
				t.Errorf("ParseEdge(%q) = %v, %v", tt.name, parsed, err)
			}
		})
	}

	if _, err := ParseEdge("middle"); err == nil {
		t.Error("ParseEdge(middle) succeeded")
	}
}

func TestConstraint_String(t *testing.T) {
	tests := []struct {
		con  Constraint
		want string
	}{
		{Unconstrained(), "unconstrained"},
		{ToAnchor(0.25), "anchor(0.25)"},
		{ToComponent("nav"), "component(nav)"},
		{Lock(1, -50), "locked(1-50)"},
		{Lock(0, 12.5), "locked(0+12.5)"},
	}
	for _, tt := range tests {
		if got := tt.con.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestConstraint_JSON(t *testing.T) {
	data, err := json.Marshal(ToComponent("nav"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"kind":"component","component":"nav"}` {
		t.Errorf("Marshal = %s", data)
	}

	var c Constraint
	if err := json.Unmarshal([]byte(`{"kind":"anchor","fraction":0.5}`), &c); err != nil {
		t.Fatal(err)
	}
	if c != ToAnchor(0.5) {
		t.Errorf("Unmarshal = %v", c)
	}

	if err := json.Unmarshal([]byte(`{"kind":"sideways"}`), &c); err == nil {
		t.Error("Unmarshal accepted an unknown kind")
	}
}

func TestBox(t *testing.T) {
	b := Box{Left: 10, Top: 20, Right: 50, Bottom: 40}
	if b.Width() != 40 || b.Height() != 20 {
		t.Errorf("size = %vx%v", b.Width(), b.Height())
	}
	if b.CenterX() != 30 || b.CenterY() != 30 {
		t.Errorf("center = %v,%v", b.CenterX(), b.CenterY())
	}
	in := b.Inset(Insets{Left: 1, Right: 2, Top: 3, Bottom: 4})
	if in != (Box{Left: 11, Top: 23, Right: 48, Bottom: 36}) {
		t.Errorf("Inset = %+v", in)
	}
	if lo, hi := b.Span(AxisY); lo != 20 || hi != 40 {
		t.Errorf("Span(y) = %v,%v", lo, hi)
	}
}
