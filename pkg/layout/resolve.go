package layout

import "math"

// Solution is the fully locked result of a solve.
type Solution struct {
	Margin     Insets     `json:"margin"`
	Components []Resolved `json:"components"`
	MinWidth   float64    `json:"min_width"`
	MinHeight  float64    `json:"min_height"`
	PassesX    int        `json:"passes_x"`
	PassesY    int        `json:"passes_y"`
}

// Resolved is one component after solving. All four edges are locked.
type Resolved struct {
	ID     string        `json:"id"`
	Edges  [4]Constraint `json:"edges"`
	Width  float64       `json:"width"`  // effective width, insets included
	Height float64       `json:"height"` // effective height, insets included
	Insets Insets        `json:"insets"`

	// SizeDeltaX/Y mark axes whose edges were anchored to the same fraction.
	// Both edges then lock at that fraction with offset 0 and the component
	// is placed by its size around the anchor point.
	SizeDeltaX bool `json:"size_delta_x,omitempty"`
	SizeDeltaY bool `json:"size_delta_y,omitempty"`

	// LockedIn records the pass in which each edge locked.
	LockedIn [4]int `json:"locked_in"`
}

// Edge returns the locked constraint on edge e.
func (r Resolved) Edge(e Edge) Constraint { return r.Edges[e] }

// Size returns the effective size on the axis.
func (r Resolved) Size(a Axis) float64 {
	if a == AxisY {
		return r.Height
	}
	return r.Width
}

// SizeDelta reports whether the axis is placed by size around an anchor.
func (r Resolved) SizeDelta(a Axis) bool {
	if a == AxisY {
		return r.SizeDeltaY
	}
	return r.SizeDeltaX
}

// Effective returns the locks describing where the edges of the axis really
// are, which differs from Edges only for size-delta axes.
func (r Resolved) Effective(a Axis) (low, high Constraint) {
	lo, hi := a.Edges()
	ax := axisState{
		low:       edgeState{con: r.Edges[lo]},
		high:      edgeState{con: r.Edges[hi]},
		size:      r.Size(a),
		sizeDelta: r.SizeDelta(a),
	}
	return ax.effective()
}

// Component returns the resolved component with the given ID.
func (s *Solution) Component(id string) (Resolved, bool) {
	for _, r := range s.Components {
		if r.ID == id {
			return r, true
		}
	}
	return Resolved{}, false
}

// Passes returns the number of passes the axis needed.
func (s *Solution) Passes(a Axis) int {
	if a == AxisY {
		return s.PassesY
	}
	return s.PassesX
}

// MinSize returns the minimum container size on the axis.
func (s *Solution) MinSize(a Axis) float64 {
	if a == AxisY {
		return s.MinHeight
	}
	return s.MinWidth
}

// =============================================================================
// Solve
// =============================================================================

// MaxPasses returns the pass bound for n components: 2*n.
//
// An acyclic axis converges within 2*n-1 passes. A pass locks a whole run of
// a reference chain whose components come in insertion order, and a chain
// over 2*n edges has at most 2*n-2 places where the order goes backwards. A
// simple chain with one edge per component needs at most n.
func MaxPasses(n int) int { return 2 * n }

// Solve resolves every edge of every component in c and derives the
// container's minimum size.
//
// Configuration errors (self references, duplicate or malformed IDs, anchors
// outside [0, 1]) are reported before any pass runs. If an axis does not
// converge within MaxPasses passes, Solve returns an *UnresolvedError listing
// the open edges of both axes. The container is never modified.
func Solve(c *Container) (*Solution, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	states := buildStates(c)

	var passes [2]int
	var open []EdgeRef
	failed := 0
	for _, a := range Axes {
		n, unresolved := resolveAxis(states, a)
		passes[a] = n
		if len(unresolved) > 0 {
			open = append(open, unresolved...)
			failed = max(failed, n)
		}
	}
	if len(open) > 0 {
		return nil, newUnresolvedError(states, sortRefs(c, open), failed)
	}

	sol := &Solution{
		Margin:     c.Margin,
		Components: make([]Resolved, len(states)),
		PassesX:    passes[AxisX],
		PassesY:    passes[AxisY],
	}
	for i := range states {
		sol.Components[i] = states[i].resolved()
	}
	sol.MinWidth = containerSize(states, AxisX) + c.Margin.Sum(AxisX)
	sol.MinHeight = containerSize(states, AxisY) + c.Margin.Sum(AxisY)
	return sol, nil
}

func (s *componentState) resolved() Resolved {
	r := Resolved{
		ID:         s.id,
		Width:      s.axes[AxisX].size,
		Height:     s.axes[AxisY].size,
		Insets:     s.insets,
		SizeDeltaX: s.axes[AxisX].sizeDelta,
		SizeDeltaY: s.axes[AxisY].sizeDelta,
	}
	for _, e := range AllEdges {
		es := s.edge(e)
		r.Edges[e] = es.con
		r.LockedIn[e] = es.pass
	}
	return r
}

// resolveAxis runs passes on one axis until every edge is locked or the pass
// bound is exhausted. It returns the number of passes run and the edges left
// open, in state order.
func resolveAxis(states []componentState, a Axis) (int, []EdgeRef) {
	if axisComplete(states, a) {
		return 0, nil
	}
	limit := MaxPasses(len(states))
	for pass := 1; pass <= limit; pass++ {
		for i := range states {
			step(states, i, a, pass)
		}
		if axisComplete(states, a) {
			return pass, nil
		}
	}

	lo, hi := a.Edges()
	var open []EdgeRef
	for i := range states {
		ax := &states[i].axes[a]
		if !ax.low.locked() {
			open = append(open, EdgeRef{Component: states[i].id, Edge: lo})
		}
		if !ax.high.locked() {
			open = append(open, EdgeRef{Component: states[i].id, Edge: hi})
		}
	}
	return limit, open
}

func axisComplete(states []componentState, a Axis) bool {
	for i := range states {
		if !states[i].axes[a].complete() {
			return false
		}
	}
	return true
}

// step advances one component on one axis within a pass.
func step(states []componentState, i int, a Axis, pass int) {
	ax := &states[i].axes[a]
	if ax.complete() {
		return
	}

	// Same anchor on both edges: lock both on the anchor and place by size.
	if ax.low.con.Kind == KindAnchor && ax.high.con.Kind == KindAnchor &&
		ax.low.con.Fraction == ax.high.con.Fraction {
		f := ax.low.con.Fraction
		ax.low.lock(Lock(f, 0), pass)
		ax.high.lock(Lock(f, 0), pass)
		ax.sizeDelta = true
		return
	}

	for _, es := range []*edgeState{&ax.low, &ax.high} {
		if es.con.Kind == KindAnchor {
			es.lock(Lock(es.con.Fraction, 0), pass)
		}
	}

	// My low edge sits at the target's high edge and vice versa.
	if ax.low.con.Kind == KindComponent {
		if _, hi := states[ax.low.target].axes[a].lockedEdges(); hi != nil {
			ax.low.lock(*hi, pass)
		}
	}
	if ax.high.con.Kind == KindComponent {
		if lo, _ := states[ax.high.target].axes[a].lockedEdges(); lo != nil {
			ax.high.lock(*lo, pass)
		}
	}

	lowFree := ax.low.con.Kind == KindUnconstrained
	highFree := ax.high.con.Kind == KindUnconstrained
	switch {
	case lowFree && highFree:
		ax.low.lock(Lock(0, 0), pass)
		ax.high.lock(Lock(1, 0), pass)
	case lowFree && ax.high.locked():
		hi := ax.high.con
		ax.low.lock(Lock(hi.Fraction, hi.Offset-ax.size), pass)
	case highFree && ax.low.locked():
		lo := ax.low.con
		ax.high.lock(Lock(lo.Fraction, lo.Offset+ax.size), pass)
	}
}

// lockedEdges returns the effective locks of the axis, nil for edges that are
// not locked yet. Size-delta axes are only ever fully locked.
func (a *axisState) lockedEdges() (low, high *Constraint) {
	if a.complete() {
		lo, hi := a.effective()
		return &lo, &hi
	}
	if a.low.locked() {
		lo := a.low.con
		low = &lo
	}
	if a.high.locked() {
		hi := a.high.con
		high = &hi
	}
	return low, high
}

// =============================================================================
// Container size
// =============================================================================

// ElbowRoom returns the container size a component needs on one axis so that
// it keeps its effective size between its two locked edges.
//
// When the high edge is anchored further along than the low edge, the span
// between the anchors grows with the container and the size follows from
// solving fraction*W + offset for W. Otherwise the component needs at least
// its own size and the magnitude of either offset.
func ElbowRoom(low, high Constraint, size float64) float64 {
	if df := high.Fraction - low.Fraction; df > 0 {
		return (size + low.Offset - high.Offset) / df
	}
	return max(size, math.Abs(low.Offset), math.Abs(high.Offset))
}

func containerSize(states []componentState, a Axis) float64 {
	size := 0.0
	for i := range states {
		ax := &states[i].axes[a]
		lo, hi := ax.effective()
		size = max(size, ElbowRoom(lo, hi, ax.size))
	}
	return size
}
