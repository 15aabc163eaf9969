package layout

// edgeState is the working copy of one edge during a solve.
type edgeState struct {
	con    Constraint
	target int // index of the referenced component, -1 when not a reference
	pass   int // pass in which the edge locked, 0 when given locked
}

func (e *edgeState) locked() bool { return e.con.Kind == KindLocked }

func (e *edgeState) lock(c Constraint, pass int) {
	e.con = c
	e.pass = pass
}

// axisState holds one axis of a component: its two edges, its effective size
// and whether it is placed by size around a shared anchor.
type axisState struct {
	low, high edgeState
	size      float64
	sizeDelta bool
}

func (a *axisState) complete() bool { return a.low.locked() && a.high.locked() }

// effective returns the locks describing the actual edge positions. For
// size-delta components both raw locks sit on the anchor, so the real edges
// are rebuilt around it with the anchor fraction as pivot.
func (a *axisState) effective() (low, high Constraint) {
	if !a.sizeDelta {
		return a.low.con, a.high.con
	}
	f := a.low.con.Fraction
	return Lock(f, a.low.con.Offset-f*a.size), Lock(f, a.low.con.Offset+(1-f)*a.size)
}

// componentState is the per-component working set, built fresh per solve.
type componentState struct {
	id     string
	insets Insets
	axes   [2]axisState
}

func (s *componentState) edge(e Edge) *edgeState {
	ax := &s.axes[e.Axis()]
	if e.IsLow() {
		return &ax.low
	}
	return &ax.high
}

// buildStates copies the container into index-based working state.
// References to IDs that are not in the container are dangling and behave
// as Unconstrained.
func buildStates(c *Container) []componentState {
	comps := c.Components()
	index := make(map[string]int, len(comps))
	for i, comp := range comps {
		index[comp.ID] = i
	}

	states := make([]componentState, len(comps))
	for i, comp := range comps {
		st := &states[i]
		st.id = comp.ID
		st.insets = comp.Insets
		for _, a := range Axes {
			st.axes[a].size = comp.EffectiveSize(a)
		}
		for _, e := range AllEdges {
			es := st.edge(e)
			es.con = comp.Edge(e)
			es.target = -1
			if es.con.Kind != KindComponent {
				continue
			}
			if t, ok := index[es.con.Target]; ok {
				es.target = t
			} else {
				es.con = Unconstrained()
			}
		}
	}
	return states
}
