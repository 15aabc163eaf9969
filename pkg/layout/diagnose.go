package layout

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/relayout/pkg/errors"
)

// EdgeRef names one edge of one component.
type EdgeRef struct {
	Component string `json:"component"`
	Edge      Edge   `json:"edge"`
}

func (r EdgeRef) String() string { return r.Component + "." + r.Edge.String() }

// UnresolvedError reports a constraint graph that did not converge within
// the pass bound. The layout must not be rendered.
type UnresolvedError struct {
	// Unresolved lists every open edge, ordered by component insertion order
	// and then by edge.
	Unresolved []EdgeRef
	// Cycles lists the reference loops among the open edges. Each cycle
	// starts at the edge where the walk over Unresolved first entered it.
	Cycles [][]EdgeRef
	// Passes is the number of passes run on the failing axis.
	Passes int
}

func (e *UnresolvedError) Error() string {
	names := make([]string, len(e.Unresolved))
	for i, r := range e.Unresolved {
		names[i] = r.String()
	}
	msg := fmt.Sprintf("%d edges unresolved after %d passes: %s",
		len(e.Unresolved), e.Passes, strings.Join(names, ", "))
	for _, c := range e.Cycles {
		msg += "; cycle " + formatCycle(c)
	}
	return msg
}

// Unwrap exposes the error code so errors.Is(err, errors.ErrCodeUnresolved)
// holds.
func (e *UnresolvedError) Unwrap() error {
	return errors.New(errors.ErrCodeUnresolved, "constraint graph did not converge")
}

func formatCycle(c []EdgeRef) string {
	parts := make([]string, 0, len(c)+1)
	for _, r := range c {
		parts = append(parts, r.String())
	}
	if len(c) > 0 {
		parts = append(parts, c[0].String())
	}
	return strings.Join(parts, " -> ")
}

// sortRefs orders refs by component insertion order, then by edge.
func sortRefs(c *Container, refs []EdgeRef) []EdgeRef {
	order := make(map[string]int, c.Len())
	for i, comp := range c.Components() {
		order[comp.ID] = i
	}
	slices.SortStableFunc(refs, func(a, b EdgeRef) int {
		if d := order[a.Component] - order[b.Component]; d != 0 {
			return d
		}
		return int(a.Edge) - int(b.Edge)
	})
	return refs
}

func newUnresolvedError(states []componentState, open []EdgeRef, passes int) *UnresolvedError {
	return &UnresolvedError{
		Unresolved: open,
		Cycles:     findCycles(states, open),
		Passes:     passes,
	}
}

// findCycles walks the "waits for" relation among open edges. A reference
// waits for the opposite edge of its target; a free edge waits for its own
// opposite edge. Every open edge waits for at most one other, so each cycle
// is found exactly once by a white/gray/black depth-first walk.
func findCycles(states []componentState, open []EdgeRef) [][]EdgeRef {
	index := make(map[string]int, len(states))
	for i := range states {
		index[states[i].id] = i
	}
	isOpen := make(map[EdgeRef]bool, len(open))
	for _, r := range open {
		isOpen[r] = true
	}

	next := func(r EdgeRef) (EdgeRef, bool) {
		es := states[index[r.Component]].edge(r.Edge)
		var dep EdgeRef
		switch es.con.Kind {
		case KindComponent:
			dep = EdgeRef{Component: states[es.target].id, Edge: r.Edge.Opposite()}
		case KindUnconstrained:
			dep = EdgeRef{Component: r.Component, Edge: r.Edge.Opposite()}
		default:
			return EdgeRef{}, false
		}
		return dep, isOpen[dep]
	}

	const (
		white = iota
		gray
		black
	)
	color := make(map[EdgeRef]int, len(open))
	var cycles [][]EdgeRef

	for _, start := range open {
		if color[start] != white {
			continue
		}
		var path []EdgeRef
		cur := start
		for {
			color[cur] = gray
			path = append(path, cur)
			dep, ok := next(cur)
			if !ok || color[dep] == black {
				break
			}
			if color[dep] == gray {
				at := slices.Index(path, dep)
				cycles = append(cycles, slices.Clone(path[at:]))
				break
			}
			cur = dep
		}
		for _, r := range path {
			color[r] = black
		}
	}
	return cycles
}
