// Package layout solves relative 2D layouts.
//
// # Overview
//
// A [Container] holds rectangular [Component]s. Each component has four edges
// and every edge carries a [Constraint]:
//
//   - Unconstrained: nothing is known yet
//   - [ToAnchor]: the edge sits at a fraction of the container's size
//   - [ToComponent]: the edge sits where the opposite edge of another
//     component sits (my left edge at X's right edge)
//   - [Lock]: the terminal state, position = fraction*containerSize + offset
//
// [Solve] turns a partially constrained container into a [Solution] where
// every edge is locked, and computes the container's minimum size. [Place]
// then converts the solution into pixel boxes for a concrete container size,
// and [Apply] hands those boxes to a [Positioner].
//
// # Resolution
//
// Each axis is solved independently, X first. A pass visits every component
// and, for each edge pair on the axis:
//
//  1. locks both edges at once when they are anchored to the same fraction
//     (the component is then placed by size around that point)
//  2. locks anchored edges with a zero offset
//  3. copies the lock of the referenced component's opposite edge
//  4. derives a free edge from its own locked opposite edge and the
//     component's effective size, or fills the container when both edges
//     are free
//
// Passes repeat until every edge is locked. After 2*N passes without
// convergence the solve fails with an [*UnresolvedError] that lists the edges
// still open and the reference cycles among them.
//
// The solver is pure: it builds its working state from the container on every
// call, never mutates the container, and has no side effects.
//
// # Coordinates
//
// Positions grow rightward on X and downward on Y, so Left and Top are the low
// edges of their axis.
package layout
