// Package collision implements the per-pair narrow phase and the impulse
// solver that acts on its result.
//
// A [Manifold] names its two bodies by index into a body slice owned by the
// caller, so the solver can mutate both ends of a pair without holding
// pointers across steps:
//
//	m := collision.New(i, j)
//	m.Solve(bodies)
//	if m.Colliding() {
//	    m.Initialize(bodies)
//	    m.ApplyImpulse(bodies)
//	    m.PositionalCorrection(bodies)
//	}
//
// The normal always points from body A toward body B.
package collision
