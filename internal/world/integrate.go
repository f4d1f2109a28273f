package world

import "github.com/san-kum/rigid2d/internal/body"

// integrateForces is the half kick: v += (F/m + g) * dt/2.
func (w *World) integrateForces(b *body.Body) {
	if b.IsStatic() {
		return
	}
	acc := b.Force.Scale(b.InverseMass).Add(w.gravity)
	b.Velocity = b.Velocity.Add(acc.Scale(w.dt * 0.5))
}

// integrateVelocity drifts the body a full step and applies the closing
// half kick.
func (w *World) integrateVelocity(b *body.Body) {
	if b.IsStatic() {
		return
	}
	b.Position = b.Position.Add(b.Velocity.Scale(w.dt))
	w.integrateForces(b)
}
