// Package body defines the simulated point mass: a shape plus kinematic
// state and material.
//
// An inverse mass of zero marks a static body. Static bodies absorb any
// impulse without changing velocity, which lets level geometry take part in
// collisions without special cases in the solver.
package body

import (
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/vec"
)

type Body struct {
	Shape    shape.Shape
	Position vec.Vec2
	Velocity vec.Vec2
	// Force accumulates until the world clears it at the end of a step.
	Force       vec.Vec2
	Restitution float64
	Mass        float64
	InverseMass float64
}

// New derives mass from the shape. Restitution is expected in [0, 1].
func New(s shape.Shape, position vec.Vec2, restitution float64) Body {
	mass := s.ComputeMass()
	inv := 0.0
	if mass > 0 {
		inv = 1 / mass
	}
	return Body{
		Shape:       s,
		Position:    position,
		Restitution: restitution,
		Mass:        mass,
		InverseMass: inv,
	}
}

// ApplyForce adds f to the accumulated force. Velocity changes at the
// next integration.
func (b *Body) ApplyForce(f vec.Vec2) {
	b.Force = b.Force.Add(f)
}

func (b *Body) ApplyImpulse(j vec.Vec2) {
	b.Velocity = b.Velocity.Add(j.Scale(b.InverseMass))
}

// MakeStatic gives the body infinite mass regardless of its shape.
func (b *Body) MakeStatic() {
	b.Mass = 0
	b.InverseMass = 0
}

func (b Body) IsStatic() bool {
	return b.InverseMass == 0
}

// Bounds returns the world-space box enclosing the body.
func (b Body) Bounds() (min, max vec.Vec2) {
	h := b.Shape.HalfExtents()
	return b.Position.Sub(h), b.Position.Add(h)
}

// IsFinite reports whether the kinematic state is free of NaN and Inf.
func (b Body) IsFinite() bool {
	return b.Position.IsFinite() && b.Velocity.IsFinite() && b.Force.IsFinite()
}
