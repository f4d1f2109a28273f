package collision

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/vec"
)

const (
	// Slop is the penetration allowed before positional correction kicks in.
	Slop = 0.05
	// Percent of the remaining penetration removed per step.
	Percent = 0.4

	infiniteMassEpsilon = 1e-5
)

// ErrUnknownShapePair means the dispatch table has no entry for a pair of
// shape tags. Reaching it is a programming error.
var ErrUnknownShapePair = errors.New("collision: no narrow phase for shape pair")

type Manifold struct {
	A, B        int
	Normal      vec.Vec2
	Penetration float64
	// E is the effective restitution, set by Initialize.
	E        float64
	Contacts []vec.Vec2
}

func New(a, b int) Manifold {
	return Manifold{A: a, B: b, Normal: vec.New(0, 1)}
}

// Colliding reports whether Solve produced any contact point. A manifold
// without contacts must be discarded.
func (m Manifold) Colliding() bool {
	return len(m.Contacts) > 0
}

// Solve runs the narrow phase for the pair and fills normal, penetration
// and contacts.
func (m *Manifold) Solve(bodies []body.Body) {
	a, b := &bodies[m.A], &bodies[m.B]
	fn := lookup(a.Shape.Type(), b.Shape.Type())
	if fn == nil {
		panic(fmt.Errorf("%w: %v x %v", ErrUnknownShapePair, a.Shape.Type(), b.Shape.Type()))
	}
	m.Contacts = m.Contacts[:0]
	fn(m, a, b)
}

func (m *Manifold) Initialize(bodies []body.Body) {
	m.E = math.Min(bodies[m.A].Restitution, bodies[m.B].Restitution)
}

// ApplyImpulse performs one sequential-impulse iteration for the pair.
func (m *Manifold) ApplyImpulse(bodies []body.Body) {
	a, b := &bodies[m.A], &bodies[m.B]

	invMassSum := a.InverseMass + b.InverseMass
	if math.Abs(invMassSum) < infiniteMassEpsilon {
		a.Velocity = vec.Zero
		b.Velocity = vec.Zero
		return
	}

	rv := b.Velocity.Sub(a.Velocity).Dot(m.Normal)
	if rv > 0 {
		return
	}

	j := -(1 + m.E) * rv / invMassSum
	impulse := m.Normal.Scale(j)
	a.ApplyImpulse(impulse.Neg())
	b.ApplyImpulse(impulse)
}

// PositionalCorrection pushes the pair apart along the normal to remove
// the part of the penetration above Slop, split by inverse mass.
func (m *Manifold) PositionalCorrection(bodies []body.Body) {
	a, b := &bodies[m.A], &bodies[m.B]

	invMassSum := a.InverseMass + b.InverseMass
	if invMassSum == 0 {
		return
	}

	correction := m.Normal.Scale(math.Max(m.Penetration-Slop, 0) / invMassSum * Percent)
	a.Position = a.Position.Sub(correction.Scale(a.InverseMass))
	b.Position = b.Position.Add(correction.Scale(b.InverseMass))
}
