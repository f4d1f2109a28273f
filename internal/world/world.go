package world

import (
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/collision"
	"github.com/san-kum/rigid2d/internal/vec"
)

// BodyID is the insertion index of a body. Ids stay valid for the life of
// the World.
type BodyID int

type World struct {
	dt         float64
	iterations uint
	gravity    vec.Vec2

	bodies   []body.Body
	contacts []collision.Manifold

	logger     *zap.Logger
	checks     bool
	violations int
	lastErr    error

	steps int
	time  float64
}

func New(dt float64, iterations uint, opts ...Option) (*World, error) {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimestep, dt)
	}
	if iterations == 0 {
		return nil, ErrNoIterations
	}

	w := &World{
		dt:         dt,
		iterations: iterations,
		gravity:    DefaultGravity,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add appends b and returns its id. Insertion order is the solver order.
func (w *World) Add(b body.Body) BodyID {
	w.bodies = append(w.bodies, b)
	return BodyID(len(w.bodies) - 1)
}

// Step advances the simulation by dt.
func (w *World) Step() {
	w.contacts = w.contacts[:0]
	for i := range w.bodies {
		for j := i + 1; j < len(w.bodies); j++ {
			if w.bodies[i].IsStatic() && w.bodies[j].IsStatic() {
				continue
			}
			m := collision.New(i, j)
			m.Solve(w.bodies)
			if m.Colliding() {
				w.contacts = append(w.contacts, m)
			}
		}
	}

	for i := range w.bodies {
		w.integrateForces(&w.bodies[i])
	}

	for i := range w.contacts {
		w.contacts[i].Initialize(w.bodies)
	}

	for range w.iterations {
		for i := range w.contacts {
			w.contacts[i].ApplyImpulse(w.bodies)
		}
	}

	for i := range w.bodies {
		w.integrateVelocity(&w.bodies[i])
	}

	for i := range w.contacts {
		w.contacts[i].PositionalCorrection(w.bodies)
	}

	for i := range w.bodies {
		w.bodies[i].Force = vec.Zero
	}

	w.steps++
	w.time += w.dt

	if w.checks {
		w.checkInvariants()
	}
}

func (w *World) checkInvariants() {
	for i, b := range w.bodies {
		if b.IsFinite() {
			continue
		}
		err := &StepError{
			Step:     w.steps,
			Time:     w.time,
			Body:     BodyID(i),
			Position: b.Position,
			Velocity: b.Velocity,
			Wrapped:  ErrInvalidState,
		}
		w.violations++
		w.lastErr = err
		w.logger.Debug("body state invalid",
			zap.Int("step", w.steps),
			zap.Int("body", i),
			zap.Error(err),
		)
	}
}

// Bodies returns a copy of every body in insertion order.
func (w *World) Bodies() []body.Body {
	return slices.Clone(w.bodies)
}

func (w *World) Body(id BodyID) (body.Body, error) {
	if id < 0 || int(id) >= len(w.bodies) {
		return body.Body{}, fmt.Errorf("%w: %d", ErrBodyNotFound, id)
	}
	return w.bodies[id], nil
}

// SetBody replaces the state of an existing body.
func (w *World) SetBody(id BodyID, b body.Body) error {
	if id < 0 || int(id) >= len(w.bodies) {
		return fmt.Errorf("%w: %d", ErrBodyNotFound, id)
	}
	w.bodies[id] = b
	return nil
}

// ApplyForce accumulates f on a body until the end of the next step.
func (w *World) ApplyForce(id BodyID, f vec.Vec2) error {
	if id < 0 || int(id) >= len(w.bodies) {
		return fmt.Errorf("%w: %d", ErrBodyNotFound, id)
	}
	w.bodies[id].ApplyForce(f)
	return nil
}

// ApplyImpulse changes a body's velocity immediately.
func (w *World) ApplyImpulse(id BodyID, j vec.Vec2) error {
	if id < 0 || int(id) >= len(w.bodies) {
		return fmt.Errorf("%w: %d", ErrBodyNotFound, id)
	}
	w.bodies[id].ApplyImpulse(j)
	return nil
}

// Contacts returns the manifolds kept by the last step.
func (w *World) Contacts() []collision.Manifold {
	out := make([]collision.Manifold, len(w.contacts))
	for i, m := range w.contacts {
		m.Contacts = slices.Clone(m.Contacts)
		out[i] = m
	}
	return out
}

func (w *World) Len() int { return len(w.bodies) }
func (w *World) Gravity() vec.Vec2 { return w.gravity }
func (w *World) Dt() float64 { return w.dt }
func (w *World) Iterations() uint { return w.iterations }
func (w *World) Steps() int { return w.steps }
func (w *World) Time() float64 { return w.time }
func (w *World) Violations() int { return w.violations }

// Err returns the most recent invariant violation, or nil.
func (w *World) Err() error { return w.lastErr }
