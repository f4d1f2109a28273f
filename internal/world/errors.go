package world

import (
	"errors"
	"fmt"

	"github.com/san-kum/rigid2d/internal/vec"
)

var (
	// ErrInvalidTimestep indicates a dt that is not a positive finite number.
	ErrInvalidTimestep = errors.New("world: timestep must be positive and finite")

	// ErrNoIterations indicates a solver configured with zero passes.
	ErrNoIterations = errors.New("world: solver needs at least one iteration")

	// ErrBodyNotFound indicates an id that was never returned by Add.
	ErrBodyNotFound = errors.New("world: body not found")

	// ErrInvalidState indicates a body whose state went NaN or Inf.
	ErrInvalidState = errors.New("world: invalid body state (NaN or Inf detected)")
)

// StepError wraps an error with the step and body it was observed at.
type StepError struct {
	Step     int
	Time     float64
	Body     BodyID
	Position vec.Vec2
	Velocity vec.Vec2
	Wrapped  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f) body %d: %v", e.Step, e.Time, e.Body, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
