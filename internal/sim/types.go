package sim

import (
	"math"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/world"
)

// Frame is the world as seen after a step. Bodies is a private copy.
type Frame struct {
	Step           int
	Time           float64
	Gravity        vec.Vec2
	Bodies         []body.Body
	Contacts       int
	MaxPenetration float64
}

// Snapshot captures the current state of w.
func Snapshot(w *world.World) Frame {
	f := Frame{
		Step:    w.Steps(),
		Time:    w.Time(),
		Gravity: w.Gravity(),
		Bodies:  w.Bodies(),
	}
	contacts := w.Contacts()
	f.Contacts = len(contacts)
	for _, m := range contacts {
		f.MaxPenetration = math.Max(f.MaxPenetration, m.Penetration)
	}
	return f
}

// Controller acts on the world before each step, typically through
// ApplyForce or ApplyImpulse.
type Controller interface {
	Apply(w *world.World, t float64) error
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

// Config bounds a run. Steps wins over Duration when both are set.
type Config struct {
	Duration float64
	Steps    int
	// SampleEvery keeps every Nth frame in the result. Zero keeps all.
	SampleEvery int
	// ValidateState stops the run at the first NaN or Inf body.
	ValidateState bool
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Trajectory returns the sampled positions of one body.
func (r *Result) Trajectory(id world.BodyID) []vec.Vec2 {
	out := make([]vec.Vec2, 0, len(r.Frames))
	for _, f := range r.Frames {
		if int(id) < len(f.Bodies) {
			out = append(out, f.Bodies[id].Position)
		}
	}
	return out
}

// Times returns the simulated time of each sampled frame.
func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Time
	}
	return out
}
