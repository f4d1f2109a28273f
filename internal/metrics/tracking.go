package metrics

import (
	"github.com/san-kum/rigid2d/internal/sim"
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/world"
)

// TrackingError is the mean distance of one body from a target point over
// the second half of the observed frames, after the controller has had
// time to act.
type TrackingError struct {
	Body   world.BodyID
	Target vec.Vec2

	errs []float64
}

func NewTrackingError(id world.BodyID, target vec.Vec2) *TrackingError {
	return &TrackingError{Body: id, Target: target}
}

func (t *TrackingError) Name() string { return "tracking_error" }

func (t *TrackingError) Observe(f sim.Frame) {
	if int(t.Body) >= len(f.Bodies) {
		return
	}
	t.errs = append(t.errs, f.Bodies[t.Body].Position.Sub(t.Target).Len())
}

func (t *TrackingError) Value() float64 {
	tail := t.errs[len(t.errs)/2:]
	if len(tail) == 0 {
		return 0
	}
	var sum float64
	for _, e := range tail {
		sum += e
	}
	return sum / float64(len(tail))
}

func (t *TrackingError) Reset() { t.errs = t.errs[:0] }
