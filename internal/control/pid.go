package control

import (
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/world"
)

// PID steers a body's position towards Target. Gains are per unit mass,
// so the same tuning works for any body size. Gravity is cancelled by a
// feed-forward term.
type PID struct {
	Body   world.BodyID
	Kp     float64
	Ki     float64
	Kd     float64
	Target vec.Vec2

	integral vec.Vec2
	prevErr  vec.Vec2
	prevT    float64
	first    bool
}

func NewPID(id world.BodyID, kp, ki, kd float64, target vec.Vec2) *PID {
	return &PID{
		Body:   id,
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

// Compute returns the acceleration command for a body at pos.
func (p *PID) Compute(pos vec.Vec2, t float64) vec.Vec2 {
	err := p.Target.Sub(pos)

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return err.Scale(p.Kp)
	}

	dt := t - p.prevT
	if dt <= 0 {
		return err.Scale(p.Kp)
	}

	p.integral = p.integral.Add(err.Scale(dt))
	derivative := err.Sub(p.prevErr).Div(dt)
	p.prevErr = err
	p.prevT = t

	return err.Scale(p.Kp).Add(p.integral.Scale(p.Ki)).Add(derivative.Scale(p.Kd))
}

func (p *PID) Apply(w *world.World, t float64) error {
	b, err := w.Body(p.Body)
	if err != nil {
		return err
	}
	if b.IsStatic() {
		return nil
	}
	acc := p.Compute(b.Position, t).Sub(w.Gravity())
	return w.ApplyForce(p.Body, acc.Scale(b.Mass))
}

// Reset clears integral and derivative state.
func (p *PID) Reset() {
	p.integral = vec.Zero
	p.prevErr = vec.Zero
	p.first = true
}

// GetParams returns tunable parameters for live adjustment.
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":      p.Kp,
		"Ki":      p.Ki,
		"Kd":      p.Kd,
		"TargetX": p.Target.X,
		"TargetY": p.Target.Y,
	}
}

func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "TargetX":
		p.Target.X = value
	case "TargetY":
		p.Target.Y = value
	}
}
