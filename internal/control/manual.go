package control

import (
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/world"
)

// Manual applies a user-chosen force to one body every step until it is
// changed. Used by the terminal hosts for keyboard pushes.
type Manual struct {
	Body     world.BodyID
	Strength float64

	dir vec.Vec2
}

func NewManual(id world.BodyID, strength float64) *Manual {
	return &Manual{Body: id, Strength: strength}
}

// Push sets the direction of the force. Zero releases the body.
func (m *Manual) Push(dir vec.Vec2) {
	m.dir = dir
}

func (m *Manual) Apply(w *world.World, t float64) error {
	if m.dir == vec.Zero {
		return nil
	}
	b, err := w.Body(m.Body)
	if err != nil {
		return err
	}
	return w.ApplyForce(m.Body, m.dir.Scale(m.Strength*b.Mass))
}
