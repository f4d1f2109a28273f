package control

import "github.com/san-kum/rigid2d/internal/world"

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Apply(*world.World, float64) error { return nil }
