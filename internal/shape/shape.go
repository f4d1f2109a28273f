// Package shape describes the collision geometry a body carries.
//
// The set of shapes is closed: [Circle] and [AABB] are the only
// implementations of [Shape], and each reports a stable [Type] tag that the
// narrow phase uses to index its dispatch table.
package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/rigid2d/internal/vec"
)

type Type int

const (
	TypeCircle Type = iota
	TypeAABB

	// NumTypes sizes lookup tables indexed by Type.
	NumTypes
)

func (t Type) String() string {
	switch t {
	case TypeCircle:
		return "circle"
	case TypeAABB:
		return "aabb"
	default:
		return fmt.Sprintf("shape(%d)", int(t))
	}
}

// DefaultDensity is used by the convenience constructors.
const DefaultDensity = 1.0

var (
	ErrNonPositiveRadius  = errors.New("shape: radius must be positive")
	ErrNonPositiveDensity = errors.New("shape: density must be positive")
	ErrDegenerateBox      = errors.New("shape: box max must exceed min on both axes")
)

type Shape interface {
	Type() Type
	ComputeMass() float64
	Validate() error
	// HalfExtents bounds the shape around its centre.
	HalfExtents() vec.Vec2

	sealed()
}

type Circle struct {
	Radius  float64
	Density float64
}

func NewCircle(radius float64) Circle {
	return Circle{Radius: radius, Density: DefaultDensity}
}

func (c Circle) Type() Type { return TypeCircle }

// ComputeMass returns π·r²·density.
func (c Circle) ComputeMass() float64 {
	return math.Pi * c.Radius * c.Radius * c.Density
}

func (c Circle) HalfExtents() vec.Vec2 {
	return vec.New(c.Radius, c.Radius)
}

func (c Circle) Validate() error {
	if !(c.Radius > 0) {
		return fmt.Errorf("%w: %g", ErrNonPositiveRadius, c.Radius)
	}
	if !(c.Density > 0) {
		return fmt.Errorf("%w: %g", ErrNonPositiveDensity, c.Density)
	}
	return nil
}

func (Circle) sealed() {}

// AABB is an axis-aligned box. Min and Max are shape-local extents; only
// their difference matters once the box is attached to a body, whose
// position is the box centre.
type AABB struct {
	Min     vec.Vec2
	Max     vec.Vec2
	Density float64
}

func NewAABB(min, max vec.Vec2) AABB {
	return AABB{Min: min, Max: max, Density: DefaultDensity}
}

// NewBox builds a w×h box centred on the local origin.
func NewBox(w, h float64) AABB {
	return NewAABB(vec.New(-w/2, -h/2), vec.New(w/2, h/2))
}

func (b AABB) Type() Type { return TypeAABB }

func (b AABB) Width() float64  { return b.Max.X - b.Min.X }
func (b AABB) Height() float64 { return b.Max.Y - b.Min.Y }

// ComputeMass returns width·height·density.
func (b AABB) ComputeMass() float64 {
	return b.Width() * b.Height() * b.Density
}

func (b AABB) HalfExtents() vec.Vec2 {
	return b.Max.Sub(b.Min).Div(2)
}

// Center is the midpoint of Min and Max. Level geometry laid out in world
// coordinates uses it as the body position.
func (b AABB) Center() vec.Vec2 {
	return b.Min.Add(b.Max).Div(2)
}

func (b AABB) Validate() error {
	if !(b.Max.X > b.Min.X) || !(b.Max.Y > b.Min.Y) {
		return fmt.Errorf("%w: min=%v max=%v", ErrDegenerateBox, b.Min, b.Max)
	}
	if !(b.Density > 0) {
		return fmt.Errorf("%w: %g", ErrNonPositiveDensity, b.Density)
	}
	return nil
}

func (AABB) sealed() {}
