package vec

import "math"

type Vec2 struct {
	X, Y float64
}

func New(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Zero is the additive identity.
var Zero = Vec2{}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// AddScalar adds s to both components.
func (v Vec2) AddScalar(s float64) Vec2 {
	return Vec2{X: v.X + s, Y: v.Y + s}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// SubScalar subtracts s from both components.
func (v Vec2) SubScalar(s float64) Vec2 {
	return Vec2{X: v.X - s, Y: v.Y - s}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Div(s float64) Vec2 {
	return Vec2{X: v.X / s, Y: v.Y / s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Neg returns the vector pointing the opposite way.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Clamp limits each component to the matching [min, max] component range.
func (v Vec2) Clamp(min, max Vec2) Vec2 {
	return Vec2{X: clamp(v.X, min.X, max.X), Y: clamp(v.Y, min.Y, max.Y)}
}

func (v Vec2) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len is the Euclidean norm.
func (v Vec2) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize rescales v to unit length in place. A zero vector becomes NaN.
func (v *Vec2) Normalize() {
	l := v.Len()
	v.X /= l
	v.Y /= l
}

// Equal reports exact component equality.
func (v Vec2) Equal(o Vec2) bool {
	return v.X == o.X && v.Y == o.Y
}

// IsFinite reports whether neither component is NaN or Inf.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
