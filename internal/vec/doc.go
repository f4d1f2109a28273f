// Package vec provides the 2D vector value type used throughout the engine.
//
// [Vec2] is a plain value: every operation returns a new vector except
// [Vec2.Normalize], which rescales in place. No operation signals errors;
// dividing by zero yields IEEE NaN or Inf, so callers guard the
// denominators they pass in:
//
//	n := b.Sub(a)
//	if d := n.Len(); d != 0 {
//	    n = n.Div(d)
//	}
package vec
