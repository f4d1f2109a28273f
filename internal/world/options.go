package world

import (
	"go.uber.org/zap"

	"github.com/san-kum/rigid2d/internal/vec"
)

const (
	DefaultDt         = 1.0 / 60.0
	DefaultIterations = 20
)

// DefaultGravity points down the screen: +y grows downward.
var DefaultGravity = vec.New(0, 10)

type Option func(*World)

func WithGravity(g vec.Vec2) Option {
	return func(w *World) {
		w.gravity = g
	}
}

// WithLogger routes invariant reports to l. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithInvariantChecks scans every body after each step and records any
// NaN or Inf state. Checks never abort a step.
func WithInvariantChecks(enabled bool) Option {
	return func(w *World) {
		w.checks = enabled
	}
}
