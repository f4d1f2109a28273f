package sim

import "errors"

var (
	// ErrInvalidConfig indicates a run with nothing to do.
	ErrInvalidConfig = errors.New("sim: invalid run config")

	// ErrNoWorld indicates a simulator built without a world.
	ErrNoWorld = errors.New("sim: no world")
)
