package control

import (
	"fmt"

	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/sim"
	"github.com/san-kum/rigid2d/internal/world"
)

// FromConfig builds the controller a scene asks for. first is the world
// id of the scene's first listed body.
func FromConfig(cfg config.ControllerConfig, first world.BodyID) (sim.Controller, error) {
	switch cfg.Type {
	case "", config.ControllerNone:
		return NewNone(), nil
	case config.ControllerPID:
		return NewPID(first+world.BodyID(cfg.Body), cfg.Kp, cfg.Ki, cfg.Kd, cfg.Target), nil
	default:
		return nil, fmt.Errorf("unknown controller %q", cfg.Type)
	}
}
