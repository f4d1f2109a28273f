package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rigid2d/internal/vec"
)

const (
	DefaultDt          = 1.0 / 60.0
	DefaultIterations  = 20
	DefaultDuration    = 10.0
	DefaultArenaWidth  = 800.0
	DefaultArenaHeight = 600.0
	DefaultKp          = 40.0
	DefaultKi          = 2.0
	DefaultKd          = 12.0
)

const (
	ShapeCircle = "circle"
	ShapeBox    = "box"
	ShapeMixed  = "mixed"

	ControllerNone = "none"
	ControllerPID  = "pid"
)

var ErrInvalidScene = errors.New("config: invalid scene")

type Scene struct {
	Name       string           `yaml:"name"`
	Dt         float64          `yaml:"dt"`
	Iterations uint             `yaml:"iterations"`
	Gravity    vec.Vec2         `yaml:"gravity"`
	Duration   float64          `yaml:"duration"`
	Seed       int64            `yaml:"seed"`
	Arena      ArenaConfig      `yaml:"arena"`
	Bodies     []BodyConfig     `yaml:"bodies"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Controller ControllerConfig `yaml:"controller"`
}

// ArenaConfig encloses a width x height canvas with static walls.
type ArenaConfig struct {
	Enabled bool    `yaml:"enabled"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
}

type BodyConfig struct {
	Shape       string   `yaml:"shape"`
	Radius      float64  `yaml:"radius,omitempty"`
	Width       float64  `yaml:"width,omitempty"`
	Height      float64  `yaml:"height,omitempty"`
	Density     float64  `yaml:"density,omitempty"`
	Position    vec.Vec2 `yaml:"position"`
	Velocity    vec.Vec2 `yaml:"velocity,omitempty"`
	Restitution float64  `yaml:"restitution"`
	Static      bool     `yaml:"static,omitempty"`
}

// SpawnConfig scatters Count seeded bodies inside the rectangle
// [Min, Max].
type SpawnConfig struct {
	Count       int      `yaml:"count"`
	Shape       string   `yaml:"shape"`
	Min         vec.Vec2 `yaml:"min"`
	Max         vec.Vec2 `yaml:"max"`
	Size        float64  `yaml:"size"`
	Restitution float64  `yaml:"restitution"`
}

// ControllerConfig drives one body towards Target with a force.
type ControllerConfig struct {
	Type   string   `yaml:"type"`
	Body   int      `yaml:"body"`
	Kp     float64  `yaml:"kp"`
	Ki     float64  `yaml:"ki"`
	Kd     float64  `yaml:"kd"`
	Target vec.Vec2 `yaml:"target"`
}

func DefaultScene() *Scene {
	return &Scene{
		Name:       "default",
		Dt:         DefaultDt,
		Iterations: DefaultIterations,
		Gravity:    vec.New(0, 10),
		Duration:   DefaultDuration,
		Arena: ArenaConfig{
			Width:  DefaultArenaWidth,
			Height: DefaultArenaHeight,
		},
		Controller: ControllerConfig{
			Type: ControllerNone,
			Kp:   DefaultKp,
			Ki:   DefaultKi,
			Kd:   DefaultKd,
		},
	}
}

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := DefaultScene()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func Save(path string, s *Scene) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy so presets can be modified freely.
func (s *Scene) Clone() *Scene {
	c := *s
	c.Bodies = append([]BodyConfig(nil), s.Bodies...)
	return &c
}

func (s *Scene) Validate() error {
	if !(s.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidScene, s.Dt)
	}
	if s.Iterations == 0 {
		return fmt.Errorf("%w: iterations must be positive", ErrInvalidScene)
	}
	if s.Duration < 0 {
		return fmt.Errorf("%w: negative duration %v", ErrInvalidScene, s.Duration)
	}
	if s.Arena.Enabled && (!(s.Arena.Width > 0) || !(s.Arena.Height > 0)) {
		return fmt.Errorf("%w: arena needs a positive size", ErrInvalidScene)
	}
	for i, b := range s.Bodies {
		if err := b.validate(); err != nil {
			return fmt.Errorf("%w: body %d: %v", ErrInvalidScene, i, err)
		}
	}
	if err := s.Spawn.validate(); err != nil {
		return fmt.Errorf("%w: spawn: %v", ErrInvalidScene, err)
	}
	switch s.Controller.Type {
	case "", ControllerNone:
	case ControllerPID:
		if s.Controller.Body < 0 || s.Controller.Body >= len(s.Bodies) {
			return fmt.Errorf("%w: controller body %d out of range", ErrInvalidScene, s.Controller.Body)
		}
	default:
		return fmt.Errorf("%w: unknown controller %q", ErrInvalidScene, s.Controller.Type)
	}
	return nil
}

func (b BodyConfig) validate() error {
	switch b.Shape {
	case ShapeCircle:
		if !(b.Radius > 0) {
			return fmt.Errorf("radius must be positive, got %v", b.Radius)
		}
	case ShapeBox:
		if !(b.Width > 0) || !(b.Height > 0) {
			return fmt.Errorf("box size must be positive, got %vx%v", b.Width, b.Height)
		}
	default:
		return fmt.Errorf("unknown shape %q", b.Shape)
	}
	if b.Density < 0 {
		return fmt.Errorf("negative density %v", b.Density)
	}
	return validRestitution(b.Restitution)
}

func (s SpawnConfig) validate() error {
	if s.Count == 0 {
		return nil
	}
	if s.Count < 0 {
		return fmt.Errorf("negative count %d", s.Count)
	}
	switch s.Shape {
	case ShapeCircle, ShapeBox, ShapeMixed:
	default:
		return fmt.Errorf("unknown shape %q", s.Shape)
	}
	if !(s.Size > 0) {
		return fmt.Errorf("size must be positive, got %v", s.Size)
	}
	if s.Max.X < s.Min.X || s.Max.Y < s.Min.Y {
		return fmt.Errorf("empty area %v..%v", s.Min, s.Max)
	}
	return validRestitution(s.Restitution)
}

func validRestitution(e float64) error {
	if e < 0 || e > 1 {
		return fmt.Errorf("restitution %v outside [0, 1]", e)
	}
	return nil
}
