package config

import (
	"sort"

	"github.com/san-kum/rigid2d/internal/vec"
)

func floor() BodyConfig {
	return BodyConfig{
		Shape: ShapeBox, Width: 2000, Height: 10,
		Position: vec.New(0, 155), Static: true,
	}
}

var Presets = map[string]*Scene{
	"drop": {
		Name: "drop", Dt: DefaultDt, Iterations: DefaultIterations,
		Gravity: vec.New(0, 10), Duration: 10,
		Bodies: []BodyConfig{
			floor(),
			{Shape: ShapeCircle, Radius: 10, Position: vec.New(0, 100)},
		},
	},
	"bounce": {
		Name: "bounce", Dt: DefaultDt, Iterations: DefaultIterations,
		Gravity: vec.New(0, 10), Duration: 20,
		Bodies: []BodyConfig{
			{Shape: ShapeBox, Width: 2000, Height: 10, Position: vec.New(0, 155), Restitution: 0.8, Static: true},
			{Shape: ShapeCircle, Radius: 10, Position: vec.New(0, 0), Restitution: 0.8},
		},
	},
	"newton": {
		Name: "newton", Dt: DefaultDt, Iterations: DefaultIterations,
		Gravity: vec.Zero, Duration: 10,
		Bodies: []BodyConfig{
			{Shape: ShapeCircle, Radius: 10, Position: vec.New(-100, 0), Velocity: vec.New(40, 0), Restitution: 1},
			{Shape: ShapeCircle, Radius: 10, Position: vec.New(0, 0), Restitution: 1},
			{Shape: ShapeCircle, Radius: 10, Position: vec.New(20, 0), Restitution: 1},
			{Shape: ShapeCircle, Radius: 10, Position: vec.New(40, 0), Restitution: 1},
			{Shape: ShapeCircle, Radius: 10, Position: vec.New(60, 0), Restitution: 1},
		},
	},
	"stack": {
		Name: "stack", Dt: DefaultDt, Iterations: DefaultIterations,
		Gravity: vec.New(0, 10), Duration: 15,
		Bodies: []BodyConfig{
			floor(),
			{Shape: ShapeBox, Width: 40, Height: 40, Position: vec.New(0, 128)},
			{Shape: ShapeBox, Width: 40, Height: 40, Position: vec.New(2, 86)},
			{Shape: ShapeBox, Width: 40, Height: 40, Position: vec.New(-2, 44)},
			{Shape: ShapeBox, Width: 40, Height: 40, Position: vec.New(1, 2)},
		},
	},
	"arena": {
		Name: "arena", Dt: DefaultDt, Iterations: DefaultIterations,
		Gravity: vec.New(0, 10), Duration: 30, Seed: 7,
		Arena: ArenaConfig{Enabled: true, Width: DefaultArenaWidth, Height: DefaultArenaHeight},
		Spawn: SpawnConfig{
			Count: 20, Shape: ShapeMixed, Size: 30, Restitution: 1,
			Min: vec.New(60, 60), Max: vec.New(740, 300),
		},
	},
	"rain": {
		Name: "rain", Dt: DefaultDt, Iterations: DefaultIterations,
		Gravity: vec.New(0, 10), Duration: 30, Seed: 42,
		Arena: ArenaConfig{Enabled: true, Width: DefaultArenaWidth, Height: DefaultArenaHeight},
		Spawn: SpawnConfig{
			Count: 60, Shape: ShapeCircle, Size: 8, Restitution: 0.4,
			Min: vec.New(30, 30), Max: vec.New(770, 400),
		},
	},
	"hover": {
		Name: "hover", Dt: DefaultDt, Iterations: DefaultIterations,
		Gravity: vec.New(0, 10), Duration: 20,
		Bodies: []BodyConfig{
			{Shape: ShapeCircle, Radius: 10, Position: vec.New(0, 100), Restitution: 0.2},
		},
		Controller: ControllerConfig{
			Type: ControllerPID, Body: 0,
			Kp: DefaultKp, Ki: DefaultKi, Kd: DefaultKd,
			Target: vec.New(0, 40),
		},
	},
}

// GetPreset returns a copy of the named scene, or nil.
func GetPreset(name string) *Scene {
	s, ok := Presets[name]
	if !ok {
		return nil
	}
	return s.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
