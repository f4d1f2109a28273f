// Package automation scripts headless runs: timed events stand in for the
// mouse and keyboard input of an interactive host, and sweeps repeat a
// scene across a range of one parameter.
package automation

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/scene"
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/world"
)

const (
	ActionSpawn   = "spawn"
	ActionForce   = "force"
	ActionImpulse = "impulse"
)

var ErrInvalidScript = errors.New("automation: invalid script")

// Script is a list of events fired at simulated times.
type Script struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Events      []Event `yaml:"events"`
}

// Event fires once when the simulated time reaches At. Body refers to a
// world id, so spawned bodies get ids after the scene's own bodies.
type Event struct {
	At     float64            `yaml:"at"`
	Action string             `yaml:"action"`
	Body   int                `yaml:"body,omitempty"`
	Vector vec.Vec2           `yaml:"vector,omitempty"`
	Spawn  *config.BodyConfig `yaml:"spawn,omitempty"`
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	return &script, nil
}

func (s *Script) Validate() error {
	for i, e := range s.Events {
		if e.At < 0 {
			return fmt.Errorf("%w: event %d at negative time %v", ErrInvalidScript, i, e.At)
		}
		switch e.Action {
		case ActionSpawn:
			if e.Spawn == nil {
				return fmt.Errorf("%w: event %d: spawn needs a body", ErrInvalidScript, i)
			}
			if _, err := scene.FromConfig(*e.Spawn); err != nil {
				return fmt.Errorf("%w: event %d: %v", ErrInvalidScript, i, err)
			}
		case ActionForce, ActionImpulse:
			if e.Body < 0 {
				return fmt.Errorf("%w: event %d: negative body id", ErrInvalidScript, i)
			}
		default:
			return fmt.Errorf("%w: event %d: unknown action %q", ErrInvalidScript, i, e.Action)
		}
	}
	return nil
}

// Player replays a script against a world. It is a sim.Controller.
type Player struct {
	events []Event
	next   int
}

func NewPlayer(s *Script) *Player {
	events := append([]Event(nil), s.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })
	return &Player{events: events}
}

// Apply fires every pending event due at or before t.
func (p *Player) Apply(w *world.World, t float64) error {
	var errs []error
	for p.next < len(p.events) && p.events[p.next].At <= t {
		if err := fire(w, p.events[p.next]); err != nil {
			errs = append(errs, fmt.Errorf("event at %.3fs: %w", p.events[p.next].At, err))
		}
		p.next++
	}
	return errors.Join(errs...)
}

// Pending reports how many events have not fired yet.
func (p *Player) Pending() int { return len(p.events) - p.next }

func (p *Player) Reset() { p.next = 0 }

func fire(w *world.World, e Event) error {
	switch e.Action {
	case ActionSpawn:
		b, err := scene.FromConfig(*e.Spawn)
		if err != nil {
			return err
		}
		w.Add(b)
		return nil
	case ActionForce:
		return w.ApplyForce(world.BodyID(e.Body), e.Vector)
	case ActionImpulse:
		return w.ApplyImpulse(world.BodyID(e.Body), e.Vector)
	default:
		return fmt.Errorf("unknown action %q", e.Action)
	}
}
