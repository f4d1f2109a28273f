package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/rigid2d/internal/world"
)

// Simulator is a headless host: it steps a World once per frame and
// feeds frames to metrics and observers.
type Simulator struct {
	world       *world.World
	controllers []Controller
	metrics     []Metric
	observers   []Observer
}

func New(w *world.World, controllers ...Controller) *Simulator {
	return &Simulator{
		world:       w,
		controllers: controllers,
		metrics:     make([]Metric, 0),
		observers:   make([]Observer, 0),
	}
}

func (s *Simulator) World() *world.World { return s.world }

func (s *Simulator) AddController(c Controller) { s.controllers = append(s.controllers, c) }
func (s *Simulator) AddMetric(m Metric)         { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }

// Run steps the world until cfg is exhausted or ctx is done. On
// cancellation the partial result is returned with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	steps, err := s.validateConfig(cfg)
	if err != nil {
		return nil, err
	}

	every := max(cfg.SampleEvery, 1)
	result := &Result{
		Frames:  make([]Frame, 0, steps/every+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	frame := Snapshot(s.world)
	result.Frames = append(result.Frames, frame)
	s.observe(frame)

	err = s.loop(ctx, steps, cfg, func(f Frame) bool {
		result.StepsTaken++
		if result.StepsTaken%every == 0 || result.StepsTaken == steps {
			result.Frames = append(result.Frames, f)
		}
		return true
	}, &result.Errors)

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, err
}

// RunWithCallback steps the world and hands each frame to callback.
// Returning false stops the run early.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame) bool) error {
	steps, err := s.validateConfig(cfg)
	if err != nil {
		return err
	}
	var errs []error
	if err := s.loop(ctx, steps, cfg, callback, &errs); err != nil {
		return err
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (s *Simulator) loop(ctx context.Context, steps int, cfg Config, emit func(Frame) bool, errs *[]error) error {
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := s.world.Time()
		for _, c := range s.controllers {
			if err := c.Apply(s.world, t); err != nil {
				*errs = append(*errs, fmt.Errorf("step %d: %w", s.world.Steps(), err))
			}
		}

		s.world.Step()

		frame := Snapshot(s.world)
		s.observe(frame)

		if cfg.ValidateState {
			if err := validate(frame); err != nil {
				*errs = append(*errs, err)
				emit(frame)
				return nil
			}
		}

		if !emit(frame) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) observe(f Frame) {
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnStep(f)
	}
}

func (s *Simulator) validateConfig(cfg Config) (int, error) {
	if s.world == nil {
		return 0, ErrNoWorld
	}
	if cfg.Steps < 0 {
		return 0, fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalidConfig, cfg.Steps)
	}
	if cfg.SampleEvery < 0 {
		return 0, fmt.Errorf("%w: sample interval must not be negative, got %d", ErrInvalidConfig, cfg.SampleEvery)
	}
	if cfg.Steps > 0 {
		return cfg.Steps, nil
	}
	if !(cfg.Duration > 0) {
		return 0, fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	return int(math.Round(cfg.Duration / s.world.Dt())), nil
}

func validate(f Frame) error {
	for i, b := range f.Bodies {
		if !b.IsFinite() {
			return &world.StepError{
				Step:     f.Step,
				Time:     f.Time,
				Body:     world.BodyID(i),
				Position: b.Position,
				Velocity: b.Velocity,
				Wrapped:  world.ErrInvalidState,
			}
		}
	}
	return nil
}
