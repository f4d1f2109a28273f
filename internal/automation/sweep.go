package automation

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/metrics"
	"github.com/san-kum/rigid2d/internal/scene"
	"github.com/san-kum/rigid2d/internal/sim"
)

const (
	ParamRestitution = "restitution"
	ParamGravity     = "gravity"
	ParamIterations  = "iterations"
)

// ParameterSweep reruns a scene for NumSteps evenly spaced values of one
// parameter.
type ParameterSweep struct {
	Param    string
	Min      float64
	Max      float64
	NumSteps int
	Steps    int
}

type SweepResult struct {
	ParamValue     float64
	FinalEnergy    float64
	EnergyDrift    float64
	MaxPenetration float64
	Stable         bool
}

// RunSweep runs base once per parameter value. base is not modified.
func RunSweep(ctx context.Context, base *config.Scene, sweep ParameterSweep, logger *zap.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 values, got %d", sweep.NumSteps)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		value := sweep.Min + float64(i)*paramStep
		cfg := base.Clone()
		if err := setParam(cfg, sweep.Param, value); err != nil {
			return nil, err
		}

		w, err := scene.Build(cfg)
		if err != nil {
			return nil, fmt.Errorf("%s=%v: %w", sweep.Param, value, err)
		}

		s := sim.New(w)
		drift := metrics.NewEnergyDrift()
		pen := metrics.NewMaxPenetration()
		stab := metrics.NewStability(1e4)
		s.AddMetric(drift)
		s.AddMetric(pen)
		s.AddMetric(stab)

		run := sim.Config{Steps: sweep.Steps, Duration: cfg.Duration, SampleEvery: math.MaxInt32}
		res, err := s.Run(ctx, run)
		if err != nil {
			return results, err
		}

		last := res.Frames[len(res.Frames)-1]
		results = append(results, SweepResult{
			ParamValue:     value,
			FinalEnergy:    metrics.Mechanical(last),
			EnergyDrift:    drift.Value(),
			MaxPenetration: pen.Value(),
			Stable:         stab.Value() == 1,
		})

		logger.Debug("sweep point done",
			zap.String("param", sweep.Param),
			zap.Float64("value", value),
			zap.Int("index", i+1),
			zap.Int("of", sweep.NumSteps),
		)
	}
	return results, nil
}

func setParam(cfg *config.Scene, name string, value float64) error {
	switch name {
	case ParamRestitution:
		for i := range cfg.Bodies {
			cfg.Bodies[i].Restitution = value
		}
		cfg.Spawn.Restitution = value
	case ParamGravity:
		cfg.Gravity.Y = value
	case ParamIterations:
		if value < 1 {
			return fmt.Errorf("iterations must be at least 1, got %v", value)
		}
		cfg.Iterations = uint(value + 0.5)
	default:
		return fmt.Errorf("unknown sweep parameter %q", name)
	}
	return nil
}

// StableCount tallies stable and unstable sweep points.
func StableCount(results []SweepResult) (stable, unstable int) {
	for _, r := range results {
		if r.Stable {
			stable++
		} else {
			unstable++
		}
	}
	return
}
