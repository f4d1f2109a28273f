// Package optim tunes scene parameters by exhaustive search.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/rigid2d/internal/sim"
)

var ErrNoCandidate = errors.New("optim: no candidate produced the metric")

// Build creates a fresh simulator for one parameter combination.
type Build func(params map[string]float64) (*sim.Simulator, error)

// GridSearch tries every combination of parameter values and keeps the one
// with the lowest metric value.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Candidates is the number of simulations Search runs.
func (g *GridSearch) Candidates() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every candidate. Candidates whose build or run fails, or
// whose metric is NaN, are skipped.
func (g *GridSearch) Search(ctx context.Context, build Build, cfg sim.Config, metric string) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, map[string]float64{}, func(params map[string]float64) error {
		s, err := build(params)
		if err != nil {
			return nil
		}
		result, err := s.Run(ctx, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}
		val, ok := result.Metrics[metric]
		if !ok || math.IsNaN(val) {
			return nil
		}
		if val < best {
			best = val
			bestParams = params
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidate
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return visit(current)
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[name] = val
		if err := g.searchRecursive(ctx, depth+1, next, visit); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from min to max inclusive.
func Linspace(min, max float64, n int) []float64 {
	if n <= 1 {
		return []float64{min}
	}
	out := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	return out
}
