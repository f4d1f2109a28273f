package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/rigid2d/internal/sim"
	"github.com/san-kum/rigid2d/internal/world"
)

type constMetric struct{ v float64 }

func (c constMetric) Name() string     { return "score" }
func (c constMetric) Observe(sim.Frame) {}
func (c constMetric) Value() float64   { return c.v }
func (c constMetric) Reset()           {}

func scored(t *testing.T, score func(map[string]float64) float64) Build {
	return func(p map[string]float64) (*sim.Simulator, error) {
		w, err := world.New(world.DefaultDt, world.DefaultIterations)
		if err != nil {
			t.Fatal(err)
		}
		s := sim.New(w)
		s.AddMetric(constMetric{score(p)})
		return s, nil
	}
}

func TestGridSearch(t *testing.T) {
	g, err := NewGridSearch([]string{"x", "y"}, [][]float64{Linspace(0, 4, 5), {2, 0, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if g.Candidates() != 15 {
		t.Errorf("expected 15 candidates, got %d", g.Candidates())
	}

	best, val, err := g.Search(context.Background(), scored(t, func(p map[string]float64) float64 {
		return (p["x"]-3)*(p["x"]-3) + p["y"]
	}), sim.Config{Steps: 1}, "score")
	if err != nil {
		t.Fatal(err)
	}
	if best["x"] != 3 || best["y"] != 0 || val != 0 {
		t.Errorf("expected x=3 y=0 score 0, got %v score %v", best, val)
	}
}

func TestGridSearch_SkipsFailures(t *testing.T) {
	g, _ := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})
	build := func(p map[string]float64) (*sim.Simulator, error) {
		if p["x"] == 1 {
			return nil, errors.New("boom")
		}
		return scored(t, func(p map[string]float64) float64 {
			if p["x"] == 2 {
				return math.NaN()
			}
			return p["x"]
		})(p)
	}

	best, val, err := g.Search(context.Background(), build, sim.Config{Steps: 1}, "score")
	if err != nil {
		t.Fatal(err)
	}
	if best["x"] != 3 || val != 3 {
		t.Errorf("expected only x=3 to count, got %v", best)
	}

	_, _, err = g.Search(context.Background(), build, sim.Config{Steps: 1}, "missing")
	if !errors.Is(err, ErrNoCandidate) {
		t.Errorf("expected ErrNoCandidate, got %v", err)
	}
}

func TestGridSearch_Cancelled(t *testing.T) {
	g, _ := NewGridSearch([]string{"x"}, [][]float64{{1, 2}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := g.Search(ctx, scored(t, func(map[string]float64) float64 { return 0 }), sim.Config{Steps: 1}, "score")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewGridSearch_Invalid(t *testing.T) {
	if _, err := NewGridSearch([]string{"x"}, nil); err == nil {
		t.Error("expected error for mismatched ranges")
	}
	if _, err := NewGridSearch([]string{"x"}, [][]float64{{}}); err == nil {
		t.Error("expected error for an empty range")
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 3)
	want := []float64{0, 0.5, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Linspace[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if len(Linspace(2, 5, 1)) != 1 {
		t.Error("n=1 should give a single value")
	}
}
