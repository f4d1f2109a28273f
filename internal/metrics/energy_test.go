package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/shape"
	"github.com/san-kum/rigid2d/internal/sim"
	"github.com/san-kum/rigid2d/internal/vec"
)

func frame(gravity vec.Vec2, bodies ...body.Body) sim.Frame {
	return sim.Frame{Gravity: gravity, Bodies: bodies}
}

func moving(pos, vel vec.Vec2) body.Body {
	b := body.New(shape.NewBox(1, 1), pos, 0)
	b.Velocity = vel
	return b
}

func TestKineticAndPotential(t *testing.T) {
	wall := body.New(shape.NewBox(1, 1), vec.New(0, 50), 0)
	wall.MakeStatic()
	wall.Velocity = vec.New(100, 0)

	f := frame(vec.New(0, 10), moving(vec.New(0, -2), vec.New(3, 4)), wall)

	if ke := Kinetic(f); math.Abs(ke-12.5) > 1e-12 {
		t.Errorf("expected kinetic 12.5, got %v", ke)
	}
	if pe := Potential(f); math.Abs(pe-20) > 1e-12 {
		t.Errorf("expected potential 20, got %v", pe)
	}
	if me := Mechanical(f); math.Abs(me-32.5) > 1e-12 {
		t.Errorf("expected mechanical 32.5, got %v", me)
	}
}

func TestEnergyMean(t *testing.T) {
	m := NewEnergy()
	m.Observe(frame(vec.Zero, moving(vec.Zero, vec.New(2, 0))))
	m.Observe(frame(vec.Zero, moving(vec.Zero, vec.New(0, 0))))

	if math.Abs(m.Value()-1) > 1e-12 {
		t.Errorf("expected mean energy 1, got %v", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	m.Observe(frame(vec.Zero, moving(vec.Zero, vec.New(2, 0))))
	m.Observe(frame(vec.Zero, moving(vec.Zero, vec.New(1, 0))))
	m.Observe(frame(vec.Zero, moving(vec.Zero, vec.New(2, 0))))

	if math.Abs(m.Value()-0.75) > 1e-12 {
		t.Errorf("expected max drift 0.75, got %v", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(10)
	if m.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %v", m.Value())
	}

	m.Observe(frame(vec.Zero, moving(vec.Zero, vec.New(1, 0))))
	m.Observe(frame(vec.Zero, moving(vec.Zero, vec.New(20, 0))))
	m.Observe(frame(vec.Zero, moving(vec.Zero, vec.New(math.NaN(), 0))))
	m.Observe(frame(vec.Zero, moving(vec.Zero, vec.New(0, 9))))

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected stability 0.5, got %v", m.Value())
	}
}

func TestContactMetrics(t *testing.T) {
	c := NewContacts()
	p := NewMaxPenetration()
	for _, f := range []sim.Frame{
		{Contacts: 2, MaxPenetration: 0.3},
		{Contacts: 0},
		{Contacts: 4, MaxPenetration: 1.2},
	} {
		c.Observe(f)
		p.Observe(f)
	}

	if c.Value() != 2 {
		t.Errorf("expected mean contacts 2, got %v", c.Value())
	}
	if p.Value() != 1.2 {
		t.Errorf("expected max penetration 1.2, got %v", p.Value())
	}

	c.Reset()
	p.Reset()
	if c.Value() != 0 || p.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestStandardNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Standard() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %q", m.Name())
		}
		seen[m.Name()] = true
	}
	if !seen["energy_drift"] || !seen["contacts"] {
		t.Errorf("missing standard metrics: %v", seen)
	}
}
