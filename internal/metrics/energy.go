package metrics

import (
	"math"

	"github.com/san-kum/rigid2d/internal/sim"
)

// Kinetic sums ½·m·|v|² over the dynamic bodies of f.
func Kinetic(f sim.Frame) float64 {
	var ke float64
	for _, b := range f.Bodies {
		if b.IsStatic() {
			continue
		}
		ke += 0.5 * b.Mass * b.Velocity.LenSqr()
	}
	return ke
}

// Potential is the gravitational energy -m·g·p, zero at the origin.
func Potential(f sim.Frame) float64 {
	var pe float64
	for _, b := range f.Bodies {
		if b.IsStatic() {
			continue
		}
		pe -= b.Mass * f.Gravity.Dot(b.Position)
	}
	return pe
}

func Mechanical(f sim.Frame) float64 {
	return Kinetic(f) + Potential(f)
}

// Energy reports the mean kinetic energy over the run.
type Energy struct {
	name    string
	samples int
	total   float64
}

func NewEnergy() *Energy {
	return &Energy{name: "kinetic_energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f sim.Frame) {
	e.total += Kinetic(f)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of mechanical energy seen
// against the first frame.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f sim.Frame) {
	energy := Mechanical(f)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
