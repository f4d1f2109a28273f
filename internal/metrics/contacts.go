package metrics

import (
	"math"

	"github.com/san-kum/rigid2d/internal/sim"
)

// Contacts reports the mean number of contact manifolds per frame.
type Contacts struct {
	name    string
	sum     int
	samples int
}

func NewContacts() *Contacts {
	return &Contacts{name: "contacts"}
}

func (c *Contacts) Name() string { return c.name }

func (c *Contacts) Observe(f sim.Frame) {
	c.sum += f.Contacts
	c.samples++
}

func (c *Contacts) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.sum) / float64(c.samples)
}

func (c *Contacts) Reset() {
	c.sum = 0
	c.samples = 0
}

// MaxPenetration is the deepest overlap any contact reached.
type MaxPenetration struct {
	name string
	max  float64
}

func NewMaxPenetration() *MaxPenetration {
	return &MaxPenetration{name: "max_penetration"}
}

func (p *MaxPenetration) Name() string { return p.name }

func (p *MaxPenetration) Observe(f sim.Frame) {
	p.max = math.Max(p.max, f.MaxPenetration)
}

func (p *MaxPenetration) Value() float64 { return p.max }

func (p *MaxPenetration) Reset() { p.max = 0 }

// Standard returns the metrics every run records.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewContacts(),
		NewMaxPenetration(),
		NewStability(1e4),
	}
}
