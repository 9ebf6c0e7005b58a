package metrics

import (
	"math"

	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/vec"
)

// Kinetic returns Σ ½·m·|v|².
func Kinetic(bodies []body.Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
	}
	return ke
}

// Potential returns the pairwise gravitational potential energy
// -G·Σ m_i·m_j / r_ij. Coincident pairs are skipped, matching body.Pull.
func Potential(bodies []body.Body, g float64) float64 {
	pe := 0.0
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			r := bodies[i].Position.Sub(bodies[j].Position).Norm()
			if r == 0 {
				continue
			}
			pe -= g * bodies[i].Mass * bodies[j].Mass / r
		}
	}
	return pe
}

func TotalEnergy(bodies []body.Body, g float64) float64 {
	return Kinetic(bodies) + Potential(bodies, g)
}

// Momentum returns Σ m·v.
func Momentum(bodies []body.Body) vec.Vec {
	if len(bodies) == 0 {
		return nil
	}
	p := vec.Zero(bodies[0].Dim())
	for _, b := range bodies {
		p.AddScaled(b.Velocity, b.Mass)
	}
	return p
}

// Energy averages the total energy over every observed step.
type Energy struct {
	name        string
	g           float64
	samples     int
	totalEnergy float64
}

func NewEnergy(g float64) *Energy {
	return &Energy{
		name: "energy",
		g:    g,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(bodies []body.Body, t float64) {
	e.totalEnergy += TotalEnergy(bodies, e.g)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative departure of the total energy from
// its value at the first observation.
type EnergyDrift struct {
	name          string
	g             float64
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(g float64) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		g:    g,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(bodies []body.Body, t float64) {
	energy := TotalEnergy(bodies, e.g)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
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
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift tracks the largest |P(t) - P(0)| seen so far.
type MomentumDrift struct {
	initial  vec.Vec
	maxDrift float64
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{}
}

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(bodies []body.Body, t float64) {
	p := Momentum(bodies)
	if m.initial == nil {
		m.initial = p
		return
	}
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Norm())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = nil
	m.maxDrift = 0
}
