package metrics

import (
	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/vec"
)

// Stability is the fraction of observed steps in which every body stayed
// within radius of the system's center of mass and had finite coordinates.
type Stability struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewStability(radius float64) *Stability {
	return &Stability{
		name:   "stability",
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(bodies []body.Body, t float64) {
	s.samples++
	if len(bodies) == 0 {
		return
	}

	com := vec.Zero(bodies[0].Dim())
	total := body.TotalMass(bodies)
	for _, b := range bodies {
		com.AddScaled(b.Position, b.Mass/total)
	}
	for _, b := range bodies {
		if !b.IsValid() || b.Position.Sub(com).Norm() > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
