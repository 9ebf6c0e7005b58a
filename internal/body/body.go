// Package body defines the point masses and axis-aligned regions the tree
// is built from.
package body

import (
	"math"

	"github.com/san-kum/bhtree/internal/vec"
)

// Body is a point mass. Bodies are treated as immutable values: nothing in
// this module writes through Position or Velocity after New returns.
type Body struct {
	ID       int
	Mass     float64
	Position vec.Vec
	Velocity vec.Vec
}

// New copies pos and vel so the caller may reuse its slices.
func New(id int, mass float64, pos, vel vec.Vec) Body {
	if vel == nil {
		vel = vec.Zero(len(pos))
	}
	return Body{
		ID:       id,
		Mass:     mass,
		Position: pos.Clone(),
		Velocity: vel.Clone(),
	}
}

func (b Body) Dim() int { return len(b.Position) }

// With returns a copy of b moved to pos with velocity vel.
func (b Body) With(pos, vel vec.Vec) Body {
	return New(b.ID, b.Mass, pos, vel)
}

// IsValid reports whether the mass is positive and every coordinate finite.
func (b Body) IsValid() bool {
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return false
	}
	return b.Position.IsValid() && b.Velocity.IsValid()
}

// Pull adds to acc the acceleration that src exerts on p:
//
//	-G * src.Mass * (p - src) / |p - src|³
//
// Coincident points contribute nothing, which is also what keeps a body from
// attracting itself. Both the tree leaves and the direct solver go through
// this kernel so their sums agree term for term.
func Pull(acc vec.Vec, p, src Body, g float64) {
	r2 := 0.0
	for i := range p.Position {
		d := p.Position[i] - src.Position[i]
		r2 += d * d
	}
	if r2 == 0 {
		return
	}
	r := math.Sqrt(r2)
	f := -g * src.Mass / (r2 * r)
	for i := range acc {
		acc[i] += f * (p.Position[i] - src.Position[i])
	}
}

// Positions extracts the position of every body, in order.
func Positions(bodies []Body) []vec.Vec {
	out := make([]vec.Vec, len(bodies))
	for i, b := range bodies {
		out[i] = b.Position
	}
	return out
}

func TotalMass(bodies []Body) float64 {
	m := 0.0
	for _, b := range bodies {
		m += b.Mass
	}
	return m
}
