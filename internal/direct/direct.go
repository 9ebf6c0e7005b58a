// Package direct computes exact pairwise gravitational accelerations. It is
// the O(n²) baseline the tree is validated and benchmarked against.
package direct

import (
	"context"

	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/parallel"
	"github.com/san-kum/bhtree/internal/vec"
)

type Solver struct {
	G       float64
	Workers int
}

func New(g float64) *Solver {
	return &Solver{G: g}
}

func (s *Solver) Name() string { return "direct" }

// Acceleration sums the pull of every body in all on p, skipping bodies that
// coincide with p. The result is not divided by p.Mass.
func (s *Solver) Acceleration(p body.Body, all []body.Body) vec.Vec {
	acc := vec.Zero(p.Dim())
	for _, q := range all {
		body.Pull(acc, p, q, s.G)
	}
	return acc
}

// Accelerations evaluates every body against the whole set, splitting the
// outer loop across workers.
func (s *Solver) Accelerations(ctx context.Context, bodies []body.Body) ([]vec.Vec, error) {
	out := make([]vec.Vec, len(bodies))
	err := parallel.For(ctx, len(bodies), s.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = s.Acceleration(bodies[i], bodies)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
