// Package generate builds reproducible synthetic body sets.
package generate

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/vec"
)

// Distribution names accepted by ByName.
const (
	DistUniform  = "uniform"
	DistGaussian = "gaussian"
	DistRing     = "ring"
)

// Options describes a synthetic set. Masses are drawn uniformly from
// [MassMin, MassMax]; positions from the named distribution scaled by Extent.
type Options struct {
	N            int
	Dim          int
	Seed         int64
	Distribution string
	Extent       float64
	MassMin      float64
	MassMax      float64
}

func DefaultOptions() Options {
	return Options{
		N:            1000,
		Dim:          2,
		Seed:         42,
		Distribution: DistUniform,
		Extent:       1000,
		MassMin:      1,
		MassMax:      11,
	}
}

func ByName(opts Options) ([]body.Body, error) {
	if opts.N < 0 {
		return nil, fmt.Errorf("body count must be non-negative, got %d", opts.N)
	}
	if opts.Dim < 1 {
		return nil, fmt.Errorf("dimension must be positive, got %d", opts.Dim)
	}
	if opts.MassMin <= 0 || opts.MassMax < opts.MassMin {
		return nil, fmt.Errorf("invalid mass range [%v, %v]", opts.MassMin, opts.MassMax)
	}
	if opts.Extent <= 0 {
		return nil, fmt.Errorf("extent must be positive, got %v", opts.Extent)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	switch opts.Distribution {
	case "", DistUniform:
		return Uniform(rng, opts), nil
	case DistGaussian:
		return Gaussian(rng, opts), nil
	case DistRing:
		return Ring(opts.N, opts.Dim, opts.Extent, opts.MassMin), nil
	}
	return nil, fmt.Errorf("unknown distribution: %s", opts.Distribution)
}

// Uniform scatters bodies in the box [0, Extent)^Dim at rest.
func Uniform(rng *rand.Rand, opts Options) []body.Body {
	bodies := make([]body.Body, opts.N)
	for i := range bodies {
		pos := make(vec.Vec, opts.Dim)
		for k := range pos {
			pos[k] = rng.Float64() * opts.Extent
		}
		bodies[i] = body.New(i, mass(rng, opts), pos, nil)
	}
	return bodies
}

// Gaussian draws an isotropic cluster with standard deviation Extent/4
// around the origin. Clustered sets produce deep, unbalanced trees.
func Gaussian(rng *rand.Rand, opts Options) []body.Body {
	sigma := opts.Extent / 4
	bodies := make([]body.Body, opts.N)
	for i := range bodies {
		pos := make(vec.Vec, opts.Dim)
		for k := range pos {
			pos[k] = rng.NormFloat64() * sigma
		}
		bodies[i] = body.New(i, mass(rng, opts), pos, nil)
	}
	return bodies
}

// Ring places n equal masses evenly on a circle of the given radius in the
// first two axes, each moving tangentially at half unit speed.
func Ring(n, dim int, radius, m float64) []body.Body {
	if dim < 2 {
		dim = 2
	}
	bodies := make([]body.Body, n)
	for i := range bodies {
		angle := float64(i) * 2 * math.Pi / float64(n)
		pos := make(vec.Vec, dim)
		vel := make(vec.Vec, dim)
		pos[0] = radius * math.Cos(angle)
		pos[1] = radius * math.Sin(angle)
		vel[0] = -math.Sin(angle) * 0.5
		vel[1] = math.Cos(angle) * 0.5
		bodies[i] = body.New(i, m, pos, vel)
	}
	return bodies
}

// CircularBinary returns two bodies of masses m1 and m2 separated by d on a
// circular orbit about their common center of mass at the origin.
func CircularBinary(m1, m2, d, g float64) []body.Body {
	total := m1 + m2
	r1 := d * m2 / total
	r2 := d * m1 / total
	omega := math.Sqrt(g * total / (d * d * d))
	return []body.Body{
		body.New(0, m1, vec.Vec{-r1, 0}, vec.Vec{0, -omega * r1}),
		body.New(1, m2, vec.Vec{r2, 0}, vec.Vec{0, omega * r2}),
	}
}

func mass(rng *rand.Rand, opts Options) float64 {
	return opts.MassMin + rng.Float64()*(opts.MassMax-opts.MassMin)
}
