package body

import (
	"errors"
	"math"

	"github.com/san-kum/bhtree/internal/vec"
)

var (
	ErrCornerDimension = errors.New("body: region corners differ in dimension")
	ErrNoBodies        = errors.New("body: cannot enclose an empty body set")
)

// Region is an axis-aligned hyper-rectangle. Min holds the lower corner and
// Max the upper one along every axis.
type Region struct {
	Min vec.Vec
	Max vec.Vec
}

// NewRegion builds a region from any two opposite corners.
func NewRegion(a, b vec.Vec) (Region, error) {
	if len(a) != len(b) {
		return Region{}, ErrCornerDimension
	}
	lo := make(vec.Vec, len(a))
	hi := make(vec.Vec, len(a))
	for i := range a {
		lo[i] = math.Min(a[i], b[i])
		hi[i] = math.Max(a[i], b[i])
	}
	return Region{Min: lo, Max: hi}, nil
}

func (r Region) Dim() int { return len(r.Min) }

func (r Region) Center() vec.Vec {
	c := make(vec.Vec, len(r.Min))
	for i := range c {
		c[i] = 0.5 * (r.Min[i] + r.Max[i])
	}
	return c
}

// Diagonal is the length of the line joining the two corners.
func (r Region) Diagonal() float64 {
	return r.Max.Sub(r.Min).Norm()
}

// Contains reports whether p lies in the closed region.
func (r Region) Contains(p vec.Vec) bool {
	if len(p) != len(r.Min) {
		return false
	}
	for i := range p {
		if p[i] < r.Min[i] || p[i] > r.Max[i] {
			return false
		}
	}
	return true
}

// Orthant returns the child index of p relative to center: bit i is set when
// p lies strictly above the center along axis i. Points on a splitting plane
// fall to the lower side.
func Orthant(p, center vec.Vec) int {
	idx := 0
	for i := range center {
		if p[i] > center[i] {
			idx |= 1 << i
		}
	}
	return idx
}

// Child returns the sub-region for orthant idx. The region's center becomes
// one corner and the matching outer corner of r the other.
func (r Region) Child(idx int) Region {
	c := r.Center()
	lo := make(vec.Vec, len(c))
	hi := make(vec.Vec, len(c))
	for i := range c {
		if idx&(1<<i) != 0 {
			lo[i], hi[i] = c[i], r.Max[i]
		} else {
			lo[i], hi[i] = r.Min[i], c[i]
		}
	}
	return Region{Min: lo, Max: hi}
}

// Enclose returns the smallest cube, centered on the bounding box of the
// bodies, that contains every position, grown by padding times its side on
// each face. Cubic roots keep every cell of the tree cubic.
func Enclose(bodies []Body, padding float64) (Region, error) {
	if len(bodies) == 0 {
		return Region{}, ErrNoBodies
	}
	dim := bodies[0].Dim()
	lo := bodies[0].Position.Clone()
	hi := bodies[0].Position.Clone()
	for _, b := range bodies[1:] {
		if b.Dim() != dim {
			return Region{}, ErrCornerDimension
		}
		for i, x := range b.Position {
			lo[i] = math.Min(lo[i], x)
			hi[i] = math.Max(hi[i], x)
		}
	}

	side := 0.0
	for i := range lo {
		side = math.Max(side, hi[i]-lo[i])
	}
	if side == 0 {
		side = 1
	}
	half := 0.5 * side * (1 + 2*padding)

	min := make(vec.Vec, dim)
	max := make(vec.Vec, dim)
	for i := range lo {
		mid := 0.5 * (lo[i] + hi[i])
		min[i] = math.Min(mid-half, lo[i])
		max[i] = math.Max(mid+half, hi[i])
	}
	return Region{Min: min, Max: max}, nil
}
