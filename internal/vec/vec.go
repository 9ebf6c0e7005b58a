// Package vec provides the small amount of d-dimensional linear algebra the
// tree code needs: dense vectors and symmetric second-moment tensors.
//
// Vectors are plain float64 slices so that 2-D and 3-D inputs share one code
// path. Binary operations assume equal lengths; callers validate dimensions
// once at the boundary instead of on every arithmetic call.
package vec

import "math"

type Vec []float64

func Zero(dim int) Vec {
	return make(Vec, dim)
}

func (v Vec) Dim() int { return len(v) }

func (v Vec) Clone() Vec {
	c := make(Vec, len(v))
	copy(c, v)
	return c
}

func (v Vec) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (v Vec) Dot(other Vec) float64 {
	sum := 0.0
	for i := range v {
		sum += v[i] * other[i]
	}
	return sum
}

func (v Vec) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec) Add(other Vec) Vec {
	result := make(Vec, len(v))
	for i := range v {
		result[i] = v[i] + other[i]
	}
	return result
}

func (v Vec) Sub(other Vec) Vec {
	result := make(Vec, len(v))
	for i := range v {
		result[i] = v[i] - other[i]
	}
	return result
}

func (v Vec) Scale(factor float64) Vec {
	result := make(Vec, len(v))
	for i := range v {
		result[i] = v[i] * factor
	}
	return result
}

// AddScaled performs v += factor*other in place.
func (v Vec) AddScaled(other Vec, factor float64) {
	for i := range v {
		v[i] += factor * other[i]
	}
}

// SubInto writes a-b into v, which must already have the right length.
func (v Vec) SubInto(a, b Vec) {
	for i := range v {
		v[i] = a[i] - b[i]
	}
}

func (v Vec) Equal(other Vec) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i] != other[i] {
			return false
		}
	}
	return true
}

// EqualWithEpsilon compares component-wise with an absolute tolerance.
func (v Vec) EqualWithEpsilon(other Vec, eps float64) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if math.Abs(v[i]-other[i]) > eps {
			return false
		}
	}
	return true
}
