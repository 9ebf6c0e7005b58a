package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/bhtree/internal/sim"
)

// DivergenceResult is the maximum body separation at each shared snapshot.
type DivergenceResult struct {
	Times      []float64
	Separation []float64
	// Rate is the least squares slope of ln(separation) against time over
	// the snapshots with non-zero separation.
	Rate float64
}

// Divergence compares two runs snapshot by snapshot. Bodies are matched by
// index, which holds for runs started from the same set.
func Divergence(a, b []sim.Snapshot) (DivergenceResult, error) {
	n := min(len(a), len(b))
	if n == 0 {
		return DivergenceResult{}, ErrShortSeries
	}

	var res DivergenceResult
	for i := 0; i < n; i++ {
		if a[i].Step != b[i].Step {
			return DivergenceResult{}, errors.New("runs were sampled at different steps")
		}
		if len(a[i].Bodies) != len(b[i].Bodies) {
			return DivergenceResult{}, errors.New("runs have different body counts")
		}
		sep := 0.0
		for k := range a[i].Bodies {
			sep = math.Max(sep, a[i].Bodies[k].Position.Sub(b[i].Bodies[k].Position).Norm())
		}
		res.Times = append(res.Times, a[i].Time)
		res.Separation = append(res.Separation, sep)
	}
	res.Rate = growthRate(res.Times, res.Separation)
	return res, nil
}

// Final is the separation at the last shared snapshot.
func (d DivergenceResult) Final() float64 {
	if len(d.Separation) == 0 {
		return 0
	}
	return d.Separation[len(d.Separation)-1]
}

func growthRate(t, sep []float64) float64 {
	var n, sx, sy, sxx, sxy float64
	for i := range t {
		if sep[i] <= 0 {
			continue
		}
		y := math.Log(sep[i])
		n++
		sx += t[i]
		sy += y
		sxx += t[i] * t[i]
		sxy += t[i] * y
	}
	den := n*sxx - sx*sx
	if n < 2 || den == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / den
}
