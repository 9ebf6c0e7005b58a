package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/bhtree/internal/vec"
)

var ErrLengthMismatch = errors.New("metrics: result sets differ in length")

// Deviation summarises how far approximate accelerations are from a
// reference set.
type Deviation struct {
	Mean float64
	Max  float64
	RMS  float64
	// Worst is the index of the query with the largest deviation.
	Worst int
}

// RelativeDeviation compares got against want element by element using
// |got-want| / |want|. Where the reference vanishes the absolute error is
// used instead.
func RelativeDeviation(got, want []vec.Vec) (Deviation, error) {
	if len(got) != len(want) {
		return Deviation{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(got), len(want))
	}
	d := Deviation{Worst: -1}
	if len(got) == 0 {
		return d, nil
	}

	sum, sumSq := 0.0, 0.0
	for i := range got {
		if len(got[i]) != len(want[i]) {
			return Deviation{}, fmt.Errorf("%w: vector %d has dimension %d vs %d", ErrLengthMismatch, i, len(got[i]), len(want[i]))
		}
		e := got[i].Sub(want[i]).Norm()
		if ref := want[i].Norm(); ref > 0 {
			e /= ref
		}
		sum += e
		sumSq += e * e
		if e > d.Max || d.Worst < 0 {
			d.Max = e
			d.Worst = i
		}
	}
	n := float64(len(got))
	d.Mean = sum / n
	d.RMS = math.Sqrt(sumSq / n)
	return d, nil
}
