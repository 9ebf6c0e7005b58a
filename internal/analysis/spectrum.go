package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrShortSeries = errors.New("series too short for analysis")

// PowerSpectrum holds the magnitude of each non-negative frequency bin.
type PowerSpectrum struct {
	Freqs []float64
	Power []float64
}

// Spectrum transforms samples taken every dt. The mean is removed first so
// that bin 0 does not dominate.
func Spectrum(samples []float64, dt float64) (PowerSpectrum, error) {
	n := len(samples)
	if n < 4 {
		return PowerSpectrum{}, ErrShortSeries
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)
	centered := make([]float64, n)
	for i, v := range samples {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	half := n / 2
	ps := PowerSpectrum{
		Freqs: make([]float64, half),
		Power: make([]float64, half),
	}
	for i := 0; i < half; i++ {
		ps.Freqs[i] = float64(i) / (float64(n) * dt)
		ps.Power[i] = cmplx.Abs(coeffs[i])
	}
	return ps, nil
}

// Dominant returns the frequency of the strongest bin above zero, or 0 if
// the series is flat.
func (ps PowerSpectrum) Dominant() float64 {
	best, idx := 0.0, 0
	for i := 1; i < len(ps.Power); i++ {
		if ps.Power[i] > best {
			best, idx = ps.Power[i], i
		}
	}
	return ps.Freqs[idx]
}
