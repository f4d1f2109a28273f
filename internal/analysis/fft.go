package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooShort = errors.New("analysis: series too short")

// FFT transforms a real series of any non-zero length.
func FFT(data []float64) ([]complex128, error) {
	if len(data) == 0 {
		return nil, ErrTooShort
	}
	return fft.FFTReal(data), nil
}

// PowerSpectrum removes the mean, zero pads to the next power of two and
// returns the magnitudes of the non-negative frequency bins.
func PowerSpectrum(data []float64) ([]float64, error) {
	if len(data) < 2 {
		return nil, ErrTooShort
	}

	var mean float64
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	padded := make([]float64, nextPow2(len(data)))
	for i, v := range data {
		padded[i] = v - mean
	}

	coeffs, err := FFT(padded)
	if err != nil {
		return nil, err
	}
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps, nil
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// bin of a series sampled every dt seconds.
func DominantFrequency(data []float64, dt float64) (float64, error) {
	ps, err := PowerSpectrum(data)
	if err != nil {
		return 0, err
	}
	peak := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	n := 2 * len(ps)
	return float64(peak) / (float64(n) * dt), nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
