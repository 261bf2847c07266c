// Package dsp provides the sample-level processing kernels used by the
// mastering chain: biquad filters, nonlinear transfer curves, envelope
// dynamics, FFT convolution, channel matrices and parameter smoothing.
package dsp

import "math"

// DbToLinear converts a decibel value to linear amplitude.
func DbToLinear(db float64) float64 {
	return math.Pow(10, db/20.0)
}

// LinearToDb converts linear amplitude to decibels.
// Inverse of DbToLinear, with a practical floor for silence.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return -120.0
	}
	return 20.0 * math.Log10(linear)
}

// Clamp restricts v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
