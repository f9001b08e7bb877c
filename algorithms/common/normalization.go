package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// PeakAmplitude returns max |x| over the signal, 0 for an empty signal.
func PeakAmplitude(signal []float64) float64 {
	if len(signal) == 0 {
		return 0.0
	}
	return math.Max(math.Abs(floats.Max(signal)), math.Abs(floats.Min(signal)))
}

// PeakNormalize scales the signal so that its peak amplitude is 1.0.
// A silent signal is returned as an unscaled copy. The input is not modified.
func PeakNormalize(signal []float64) []float64 {
	normalized := make([]float64, len(signal))
	copy(normalized, signal)

	peak := PeakAmplitude(signal)
	if peak < 1e-12 {
		return normalized
	}

	floats.Scale(1.0/peak, normalized)
	return normalized
}

// RMS calculates root mean square
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0.0
	}
	return floats.Norm(signal, 2) / math.Sqrt(float64(len(signal)))
}
