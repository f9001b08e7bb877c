package filters

import (
	"math"
)

// DCRemoval is a one-pole DC blocking filter. Cheap microphones and some
// audio interfaces add a constant offset that, once windowed, leaks into the
// lowest FFT bins and can win an argmax over the spectrum.
//
// References:
//   - Julius O. Smith III, "Introduction to Digital Filters with Audio Applications"
//     https://ccrma.stanford.edu/~jos/filters/DC_Blocker.html
type DCRemoval struct {
	poleLocation float64 // R parameter (0 < R < 1)

	// State variables
	x1 float64 // Previous input sample x[n-1]
	y1 float64 // Previous output sample y[n-1]
}

// NewDCRemoval creates a DC removal filter with R = 0.995, a cutoff of
// roughly 35 Hz at 44.1 kHz.
func NewDCRemoval() *DCRemoval {
	return &DCRemoval{poleLocation: 0.995}
}

// NewDCRemovalWithCutoff creates a DC removal filter with the given -3dB
// cutoff, using R = 1 - 2*pi*fc/fs.
func NewDCRemovalWithCutoff(sampleRate int, cutoffFreq float64) *DCRemoval {
	dc := NewDCRemoval()
	if sampleRate <= 0 || cutoffFreq <= 0 {
		return dc
	}

	r := 1.0 - (2.0 * math.Pi * cutoffFreq / float64(sampleRate))
	switch {
	case r >= 1.0:
		r = 0.999
	case r <= 0.0:
		r = 0.001
	}
	dc.poleLocation = r
	return dc
}

// Process applies y[n] = x[n] - x[n-1] + R * y[n-1] to one sample.
func (dc *DCRemoval) Process(input float64) float64 {
	output := input - dc.x1 + dc.poleLocation*dc.y1
	dc.x1 = input
	dc.y1 = output
	return output
}

// ProcessBuffer filters a whole buffer into a new slice.
func (dc *DCRemoval) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = dc.Process(sample)
	}
	return output
}

// Reset clears the filter state. Call between discontinuous buffers.
func (dc *DCRemoval) Reset() {
	dc.x1 = 0.0
	dc.y1 = 0.0
}

// CutoffFrequency returns the approximate -3dB cutoff, fc = (1-R)*fs/(2*pi).
func (dc *DCRemoval) CutoffFrequency(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0.0
	}
	return (1.0 - dc.poleLocation) * float64(sampleRate) / (2.0 * math.Pi)
}
