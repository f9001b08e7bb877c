package spectral

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/fretcheck/algorithms/common"
	"github.com/RyanBlaney/fretcheck/algorithms/windowing"
	"github.com/RyanBlaney/fretcheck/logging"
	"gonum.org/v1/gonum/floats"
)

// Spectrum is the one-sided magnitude spectrum of a single windowed buffer.
// Frequencies[i] = i * SampleRate / Size and len(Frequencies) == len(Magnitudes).
type Spectrum struct {
	Frequencies []float64 `json:"frequencies"`
	Magnitudes  []float64 `json:"magnitudes"`
	SampleRate  int       `json:"sample_rate"`
	Size        int       `json:"size"`       // Number of input samples (N)
	Resolution  float64   `json:"resolution"` // Hz per bin
}

// Len returns the number of frequency bins.
func (s *Spectrum) Len() int {
	return len(s.Magnitudes)
}

// BinsForHz converts a frequency distance to a whole number of bins at this
// spectrum's resolution. The result is at least 1.
func (s *Spectrum) BinsForHz(hz float64) int {
	if s.Resolution <= 0 {
		return 1
	}
	return max(int(hz/s.Resolution), 1)
}

// Band returns the half-open index range [lo, hi) of bins whose frequency
// lies within [minHz, maxHz]. lo == hi when no bin qualifies.
func (s *Spectrum) Band(minHz, maxHz float64) (lo, hi int) {
	n := len(s.Frequencies)
	lo = n
	for i, f := range s.Frequencies {
		if f >= minHz {
			lo = i
			break
		}
	}
	hi = lo
	for hi < n && s.Frequencies[hi] <= maxHz {
		hi++
	}
	return lo, hi
}

// Analyzer turns sample buffers into magnitude spectra. It holds no mutable
// state and is safe for concurrent use.
type Analyzer struct {
	fft    *FFT
	logger logging.Logger
}

// NewAnalyzer creates a spectral analyzer logging through the global logger.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithLogger(logging.GetGlobalLogger())
}

// NewAnalyzerWithLogger creates a spectral analyzer with an explicit logger.
func NewAnalyzerWithLogger(logger logging.Logger) *Analyzer {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	return &Analyzer{
		fft: NewFFT(),
		logger: logger.WithFields(logging.Fields{
			"component": "spectral_analyzer",
		}),
	}
}

// Analyze applies a full-length Hann window to the buffer and returns the
// magnitude of its real FFT over bins 0..N/2.
//
// An empty buffer yields an empty Spectrum and silence yields an all-zero one;
// rejecting silence early is the caller's job. Only a non-positive sample rate
// is an error.
func (a *Analyzer) Analyze(buf common.SampleBuffer) (*Spectrum, error) {
	if buf.SampleRate <= 0 {
		return nil, fmt.Errorf("analyze spectrum: %w", common.ErrInvalidSampleRate)
	}

	n := buf.Len()
	if n == 0 {
		return &Spectrum{
			Frequencies: []float64{},
			Magnitudes:  []float64{},
			SampleRate:  buf.SampleRate,
		}, nil
	}

	windowed := windowing.NewHann(n).Apply(buf.Samples)
	magnitudes := a.fft.Magnitudes(windowed)

	resolution := float64(buf.SampleRate) / float64(n)
	frequencies := make([]float64, len(magnitudes))
	for i := range frequencies {
		frequencies[i] = float64(i) * resolution
	}

	a.logger.Debug("Computed spectrum", logging.Fields{
		"signal_length":   n,
		"freq_bins":       len(magnitudes),
		"freq_resolution": resolution,
	})

	return &Spectrum{
		Frequencies: frequencies,
		Magnitudes:  magnitudes,
		SampleRate:  buf.SampleRate,
		Size:        n,
		Resolution:  resolution,
	}, nil
}

var defaultAnalyzer = NewAnalyzerWithLogger(&logging.NoOpLogger{})

// Analyze runs the Hann-windowed FFT with a quiet default analyzer.
func Analyze(buf common.SampleBuffer) (*Spectrum, error) {
	return defaultAnalyzer.Analyze(buf)
}

// DominantFrequency returns the frequency of the strongest bin. The DC bin
// never counts; 0 is returned when it is the maximum or the spectrum is empty.
func DominantFrequency(s *Spectrum) float64 {
	if s == nil || s.Len() == 0 {
		return 0.0
	}

	idx := floats.MaxIdx(s.Magnitudes)
	if idx <= 0 || idx >= len(s.Frequencies) {
		return 0.0
	}
	return s.Frequencies[idx]
}

// Cents returns the signed distance from reference to frequency in cents
// (hundredths of an equal-tempered semitone).
func Cents(frequency, reference float64) float64 {
	if frequency <= 0 || reference <= 0 {
		return 0.0
	}
	return 1200 * math.Log2(frequency/reference)
}
