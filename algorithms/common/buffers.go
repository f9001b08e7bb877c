package common

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyBuffer is returned when an analysis needs at least one sample.
	ErrEmptyBuffer = errors.New("empty sample buffer")
	// ErrInvalidSampleRate is returned for a sample rate that is not positive.
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
)

// SampleBuffer is a fixed-length run of mono PCM samples at a known rate.
// Samples are nominally in [-1, 1]. The buffer is borrowed for the duration
// of one analysis call and never modified by the analysis code.
type SampleBuffer struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
}

// NewSampleBuffer wraps samples at the given rate.
func NewSampleBuffer(samples []float64, sampleRate int) SampleBuffer {
	return SampleBuffer{Samples: samples, SampleRate: sampleRate}
}

// FromFloat32 converts capture-device samples (32-bit float) into a SampleBuffer.
func FromFloat32(samples []float32, sampleRate int) SampleBuffer {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s)
	}
	return SampleBuffer{Samples: out, SampleRate: sampleRate}
}

// Len returns the number of samples.
func (b SampleBuffer) Len() int {
	return len(b.Samples)
}

// Duration returns the buffer length as wall-clock time.
func (b SampleBuffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// Validate checks the analysis invariants: at least one sample and a positive rate.
func (b SampleBuffer) Validate() error {
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSampleRate, b.SampleRate)
	}
	if len(b.Samples) == 0 {
		return ErrEmptyBuffer
	}
	return nil
}

// SamplesFor returns the number of samples covering d at sampleRate.
func SamplesFor(d time.Duration, sampleRate int) int {
	return int(d.Seconds() * float64(sampleRate))
}
