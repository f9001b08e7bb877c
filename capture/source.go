// Package capture provides the audio sources the analysis modes read from:
// in-memory buffers, decoded files and, when built with the portaudio tag,
// the default microphone.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RyanBlaney/fretcheck/algorithms/common"
	"github.com/RyanBlaney/fretcheck/transcode"
)

// ErrSourceExhausted is returned by Read once a finite source has no samples left.
var ErrSourceExhausted = errors.New("audio source exhausted")

// ErrNoMicrophone is returned when the binary was built without PortAudio.
var ErrNoMicrophone = errors.New("microphone capture not available: rebuild with -tags portaudio or pass --file")

// Source delivers mono sample windows.
type Source interface {
	// Read blocks until n samples are available or the source ends. A final
	// window may be shorter than n; after it Read returns ErrSourceExhausted.
	Read(ctx context.Context, n int) (common.SampleBuffer, error)
	SampleRate() int
	Close() error
}

// BufferSource replays an in-memory buffer in consecutive windows.
type BufferSource struct {
	buf common.SampleBuffer
	pos int
}

// NewBufferSource wraps buf. The samples are not copied.
func NewBufferSource(buf common.SampleBuffer) *BufferSource {
	return &BufferSource{buf: buf}
}

func (s *BufferSource) Read(ctx context.Context, n int) (common.SampleBuffer, error) {
	if err := ctx.Err(); err != nil {
		return common.SampleBuffer{}, err
	}
	if n <= 0 {
		return common.SampleBuffer{}, fmt.Errorf("read %d samples: window must be positive", n)
	}
	if s.pos >= len(s.buf.Samples) {
		return common.SampleBuffer{}, ErrSourceExhausted
	}

	end := min(s.pos+n, len(s.buf.Samples))
	window := common.NewSampleBuffer(s.buf.Samples[s.pos:end], s.buf.SampleRate)
	s.pos = end
	return window, nil
}

func (s *BufferSource) SampleRate() int {
	return s.buf.SampleRate
}

// Remaining returns the number of samples not yet read.
func (s *BufferSource) Remaining() int {
	return len(s.buf.Samples) - s.pos
}

func (s *BufferSource) Close() error {
	s.pos = len(s.buf.Samples)
	return nil
}

// NewFileSource decodes the whole file up front and replays it.
func NewFileSource(ctx context.Context, path string, cfg *transcode.DecoderConfig) (*BufferSource, error) {
	decoder := transcode.NewDecoder(cfg)
	if err := decoder.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("open file source: %w", err)
	}
	data, err := decoder.DecodeFile(ctx, path)
	if errors.Is(err, transcode.ErrUnsupportedFormat) {
		return nil, fmt.Errorf("open file source (supported: %s): %w", strings.Join(decoder.SupportedFormats(), ", "), err)
	}
	if err != nil {
		return nil, fmt.Errorf("open file source: %w", err)
	}
	return NewBufferSource(data.Buffer()), nil
}

// Record reads d worth of audio from src into one buffer. A source that ends
// early yields what it had; ErrSourceExhausted is only returned when nothing
// was read.
func Record(ctx context.Context, src Source, d time.Duration) (common.SampleBuffer, error) {
	rate := src.SampleRate()
	want := common.SamplesFor(d, rate)
	if want <= 0 {
		return common.SampleBuffer{}, fmt.Errorf("record %v at %d Hz: %w", d, rate, common.ErrEmptyBuffer)
	}

	samples := make([]float64, 0, want)
	for len(samples) < want {
		window, err := src.Read(ctx, want-len(samples))
		if errors.Is(err, ErrSourceExhausted) && len(samples) > 0 {
			break
		}
		if err != nil {
			return common.SampleBuffer{}, err
		}
		samples = append(samples, window.Samples...)
	}

	return common.NewSampleBuffer(samples, rate), nil
}
