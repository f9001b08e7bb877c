//go:build portaudio

package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-audio/audio"
	"github.com/gordonklaus/portaudio"

	"github.com/RyanBlaney/fretcheck/algorithms/common"
	"github.com/RyanBlaney/fretcheck/logging"
)

// MicrophoneAvailable reports whether the binary was built with PortAudio.
const MicrophoneAvailable = true

// MicrophoneSource reads mono float32 frames from the default input device.
type MicrophoneSource struct {
	mu     sync.Mutex
	stream *portaudio.Stream
	frames audio.Float32Buffer
	rate   int
	closed bool
	logger logging.Logger
}

// OpenMicrophone initializes PortAudio and starts a mono input stream.
func OpenMicrophone(sampleRate, framesPerRead int) (*MicrophoneSource, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("open microphone: %w", common.ErrInvalidSampleRate)
	}
	if framesPerRead <= 0 {
		framesPerRead = 1024
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}

	frames := audio.Float32Buffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:   make([]float32, framesPerRead),
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), framesPerRead, frames.Data)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open input: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("start input: %w", err)
	}

	logger := logging.WithFields(logging.Fields{
		"component":   "microphone",
		"sample_rate": sampleRate,
	})
	logger.Debug("Microphone stream started", logging.Fields{"frames_per_read": framesPerRead})

	return &MicrophoneSource{
		stream: stream,
		frames: frames,
		rate:   sampleRate,
		logger: logger,
	}, nil
}

// Read collects n samples, one PortAudio buffer at a time. Cancellation is
// checked between buffers.
func (m *MicrophoneSource) Read(ctx context.Context, n int) (common.SampleBuffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return common.SampleBuffer{}, ErrSourceExhausted
	}
	if n <= 0 {
		return common.SampleBuffer{}, fmt.Errorf("read %d samples: window must be positive", n)
	}

	out := make([]float32, 0, n)
	for len(out) < n {
		if err := ctx.Err(); err != nil {
			return common.SampleBuffer{}, err
		}
		if err := m.stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				m.logger.Warn("Input overflowed, samples dropped")
				continue
			}
			return common.SampleBuffer{}, fmt.Errorf("read input: %w", err)
		}
		take := min(len(m.frames.Data), n-len(out))
		out = append(out, m.frames.Data[:take]...)
	}

	return common.FromFloat32(out, m.rate), nil
}

func (m *MicrophoneSource) SampleRate() int {
	return m.rate
}

// Close stops the stream and releases PortAudio.
func (m *MicrophoneSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var errs []error
	if err := m.stream.Stop(); err != nil {
		errs = append(errs, err)
	}
	if err := m.stream.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := portaudio.Terminate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("close microphone: %w", errors.Join(errs...))
	}
	return nil
}

// InputDevices lists the names of devices with at least one input channel.
func InputDevices() ([]string, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, d := range devices {
		if d.MaxInputChannels == 0 {
			continue
		}
		names = append(names, fmt.Sprintf("%s (in:%d, %.0f Hz)", d.Name, d.MaxInputChannels, d.DefaultSampleRate))
	}
	return names, nil
}
