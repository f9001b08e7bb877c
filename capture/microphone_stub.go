//go:build !portaudio

package capture

import (
	"context"

	"github.com/RyanBlaney/fretcheck/algorithms/common"
)

// MicrophoneAvailable reports whether the binary was built with PortAudio.
const MicrophoneAvailable = false

// MicrophoneSource is unavailable in this build.
type MicrophoneSource struct{}

func OpenMicrophone(sampleRate, framesPerRead int) (*MicrophoneSource, error) {
	return nil, ErrNoMicrophone
}

func (m *MicrophoneSource) Read(ctx context.Context, n int) (common.SampleBuffer, error) {
	return common.SampleBuffer{}, ErrNoMicrophone
}

func (m *MicrophoneSource) SampleRate() int { return 0 }

func (m *MicrophoneSource) Close() error { return nil }

func InputDevices() ([]string, error) {
	return nil, ErrNoMicrophone
}
