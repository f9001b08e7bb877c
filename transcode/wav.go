package transcode

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/fretcheck/algorithms/common"
)

// wavBitDepth is the PCM depth used by WriteWAV.
const wavBitDepth = 16

func decodeWAVFile(filename string, maxDuration time.Duration) (*AudioData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s: %w (invalid WAV header)", filename, ErrUnsupportedFormat)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read wav pcm: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%s: %w (missing format chunk)", filename, ErrUnsupportedFormat)
	}

	channels := buf.Format.NumChannels
	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = int(decoder.BitDepth)
	}
	pcm := downmix(buf.AsFloatBuffer().Data, channels, fullScale(bitDepth))

	if maxDuration > 0 {
		limit := int(maxDuration.Seconds() * float64(buf.Format.SampleRate))
		if limit < len(pcm) {
			pcm = pcm[:limit]
		}
	}

	return &AudioData{
		PCM:        pcm,
		SampleRate: buf.Format.SampleRate,
		Channels:   channels,
		Duration:   time.Duration(len(pcm)) * time.Second / time.Duration(buf.Format.SampleRate),
		Codec:      "pcm",
		Source:     filename,
	}, nil
}

// fullScale is the magnitude of the most negative integer sample.
func fullScale(bitDepth int) float64 {
	if bitDepth <= 0 {
		bitDepth = wavBitDepth
	}
	return math.Pow(2, float64(bitDepth-1))
}

// downmix averages interleaved frames into one channel and scales to [-1, 1].
func downmix(data []float64, channels int, scale float64) []float64 {
	frames := len(data) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += data[i*channels+c]
		}
		out[i] = sum / float64(channels) / scale
	}
	return out
}

// WriteWAV stores a buffer as a 16-bit mono PCM WAV file. Samples outside
// [-1, 1] are clipped.
func WriteWAV(path string, buf common.SampleBuffer) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	defer out.Close()

	scale := fullScale(wavBitDepth)
	data := make([]int, len(buf.Samples))
	for i, s := range buf.Samples {
		s = math.Max(-1, math.Min(1, s))
		data[i] = int(math.Max(-scale, math.Min(scale-1, math.Round(s*scale))))
	}

	encoder := wav.NewEncoder(out, buf.SampleRate, wavBitDepth, 1, 1)
	intBuf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: buf.SampleRate},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}
	if err := encoder.Write(intBuf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}
