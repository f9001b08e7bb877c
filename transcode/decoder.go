package transcode

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/fretcheck/algorithms/common"
	"github.com/RyanBlaney/fretcheck/logging"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// AudioData represents decoded mono audio
type AudioData struct {
	PCM        []float64     `json:"-"` // Mono samples in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // Channels in the source before downmixing
	Duration   time.Duration `json:"duration"`
	Codec      string        `json:"codec"`
	Source     string        `json:"source"`
}

// Buffer returns the decoded samples as an analysis buffer.
func (a *AudioData) Buffer() common.SampleBuffer {
	return common.NewSampleBuffer(a.PCM, a.SampleRate)
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	// TargetSampleRate applies to ffmpeg decodes. WAV files keep their own rate.
	TargetSampleRate int           `json:"target_sample_rate"`
	MaxDuration      time.Duration `json:"max_duration"`     // 0 = whole file
	ResampleQuality  string        `json:"resample_quality"` // "fast", "medium", "high"
	FFmpegPath       string        `json:"ffmpeg_path"`      // Empty disables non-WAV input
	FFprobePath      string        `json:"ffprobe_path"`
	Timeout          time.Duration `json:"timeout"` // Per ffmpeg/ffprobe invocation
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetSampleRate: 44100,
		MaxDuration:      0,
		ResampleQuality:  "medium",
		FFmpegPath:       "ffmpeg",
		FFprobePath:      "ffprobe",
		Timeout:          30 * time.Second,
	}
}

// Decoder turns audio files into mono sample buffers. WAV is read natively;
// everything else goes through ffmpeg.
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "audio_decoder",
		}),
	}
}

// DecodeFile decodes an audio file and returns mono PCM data
func (d *Decoder) DecodeFile(ctx context.Context, filename string) (*AudioData, error) {
	logger := d.logger.WithFields(logging.Fields{
		"function": "DecodeFile",
		"filename": filename,
	})

	logger.Debug("Starting audio file decode")

	if isWAV(filename) {
		data, err := decodeWAVFile(filename, d.config.MaxDuration)
		if err != nil {
			logger.Error(err, "Failed to decode WAV file")
			return nil, err
		}
		return data, nil
	}

	if d.config.FFmpegPath == "" {
		return nil, fmt.Errorf("%s: %w (ffmpeg disabled)", filepath.Ext(filename), ErrUnsupportedFormat)
	}

	metadata, err := d.probeAudioFile(ctx, filename)
	if err != nil {
		logger.Error(err, "Failed to probe audio file")
		return nil, err
	}

	logger.Debug("Audio metadata detected", logging.Fields{
		"input_sample_rate": metadata.SampleRate,
		"input_channels":    metadata.Channels,
		"input_codec":       metadata.Codec,
		"input_duration":    metadata.Duration,
	})

	return d.decodeFileWithFFmpeg(ctx, filename, metadata)
}

// ValidateConfig validates the decoder configuration
func (d *Decoder) ValidateConfig() error {
	if d.config.TargetSampleRate <= 0 {
		return fmt.Errorf("target sample rate must be positive: %d", d.config.TargetSampleRate)
	}
	if d.config.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %v", d.config.Timeout)
	}
	if d.config.MaxDuration < 0 {
		return fmt.Errorf("max duration must not be negative: %v", d.config.MaxDuration)
	}
	return nil
}

// SupportedFormats lists the extensions the decoder accepts.
func (d *Decoder) SupportedFormats() []string {
	if d.config.FFmpegPath == "" {
		return []string{"wav"}
	}
	return []string{"wav", "mp3", "flac", "ogg", "opus", "m4a", "aac", "webm"}
}

func isWAV(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".wav" || ext == ".wave"
}
