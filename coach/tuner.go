package coach

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/RyanBlaney/fretcheck/algorithms/common"
	"github.com/RyanBlaney/fretcheck/algorithms/filters"
	"github.com/RyanBlaney/fretcheck/algorithms/harmonic"
	"github.com/RyanBlaney/fretcheck/algorithms/spectral"
	"github.com/RyanBlaney/fretcheck/capture"
	"github.com/RyanBlaney/fretcheck/coach/config"
	"github.com/RyanBlaney/fretcheck/guitar"
	"github.com/RyanBlaney/fretcheck/logging"
)

// TuningStatus is the advice for one tuner reading.
type TuningStatus string

const (
	StatusInTune   TuningStatus = "in_tune"
	StatusTighten  TuningStatus = "tighten"
	StatusLoosen   TuningStatus = "loosen"
	StatusNoSignal TuningStatus = "no_signal"
)

// Message returns the advice shown to the player.
func (s TuningStatus) Message() string {
	switch s {
	case StatusInTune:
		return "String is in tune!"
	case StatusTighten:
		return "Tighten the string."
	case StatusLoosen:
		return "Loosen the string."
	default:
		return "No signal. Pluck the string."
	}
}

// TuningReading is one tuner measurement.
type TuningReading struct {
	Frequency float64         `json:"frequency"` // Dominant frequency, 0 without signal
	Target    float64         `json:"target"`
	Deviation float64         `json:"deviation"` // Frequency - Target in Hz
	Cents     float64         `json:"cents"`
	Status    TuningStatus    `json:"status"`
	Note      string          `json:"note,omitempty"` // Nearest equal-tempered note
	Amplitude float64         `json:"amplitude"`
	Match     *harmonic.Match `json:"match,omitempty"` // Harmonic-aware match near the target
}

// Tuner measures the pitch of a single plucked string. Read is safe for
// concurrent use; Run owns its source for the duration of the loop.
type Tuner struct {
	cfg      config.Tuner
	window   time.Duration
	analyzer *spectral.Analyzer
	logger   logging.Logger
}

// NewTuner creates a tuner that reads windows of the given length in Run.
func NewTuner(cfg config.Tuner, window time.Duration) *Tuner {
	return NewTunerWithLogger(cfg, window, logging.GetGlobalLogger())
}

// NewTunerWithLogger creates a tuner with an explicit logger.
func NewTunerWithLogger(cfg config.Tuner, window time.Duration, logger logging.Logger) *Tuner {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	return &Tuner{
		cfg:      cfg,
		window:   window,
		analyzer: spectral.NewAnalyzerWithLogger(&logging.NoOpLogger{}),
		logger: logger.WithFields(logging.Fields{
			"component": "tuner",
		}),
	}
}

func (t *Tuner) dcFilter(sampleRate int) *filters.DCRemoval {
	if t.cfg.DCCutoffHz > 0 {
		return filters.NewDCRemovalWithCutoff(sampleRate, t.cfg.DCCutoffHz)
	}
	return filters.NewDCRemoval()
}

// Read measures buf against a target frequency. The dominant bin of the
// whole spectrum is the reading; the harmonic-aware match is reported too.
func (t *Tuner) Read(buf common.SampleBuffer, target float64) (TuningReading, error) {
	reading := TuningReading{Target: target, Status: StatusNoSignal}

	if target <= 0 {
		return reading, fmt.Errorf("tuner target %.2f Hz must be positive", target)
	}
	if buf.SampleRate <= 0 {
		return reading, fmt.Errorf("tuner read: %w", common.ErrInvalidSampleRate)
	}

	reading.Amplitude = common.PeakAmplitude(buf.Samples)
	if buf.Len() == 0 || reading.Amplitude < t.cfg.MinAmplitude {
		return reading, nil
	}

	clean := t.dcFilter(buf.SampleRate).ProcessBuffer(buf.Samples)
	spec, err := t.analyzer.Analyze(common.NewSampleBuffer(clean, buf.SampleRate))
	if err != nil {
		return reading, fmt.Errorf("tuner read: %w", err)
	}

	freq := spectral.DominantFrequency(spec)
	if freq <= 0 {
		return reading, nil
	}

	reading.Frequency = freq
	reading.Deviation = freq - target
	reading.Cents = spectral.Cents(freq, target)
	reading.Note = guitar.NoteName(freq)

	switch {
	case math.Abs(reading.Deviation) < t.cfg.InTuneHz:
		reading.Status = StatusInTune
	case reading.Deviation < 0:
		reading.Status = StatusTighten
	default:
		reading.Status = StatusLoosen
	}

	peaks := harmonic.ExtractPeaks(spec, harmonic.PeakParams{
		MinFrequency:     target * 0.5 / 2,
		MaxFrequency:     target * 3 * 1.5,
		MinDistanceBins:  spec.BinsForHz(10),
		HeightPercentile: 95,
	})
	if m, ok := harmonic.FindStringFrequency(peaks, target, harmonic.DefaultMatchParams()); ok {
		reading.Match = &m
	}

	return reading, nil
}

// ReadString measures buf against the open frequency of string n.
func (t *Tuner) ReadString(buf common.SampleBuffer, n int) (TuningReading, error) {
	target, err := guitar.OpenFrequency(n)
	if err != nil {
		return TuningReading{}, err
	}
	return t.Read(buf, target)
}

// Run reads consecutive windows from src and calls fn with each reading
// until ctx is done, the source is exhausted or fn returns an error. A final
// window shorter than the configured length is dropped.
func (t *Tuner) Run(ctx context.Context, src capture.Source, target float64, fn func(TuningReading) error) error {
	n := common.SamplesFor(t.window, src.SampleRate())
	if n <= 0 {
		return fmt.Errorf("tuner window %v at %d Hz: %w", t.window, src.SampleRate(), common.ErrEmptyBuffer)
	}

	logger := t.logger.WithFields(logging.Fields{
		"target":  target,
		"samples": n,
	})
	logger.Debug("Tuner loop started")

	readings := 0
	for {
		buf, err := src.Read(ctx, n)
		switch {
		case errors.Is(err, capture.ErrSourceExhausted):
			logger.Debug("Tuner source exhausted", logging.Fields{"readings": readings})
			return nil
		case err != nil:
			return err
		}
		if buf.Len() < n {
			logger.Debug("Dropping short final window", logging.Fields{"samples": buf.Len()})
			return nil
		}

		reading, err := t.Read(buf, target)
		if err != nil {
			return err
		}
		readings++

		if err := fn(reading); err != nil {
			return err
		}
	}
}
