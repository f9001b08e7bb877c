package config

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/fretcheck/algorithms/stats"
	"github.com/RyanBlaney/fretcheck/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateChord(); err != nil {
		return err
	}
	if err := c.validateTuner(); err != nil {
		return err
	}
	if err := c.validateGuess(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

func (c *Config) validateCapture() error {
	if c.Capture.SampleRate <= 0 {
		return errors.New("capture.sample_rate must be positive")
	}
	if c.Capture.ChordSeconds <= 0 || c.Capture.TuneSeconds <= 0 || c.Capture.GuessSeconds <= 0 {
		return errors.New("capture durations must be positive")
	}
	return nil
}

func (c *Config) validateChord() error {
	ch := c.Chord
	if ch.MinAmplitude < 0 || ch.MinAmplitude >= 1 {
		return errors.New("chord.min_amplitude must be in [0, 1)")
	}
	if ch.MinNotes < 1 {
		return errors.New("chord.min_notes must be at least 1")
	}
	if ch.MinFrequency < 0 || ch.MaxFrequency <= ch.MinFrequency {
		return fmt.Errorf("chord band [%g, %g] Hz is empty", ch.MinFrequency, ch.MaxFrequency)
	}
	if ch.MaxFrequency > float64(c.Capture.SampleRate)/2 {
		return fmt.Errorf("chord.max_frequency %g Hz is above Nyquist for %d Hz", ch.MaxFrequency, c.Capture.SampleRate)
	}
	if ch.HeightPercentile < 0 || ch.HeightPercentile > 100 {
		return errors.New("chord.height_percentile must be between 0 and 100")
	}
	if _, err := stats.ParseMethod(ch.PercentileMethod); err != nil {
		return fmt.Errorf("chord.percentile_method: %w", err)
	}
	if ch.PeakDistanceHz <= 0 {
		return errors.New("chord.peak_distance_hz must be positive")
	}
	if ch.BaseTolerance <= 0 {
		return errors.New("chord.base_tolerance must be positive")
	}
	if ch.MaxErrorWeight < 0 || ch.FrettedErrorWeight < 0 || ch.WrongOpenWeight < 0 || ch.MissingOpenWeight < 0 {
		return errors.New("chord error weights must not be negative")
	}
	return nil
}

func (c *Config) validateTuner() error {
	if c.Tuner.MinAmplitude < 0 || c.Tuner.MinAmplitude >= 1 {
		return errors.New("tuner.min_amplitude must be in [0, 1)")
	}
	if c.Tuner.InTuneHz <= 0 {
		return errors.New("tuner.in_tune_hz must be positive")
	}
	if c.Tuner.DCCutoffHz < 0 {
		return errors.New("tuner.dc_cutoff_hz must not be negative")
	}
	return nil
}

func (c *Config) validateGuess() error {
	if c.Guess.MinAmplitude < 0 || c.Guess.MinAmplitude >= 1 {
		return errors.New("guess.min_amplitude must be in [0, 1)")
	}
	if c.Guess.TopPeaks <= 0 {
		return errors.New("guess.top_peaks must be positive")
	}
	if c.Guess.Tolerance <= 0 {
		return errors.New("guess.tolerance must be positive")
	}
	if c.Guess.MinMatchedNotes < 1 {
		return errors.New("guess.min_matched_notes must be at least 1")
	}
	return nil
}
