// Package config loads and validates the analysis settings used by the
// chord judge, the tuner and the chord guesser.
//
// Defaults reproduce the tuned constants of the detector. A TOML file only
// needs to list the values it overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Capture controls how much audio each mode records.
type Capture struct {
	SampleRate    int     `toml:"sample_rate" json:"sample_rate"`
	ChordSeconds  float64 `toml:"chord_seconds" json:"chord_seconds"`
	TuneSeconds   float64 `toml:"tune_seconds" json:"tune_seconds"`
	GuessSeconds  float64 `toml:"guess_seconds" json:"guess_seconds"`
	FramesPerRead int     `toml:"frames_per_read" json:"frames_per_read"`
}

// Chord controls the fingering judge.
type Chord struct {
	MinAmplitude     float64 `toml:"min_amplitude" json:"min_amplitude"`
	MinNotes         int     `toml:"min_notes" json:"min_notes"`
	MinFrequency     float64 `toml:"min_frequency" json:"min_frequency"`
	MaxFrequency     float64 `toml:"max_frequency" json:"max_frequency"`
	HeightPercentile float64 `toml:"height_percentile" json:"height_percentile"`
	PercentileMethod string  `toml:"percentile_method" json:"percentile_method"` // linear, lower, higher, midpoint or empirical
	PeakDistanceHz   float64 `toml:"peak_distance_hz" json:"peak_distance_hz"`
	BaseTolerance    float64 `toml:"base_tolerance" json:"base_tolerance"`

	MaxErrorWeight     float64 `toml:"max_error_weight" json:"max_error_weight"`
	FrettedErrorWeight float64 `toml:"fretted_error_weight" json:"fretted_error_weight"`
	WrongOpenWeight    float64 `toml:"wrong_open_weight" json:"wrong_open_weight"`
	MissingOpenWeight  float64 `toml:"missing_open_weight" json:"missing_open_weight"`
}

// Tuner controls the single-string tuning loop.
type Tuner struct {
	MinAmplitude float64 `toml:"min_amplitude" json:"min_amplitude"`
	InTuneHz     float64 `toml:"in_tune_hz" json:"in_tune_hz"`
	DCCutoffHz   float64 `toml:"dc_cutoff_hz" json:"dc_cutoff_hz"` // 0 keeps the fixed 0.995 pole
}

// Guess controls the open-ended chord guesser.
type Guess struct {
	MinAmplitude     float64 `toml:"min_amplitude" json:"min_amplitude"`
	TopPeaks         int     `toml:"top_peaks" json:"top_peaks"`
	Tolerance        float64 `toml:"tolerance" json:"tolerance"`
	DistinctiveBonus float64 `toml:"distinctive_bonus" json:"distinctive_bonus"`
	MinMatchedNotes  int     `toml:"min_matched_notes" json:"min_matched_notes"`
}

// Logging controls log verbosity.
type Logging struct {
	Level string `toml:"level" json:"level"`
}

// Config is the full analysis configuration.
type Config struct {
	Capture Capture `toml:"capture" json:"capture"`
	Chord   Chord   `toml:"chord" json:"chord"`
	Tuner   Tuner   `toml:"tuner" json:"tuner"`
	Guess   Guess   `toml:"guess" json:"guess"`
	Logging Logging `toml:"logging" json:"logging"`
}

// DefaultConfigPath returns the per-user config location.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "fretcheck", "config.toml"), nil
}

// Load reads a TOML file over the defaults and validates the result. An empty
// path means DefaultConfigPath. A missing file is not an error; the returned
// bool reports whether one was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved := path
	if resolved == "" {
		var err error
		if resolved, err = DefaultConfigPath(); err != nil {
			return nil, "", false, err
		}
	}

	exists := true
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, "", false, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolved, exists, nil
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Marshal renders the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
