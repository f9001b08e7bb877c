package config

import "strings"

const (
	defaultSampleRate    = 44100
	defaultChordSeconds  = 3.0
	defaultTuneSeconds   = 0.4
	defaultGuessSeconds  = 2.0
	defaultFramesPerRead = 1024

	defaultMinAmplitude       = 0.02
	defaultMinNotes           = 3
	defaultMinFrequency       = 60.0
	defaultMaxFrequency       = 500.0
	defaultHeightPercentile   = 85.0
	defaultPercentileMethod   = "linear"
	defaultPeakDistanceHz     = 20.0
	defaultBaseTolerance      = 25.0
	defaultMaxErrorWeight     = 2.0
	defaultFrettedErrorWeight = 1.0
	defaultWrongOpenWeight    = 1.0
	defaultMissingOpenWeight  = 0.5

	defaultInTuneHz = 1.0

	defaultTopPeaks         = 30
	defaultGuessTolerance   = 8.0
	defaultDistinctiveBonus = 30.0
	defaultMinMatchedNotes  = 2

	defaultLogLevel = "info"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Capture: Capture{
			SampleRate:    defaultSampleRate,
			ChordSeconds:  defaultChordSeconds,
			TuneSeconds:   defaultTuneSeconds,
			GuessSeconds:  defaultGuessSeconds,
			FramesPerRead: defaultFramesPerRead,
		},
		Chord: Chord{
			MinAmplitude:       defaultMinAmplitude,
			MinNotes:           defaultMinNotes,
			MinFrequency:       defaultMinFrequency,
			MaxFrequency:       defaultMaxFrequency,
			HeightPercentile:   defaultHeightPercentile,
			PercentileMethod:   defaultPercentileMethod,
			PeakDistanceHz:     defaultPeakDistanceHz,
			BaseTolerance:      defaultBaseTolerance,
			MaxErrorWeight:     defaultMaxErrorWeight,
			FrettedErrorWeight: defaultFrettedErrorWeight,
			WrongOpenWeight:    defaultWrongOpenWeight,
			MissingOpenWeight:  defaultMissingOpenWeight,
		},
		Tuner: Tuner{
			MinAmplitude: defaultMinAmplitude,
			InTuneHz:     defaultInTuneHz,
		},
		Guess: Guess{
			MinAmplitude:     defaultMinAmplitude,
			TopPeaks:         defaultTopPeaks,
			Tolerance:        defaultGuessTolerance,
			DistinctiveBonus: defaultDistinctiveBonus,
			MinMatchedNotes:  defaultMinMatchedNotes,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}

func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Chord.PercentileMethod = strings.ToLower(strings.TrimSpace(c.Chord.PercentileMethod))
	if c.Chord.PercentileMethod == "" {
		c.Chord.PercentileMethod = defaultPercentileMethod
	}
	if c.Capture.FramesPerRead <= 0 {
		c.Capture.FramesPerRead = defaultFramesPerRead
	}
}
