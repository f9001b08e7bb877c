// Package coach turns recordings into guitar-learning feedback. The Judge
// checks a strum against a chord template, the Tuner follows a single string
// and the Guesser names an unknown strum. All three are call patterns over
// the same spectrum, peak and string-matching primitives.
package coach

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/RyanBlaney/fretcheck/algorithms/common"
	"github.com/RyanBlaney/fretcheck/algorithms/harmonic"
	"github.com/RyanBlaney/fretcheck/algorithms/spectral"
	"github.com/RyanBlaney/fretcheck/algorithms/stats"
	"github.com/RyanBlaney/fretcheck/coach/config"
	"github.com/RyanBlaney/fretcheck/guitar"
	"github.com/RyanBlaney/fretcheck/logging"
)

// Outcome tells how far a chord check got.
type Outcome string

const (
	OutcomeJudged       Outcome = "judged"
	OutcomeNoSound      Outcome = "no_sound"
	OutcomeTooFewNotes  Outcome = "too_few_notes"
	OutcomeUnknownChord Outcome = "unknown_chord"
	OutcomeInvalidInput Outcome = "invalid_input"
)

// ErrorKind classifies a string that was not played correctly.
type ErrorKind string

const (
	ErrorNone           ErrorKind = "none"
	ErrorNoSound        ErrorKind = "no_sound"
	ErrorWrongFrequency ErrorKind = "wrong_frequency"
)

// StringMatchResult is the verdict for one required string.
type StringMatchResult struct {
	String     int               `json:"string"`
	Fret       int               `json:"fret"`
	Kind       guitar.StringKind `json:"kind"`
	Detected   bool              `json:"detected"`
	Observed   *float64          `json:"observed,omitempty"` // nil when nothing matched
	Expected   float64           `json:"expected"`
	Correct    bool              `json:"correct"`
	Error      ErrorKind         `json:"error"`
	Multiplier float64           `json:"multiplier,omitempty"` // Partial the match was found under
	Score      float64           `json:"score,omitempty"`
}

// Feedback groups the advice lines by category.
type Feedback struct {
	Errors    []string `json:"errors"`
	Tuning    []string `json:"tuning"`
	Fingering []string `json:"fingering"`
	Technique []string `json:"technique"`
}

// ChordCheckResult is the outcome of one chord check. Strings are ordered
// from string 6 to string 1.
type ChordCheckResult struct {
	AnalysisID      string              `json:"analysis_id"`
	Chord           string              `json:"chord"`
	Success         bool                `json:"success"`
	Outcome         Outcome             `json:"outcome"`
	Messages        []string            `json:"messages"`
	Feedback        Feedback            `json:"feedback"`
	Strings         []StringMatchResult `json:"strings"`
	DetectedCount   int                 `json:"detected_count"`
	CorrectFretted  int                 `json:"correct_fretted"`
	RequiredFretted int                 `json:"required_fretted"`
	ErrorWeight     float64             `json:"error_weight"`
	PeakCount       int                 `json:"peak_count"`
	PeakAmplitude   float64             `json:"peak_amplitude"`
}

// StringResult returns the verdict for string n, if the chord requires it.
func (r *ChordCheckResult) StringResult(n int) (StringMatchResult, bool) {
	for _, s := range r.Strings {
		if s.String == n {
			return s, true
		}
	}
	return StringMatchResult{}, false
}

// Judge checks recordings against chord templates. It keeps no per-call
// state and is safe for concurrent use.
type Judge struct {
	cfg      config.Chord
	method   stats.PercentileMethod
	analyzer *spectral.Analyzer
	logger   logging.Logger
}

// NewJudge creates a judge logging through the global logger.
func NewJudge(cfg config.Chord) *Judge {
	return NewJudgeWithLogger(cfg, logging.GetGlobalLogger())
}

// NewJudgeWithLogger creates a judge with an explicit logger.
func NewJudgeWithLogger(cfg config.Chord, logger logging.Logger) *Judge {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	// Load rejects unknown names; a hand-built config falls back to linear.
	method, err := stats.ParseMethod(cfg.PercentileMethod)
	if err != nil {
		logger.Warn("Unknown percentile method, using linear", logging.Fields{"percentile_method": cfg.PercentileMethod})
	}
	return &Judge{
		cfg:      cfg,
		method:   method,
		analyzer: spectral.NewAnalyzerWithLogger(logger),
		logger: logger.WithFields(logging.Fields{
			"component": "chord_judge",
		}),
	}
}

// PeakParams returns the extraction settings for a spectrum, with the peak
// distance converted from Hz to bins at the spectrum's resolution.
func (j *Judge) PeakParams(spec *spectral.Spectrum) harmonic.PeakParams {
	return harmonic.PeakParams{
		MinFrequency:     j.cfg.MinFrequency,
		MaxFrequency:     j.cfg.MaxFrequency,
		MinDistanceBins:  spec.BinsForHz(j.cfg.PeakDistanceHz),
		HeightPercentile: j.cfg.HeightPercentile,
		PercentileMethod: j.method,
	}
}

// CheckChordAccuracy judges buf against the named chord.
//
// Silence, too few notes and an unknown chord name are reported through the
// result's Outcome. An unknown chord and a non-positive sample rate also
// return an error; the result is still filled in so callers can show it.
func (j *Judge) CheckChordAccuracy(buf common.SampleBuffer, chordName string) (*ChordCheckResult, error) {
	result := &ChordCheckResult{
		AnalysisID: uuid.NewString(),
		Chord:      chordName,
		Messages:   []string{},
		Strings:    []StringMatchResult{},
	}

	logger := j.logger.WithFields(logging.Fields{
		"analysis_id": result.AnalysisID,
		"chord":       chordName,
	})

	if buf.SampleRate <= 0 {
		result.Outcome = OutcomeInvalidInput
		result.Messages = append(result.Messages, msgAnalysisFailed)
		return result, fmt.Errorf("check chord %s: %w", chordName, common.ErrInvalidSampleRate)
	}

	result.PeakAmplitude = common.PeakAmplitude(buf.Samples)
	if buf.Len() == 0 || result.PeakAmplitude < j.cfg.MinAmplitude {
		logger.Debug("Recording below amplitude gate", logging.Fields{
			"peak_amplitude": result.PeakAmplitude,
			"min_amplitude":  j.cfg.MinAmplitude,
		})
		result.Outcome = OutcomeNoSound
		result.Messages = append(result.Messages, msgNoSound)
		return result, nil
	}

	normalized := common.NewSampleBuffer(common.PeakNormalize(buf.Samples), buf.SampleRate)
	spec, err := j.analyzer.Analyze(normalized)
	if err != nil {
		result.Outcome = OutcomeInvalidInput
		result.Messages = append(result.Messages, msgAnalysisFailed)
		return result, fmt.Errorf("check chord %s: %w", chordName, err)
	}

	peaks := harmonic.ExtractPeaks(spec, j.PeakParams(spec))
	result.PeakCount = peaks.Len()
	if peaks.Len() < j.cfg.MinNotes {
		logger.Debug("Too few spectral peaks", logging.Fields{
			"peaks":     peaks.Len(),
			"min_notes": j.cfg.MinNotes,
		})
		result.Outcome = OutcomeTooFewNotes
		result.Messages = append(result.Messages, fmt.Sprintf(msgTooFewNotes, peaks.Len(), j.cfg.MinNotes))
		return result, nil
	}

	tmpl, err := guitar.Chord(chordName)
	if err != nil {
		result.Outcome = OutcomeUnknownChord
		result.Messages = append(result.Messages, fmt.Sprintf(msgUnknownChord, chordName))
		return result, fmt.Errorf("check chord: %w", err)
	}

	j.judgeStrings(result, tmpl, peaks)
	result.Outcome = OutcomeJudged
	result.Success = result.CorrectFretted == result.RequiredFretted &&
		result.ErrorWeight <= j.cfg.MaxErrorWeight
	buildFeedback(result, tmpl)

	logger.Info("Chord checked", logging.Fields{
		"success":          result.Success,
		"peaks":            result.PeakCount,
		"detected":         result.DetectedCount,
		"correct_fretted":  result.CorrectFretted,
		"required_fretted": result.RequiredFretted,
		"error_weight":     result.ErrorWeight,
	})

	return result, nil
}

func (j *Judge) judgeStrings(result *ChordCheckResult, tmpl guitar.ChordTemplate, peaks harmonic.PeakSet) {
	params := harmonic.MatchParams{
		BaseTolerance: j.cfg.BaseTolerance,
		Multipliers:   harmonic.DefaultMultipliers,
	}

	for _, spec := range tmpl.Strings {
		expected := spec.Frequency()
		sr := StringMatchResult{
			String:   spec.String,
			Fret:     spec.Fret,
			Kind:     spec.Kind(),
			Expected: expected,
			Error:    ErrorNone,
		}
		fretted := sr.Kind == guitar.KindFretted
		if fretted {
			result.RequiredFretted++
		}

		match, ok := harmonic.FindStringFrequency(peaks, expected, params)
		switch {
		case !ok:
			sr.Error = ErrorNoSound
			if fretted {
				result.ErrorWeight += j.cfg.FrettedErrorWeight
			} else {
				result.ErrorWeight += j.cfg.MissingOpenWeight
			}
		default:
			observed := match.Frequency
			sr.Detected = true
			sr.Observed = &observed
			sr.Multiplier = match.Multiplier
			sr.Score = match.Score
			sr.Correct = match.Distance < j.cfg.BaseTolerance
			result.DetectedCount++

			switch {
			case sr.Correct && fretted:
				result.CorrectFretted++
			case !sr.Correct:
				sr.Error = ErrorWrongFrequency
				if fretted {
					result.ErrorWeight += j.cfg.FrettedErrorWeight
				} else {
					result.ErrorWeight += j.cfg.WrongOpenWeight
				}
			}
		}

		result.Strings = append(result.Strings, sr)
	}
}

var defaultJudge = NewJudgeWithLogger(config.Default().Chord, &logging.NoOpLogger{})

// CheckChordAccuracy judges buf against the named chord with the default
// settings and no logging.
func CheckChordAccuracy(buf common.SampleBuffer, chordName string) (*ChordCheckResult, error) {
	return defaultJudge.CheckChordAccuracy(buf, chordName)
}

// IsUnknownChord reports whether err came from an unknown chord name.
func IsUnknownChord(err error) bool {
	return errors.Is(err, guitar.ErrUnknownChord)
}
