package coach

import (
	"fmt"

	"github.com/RyanBlaney/fretcheck/algorithms/common"
	"github.com/RyanBlaney/fretcheck/algorithms/spectral"
	"github.com/RyanBlaney/fretcheck/algorithms/tonal"
	"github.com/RyanBlaney/fretcheck/coach/config"
	"github.com/RyanBlaney/fretcheck/guitar"
	"github.com/RyanBlaney/fretcheck/logging"
)

// Guesser names the chord of an unconstrained strum.
type Guesser struct {
	minAmplitude float64
	guesser      *tonal.ChordGuesser
	analyzer     *spectral.Analyzer
	logger       logging.Logger
}

// NewGuesser creates a guesser over the built-in voicings.
func NewGuesser(cfg config.Guess) *Guesser {
	return NewGuesserWithLogger(cfg, logging.GetGlobalLogger())
}

// NewGuesserWithLogger creates a guesser with an explicit logger.
func NewGuesserWithLogger(cfg config.Guess, logger logging.Logger) *Guesser {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	params := tonal.ChordGuessParams{
		TopPeaks:         cfg.TopPeaks,
		Tolerance:        cfg.Tolerance,
		DistinctiveBonus: cfg.DistinctiveBonus,
		MinMatchedNotes:  cfg.MinMatchedNotes,
	}
	return &Guesser{
		minAmplitude: cfg.MinAmplitude,
		guesser:      tonal.NewChordGuesserWithParams(params, guitar.GuessVoicings()),
		analyzer:     spectral.NewAnalyzerWithLogger(&logging.NoOpLogger{}),
		logger: logger.WithFields(logging.Fields{
			"component": "chord_guesser",
		}),
	}
}

// GuessChord ranks the known voicings against buf. A recording below the
// amplitude gate yields a result with no candidates.
func (g *Guesser) GuessChord(buf common.SampleBuffer) (*tonal.ChordGuessResult, error) {
	if buf.SampleRate <= 0 {
		return nil, fmt.Errorf("guess chord: %w", common.ErrInvalidSampleRate)
	}

	amplitude := common.PeakAmplitude(buf.Samples)
	if buf.Len() == 0 || amplitude < g.minAmplitude {
		g.logger.Debug("Strum below amplitude gate", logging.Fields{"peak_amplitude": amplitude})
		return &tonal.ChordGuessResult{Candidates: []tonal.ChordCandidate{}}, nil
	}

	normalized := common.NewSampleBuffer(common.PeakNormalize(buf.Samples), buf.SampleRate)
	spec, err := g.analyzer.Analyze(normalized)
	if err != nil {
		return nil, fmt.Errorf("guess chord: %w", err)
	}

	result := g.guesser.GuessFromSpectrum(spec)
	fields := logging.Fields{"peaks": result.Peaks.Len(), "confident": result.Confident}
	if best, ok := result.Best(); ok {
		fields["best"] = best.ChordName
		fields["matched"] = best.Matched
	}
	g.logger.Debug("Chord guessed", fields)

	return result, nil
}
