package tonal

import (
	"math"
	"sort"

	"github.com/RyanBlaney/fretcheck/algorithms/harmonic"
	"github.com/RyanBlaney/fretcheck/algorithms/spectral"
	"github.com/RyanBlaney/fretcheck/guitar"
)

// ChordGuessParams contains parameters for open-ended chord guessing
type ChordGuessParams struct {
	TopPeaks         int     `json:"top_peaks"`         // Strongest peaks considered
	Tolerance        float64 `json:"tolerance"`         // Max |note - peak| in Hz
	DistinctiveBonus float64 `json:"distinctive_bonus"` // Added per distinctive note present
	MinMatchedNotes  int     `json:"min_matched_notes"` // Needed to report a best guess
}

// DefaultChordGuessParams returns 30 peaks, 8 Hz tolerance, a bonus of 30
// and at least 2 matched notes.
func DefaultChordGuessParams() ChordGuessParams {
	return ChordGuessParams{
		TopPeaks:         30,
		Tolerance:        8,
		DistinctiveBonus: 30,
		MinMatchedNotes:  2,
	}
}

// NoteMatch pairs a voicing note with the peak that matched it.
type NoteMatch struct {
	Expected float64 `json:"expected"`
	Observed float64 `json:"observed"`
}

// ChordCandidate is the score of one voicing against a peak set.
type ChordCandidate struct {
	ChordName   string      `json:"chord_name"`
	Matched     int         `json:"matched"`     // Voicing notes with a peak in tolerance
	Total       int         `json:"total"`       // Notes in the voicing
	Percent     float64     `json:"percent"`     // 100 * Matched / Total
	Weighted    float64     `json:"weighted"`    // Matched magnitudes plus distinctive bonus
	Distinctive int         `json:"distinctive"` // Distinctive notes present
	Matches     []NoteMatch `json:"matches"`
}

// ChordGuessResult contains the ranked candidates of a strum
type ChordGuessResult struct {
	ChordName  string           `json:"chord_name"` // Empty when no guess is confident
	Confident  bool             `json:"confident"`
	Candidates []ChordCandidate `json:"candidates"` // Ranked by Weighted, descending
	Peaks      harmonic.PeakSet `json:"peaks"`
}

// Best returns the top ranked candidate, if any.
func (r *ChordGuessResult) Best() (ChordCandidate, bool) {
	if r == nil || len(r.Candidates) == 0 {
		return ChordCandidate{}, false
	}
	return r.Candidates[0], true
}

// ChordGuesser ranks known voicings against the strongest peaks of a strum.
// Unlike the fingering judge it does not need a target chord.
type ChordGuesser struct {
	params   ChordGuessParams
	voicings []guitar.Voicing
}

// NewChordGuesser creates a guesser over the built-in voicings with default parameters
func NewChordGuesser() *ChordGuesser {
	return NewChordGuesserWithParams(DefaultChordGuessParams(), guitar.GuessVoicings())
}

// NewChordGuesserWithParams creates a guesser with custom parameters and voicings
func NewChordGuesserWithParams(params ChordGuessParams, voicings []guitar.Voicing) *ChordGuesser {
	defaults := DefaultChordGuessParams()
	if params.TopPeaks <= 0 {
		params.TopPeaks = defaults.TopPeaks
	}
	if params.Tolerance <= 0 {
		params.Tolerance = defaults.Tolerance
	}
	if params.MinMatchedNotes <= 0 {
		params.MinMatchedNotes = defaults.MinMatchedNotes
	}
	return &ChordGuesser{params: params, voicings: voicings}
}

// PeakParams returns the extraction settings the guesser expects: the whole
// spectrum, immediate-neighbour maxima, no height floor and TopPeaks peaks.
func (cg *ChordGuesser) PeakParams() harmonic.PeakParams {
	return harmonic.PeakParams{
		MinFrequency:    0,
		MaxFrequency:    math.Inf(1),
		MinDistanceBins: 1,
		UseFixedHeight:  true,
		FixedHeight:     0,
		MaxCount:        cg.params.TopPeaks,
	}
}

// GuessFromSpectrum extracts peaks with PeakParams and ranks the voicings.
func (cg *ChordGuesser) GuessFromSpectrum(spec *spectral.Spectrum) *ChordGuessResult {
	return cg.Guess(harmonic.ExtractPeaks(spec, cg.PeakParams()))
}

// Guess ranks every voicing against the peak set. Each voicing note takes the
// strongest peak within tolerance.
func (cg *ChordGuesser) Guess(peaks harmonic.PeakSet) *ChordGuessResult {
	ordered := make([]harmonic.Peak, len(peaks.Peaks))
	copy(ordered, peaks.Peaks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Magnitude > ordered[j].Magnitude
	})

	candidates := make([]ChordCandidate, 0, len(cg.voicings))
	for _, v := range cg.voicings {
		candidates = append(candidates, cg.score(v, ordered))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Weighted > candidates[j].Weighted
	})

	result := &ChordGuessResult{
		Candidates: candidates,
		Peaks:      peaks,
	}
	if best, ok := result.Best(); ok && best.Matched >= cg.params.MinMatchedNotes {
		result.ChordName = best.ChordName
		result.Confident = true
	}
	return result
}

func (cg *ChordGuesser) score(v guitar.Voicing, peaks []harmonic.Peak) ChordCandidate {
	c := ChordCandidate{
		ChordName: v.Name,
		Total:     len(v.Frequencies),
		Matches:   []NoteMatch{},
	}

	for _, note := range v.Frequencies {
		for _, p := range peaks {
			if math.Abs(note-p.Frequency) < cg.params.Tolerance {
				c.Matched++
				c.Weighted += p.Magnitude
				c.Matches = append(c.Matches, NoteMatch{Expected: note, Observed: p.Frequency})
				break
			}
		}
	}

	for _, note := range v.Distinctive {
		for _, p := range peaks {
			if math.Abs(note-p.Frequency) < cg.params.Tolerance {
				c.Distinctive++
				break
			}
		}
	}
	c.Weighted += float64(c.Distinctive) * cg.params.DistinctiveBonus

	if c.Total > 0 {
		c.Percent = 100 * float64(c.Matched) / float64(c.Total)
	}
	return c
}
