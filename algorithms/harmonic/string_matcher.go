package harmonic

import (
	"math"
)

// DefaultMultipliers are the partials searched for a string: the
// subharmonic, the fundamental and the 2nd and 3rd harmonics.
var DefaultMultipliers = []float64{0.5, 1, 2, 3}

// MatchParams controls the harmonic-aware string search.
type MatchParams struct {
	// BaseTolerance in Hz. The search window at multiplier m is
	// BaseTolerance*(1+m) around target*m.
	BaseTolerance float64   `json:"base_tolerance"`
	Multipliers   []float64 `json:"multipliers"`
}

// DefaultMatchParams returns a 25 Hz base tolerance over DefaultMultipliers.
func DefaultMatchParams() MatchParams {
	return MatchParams{
		BaseTolerance: 25,
		Multipliers:   DefaultMultipliers,
	}
}

// Match is the peak chosen for a target string frequency.
type Match struct {
	Frequency  float64 `json:"frequency"`  // Observed peak frequency in Hz
	Magnitude  float64 `json:"magnitude"`  // Raw peak magnitude
	Score      float64 `json:"score"`      // Magnitude / sqrt(multiplier)
	Multiplier float64 `json:"multiplier"` // Partial the peak was found under
	Distance   float64 `json:"distance"`   // |Frequency - target| in Hz
}

// FindStringFrequency looks for the observed frequency of a string expected
// at target Hz. Plucked strings often put more energy into a partial than
// into the fundamental, so every multiplier is searched and the candidate
// closest to the true target wins, with score breaking ties.
// It returns false when no peak falls inside any window.
func FindStringFrequency(peaks PeakSet, target float64, params MatchParams) (Match, bool) {
	if target <= 0 || peaks.Len() == 0 {
		return Match{}, false
	}

	multipliers := params.Multipliers
	if len(multipliers) == 0 {
		multipliers = DefaultMultipliers
	}

	var best Match
	found := false

	for _, m := range multipliers {
		if m <= 0 {
			continue
		}
		center := target * m
		tolerance := params.BaseTolerance * (1 + m)

		for _, p := range peaks.Peaks {
			if math.Abs(p.Frequency-center) >= tolerance {
				continue
			}

			candidate := Match{
				Frequency:  p.Frequency,
				Magnitude:  p.Magnitude,
				Score:      p.Magnitude / math.Sqrt(m),
				Multiplier: m,
				Distance:   math.Abs(p.Frequency - target),
			}

			if !found || better(candidate, best) {
				best = candidate
				found = true
			}
		}
	}

	return best, found
}

// better orders candidates by (-distance, score).
func better(a, b Match) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Score > b.Score
}
