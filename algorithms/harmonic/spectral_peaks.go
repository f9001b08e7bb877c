package harmonic

import (
	"math"
	"sort"

	"github.com/RyanBlaney/fretcheck/algorithms/spectral"
	"github.com/RyanBlaney/fretcheck/algorithms/stats"
)

// Peak is a locally dominant spectrum bin.
type Peak struct {
	Frequency float64 `json:"frequency"` // Bin frequency in Hz
	Magnitude float64 `json:"magnitude"` // Bin magnitude
	Bin       int     `json:"bin"`       // Index into the full spectrum
}

// PeakSet is the output of peak extraction.
// Peaks are ordered by magnitude (descending) when capped with MaxCount and
// by frequency (ascending) otherwise.
type PeakSet struct {
	Peaks     []Peak  `json:"peaks"`
	Threshold float64 `json:"threshold"` // Minimum height a peak had to reach
}

// Len returns the number of peaks.
func (ps PeakSet) Len() int {
	return len(ps.Peaks)
}

// Frequencies returns the peak frequencies in set order.
func (ps PeakSet) Frequencies() []float64 {
	out := make([]float64, len(ps.Peaks))
	for i, p := range ps.Peaks {
		out[i] = p.Frequency
	}
	return out
}

// Magnitudes returns the peak magnitudes in set order.
func (ps PeakSet) Magnitudes() []float64 {
	out := make([]float64, len(ps.Peaks))
	for i, p := range ps.Peaks {
		out[i] = p.Magnitude
	}
	return out
}

// PeakParams controls peak extraction.
type PeakParams struct {
	MinFrequency float64 `json:"min_frequency"` // Band lower edge in Hz
	MaxFrequency float64 `json:"max_frequency"` // Band upper edge in Hz

	// MinDistanceBins is the minimum spacing between returned peaks. A bin
	// must also be a strict maximum over MinDistanceBins/2 neighbours on each
	// side, with the window clipped at the band edges.
	MinDistanceBins int `json:"min_distance_bins"`

	// HeightPercentile (0..100) of in-band magnitudes is the minimum peak
	// height, unless UseFixedHeight is set, in which case FixedHeight is used.
	HeightPercentile float64                `json:"height_percentile"`
	PercentileMethod stats.PercentileMethod `json:"percentile_method"`
	FixedHeight      float64                `json:"fixed_height"`
	UseFixedHeight   bool                   `json:"use_fixed_height"`

	// MaxCount > 0 keeps only the strongest MaxCount peaks.
	MaxCount int `json:"max_count"`
}

// DefaultPeakParams returns the chord-check settings: 60-500 Hz band,
// 85th percentile threshold and 60 bins (about 20 Hz for a 3 s buffer at 44.1 kHz).
func DefaultPeakParams() PeakParams {
	return PeakParams{
		MinFrequency:     60,
		MaxFrequency:     500,
		MinDistanceBins:  60,
		HeightPercentile: 85,
	}
}

// ExtractPeaks finds locally dominant bins of the spectrum inside the
// configured band. Finding nothing is a normal outcome and yields an empty set.
func ExtractPeaks(spec *spectral.Spectrum, params PeakParams) PeakSet {
	result := PeakSet{Peaks: []Peak{}}
	if spec == nil || spec.Len() == 0 {
		return result
	}

	lo, hi := spec.Band(params.MinFrequency, params.MaxFrequency)
	mags := spec.Magnitudes[lo:hi]
	if len(mags) < 3 {
		return result
	}

	threshold := params.FixedHeight
	if !params.UseFixedHeight {
		pct := math.Min(math.Max(params.HeightPercentile, 0), 100)
		value, err := stats.NewPercentilesWithMethod(params.PercentileMethod).CalculatePercentile(mags, pct)
		if err != nil {
			return result
		}
		threshold = value
	}
	result.Threshold = threshold

	half := max(params.MinDistanceBins/2, 1)
	var candidates []int
	for i := 1; i < len(mags)-1; i++ {
		if mags[i] < threshold {
			continue
		}
		if isStrictMaximum(mags, i, half) {
			candidates = append(candidates, i)
		}
	}

	kept := suppressClosePeaks(candidates, mags, params.MinDistanceBins)

	peaks := make([]Peak, 0, len(kept))
	for _, i := range kept {
		peaks = append(peaks, Peak{
			Frequency: spec.Frequencies[lo+i],
			Magnitude: mags[i],
			Bin:       lo + i,
		})
	}

	if params.MaxCount > 0 {
		sort.SliceStable(peaks, func(i, j int) bool {
			return peaks[i].Magnitude > peaks[j].Magnitude
		})
		if len(peaks) > params.MaxCount {
			peaks = peaks[:params.MaxCount]
		}
	} else {
		sort.SliceStable(peaks, func(i, j int) bool {
			return peaks[i].Frequency < peaks[j].Frequency
		})
	}

	result.Peaks = peaks
	return result
}

// isStrictMaximum reports whether mags[i] is greater than every value within
// half bins on either side that lies inside mags. Equal neighbours (plateaus)
// do not count.
func isStrictMaximum(mags []float64, i, half int) bool {
	m := mags[i]
	for j := max(i-half, 0); j <= min(i+half, len(mags)-1); j++ {
		if j == i {
			continue
		}
		if mags[j] >= m {
			return false
		}
	}
	return true
}

// suppressClosePeaks keeps the strongest candidates first and drops any
// candidate closer than minDistance bins to one already kept. The returned
// indices are in ascending order.
func suppressClosePeaks(candidates []int, mags []float64, minDistance int) []int {
	if minDistance <= 1 || len(candidates) < 2 {
		return candidates
	}

	order := make([]int, len(candidates))
	copy(order, candidates)
	sort.SliceStable(order, func(a, b int) bool {
		return mags[order[a]] > mags[order[b]]
	})

	var kept []int
	for _, idx := range order {
		tooClose := false
		for _, k := range kept {
			if absInt(idx-k) < minDistance {
				tooClose = true
				break
			}
		}
		if !tooClose {
			kept = append(kept, idx)
		}
	}

	sort.Ints(kept)
	return kept
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
