package harmonic

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/RyanBlaney/fretcheck/algorithms/common"
	"github.com/RyanBlaney/fretcheck/algorithms/spectral"
	"github.com/RyanBlaney/fretcheck/algorithms/stats"
)

type tone struct {
	freq      float64
	amplitude float64
}

func synth(sampleRate int, seconds float64, tones ...tone) []float64 {
	n := int(seconds * float64(sampleRate))
	out := make([]float64, n)
	for _, tn := range tones {
		for i := range out {
			out[i] += tn.amplitude * math.Sin(2*math.Pi*tn.freq*float64(i)/float64(sampleRate))
		}
	}
	return out
}

func analyze(t *testing.T, samples []float64, sampleRate int) *spectral.Spectrum {
	t.Helper()
	spec, err := spectral.Analyze(common.NewSampleBuffer(samples, sampleRate))
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	return spec
}

func manualSpectrum(mags []float64) *spectral.Spectrum {
	freqs := make([]float64, len(mags))
	for i := range freqs {
		freqs[i] = float64(i)
	}
	return &spectral.Spectrum{Frequencies: freqs, Magnitudes: mags, SampleRate: 2 * len(mags), Resolution: 1}
}

func TestExtractPeaksRejectsPlateaus(t *testing.T) {
	mags := []float64{0, 0, 1, 5, 5, 1, 0, 0, 2, 9, 2, 0, 0}
	params := PeakParams{
		MinFrequency:    0,
		MaxFrequency:    100,
		MinDistanceBins: 2,
		UseFixedHeight:  true,
		FixedHeight:     0.5,
	}

	peaks := ExtractPeaks(manualSpectrum(mags), params)

	if peaks.Len() != 1 {
		t.Fatalf("expected a single peak, got %+v", peaks.Peaks)
	}
	if peaks.Peaks[0].Bin != 9 || peaks.Peaks[0].Magnitude != 9 {
		t.Fatalf("unexpected peak %+v", peaks.Peaks[0])
	}
}

func TestExtractPeaksMaxCountOrdersByMagnitude(t *testing.T) {
	mags := []float64{0, 3, 0, 7, 0, 5, 0, 1, 0}
	params := PeakParams{
		MinFrequency:    0,
		MaxFrequency:    100,
		MinDistanceBins: 2,
		UseFixedHeight:  true,
		MaxCount:        2,
	}

	peaks := ExtractPeaks(manualSpectrum(mags), params)

	if got := peaks.Magnitudes(); !reflect.DeepEqual(got, []float64{7, 5}) {
		t.Fatalf("expected magnitudes [7 5], got %v", got)
	}

	params.MaxCount = 0
	peaks = ExtractPeaks(manualSpectrum(mags), params)
	if got := peaks.Frequencies(); !reflect.DeepEqual(got, []float64{1, 3, 5, 7}) {
		t.Fatalf("expected ascending frequencies [1 3 5 7], got %v", got)
	}
}

func TestExtractPeaksReachesBandEdges(t *testing.T) {
	const sampleRate = 44100
	samples := synth(sampleRate, 3, tone{65, 0.2}, tone{150, 0.2}, tone{250, 0.2}, tone{495, 0.2})
	spec := analyze(t, samples, sampleRate)

	params := DefaultPeakParams()
	params.MinDistanceBins = spec.BinsForHz(20)
	peaks := ExtractPeaks(spec, params)

	want := []float64{65, 150, 250, 495}
	got := peaks.Frequencies()
	if len(got) != len(want) {
		t.Fatalf("expected peaks near %v, got %v", want, got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 0.5 {
			t.Fatalf("expected peaks near %v, got %v", want, got)
		}
	}
}

func TestExtractPeaksPercentileMethod(t *testing.T) {
	mags := []float64{0, 3, 0, 7, 0, 5, 0, 1, 0}
	params := PeakParams{
		MinFrequency:     0,
		MaxFrequency:     100,
		MinDistanceBins:  2,
		HeightPercentile: 85,
	}

	tests := []struct {
		method    stats.PercentileMethod
		threshold float64
		want      []float64
	}{
		{stats.Linear, 4.6, []float64{3, 5}},
		{stats.Lower, 3, []float64{1, 3, 5}},
		{stats.Empirical, 5, []float64{3, 5}},
	}

	for _, tt := range tests {
		params.PercentileMethod = tt.method
		peaks := ExtractPeaks(manualSpectrum(mags), params)
		if math.Abs(peaks.Threshold-tt.threshold) > 1e-9 {
			t.Errorf("method %d: threshold %v, want %v", tt.method, peaks.Threshold, tt.threshold)
		}
		if got := peaks.Frequencies(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("method %d: peaks at %v, want %v", tt.method, got, tt.want)
		}
	}
}

func TestExtractPeaksSuppressesCloseNeighbours(t *testing.T) {
	const sampleRate = 8000
	samples := synth(sampleRate, 1, tone{100, 1.0}, tone{110, 0.5})
	spec := analyze(t, samples, sampleRate)

	params := DefaultPeakParams()
	params.UseFixedHeight = true
	params.FixedHeight = 100
	params.MinDistanceBins = 14
	peaks := ExtractPeaks(spec, params)
	if got := peaks.Frequencies(); !reflect.DeepEqual(got, []float64{100}) {
		t.Fatalf("expected only the stronger peak at 100 Hz, got %v", got)
	}

	params.MinDistanceBins = 8
	peaks = ExtractPeaks(spec, params)
	if got := peaks.Frequencies(); !reflect.DeepEqual(got, []float64{100, 110}) {
		t.Fatalf("expected peaks at 100 and 110 Hz, got %v", got)
	}
}

func TestExtractPeaksInvariants(t *testing.T) {
	const sampleRate = 8000
	rng := rand.New(rand.NewSource(7))

	samples := synth(sampleRate, 1, tone{82.41, 0.6}, tone{123.47, 0.4}, tone{130, 0.3}, tone{196, 0.5}, tone{329.63, 0.2})
	for i := range samples {
		samples[i] += 0.05 * (rng.Float64()*2 - 1)
	}
	spec := analyze(t, samples, sampleRate)

	for _, distance := range []int{4, 20, 50} {
		params := DefaultPeakParams()
		params.MinDistanceBins = distance
		peaks := ExtractPeaks(spec, params)

		if peaks.Len() == 0 {
			t.Fatalf("distance %d: expected peaks", distance)
		}
		for i, p := range peaks.Peaks {
			if p.Magnitude < peaks.Threshold {
				t.Errorf("distance %d: peak %+v below threshold %v", distance, p, peaks.Threshold)
			}
			if p.Frequency < params.MinFrequency || p.Frequency > params.MaxFrequency {
				t.Errorf("distance %d: peak %+v outside band", distance, p)
			}
			for _, q := range peaks.Peaks[i+1:] {
				if absInt(p.Bin-q.Bin) < distance {
					t.Errorf("distance %d: peaks at bins %d and %d are too close", distance, p.Bin, q.Bin)
				}
			}
			if i > 0 && peaks.Peaks[i-1].Frequency >= p.Frequency {
				t.Errorf("distance %d: peaks not ascending by frequency", distance)
			}
		}
	}
}

func TestExtractPeaksIsDeterministic(t *testing.T) {
	const sampleRate = 44100
	samples := synth(sampleRate, 1, tone{110, 0.5}, tone{164.81, 0.5}, tone{220, 0.5})

	first := ExtractPeaks(analyze(t, samples, sampleRate), DefaultPeakParams())
	second := ExtractPeaks(analyze(t, samples, sampleRate), DefaultPeakParams())

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("peak sets differ:\n%+v\n%+v", first, second)
	}
}

func TestExtractPeaksEmptyInputs(t *testing.T) {
	if got := ExtractPeaks(nil, DefaultPeakParams()); got.Len() != 0 {
		t.Fatalf("nil spectrum produced peaks: %+v", got)
	}

	silence := analyze(t, make([]float64, 44100), 44100)
	if got := ExtractPeaks(silence, DefaultPeakParams()); got.Len() != 0 {
		t.Fatalf("silence produced peaks: %+v", got)
	}

	narrow := DefaultPeakParams()
	narrow.MinFrequency, narrow.MaxFrequency = 100, 100.5
	if got := ExtractPeaks(silence, narrow); got.Len() != 0 || got.Peaks == nil {
		t.Fatalf("expected an empty, non-nil peak list, got %+v", got)
	}
}

func TestFindStringFrequencyMatchesSineAtFundamental(t *testing.T) {
	const sampleRate = 44100
	targets := []float64{82.41, 92.50, 110.00, 123.47, 146.83, 164.81, 196.00, 246.94, 293.66, 329.63}

	for _, target := range targets {
		samples := synth(sampleRate, 3, tone{target, 0.5})
		peaks := ExtractPeaks(analyze(t, samples, sampleRate), DefaultPeakParams())

		match, ok := FindStringFrequency(peaks, target, DefaultMatchParams())
		if !ok {
			t.Fatalf("%.2f Hz: no match among %v", target, peaks.Frequencies())
		}
		if match.Multiplier != 1 {
			t.Errorf("%.2f Hz: matched at multiplier %v", target, match.Multiplier)
		}
		if match.Distance >= DefaultMatchParams().BaseTolerance {
			t.Errorf("%.2f Hz: matched %.2f Hz, outside tolerance", target, match.Frequency)
		}
	}
}

func TestFindStringFrequencyPrefersClosenessOverEnergy(t *testing.T) {
	peaks := PeakSet{Peaks: []Peak{
		{Frequency: 100, Magnitude: 10},
		{Frequency: 220, Magnitude: 1000},
	}}

	match, ok := FindStringFrequency(peaks, 110, DefaultMatchParams())
	if !ok {
		t.Fatal("expected a match")
	}
	if match.Frequency != 100 {
		t.Fatalf("expected the closer 100 Hz peak, got %+v", match)
	}
}

func TestFindStringFrequencyScoreBreaksTies(t *testing.T) {
	peaks := PeakSet{Peaks: []Peak{
		{Frequency: 105, Magnitude: 5},
		{Frequency: 115, Magnitude: 9},
	}}

	match, ok := FindStringFrequency(peaks, 110, DefaultMatchParams())
	if !ok || match.Frequency != 115 {
		t.Fatalf("expected the stronger of two equidistant peaks, got %+v (ok=%v)", match, ok)
	}
	if match.Score != 9 {
		t.Fatalf("expected score 9 at the fundamental, got %v", match.Score)
	}
}

func TestFindStringFrequencyUsesHarmonics(t *testing.T) {
	// Only the 2nd harmonic of A2 is present.
	peaks := PeakSet{Peaks: []Peak{{Frequency: 220.3, Magnitude: 40}}}

	match, ok := FindStringFrequency(peaks, 110, DefaultMatchParams())
	if !ok {
		t.Fatal("expected a harmonic match")
	}
	if match.Multiplier != 2 {
		t.Fatalf("expected multiplier 2, got %v", match.Multiplier)
	}
	if want := 40 / math.Sqrt(2); math.Abs(match.Score-want) > 1e-12 {
		t.Fatalf("score = %v, want %v", match.Score, want)
	}
}

func TestFindStringFrequencyNoMatch(t *testing.T) {
	peaks := PeakSet{Peaks: []Peak{{Frequency: 400, Magnitude: 10}}}

	if _, ok := FindStringFrequency(peaks, 82.41, DefaultMatchParams()); ok {
		t.Fatal("expected no match")
	}
	if _, ok := FindStringFrequency(PeakSet{}, 82.41, DefaultMatchParams()); ok {
		t.Fatal("expected no match on an empty peak set")
	}
	if _, ok := FindStringFrequency(peaks, 0, DefaultMatchParams()); ok {
		t.Fatal("expected no match for a zero target")
	}
}
