package tonal

import (
	"math"
	"testing"

	"github.com/RyanBlaney/fretcheck/algorithms/common"
	"github.com/RyanBlaney/fretcheck/algorithms/harmonic"
	"github.com/RyanBlaney/fretcheck/algorithms/spectral"
)

func strum(sampleRate int, seconds, amplitude float64, freqs ...float64) common.SampleBuffer {
	n := int(seconds * float64(sampleRate))
	samples := make([]float64, n)
	for _, f := range freqs {
		for i := range samples {
			samples[i] += amplitude * math.Sin(2*math.Pi*f*float64(i)/float64(sampleRate))
		}
	}
	return common.NewSampleBuffer(samples, sampleRate)
}

func TestChordGuesserRecognisesC(t *testing.T) {
	buf := strum(44100, 2, 0.2, 130.81, 164.81, 196.00, 261.63, 329.63)
	spec, err := spectral.Analyze(buf)
	if err != nil {
		t.Fatal(err)
	}

	result := NewChordGuesser().GuessFromSpectrum(spec)

	if !result.Confident || result.ChordName != "C" {
		best, _ := result.Best()
		t.Fatalf("expected a confident C, got %q (best %+v)", result.ChordName, best)
	}
	best, _ := result.Best()
	if best.Matched != 5 || best.Total != 5 || best.Percent != 100 {
		t.Fatalf("unexpected C candidate %+v", best)
	}
	if best.Distinctive != 2 {
		t.Fatalf("expected both distinctive notes, got %d", best.Distinctive)
	}
	if result.Peaks.Len() > DefaultChordGuessParams().TopPeaks {
		t.Fatalf("kept %d peaks", result.Peaks.Len())
	}
}

func TestChordGuesserDistinctiveBonus(t *testing.T) {
	peaks := harmonic.PeakSet{Peaks: []harmonic.Peak{
		{Frequency: 196.0, Magnitude: 1},
		{Frequency: 82.4, Magnitude: 1},
	}}

	result := NewChordGuesser().Guess(peaks)

	if result.ChordName != "Em" {
		t.Fatalf("expected Em, got %q", result.ChordName)
	}
	best, _ := result.Best()
	if want := 2 + 2*DefaultChordGuessParams().DistinctiveBonus; math.Abs(best.Weighted-want) > 1e-9 {
		t.Fatalf("Em weight = %v, want %v", best.Weighted, want)
	}
	for i := 1; i < len(result.Candidates); i++ {
		if result.Candidates[i-1].Weighted < result.Candidates[i].Weighted {
			t.Fatal("candidates are not ranked by weight")
		}
	}
}

func TestChordGuesserNeedsTwoNotes(t *testing.T) {
	result := NewChordGuesser().Guess(harmonic.PeakSet{})
	if result.Confident || result.ChordName != "" {
		t.Fatalf("expected no guess for an empty peak set, got %+v", result)
	}
	if len(result.Candidates) == 0 {
		t.Fatal("candidates should still be listed")
	}

	single := harmonic.PeakSet{Peaks: []harmonic.Peak{{Frequency: 87.31, Magnitude: 5}}}
	result = NewChordGuesser().Guess(single)
	if result.Confident {
		t.Fatalf("one matched note should not be a confident guess: %+v", result.Candidates[0])
	}
}

func TestChordGuesserPrefersStrongestPeakPerNote(t *testing.T) {
	peaks := harmonic.PeakSet{Peaks: []harmonic.Peak{
		{Frequency: 108, Magnitude: 1},
		{Frequency: 111, Magnitude: 9},
	}}

	result := NewChordGuesser().Guess(peaks)
	for _, c := range result.Candidates {
		if c.ChordName != "A" {
			continue
		}
		if len(c.Matches) == 0 || c.Matches[0].Observed != 111 {
			t.Fatalf("expected A2 matched to the 111 Hz peak, got %+v", c.Matches)
		}
		return
	}
	t.Fatal("A voicing missing from candidates")
}
