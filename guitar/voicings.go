package guitar

import "fmt"

// Voicing is a chord spelled as the pitches a strum is expected to contain.
// Used by the open-ended chord guesser, not by the fingering judge.
type Voicing struct {
	Name        string    `json:"name"`
	Notes       []string  `json:"notes"`
	Frequencies []float64 `json:"frequencies"`

	// Distinctive notes separate the chord from its close neighbours and
	// earn a bonus when present.
	Distinctive []float64 `json:"distinctive,omitempty"`
}

func mustVoicing(name string, notes []string, distinctive ...string) Voicing {
	v := Voicing{Name: name, Notes: notes}
	for _, n := range notes {
		v.Frequencies = append(v.Frequencies, mustNote(n))
	}
	for _, n := range distinctive {
		v.Distinctive = append(v.Distinctive, mustNote(n))
	}
	return v
}

func mustNote(name string) float64 {
	f, err := NoteFrequency(name)
	if err != nil {
		panic(fmt.Sprintf("voicing note: %v", err))
	}
	return f
}

var voicings = []Voicing{
	mustVoicing("C", []string{"C3", "E3", "G3", "C4", "E4"}, "G3", "C4"),
	mustVoicing("Cm", []string{"C3", "Eb3", "G3", "C4", "Eb4"}),
	mustVoicing("D", []string{"D3", "F#3", "A3", "D4", "F#4", "A4"}, "D3", "F#4"),
	mustVoicing("Dm", []string{"D3", "F3", "A3", "D4", "F4"}),
	mustVoicing("E", []string{"E2", "B2", "E3", "G#3", "E4"}),
	mustVoicing("Em", []string{"E2", "B2", "E3", "G3", "E4"}, "G3", "E2"),
	mustVoicing("F", []string{"F2", "C3", "F3", "C4"}),
	mustVoicing("G", []string{"G2", "B2", "D3", "G3", "B3", "G4"}, "G2", "G4"),
	mustVoicing("A", []string{"A2", "A3", "C#4", "E4"}),
	mustVoicing("Am", []string{"A2", "E3", "A3", "C4", "E4"}),
}

// GuessVoicings returns copies of the voicings known to the chord guesser.
func GuessVoicings() []Voicing {
	out := make([]Voicing, len(voicings))
	for i, v := range voicings {
		v.Notes = append([]string(nil), v.Notes...)
		v.Frequencies = append([]float64(nil), v.Frequencies...)
		v.Distinctive = append([]float64(nil), v.Distinctive...)
		out[i] = v
	}
	return out
}
