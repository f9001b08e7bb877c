package guitar

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestStandardTuningOrder(t *testing.T) {
	want := []float64{82.41, 110.00, 146.83, 196.00, 246.94, 329.63}
	tuning := StandardTuning()

	for i, s := range tuning {
		if s.Number != StringCount-i {
			t.Errorf("position %d holds string %d", i, s.Number)
		}
		if s.Frequency != want[i] {
			t.Errorf("string %d = %v Hz, want %v", s.Number, s.Frequency, want[i])
		}
	}

	tuning[0].Frequency = 1
	if f, _ := OpenFrequency(6); f != 82.41 {
		t.Fatal("StandardTuning exposed the internal table")
	}
}

func TestStringByNote(t *testing.T) {
	tests := []struct {
		note string
		want int
	}{
		{"E2", 6},
		{"a2", 5},
		{" g3 ", 3},
		{"E4", 1},
		{"E", 6},
		{"B", 2},
	}
	for _, tt := range tests {
		t.Run(tt.note, func(t *testing.T) {
			s, err := StringByNote(tt.note)
			if err != nil {
				t.Fatalf("StringByNote(%q) error: %v", tt.note, err)
			}
			if s.Number != tt.want {
				t.Fatalf("StringByNote(%q) = string %d, want %d", tt.note, s.Number, tt.want)
			}
		})
	}

	if _, err := StringByNote("C3"); !errors.Is(err, ErrInvalidNote) {
		t.Fatalf("expected ErrInvalidNote, got %v", err)
	}
}

func TestFrettedFrequency(t *testing.T) {
	got, err := FrettedFrequency(6, 2)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-92.50) > 0.01 {
		t.Fatalf("E2 fret 2 = %v, want about 92.50", got)
	}

	for _, s := range StandardTuning() {
		open, err := FrettedFrequency(s.Number, 0)
		if err != nil {
			t.Fatal(err)
		}
		for fret := 0; fret <= MaxFret; fret++ {
			f, err := FrettedFrequency(s.Number, fret)
			if err != nil {
				t.Fatal(err)
			}
			want := s.Frequency * (math.Pow(2, float64(fret)/12) - 1)
			if math.Abs((f-open)-want) > 1e-6 {
				t.Fatalf("string %d fret %d: delta %v, want %v", s.Number, fret, f-open, want)
			}
		}
	}
}

func TestFrettedFrequencyErrors(t *testing.T) {
	if _, err := FrettedFrequency(0, 1); !errors.Is(err, ErrInvalidString) {
		t.Errorf("string 0: expected ErrInvalidString, got %v", err)
	}
	if _, err := FrettedFrequency(7, 1); !errors.Is(err, ErrInvalidString) {
		t.Errorf("string 7: expected ErrInvalidString, got %v", err)
	}
	if _, err := FrettedFrequency(3, -1); !errors.Is(err, ErrInvalidFret) {
		t.Errorf("fret -1: expected ErrInvalidFret, got %v", err)
	}
	if _, err := FrettedFrequency(3, MaxFret+1); !errors.Is(err, ErrInvalidFret) {
		t.Errorf("fret %d: expected ErrInvalidFret, got %v", MaxFret+1, err)
	}
}

func TestNoteFrequencyAndName(t *testing.T) {
	tests := []struct {
		name string
		freq float64
	}{
		{"A4", 440},
		{"E2", 82.41},
		{"G#3", 207.65},
		{"Eb3", 155.56},
		{"C4", 261.63},
	}
	for _, tt := range tests {
		f, err := NoteFrequency(tt.name)
		if err != nil {
			t.Fatalf("NoteFrequency(%q): %v", tt.name, err)
		}
		if math.Abs(f-tt.freq) > 0.01 {
			t.Errorf("NoteFrequency(%q) = %v, want %v", tt.name, f, tt.freq)
		}
	}

	for _, bad := range []string{"", "H2", "A", "C#x"} {
		if _, err := NoteFrequency(bad); !errors.Is(err, ErrInvalidNote) {
			t.Errorf("NoteFrequency(%q): expected ErrInvalidNote, got %v", bad, err)
		}
	}

	if got := NoteName(82.41); got != "E2" {
		t.Errorf("NoteName(82.41) = %q", got)
	}
	if got := NoteName(92.50); got != "F#2" {
		t.Errorf("NoteName(92.50) = %q", got)
	}
	if got := NoteName(0); got != "" {
		t.Errorf("NoteName(0) = %q", got)
	}
}

func TestChordTemplatesAreValid(t *testing.T) {
	want := []string{"Em", "Am", "C", "G", "D", "A", "E"}
	if got := ChordNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ChordNames() = %v, want %v", got, want)
	}

	for _, c := range Chords() {
		if err := c.Validate(); err != nil {
			t.Errorf("%s: %v", c.Name, err)
		}
		for i := 1; i < len(c.Strings); i++ {
			if c.Strings[i-1].String <= c.Strings[i].String {
				t.Errorf("%s: strings not ordered 6 to 1", c.Name)
			}
		}
	}
}

func TestChordEm(t *testing.T) {
	em, err := Chord("Em")
	if err != nil {
		t.Fatal(err)
	}

	if len(em.Strings) != 6 {
		t.Fatalf("Em should sound all six strings, got %d", len(em.Strings))
	}
	if em.RequiredFretted() != 2 {
		t.Fatalf("Em requires 2 fretted strings, got %d", em.RequiredFretted())
	}

	s5, ok := em.StringFor(5)
	if !ok || s5.Kind() != KindFretted || s5.Fret != 2 {
		t.Fatalf("unexpected string 5 spec %+v", s5)
	}
	if math.Abs(s5.Frequency()-123.47) > 0.01 {
		t.Fatalf("string 5 fret 2 = %v, want 123.47", s5.Frequency())
	}

	em.Strings[0].Fret = 9
	again, _ := Chord("Em")
	if again.Strings[0].Fret != 0 {
		t.Fatal("Chord returned a shared template")
	}
}

func TestChordMutedStrings(t *testing.T) {
	d, err := Chord("D")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.StringFor(6); ok {
		t.Error("D should not play string 6")
	}
	if _, ok := d.StringFor(5); ok {
		t.Error("D should not play string 5")
	}
	if len(d.Strings) != 4 {
		t.Errorf("D sounds 4 strings, got %d", len(d.Strings))
	}
}

func TestUnknownChord(t *testing.T) {
	if _, err := Chord("Bbmaj13"); !errors.Is(err, ErrUnknownChord) {
		t.Fatalf("expected ErrUnknownChord, got %v", err)
	}
	if _, err := ShowChordTab("Bbmaj13"); !errors.Is(err, ErrUnknownChord) {
		t.Fatalf("expected ErrUnknownChord from ShowChordTab, got %v", err)
	}
}

func TestShowChordTab(t *testing.T) {
	lines, err := ShowChordTab("C")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"String 6: not played",
		"String 5: fret 3",
		"String 4: fret 2",
		"String 3: open",
		"String 2: fret 1",
		"String 1: open",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("ShowChordTab(C) =\n%v\nwant\n%v", lines, want)
	}
}

func TestNewChordTemplateRejectsBadTabs(t *testing.T) {
	_, err := NewChordTemplate("bad", "bad", [StringCount]string{"0", "2", "z", "0", "0", "0"})
	if !errors.Is(err, ErrInvalidFret) {
		t.Fatalf("expected ErrInvalidFret, got %v", err)
	}

	_, err = NewChordTemplate("mute", "all muted", [StringCount]string{"X", "X", "X", "X", "X", "X"})
	if err == nil {
		t.Fatal("expected an error for a template with no sounding strings")
	}

	c, _ := Chord("A")
	c.Strings[0].OpenFrequency = 111
	if err := c.Validate(); err == nil {
		t.Fatal("expected a tuning mismatch to fail validation")
	}
}

func TestGuessVoicings(t *testing.T) {
	vs := GuessVoicings()
	if len(vs) != 10 {
		t.Fatalf("expected 10 voicings, got %d", len(vs))
	}
	for _, v := range vs {
		if len(v.Notes) != len(v.Frequencies) {
			t.Errorf("%s: notes and frequencies differ", v.Name)
		}
		for _, f := range v.Frequencies {
			if f <= 0 {
				t.Errorf("%s: non-positive frequency", v.Name)
			}
		}
	}

	vs[0].Frequencies[0] = 0
	if GuessVoicings()[0].Frequencies[0] == 0 {
		t.Fatal("GuessVoicings exposed internal state")
	}
}
