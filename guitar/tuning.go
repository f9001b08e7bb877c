// Package guitar holds the read-only reference data used by the analysis
// code: standard tuning, note arithmetic and the chord templates.
package guitar

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidString = errors.New("invalid string number")
	ErrInvalidFret   = errors.New("invalid fret")
	ErrInvalidNote   = errors.New("invalid note name")
)

const (
	// StringCount is the number of strings on a standard guitar.
	StringCount = 6
	// MaxFret is the highest fret accepted by FrettedFrequency.
	MaxFret = 24
)

// OpenString describes one string of the tuning.
type OpenString struct {
	Number    int     `json:"number"` // 6 = low E, 1 = high E
	Note      string  `json:"note"`
	Frequency float64 `json:"frequency"`
}

// standardTuning is ordered from string 6 to string 1.
var standardTuning = [StringCount]OpenString{
	{Number: 6, Note: "E2", Frequency: 82.41},
	{Number: 5, Note: "A2", Frequency: 110.00},
	{Number: 4, Note: "D3", Frequency: 146.83},
	{Number: 3, Note: "G3", Frequency: 196.00},
	{Number: 2, Note: "B3", Frequency: 246.94},
	{Number: 1, Note: "E4", Frequency: 329.63},
}

// StandardTuning returns the open strings ordered 6 to 1.
func StandardTuning() []OpenString {
	out := make([]OpenString, StringCount)
	copy(out, standardTuning[:])
	return out
}

// ValidString reports whether n is a string number of a six-string guitar.
func ValidString(n int) bool {
	return n >= 1 && n <= StringCount
}

// OpenStringFor returns the open string with the given number.
func OpenStringFor(n int) (OpenString, error) {
	if !ValidString(n) {
		return OpenString{}, fmt.Errorf("string %d: %w", n, ErrInvalidString)
	}
	return standardTuning[StringCount-n], nil
}

// OpenFrequency returns the open frequency of string n in Hz.
func OpenFrequency(n int) (float64, error) {
	s, err := OpenStringFor(n)
	if err != nil {
		return 0, err
	}
	return s.Frequency, nil
}

// StringByNote finds an open string by its note name ("E2", "g3", ...).
// A bare letter matches the lowest string with that note.
func StringByNote(note string) (OpenString, error) {
	want := strings.ToUpper(strings.TrimSpace(note))
	for _, s := range standardTuning {
		if s.Note == want {
			return s, nil
		}
	}
	if len(want) == 1 {
		for _, s := range standardTuning {
			if s.Note[:1] == want {
				return s, nil
			}
		}
	}
	return OpenString{}, fmt.Errorf("no open string tuned to %q: %w", note, ErrInvalidNote)
}

// FrettedFrequency returns open * 2^(fret/12) for the given string.
func FrettedFrequency(stringNum, fret int) (float64, error) {
	open, err := OpenFrequency(stringNum)
	if err != nil {
		return 0, err
	}
	if fret < 0 || fret > MaxFret {
		return 0, fmt.Errorf("fret %d: %w", fret, ErrInvalidFret)
	}
	return open * math.Pow(2, float64(fret)/12), nil
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var noteOffsets = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// NoteFrequency returns the equal-tempered frequency (A4 = 440 Hz) of a
// scientific pitch name such as "A4", "F#3" or "Eb3".
func NoteFrequency(name string) (float64, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return 0, fmt.Errorf("%q: %w", name, ErrInvalidNote)
	}

	semitone, ok := noteOffsets[strings.ToUpper(name[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrInvalidNote)
	}
	rest := name[1:]
	switch rest[0] {
	case '#':
		semitone++
		rest = rest[1:]
	case 'b':
		semitone--
		rest = rest[1:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", name, ErrInvalidNote)
	}

	midi := 12*(octave+1) + semitone
	return 440 * math.Pow(2, float64(midi-69)/12), nil
}

// NoteName returns the nearest equal-tempered note name with octave for a
// frequency, or "" when the frequency is not positive.
func NoteName(frequency float64) string {
	if frequency <= 0 {
		return ""
	}
	midi := int(math.Round(69 + 12*math.Log2(frequency/440)))
	pc := midi % 12
	if pc < 0 {
		pc += 12
	}
	octave := midi/12 - 1
	if midi < 0 && midi%12 != 0 {
		octave--
	}
	return noteNames[pc] + strconv.Itoa(octave)
}
