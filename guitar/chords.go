package guitar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownChord = errors.New("unknown chord")

// StringKind tells whether a string is played open or fretted.
type StringKind string

const (
	KindOpen    StringKind = "open"
	KindFretted StringKind = "fretted"
)

// StringSpec is one sounding string of a chord shape.
type StringSpec struct {
	String        int     `json:"string"`
	Fret          int     `json:"fret"` // 0 = open
	OpenFrequency float64 `json:"open_frequency"`
}

// Frequency is the expected sounding frequency of the string.
func (s StringSpec) Frequency() float64 {
	f, err := FrettedFrequency(s.String, s.Fret)
	if err != nil {
		return 0
	}
	return f
}

// Kind returns KindOpen for fret 0 and KindFretted otherwise.
func (s StringSpec) Kind() StringKind {
	if s.Fret == 0 {
		return KindOpen
	}
	return KindFretted
}

// Validate checks the string number, fret and tuning of the spec.
func (s StringSpec) Validate() error {
	open, err := OpenFrequency(s.String)
	if err != nil {
		return err
	}
	if s.Fret < 0 || s.Fret > MaxFret {
		return fmt.Errorf("string %d fret %d: %w", s.String, s.Fret, ErrInvalidFret)
	}
	if s.OpenFrequency != open {
		return fmt.Errorf("string %d: open frequency %.2f Hz does not match tuning %.2f Hz",
			s.String, s.OpenFrequency, open)
	}
	return nil
}

// Tab symbols.
const (
	TabMuted = "X"
	TabOpen  = "0"
)

// ChordTemplate is a fixed chord shape and the strings it requires.
type ChordTemplate struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Tabs        [StringCount]string `json:"tabs"`    // String 6 first
	Strings     []StringSpec        `json:"strings"` // Sounding strings, 6 to 1
}

// RequiredFretted counts the fretted strings of the template.
func (c ChordTemplate) RequiredFretted() int {
	n := 0
	for _, s := range c.Strings {
		if s.Kind() == KindFretted {
			n++
		}
	}
	return n
}

// StringFor returns the spec of string n, if the template plays it.
func (c ChordTemplate) StringFor(n int) (StringSpec, bool) {
	for _, s := range c.Strings {
		if s.String == n {
			return s, true
		}
	}
	return StringSpec{}, false
}

// Validate checks every required string and that Strings agrees with Tabs.
func (c ChordTemplate) Validate() error {
	if c.Name == "" {
		return errors.New("chord template has no name")
	}
	if len(c.Strings) == 0 {
		return fmt.Errorf("chord %s: no sounding strings", c.Name)
	}

	derived, err := parseTabs(c.Tabs)
	if err != nil {
		return fmt.Errorf("chord %s: %w", c.Name, err)
	}
	if len(derived) != len(c.Strings) {
		return fmt.Errorf("chord %s: %d strings listed, tabs sound %d", c.Name, len(c.Strings), len(derived))
	}

	for i, s := range c.Strings {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("chord %s: %w", c.Name, err)
		}
		if s.Frequency() <= 0 {
			return fmt.Errorf("chord %s: string %d has no frequency", c.Name, s.String)
		}
		if s != derived[i] {
			return fmt.Errorf("chord %s: string %d disagrees with tab %q", c.Name, s.String, c.Tabs[StringCount-s.String])
		}
	}
	return nil
}

// NewChordTemplate builds a template from its tabs, listed from string 6 to
// string 1. Required strings and their frequencies are derived from the tabs
// and the open-string table.
func NewChordTemplate(name, description string, tabs [StringCount]string) (ChordTemplate, error) {
	strs, err := parseTabs(tabs)
	if err != nil {
		return ChordTemplate{}, fmt.Errorf("chord %s: %w", name, err)
	}
	c := ChordTemplate{
		Name:        name,
		Description: description,
		Tabs:        tabs,
		Strings:     strs,
	}
	return c, c.Validate()
}

func parseTabs(tabs [StringCount]string) ([]StringSpec, error) {
	var out []StringSpec
	for i, tab := range tabs {
		n := StringCount - i
		tab = strings.ToUpper(strings.TrimSpace(tab))
		if tab == TabMuted {
			continue
		}
		fret, err := strconv.Atoi(tab)
		if err != nil {
			return nil, fmt.Errorf("string %d tab %q: %w", n, tab, ErrInvalidFret)
		}
		if fret < 0 || fret > MaxFret {
			return nil, fmt.Errorf("string %d fret %d: %w", n, fret, ErrInvalidFret)
		}
		open, err := OpenFrequency(n)
		if err != nil {
			return nil, err
		}
		out = append(out, StringSpec{String: n, Fret: fret, OpenFrequency: open})
	}
	return out, nil
}

func mustChord(name, description string, tabs ...string) ChordTemplate {
	if len(tabs) != StringCount {
		panic(fmt.Sprintf("chord %s: %d tabs", name, len(tabs)))
	}
	c, err := NewChordTemplate(name, description, [StringCount]string(tabs))
	if err != nil {
		panic(err)
	}
	return c
}

// chordTemplates is in display order.
var chordTemplates = []ChordTemplate{
	mustChord("Em", "E minor (Em)", "0", "2", "2", "0", "0", "0"),
	mustChord("Am", "A minor (Am)", "X", "0", "2", "2", "1", "0"),
	mustChord("C", "C major (C)", "X", "3", "2", "0", "1", "0"),
	mustChord("G", "G major (G)", "3", "2", "0", "0", "3", "3"),
	mustChord("D", "D major (D)", "X", "X", "0", "2", "3", "2"),
	mustChord("A", "A major (A)", "X", "0", "2", "2", "2", "0"),
	mustChord("E", "E major (E)", "0", "2", "2", "1", "0", "0"),
}

// ChordNames returns the names of the supported chords in display order.
func ChordNames() []string {
	names := make([]string, len(chordTemplates))
	for i, c := range chordTemplates {
		names[i] = c.Name
	}
	return names
}

// Chord looks up a template by exact name. The returned value is a copy.
func Chord(name string) (ChordTemplate, error) {
	name = strings.TrimSpace(name)
	for _, c := range chordTemplates {
		if c.Name == name {
			c.Strings = append([]StringSpec(nil), c.Strings...)
			return c, nil
		}
	}
	return ChordTemplate{}, fmt.Errorf("chord %q: %w", name, ErrUnknownChord)
}

// Chords returns copies of every template in display order.
func Chords() []ChordTemplate {
	out := make([]ChordTemplate, len(chordTemplates))
	for i, c := range chordTemplates {
		c.Strings = append([]StringSpec(nil), c.Strings...)
		out[i] = c
	}
	return out
}

// ShowChordTab renders the fingering of a chord, one line per string from
// 6 to 1: "not played", "open" or "fret N".
func ShowChordTab(name string) ([]string, error) {
	c, err := Chord(name)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, StringCount)
	for i, tab := range c.Tabs {
		lines = append(lines, fmt.Sprintf("String %d: %s", StringCount-i, DescribeTab(tab)))
	}
	return lines, nil
}

// DescribeTab turns a tab symbol into words.
func DescribeTab(tab string) string {
	switch strings.ToUpper(strings.TrimSpace(tab)) {
	case TabMuted:
		return "not played"
	case TabOpen:
		return "open"
	default:
		return "fret " + strings.TrimSpace(tab)
	}
}
