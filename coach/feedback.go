package coach

import (
	"fmt"

	"github.com/RyanBlaney/fretcheck/guitar"
)

const (
	msgNoSound        = "No sound detected. Check the microphone and volume."
	msgTooFewNotes    = "Only %d notes detected. A chord needs at least %d."
	msgUnknownChord   = "Chord %s is not in the chord list."
	msgAnalysisFailed = "The recording could not be analyzed."

	msgPerfect    = "Excellent! The chord was played perfectly!"
	msgAlmost     = "The chord counts as played correctly, but there are small inaccuracies:"
	msgProblems   = "Problems found with %s:"
	msgFrettedOff = "Not every required string is fretted correctly (%d of %d)"

	headerTuning    = "Tuning tips:"
	headerFingering = "Fingering tips:"
	headerTechnique = "Technique tips:"
	headerGeneral   = "General tips:"
)

var generalTips = []string{
	"• Press the strings close to the fret wire, not on top of it",
	"• Check that you are not touching neighbouring strings",
	"• Strum cleanly and hit all required strings together",
	"• If a string buzzes, press harder or check the string height",
	"• Play closer to the pickup for better recognition (electric guitar)",
}

// buildFeedback fills Feedback and Messages from the per-string verdicts.
// Advice is grouped by category so related lines read together.
func buildFeedback(result *ChordCheckResult, tmpl guitar.ChordTemplate) {
	fb := Feedback{
		Errors:    []string{},
		Tuning:    []string{},
		Fingering: []string{},
		Technique: []string{},
	}

	for _, s := range result.Strings {
		if s.Correct {
			continue
		}
		fretted := s.Kind == guitar.KindFretted

		switch s.Error {
		case ErrorNoSound:
			if fretted {
				fb.Errors = append(fb.Errors, fmt.Sprintf("String %d not detected (should be fretted at fret %d - %.1f Hz)", s.String, s.Fret, s.Expected))
				fb.Fingering = append(fb.Fingering, fmt.Sprintf("• Check how string %d is pressed at fret %d", s.String, s.Fret))
			} else {
				fb.Errors = append(fb.Errors, fmt.Sprintf("String %d not detected (should be open - %.1f Hz)", s.String, s.Expected))
				fb.Technique = append(fb.Technique, fmt.Sprintf("• Make sure you strike string %d", s.String))
			}
		case ErrorWrongFrequency:
			if fretted {
				fb.Fingering = append(fb.Fingering, fmt.Sprintf("• Press string %d more cleanly at fret %d (now %.1f Hz)", s.String, s.Fret, *s.Observed))
			} else {
				fb.Tuning = append(fb.Tuning, fmt.Sprintf("• Tune string %d: now %.1f Hz, should be %.1f Hz", s.String, *s.Observed, s.Expected))
			}
		}
	}

	result.Feedback = fb

	if result.Success {
		if result.ErrorWeight == 0 {
			result.Messages = append(result.Messages, msgPerfect)
			return
		}
		result.Messages = append(result.Messages, msgAlmost)
		result.Messages = appendSection(result.Messages, headerTuning, fb.Tuning)
		result.Messages = appendSection(result.Messages, headerFingering, fb.Fingering)
		result.Messages = appendSection(result.Messages, headerTechnique, fb.Technique)
		return
	}

	result.Messages = append(result.Messages, fmt.Sprintf(msgProblems, tmpl.Description))
	result.Messages = append(result.Messages, fb.Errors...)
	if result.CorrectFretted < result.RequiredFretted {
		result.Messages = append(result.Messages, fmt.Sprintf(msgFrettedOff, result.CorrectFretted, result.RequiredFretted))
	}
	result.Messages = appendSection(result.Messages, headerTuning, fb.Tuning)
	result.Messages = appendSection(result.Messages, headerFingering, fb.Fingering)
	result.Messages = appendSection(result.Messages, headerTechnique, fb.Technique)
	result.Messages = appendSection(result.Messages, headerGeneral, generalTips)
}

func appendSection(messages []string, header string, lines []string) []string {
	if len(lines) == 0 {
		return messages
	}
	messages = append(messages, header)
	return append(messages, lines...)
}

// IsSectionHeader reports whether a message line opens an advice section.
func IsSectionHeader(line string) bool {
	switch line {
	case headerTuning, headerFingering, headerTechnique, headerGeneral:
		return true
	}
	return false
}
