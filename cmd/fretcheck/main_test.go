package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RyanBlaney/fretcheck/algorithms/common"
	"github.com/RyanBlaney/fretcheck/coach"
	"github.com/RyanBlaney/fretcheck/transcode"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	configPath := filepath.Join(t.TempDir(), "absent.toml")
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTone(t *testing.T, seconds float64, freqs ...float64) string {
	t.Helper()
	const rate = 44100
	samples := make([]float64, int(seconds*rate))
	for _, f := range freqs {
		for i := range samples {
			samples[i] += 0.15 * math.Sin(2*math.Pi*f*float64(i)/rate)
		}
	}
	path := filepath.Join(t.TempDir(), "take.wav")
	if err := transcode.WriteWAV(path, common.NewSampleBuffer(samples, rate)); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}
	return path
}

func TestChordsAndTabCommands(t *testing.T) {
	out, _, err := runCLI(t, "chords")
	if err != nil {
		t.Fatalf("chords: %v", err)
	}
	for _, want := range []string{"Em", "E minor (Em)", "X 0 2 2 1 0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("chords output lacks %q:\n%s", want, out)
		}
	}

	out, _, err = runCLI(t, "tab", "C")
	if err != nil {
		t.Fatalf("tab: %v", err)
	}
	for _, want := range []string{"String 6: not played", "String 5: fret 3", "String 3: open"} {
		if !strings.Contains(out, want) {
			t.Fatalf("tab output lacks %q:\n%s", want, out)
		}
	}

	if _, _, err := runCLI(t, "tab", "Cmaj9"); err == nil || !strings.Contains(err.Error(), "unknown chord") {
		t.Fatalf("expected an unknown chord error, got %v", err)
	}
}

func TestChordCommandFromFile(t *testing.T) {
	path := writeTone(t, 3, 82.41, 123.47, 164.81, 196.00, 246.94, 329.63)
	saved := filepath.Join(t.TempDir(), "saved.wav")

	out, _, err := runCLI(t, "chord", "Em", "--file", path, "--save", saved, "--json")
	if err != nil {
		t.Fatalf("chord: %v", err)
	}

	var result coach.ChordCheckResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if !result.Success || result.Chord != "Em" || len(result.Strings) != 6 {
		t.Fatalf("unexpected result %+v", result)
	}

	data, err := transcode.NewDecoder(nil).DecodeFile(context.Background(), saved)
	if err != nil {
		t.Fatalf("saved recording unreadable: %v", err)
	}
	if len(data.PCM) != 3*44100 {
		t.Fatalf("saved %d samples", len(data.PCM))
	}

	out, _, err = runCLI(t, "chord", "Em", "--file", path)
	if err != nil {
		t.Fatalf("chord text: %v", err)
	}
	if !strings.Contains(out, "played perfectly") || !strings.Contains(out, "Observed Hz") {
		t.Fatalf("text output:\n%s", out)
	}
}

func TestTuneCommandOnce(t *testing.T) {
	path := writeTone(t, 1, 110)

	out, _, err := runCLI(t, "tune", "A2", "--file", path, "--once", "--json")
	if err != nil {
		t.Fatalf("tune: %v", err)
	}

	var reading coach.TuningReading
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &reading); err != nil {
		t.Fatalf("decode reading: %v\n%s", err, out)
	}
	if reading.Status != coach.StatusInTune || reading.Target != 110 {
		t.Fatalf("reading %+v", reading)
	}

	if _, _, err := runCLI(t, "tune", "9", "--file", path); err == nil {
		t.Fatal("expected an error for string 9")
	}
}

func TestGuessCommand(t *testing.T) {
	path := writeTone(t, 2, 130.81, 164.81, 196.00, 261.63, 329.63)

	out, _, err := runCLI(t, "guess", "--file", path)
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	if !strings.Contains(out, "Sounds like C ") {
		t.Fatalf("guess output:\n%s", out)
	}

	if _, _, err := runCLI(t, "guess", "--file", path, "--top", "-1"); err == nil || !strings.Contains(err.Error(), "--top") {
		t.Fatalf("expected a --top error, got %v", err)
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fretcheck.toml")

	if _, _, err := runCLI(t, "config", "init", "--path", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, _, err := runCLI(t, "config", "init", "--path", path); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "config", "show"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{path, "[chord]", "base_tolerance = 25.0"} {
		if !strings.Contains(stdout.String(), want) {
			t.Fatalf("config show lacks %q:\n%s", want, stdout.String())
		}
	}
}
