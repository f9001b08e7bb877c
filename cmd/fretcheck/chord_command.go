package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/fretcheck/coach"
	"github.com/RyanBlaney/fretcheck/guitar"
	"github.com/RyanBlaney/fretcheck/logging"
	"github.com/RyanBlaney/fretcheck/transcode"
)

func newChordCommand(ctx *commandContext) *cobra.Command {
	var filePath string
	var savePath string

	cmd := &cobra.Command{
		Use:   "chord <name>",
		Short: "Record a strum and check it against a chord fingering",
		Long: "Record a strum (or read --file) and check every required string of the chord.\n" +
			"Known chords: " + strings.Join(guitar.ChordNames(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if _, err := guitar.Chord(name); err != nil {
				return fmt.Errorf("%w (known: %s)", err, strings.Join(guitar.ChordNames(), ", "))
			}

			cfg := ctx.config
			out := cmd.OutOrStdout()
			if filePath == "" && !ctx.jsonOutput() {
				lines, _ := guitar.ShowChordTab(name)
				fmt.Fprintf(out, "Play %s now (%.1f s)...\n", name, cfg.Capture.ChordSeconds)
				for _, line := range lines {
					fmt.Fprintln(out, "  "+line)
				}
			}

			buf, err := ctx.record(cmd.Context(), filePath, cfg.Capture.ChordSeconds)
			if err != nil {
				return err
			}

			if savePath != "" {
				if err := transcode.WriteWAV(savePath, buf); err != nil {
					return err
				}
				logging.Info("Recording saved", logging.Fields{"path": savePath})
			}

			result, err := coach.NewJudge(cfg.Chord).CheckChordAccuracy(buf, name)
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}
			printChordResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Audio file to check instead of recording")
	cmd.Flags().StringVar(&savePath, "save", "", "Write the analysed audio to this WAV file")
	return cmd
}

func printChordResult(cmd *cobra.Command, result *coach.ChordCheckResult) {
	out := cmd.OutOrStdout()

	if len(result.Strings) > 0 {
		rows := make([][]string, 0, len(result.Strings))
		for _, s := range result.Strings {
			rows = append(rows, []string{
				strconv.Itoa(s.String),
				guitar.DescribeTab(strconv.Itoa(s.Fret)),
				fmt.Sprintf("%.1f", s.Expected),
				formatObserved(s.Observed),
				stringStatus(s),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"String", "Fingering", "Expected Hz", "Observed Hz", "Status"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
		))
	}

	for _, msg := range result.Messages {
		if coach.IsSectionHeader(msg) {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, msg)
	}
}

func formatObserved(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *f)
}

func stringStatus(s coach.StringMatchResult) string {
	switch s.Error {
	case coach.ErrorNone:
		return "ok"
	case coach.ErrorNoSound:
		return "not detected"
	default:
		return "off"
	}
}
