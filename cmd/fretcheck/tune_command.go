package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/fretcheck/coach"
	"github.com/RyanBlaney/fretcheck/guitar"
)

var errStopTuning = errors.New("stop tuning")

func newTuneCommand(ctx *commandContext) *cobra.Command {
	var filePath string
	var once bool

	cmd := &cobra.Command{
		Use:   "tune <string>",
		Short: "Tune one string (1-6 or a note such as E2)",
		Long: "Read the pitch of one string repeatedly until interrupted.\n" +
			"The string is a number from 1 (high E) to 6 (low E) or its note name.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			open, err := parseString(args[0])
			if err != nil {
				return err
			}

			cfg := ctx.config
			window := time.Duration(cfg.Capture.TuneSeconds * float64(time.Second))
			tuner := coach.NewTuner(cfg.Tuner, window)

			src, err := ctx.openSource(cmd.Context(), filePath)
			if err != nil {
				return err
			}
			defer src.Close()

			out := cmd.OutOrStdout()
			if !ctx.jsonOutput() {
				fmt.Fprintf(out, "Tuning string %d %s (%.2f Hz). Press Ctrl+C to stop.\n", open.Number, open.Note, open.Frequency)
			}

			err = tuner.Run(cmd.Context(), src, open.Frequency, func(r coach.TuningReading) error {
				if ctx.jsonOutput() {
					if err := writeJSONLine(cmd, r); err != nil {
						return err
					}
				} else {
					fmt.Fprintln(out, formatReading(r))
				}
				if once {
					return errStopTuning
				}
				return nil
			})
			if errors.Is(err, errStopTuning) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Audio file to read instead of the microphone")
	cmd.Flags().BoolVar(&once, "once", false, "Stop after the first reading")
	return cmd
}

func parseString(arg string) (guitar.OpenString, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(arg)); err == nil {
		return guitar.OpenStringFor(n)
	}
	return guitar.StringByNote(arg)
}

func formatReading(r coach.TuningReading) string {
	if r.Status == coach.StatusNoSignal {
		return r.Status.Message()
	}
	return fmt.Sprintf("Current %.2f Hz (%s, %+.0f cents) | Target %.2f Hz | %s",
		r.Frequency, r.Note, r.Cents, r.Target, r.Status.Message())
}
