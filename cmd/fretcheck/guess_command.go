package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/fretcheck/coach"
)

func newGuessCommand(ctx *commandContext) *cobra.Command {
	var filePath string
	var top int

	cmd := &cobra.Command{
		Use:   "guess",
		Short: "Name the chord of a strum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if top < 0 {
				return fmt.Errorf("--top must not be negative, got %d", top)
			}
			cfg := ctx.config
			out := cmd.OutOrStdout()
			if filePath == "" && !ctx.jsonOutput() {
				fmt.Fprintf(out, "Strum any chord now (%.1f s)...\n", cfg.Capture.GuessSeconds)
			}

			buf, err := ctx.record(cmd.Context(), filePath, cfg.Capture.GuessSeconds)
			if err != nil {
				return err
			}

			result, err := coach.NewGuesser(cfg.Guess).GuessChord(buf)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}

			best, ok := result.Best()
			if !result.Confident || !ok {
				fmt.Fprintln(out, "Could not tell which chord was played.")
				return nil
			}

			fmt.Fprintf(out, "Sounds like %s (%d of %d notes matched, %.1f%%).\n",
				result.ChordName, best.Matched, best.Total, best.Percent)
			fmt.Fprintln(out, "Matched frequencies (expected -> found):")
			for _, m := range best.Matches {
				fmt.Fprintf(out, "  %.2f -> %.2f Hz\n", m.Expected, m.Observed)
			}

			rows := make([][]string, 0, top)
			for i, c := range result.Candidates {
				if i >= top {
					break
				}
				rows = append(rows, []string{
					c.ChordName,
					fmt.Sprintf("%d/%d", c.Matched, c.Total),
					fmt.Sprintf("%.1f%%", c.Percent),
					strconv.FormatFloat(c.Weighted, 'f', 1, 64),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Chord", "Notes", "Match", "Weight"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Audio file to analyse instead of recording")
	cmd.Flags().IntVar(&top, "top", 3, "Number of candidates to list")
	return cmd
}
