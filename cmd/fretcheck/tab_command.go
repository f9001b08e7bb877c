package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/fretcheck/guitar"
)

func newTabCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "tab <name>",
		Short:       "Show the fingering of a chord",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			chord, err := guitar.Chord(args[0])
			if err != nil {
				return fmt.Errorf("%w (known: %s)", err, strings.Join(guitar.ChordNames(), ", "))
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, chord)
			}

			lines, err := guitar.ShowChordTab(chord.Name)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s, fingering (string 6 to 1):\n", chord.Description)
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newChordsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "chords",
		Short:       "List the chords that can be checked",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			chords := guitar.Chords()
			if ctx.jsonOutput() {
				return writeJSON(cmd, chords)
			}

			rows := make([][]string, 0, len(chords))
			for _, c := range chords {
				rows = append(rows, []string{
					c.Name,
					c.Description,
					strings.Join(c.Tabs[:], " "),
					fmt.Sprintf("%d", c.RequiredFretted()),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Chord", "Description", "Tab (6-1)", "Fretted"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}
