package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/fretcheck/capture"
)

func newDevicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "devices",
		Short:       "List audio input devices",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := capture.InputDevices()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No input devices found")
				return nil
			}
			for i, name := range names {
				fmt.Fprintf(out, "%d: %s\n", i+1, name)
			}
			return nil
		},
	}
}
