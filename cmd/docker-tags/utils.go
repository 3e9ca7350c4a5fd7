package main

import (
	"io"

	"github.com/spf13/cobra"
)

// commandAction intermediates between the RunE interface and the real
// handlers: the handler sees only the positional arguments and the stdout
// writer, anything else it needs must come in through its options structure.
func commandAction(handler func(args []string, stdout io.Writer) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return handler(args, cmd.OutOrStdout())
	}
}

// adjustUsage keeps cobra from appending "[flags]" to the use line; the Use
// strings already say where the options go.
func adjustUsage(cmd *cobra.Command) {
	cmd.DisableFlagsInUseLine = true
}
