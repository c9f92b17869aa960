package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/conmenu/internal/capability"
)

// probeEnv is swapped in tests.
var probeEnv = func() (capability.ProbeInput, int, int, bool) {
	w, h, ok := capability.ViewportSize()
	return capability.ProbeTerminal(-1), w, h, ok
}

func newProbeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Print the detected capability mode and viewport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, w, h, ok := probeEnv()
			mode := capability.Probe(in)
			if flags.legacy {
				mode = capability.ModeLegacy
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mode: %s\n", mode)
			fmt.Fprintf(out, "terminal: %t\n", in.IsTerminal)
			fmt.Fprintf(out, "term: %q\n", in.Term)
			fmt.Fprintf(out, "colorterm: %q\n", in.ColorTerm)
			if ok {
				fmt.Fprintf(out, "viewport: %d x %d\n", w, h)
			} else {
				fmt.Fprintln(out, "viewport: unknown")
			}
			return nil
		},
	}
}
