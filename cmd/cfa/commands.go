package main

import (
	"github.com/spf13/cobra"
)

func newCFGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cfg [flags] file.c",
		Short: "Print the control-flow graph of every function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, args[0], modeCFG)
		},
	}
	cmd.Flags().Bool("raw", false, "print the draft graph before simplification")
	cmd.Flags().Bool("defuse", false, "append USE/DEF lines to every block")
	return cmd
}

func newLivenessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness [flags] file.c",
		Short: "Print live-in and live-out sets of every block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, args[0], modeLiveness)
		},
	}
	cmd.Flags().StringP("output", "o", "-", "output file (- for stdout)")
	return cmd
}
