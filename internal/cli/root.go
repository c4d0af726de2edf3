// Package cli wires the analysis/transformation passes in the sibling
// internal packages into the command-line driver: one subcommand per pass,
// each reading a program from stdin and writing a program (or a pass's
// human-readable report) to stdout.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "birlc",
	Short: "birlc - a control-flow/dataflow/SSA middle-end for a small instruction-based IR",
	Long: `birlc reads a program in the JSON (or, with --format=text, the textual)
instruction-based IR and runs one of its analysis or transformation passes,
writing the resulting program (or a pass-specific report) back out.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree, returning any error for main to report and
// translate into a process exit code.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("format", "json", "input/output IR format: json or text")
	rootCmd.PersistentFlags().Bool("verbose", false, "print pass progress to stderr")
}
