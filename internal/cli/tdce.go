package cli

import (
	"github.com/spf13/cobra"

	"birlc/internal/tdce"
)

var tdceCmd = &cobra.Command{
	Use:   "tdce",
	Short: "remove definitions with no use, globally, to a fixed point",
	RunE: func(cmd *cobra.Command, _ []string) error {
		prog, err := readProgram(cmd)
		if err != nil {
			return fail(cmd, "%s", err)
		}
		for _, fn := range prog.Functions {
			logStep(cmd, fn.Name, "removing defs with no use")
			fn.Instrs = tdce.RemoveDeadDefs(fn.Instrs)
		}
		return writeProgram(cmd, prog)
	},
}

var tdcePlusCmd = &cobra.Command{
	Use:   "tdce+",
	Short: "tdce plus block-local dead-store elimination, to a combined fixed point",
	RunE: func(cmd *cobra.Command, _ []string) error {
		prog, err := readProgram(cmd)
		if err != nil {
			return fail(cmd, "%s", err)
		}
		for _, fn := range prog.Functions {
			logStep(cmd, fn.Name, "removing defs with no use and local dead stores")
			fn.Instrs = tdce.RunAggressive(fn.Instrs)
		}
		return writeProgram(cmd, prog)
	},
}

func init() {
	rootCmd.AddCommand(tdceCmd)
	rootCmd.AddCommand(tdcePlusCmd)
}
