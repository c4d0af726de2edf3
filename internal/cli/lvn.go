package cli

import (
	"github.com/spf13/cobra"

	"birlc/internal/cfg"
	"birlc/internal/lvn"
)

var lvnCmd = &cobra.Command{
	Use:   "lvn",
	Short: "run local value numbering over every block",
	RunE: func(cmd *cobra.Command, _ []string) error {
		prog, err := readProgram(cmd)
		if err != nil {
			return fail(cmd, "%s", err)
		}

		cprop, _ := cmd.Flags().GetBool("cprop")

		for _, fn := range prog.Functions {
			logStep(cmd, fn.Name, "local value numbering")
			g := cfg.New(fn.Instrs)
			lvn.Run(g, cprop)
			fn.Instrs = g.Flatten()
		}

		return writeProgram(cmd, prog)
	},
}

func init() {
	lvnCmd.Flags().BoolP("cprop", "c", false, "enable constant propagation and constant folding during LVN")
	rootCmd.AddCommand(lvnCmd)
}
