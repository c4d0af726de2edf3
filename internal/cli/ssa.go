package cli

import (
	"github.com/spf13/cobra"

	"birlc/internal/cfg"
	"birlc/internal/ssa"
)

var ssaCmd = &cobra.Command{
	Use:       "ssa {to|out}",
	Short:     "convert a function's blocks into or out of SSA form",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"to", "out"},
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := readProgram(cmd)
		if err != nil {
			return fail(cmd, "%s", err)
		}

		for _, fn := range prog.Functions {
			g := cfg.New(fn.Instrs)
			switch args[0] {
			case "to":
				logStep(cmd, fn.Name, "inserting phi nodes and renaming into SSA form")
				ssa.ToSSA(g, fn.Args)
			case "out":
				logStep(cmd, fn.Name, "destructing SSA form via edge copies")
				ssa.FromSSA(g)
			default:
				return fail(cmd, "ssa: unrecognized command %q (want to or out)", args[0])
			}
			fn.Instrs = g.Flatten()
		}

		return writeProgram(cmd, prog)
	},
}

func init() {
	rootCmd.AddCommand(ssaCmd)
}
