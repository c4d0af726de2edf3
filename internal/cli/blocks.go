package cli

import (
	"github.com/spf13/cobra"

	"birlc/internal/cfg"
	"birlc/internal/ir"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "partition each function's instruction stream into named basic blocks",
	RunE: func(cmd *cobra.Command, _ []string) error {
		prog, err := readProgram(cmd)
		if err != nil {
			return fail(cmd, "%s", err)
		}

		for _, fn := range prog.Functions {
			logStep(cmd, fn.Name, "splitting instructions into basic blocks")
			blocks := cfg.FormBlocks(fn.Instrs)
			fn.Blocks = ir.NewOrderedMap[[]ir.Instruction]()
			for _, b := range blocks {
				fn.Blocks.Set(b.Name, b.Instrs)
			}
		}

		return writeProgram(cmd, prog)
	},
}

func init() {
	rootCmd.AddCommand(blocksCmd)
}
