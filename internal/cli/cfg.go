package cli

import (
	"github.com/spf13/cobra"

	"birlc/internal/cfg"
	"birlc/internal/errors"
	"birlc/internal/ir"
)

var cfgCmd = &cobra.Command{
	Use:   "cfg",
	Short: "add successor/predecessor edges over a prior blocks section",
	RunE: func(cmd *cobra.Command, _ []string) error {
		prog, err := readProgram(cmd)
		if err != nil {
			return fail(cmd, "%s", err)
		}

		for _, fn := range prog.Functions {
			if fn.Blocks == nil {
				diag := errors.PreconditionMissing("cfg", "blocks")
				return fail(cmd, "%s", errors.NewIRReporter("<stdin>").FormatError(diag))
			}

			g := cfg.FromBlocks(namedBlocks(fn.Blocks))

			fn.Blocks = ir.NewOrderedMap[[]ir.Instruction]()
			fn.CFG = ir.NewOrderedMap[[]string]()
			for _, name := range g.BlockNames() {
				fn.Blocks.Set(name, g.Block(name).Instrs)
				succs := g.SuccessorsOf(name)
				if succs == nil {
					succs = []string{}
				}
				fn.CFG.Set(name, succs)
			}
		}

		return writeProgram(cmd, prog)
	},
}

// namedBlocks converts a function's "blocks" wire section back into named
// ir.Block values in program order.
func namedBlocks(m *ir.OrderedMap[[]ir.Instruction]) []*ir.Block {
	out := make([]*ir.Block, 0, m.Len())
	for _, name := range m.Keys() {
		instrs, _ := m.Get(name)
		out = append(out, &ir.Block{Name: name, Instrs: instrs})
	}
	return out
}

func init() {
	rootCmd.AddCommand(cfgCmd)
}
