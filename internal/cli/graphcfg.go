package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"birlc/internal/cfg"
)

var graphCfgCmd = &cobra.Command{
	Use:   "graph-cfg",
	Short: "emit each function's control-flow graph as GraphViz dot source",
	RunE: func(cmd *cobra.Command, _ []string) error {
		prog, err := readProgram(cmd)
		if err != nil {
			return fail(cmd, "%s", err)
		}

		out := cmd.OutOrStdout()
		for _, fn := range prog.Functions {
			g := cfg.New(fn.Instrs)
			fmt.Fprint(out, cfg.ToGraphviz(g, fn.Name))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCfgCmd)
}
