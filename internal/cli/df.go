package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"birlc/internal/cfg"
	"birlc/internal/dataflow"
)

var dfCmd = &cobra.Command{
	Use:       "df {defined|cprop|live}",
	Short:     "run a dataflow analysis and print each block's IN/OUT sets",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"defined", "cprop", "live"},
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := readProgram(cmd)
		if err != nil {
			return fail(cmd, "%s", err)
		}

		switch args[0] {
		case "defined", "live":
			for _, fn := range prog.Functions {
				g := cfg.New(fn.Instrs)
				var result dataflow.Result[map[string]bool]
				if args[0] == "defined" {
					result = dataflow.ReachingDefinitions(g)
				} else {
					result = dataflow.LiveVariables(g)
				}
				printSetDF(cmd, g, result)
			}
		case "cprop":
			for _, fn := range prog.Functions {
				g := cfg.New(fn.Instrs)
				result := dataflow.ConstantPropagation(g)
				printConstDF(cmd, g, result)
			}
		default:
			return fail(cmd, "df: unrecognized analysis %q (want defined, cprop, or live)", args[0])
		}
		return nil
	},
}

func printSetDF(cmd *cobra.Command, g *cfg.Graph, result dataflow.Result[map[string]bool]) {
	out := cmd.OutOrStdout()
	for _, name := range g.BlockNames() {
		fmt.Fprintf(out, "%s:\n", name)
		fmt.Fprintf(out, "  in:  %s\n", sortedJoin(result.In[name]))
		fmt.Fprintf(out, "  out: %s\n", sortedJoin(result.Out[name]))
	}
}

func sortedJoin(set map[string]bool) string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func printConstDF(cmd *cobra.Command, g *cfg.Graph, result dataflow.Result[map[string]any]) {
	out := cmd.OutOrStdout()
	for _, name := range g.BlockNames() {
		fmt.Fprintf(out, "%s:\n", name)
		fmt.Fprintf(out, "  in:  %s\n", sortedConstJoin(result.In[name]))
		fmt.Fprintf(out, "  out: %s\n", sortedConstJoin(result.Out[name]))
	}
}

func sortedConstJoin(vars map[string]any) string {
	names := make([]string, 0, len(vars))
	for n := range vars {
		names = append(names, n)
	}
	sort.Strings(names)

	pairs := make([]string, len(names))
	for i, n := range names {
		pairs[i] = fmt.Sprintf("%s: %s", n, formatConst(vars[n]))
	}
	return strings.Join(pairs, ", ")
}

func formatConst(v any) string {
	if _, unknown := v.(dataflow.Unknown); unknown {
		return "?"
	}
	return fmt.Sprintf("%v", v)
}

func init() {
	rootCmd.AddCommand(dfCmd)
}
