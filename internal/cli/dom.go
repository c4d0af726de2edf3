package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"birlc/internal/cfg"
	"birlc/internal/dom"
)

var domCmd = &cobra.Command{
	Use:       "dom {dom|tree|front}",
	Short:     "print dominator sets, the dominator tree, or dominance frontiers as JSON",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"dom", "tree", "front"},
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := readProgram(cmd)
		if err != nil {
			return fail(cmd, "%s", err)
		}

		out := cmd.OutOrStdout()
		for _, fn := range prog.Functions {
			g := cfg.New(fn.Instrs)
			doms := dom.Dominators(g)

			var payload map[string][]string
			switch args[0] {
			case "dom":
				payload = domSetsToSortedLists(doms)
			case "tree":
				payload = treeToAdjacency(dom.Tree(g, doms))
			case "front":
				payload = dom.Frontier(g, doms)
			default:
				return fail(cmd, "dom: unrecognized command %q (want dom, tree, or front)", args[0])
			}

			encoded, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(encoded))
		}
		return nil
	},
}

func domSetsToSortedLists(doms map[string]map[string]bool) map[string][]string {
	out := make(map[string][]string, len(doms))
	for name, set := range doms {
		list := make([]string, 0, len(set))
		for d := range set {
			list = append(list, d)
		}
		sort.Strings(list)
		out[name] = list
	}
	return out
}

// treeToAdjacency flattens a dominator tree into a name-to-children map,
// including an empty list for leaves, so every block gets a key.
func treeToAdjacency(root *dom.Node) map[string][]string {
	out := map[string][]string{}
	var walk func(n *dom.Node)
	walk = func(n *dom.Node) {
		children := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			children = append(children, c.Name)
		}
		out[n.Name] = children
		for _, c := range n.Children {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

func init() {
	rootCmd.AddCommand(domCmd)
}
