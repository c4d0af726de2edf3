package cfg

import (
	"fmt"
	"strings"
)

// ToGraphviz renders the graph as a GraphViz "digraph" description: one
// quoted node statement per block, then one edge statement per successor
// relation, in block order. Block names are always quoted since synthetic
// names like "entry.1" or "b.a.join" contain punctuation DOT would
// otherwise reject.
func ToGraphviz(g *Graph, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", name)
	for _, n := range g.BlockNames() {
		fmt.Fprintf(&b, "  %q;\n", n)
	}
	for _, n := range g.BlockNames() {
		for _, succ := range g.SuccessorsOf(n) {
			fmt.Fprintf(&b, "  %q -> %q\n", n, succ)
		}
	}
	b.WriteString("}\n")
	return b.String()
}
