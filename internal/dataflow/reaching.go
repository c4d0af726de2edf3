package dataflow

import (
	"birlc/internal/cfg"
	"birlc/internal/ir"
)

// ReachingDefinitions computes, for each block, which variable definitions
// may reach its entry and exit: a forward analysis with OUT(b) = defs(b) ∪
// (IN(b) \ kills(b)), merged across predecessors by union.
func ReachingDefinitions(g *cfg.Graph) Result[map[string]bool] {
	solver := Solver[map[string]bool]{
		Direction: Forward,
		Init:      func() map[string]bool { return map[string]bool{} },
		Merge:     unionSets,
		Equal:     setsEqual,
		Transfer: func(block *ir.Block, in map[string]bool) map[string]bool {
			out := cloneSet(in)
			for name := range defs(block) {
				out[name] = true
			}
			return out
		},
	}
	return solver.Solve(g)
}

// defs returns the set of variables the block assigns to.
func defs(b *ir.Block) map[string]bool {
	d := map[string]bool{}
	for _, instr := range b.Instrs {
		if instr.IsAssignment() {
			d[instr.Dest] = true
		}
	}
	return d
}

func unionSets(sets []map[string]bool) map[string]bool {
	out := map[string]bool{}
	for _, s := range sets {
		for k := range s {
			out[k] = true
		}
	}
	return out
}

func cloneSet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

func setsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
