package dataflow

import (
	"birlc/internal/cfg"
	"birlc/internal/ir"
)

// LiveVariables computes, for each block, which variables are live at its
// entry and exit: a backward analysis with IN(b) = uses(b) ∪ (OUT(b) \
// kills(b)), merged across successors by union.
func LiveVariables(g *cfg.Graph) Result[map[string]bool] {
	solver := Solver[map[string]bool]{
		Direction: Backward,
		Init:      func() map[string]bool { return map[string]bool{} },
		Merge:     unionSets,
		Equal:     setsEqual,
		Transfer: func(block *ir.Block, out map[string]bool) map[string]bool {
			return liveIn(block, out)
		},
	}
	return solver.Solve(g)
}

// liveIn computes uses(b) ∪ (out \ kills(b)), processing the block
// backward so a use is recorded only if no earlier instruction in the
// same block defines that variable.
func liveIn(b *ir.Block, out map[string]bool) map[string]bool {
	used := map[string]bool{}
	for i := len(b.Instrs) - 1; i >= 0; i-- {
		instr := b.Instrs[i]
		if instr.IsAssignment() {
			delete(used, instr.Dest)
		}
		for _, arg := range instr.Args {
			used[arg] = true
		}
	}

	killed := map[string]bool{}
	for _, instr := range b.Instrs {
		if instr.IsAssignment() {
			killed[instr.Dest] = true
		}
	}

	result := cloneSet(used)
	for name := range out {
		if !killed[name] {
			result[name] = true
		}
	}
	return result
}
