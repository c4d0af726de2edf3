// Package ssa converts a function's instructions into and out of static
// single assignment form: dominance-frontier-based φ insertion followed by
// dominator-tree-guided renaming for entry, and φ destruction with
// cycle-aware copy insertion for exit.
package ssa

import (
	"fmt"
	"strings"

	"birlc/internal/cfg"
	"birlc/internal/dom"
	"birlc/internal/ir"
)

// ToSSA rewrites g's blocks in place so that every variable has exactly
// one static definition and every φ at a block has one argument per
// predecessor of that block. args are the function's parameters, whose
// definitions are attributed to the entry block. Unreachable blocks are
// pruned first: dominance over them is a sentinel, not a sound answer (see
// dom.Dominators), and φ placement needs sound dominance.
func ToSSA(g *cfg.Graph, args []ir.Param) {
	g.RemoveUnreachableBlocks()

	defs := defsites(g)
	orig := deforig(g)
	entry := g.Entry()

	for _, a := range args {
		defs[a.Name] = appendUnique(defs[a.Name], entry)
		orig[entry][a.Name] = true
	}

	vars := make([]string, 0, len(defs))
	for v := range defs {
		vars = append(vars, v)
	}

	doms := dom.Dominators(g)
	front := dom.Frontier(g, doms)

	phi := map[string]map[string]bool{}
	for _, v := range vars {
		worklist := append([]string(nil), defs[v]...)
		for len(worklist) > 0 {
			d := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			for _, f := range front[d] {
				if phi[f] != nil && phi[f][v] {
					continue
				}
				insertPhi(g, f, v, d)
				if phi[f] == nil {
					phi[f] = map[string]bool{}
				}
				phi[f][v] = true
				if !orig[f][v] {
					worklist = append(worklist, f)
				}
			}
		}
	}

	tree := dom.Tree(g, doms)
	rename(g, tree, vars, args)
}

func appendUnique(sites []string, name string) []string {
	for _, s := range sites {
		if s == name {
			return sites
		}
	}
	return append(sites, name)
}

// defsites maps every assigned variable to the names of the blocks that
// define it.
func defsites(g *cfg.Graph) map[string][]string {
	out := map[string][]string{}
	for _, name := range g.BlockNames() {
		for _, instr := range g.Block(name).Instrs {
			if instr.IsAssignment() {
				out[instr.Dest] = appendUnique(out[instr.Dest], name)
			}
		}
	}
	return out
}

// deforig maps every block to the set of variables it originally defines,
// before φ insertion adds more.
func deforig(g *cfg.Graph) map[string]map[string]bool {
	out := map[string]map[string]bool{}
	for _, name := range g.BlockNames() {
		set := map[string]bool{}
		for _, instr := range g.Block(name).Instrs {
			if instr.IsAssignment() {
				set[instr.Dest] = true
			}
		}
		out[name] = set
	}
	return out
}

// typeOf returns the declared type of var as assigned in defBlock.
func typeOf(v string, defBlock *ir.Block) ir.Type {
	for _, instr := range defBlock.Instrs {
		if instr.IsAssignment() && instr.Dest == v {
			return instr.Type
		}
	}
	return ir.Type{}
}

// insertPhi prepends a φ for v at block f, with one argument per
// predecessor of f (all initially named v; renaming fixes them up later).
func insertPhi(g *cfg.Graph, f, v, defBlock string) {
	preds := g.PredecessorsOf(f)
	args := make([]string, len(preds))
	for i := range args {
		args[i] = v
	}
	phi := ir.Instruction{
		Op:     "phi",
		Dest:   v,
		Type:   typeOf(v, g.Block(defBlock)),
		Args:   args,
		Labels: append([]string(nil), preds...),
	}
	block := g.Block(f)
	block.Instrs = append([]ir.Instruction{phi}, block.Instrs...)
}

// oldName strips a ".<n>" renaming suffix, leaving the original variable.
func oldName(v string) string {
	i := strings.LastIndex(v, ".")
	if i < 0 {
		return v
	}
	return v[:i]
}

// rename performs the dominator-tree pre-order renaming pass: a stack per
// variable, pushed on definition and popped when control leaves the
// subtree that pushed it. Function arguments are live on entry without any
// instruction defining them, so their stacks are seeded with their own
// name rather than starting empty.
func rename(g *cfg.Graph, tree *dom.Node, vars []string, args []ir.Param) {
	stack := map[string][]string{}
	num := map[string]int{}
	for _, v := range vars {
		stack[v] = nil
		num[v] = 0
	}
	for _, a := range args {
		stack[a.Name] = append(stack[a.Name], a.Name)
	}

	var recur func(node *dom.Node)
	recur = func(node *dom.Node) {
		block := g.Block(node.Name)
		pushed := map[string]int{}

		for i := range block.Instrs {
			instr := &block.Instrs[i]
			if instr.Op != "phi" {
				for argIdx, arg := range instr.Args {
					if top := stack[oldName(arg)]; len(top) > 0 {
						instr.Args[argIdx] = top[len(top)-1]
					}
				}
			}
			if instr.IsAssignment() {
				v := instr.Dest
				fresh := fmt.Sprintf("%s.%d", v, num[v])
				stack[v] = append(stack[v], fresh)
				pushed[v]++
				num[v]++
				instr.Dest = fresh
			}
		}

		for _, succ := range g.SuccessorsOf(node.Name) {
			for i := range g.Block(succ).Instrs {
				p := &g.Block(succ).Instrs[i]
				if p.Op != "phi" {
					continue
				}
				for argIdx, lbl := range p.Labels {
					if lbl != node.Name {
						continue
					}
					orig := oldName(p.Args[argIdx])
					if top := stack[orig]; len(top) > 0 {
						p.Args[argIdx] = top[len(top)-1]
					} else {
						p.Args[argIdx] = orig + ".undef"
					}
					break
				}
			}
		}

		for _, child := range node.Children {
			recur(child)
		}

		for v, count := range pushed {
			stack[v] = stack[v][:len(stack[v])-count]
		}
	}

	recur(tree)
}
