package ssa

import (
	"fmt"
	"strings"

	"birlc/internal/cfg"
	"birlc/internal/ir"
)

// copy is a single assignment `dest = src` that must run on a
// predecessor-to-join edge to replace a φ argument.
type copy struct {
	Dest string
	Src  string
	Type ir.Type
}

// FromSSA destroys SSA form: every φ is replaced by a copy on each
// incoming edge, and φ arguments ending in ".undef" (no reaching definition
// on that path) are dropped rather than copied. Copies that would form a
// read-after-write cycle on an edge are sequentialized with a temporary
// variable rather than discarded, so no live value is silently lost.
func FromSSA(g *cfg.Graph) {
	tmpCounter := 0
	freshTemp := func(base string) string {
		tmpCounter++
		return fmt.Sprintf("%s.ssa_tmp.%d", base, tmpCounter)
	}

	for _, f := range g.BlockNames() {
		block := g.Block(f)
		var phis []ir.Instruction
		rest := block.Instrs[:0:0]
		for _, instr := range block.Instrs {
			if instr.Op == "phi" {
				phis = append(phis, instr)
			} else {
				rest = append(rest, instr)
			}
		}
		block.Instrs = rest
		if len(phis) == 0 {
			continue
		}

		byPred := map[string][]copy{}
		var predOrder []string
		for _, phi := range phis {
			for i, pred := range phi.Labels {
				src := phi.Args[i]
				if strings.HasSuffix(src, ".undef") {
					continue
				}
				if _, seen := byPred[pred]; !seen {
					predOrder = append(predOrder, pred)
				}
				byPred[pred] = append(byPred[pred], copy{Dest: phi.Dest, Src: src, Type: phi.Type})
			}
		}

		for _, pred := range predOrder {
			instrs := sequentialize(byPred[pred], freshTemp)
			g.InsertBetween(pred, f, instrs)
		}
	}
}

// sequentialize orders a set of parallel copies (all executing "at once"
// conceptually) into a valid sequential instruction list: a copy runs only
// once nothing still needs the old value of its destination. Copies that
// form a cycle (a chain of dests feeding back to a live source) are broken
// by first saving the cycle's entry value into a fresh temporary, so every
// value in the cycle is preserved instead of one being dropped.
func sequentialize(copies []copy, freshTemp func(string) string) []ir.Instruction {
	pending := make(map[string]copy, len(copies))
	order := make([]string, 0, len(copies))
	demand := map[string]int{}
	for _, c := range copies {
		pending[c.Dest] = c
		order = append(order, c.Dest)
		demand[c.Src]++
	}

	var result []ir.Instruction
	emit := func(c copy) {
		result = append(result, ir.Instruction{Op: "id", Dest: c.Dest, Type: c.Type, Args: []string{c.Src}})
	}

	var ready []string
	for _, d := range order {
		if demand[d] == 0 {
			ready = append(ready, d)
		}
	}

	for len(pending) > 0 {
		for len(ready) > 0 {
			d := ready[len(ready)-1]
			ready = ready[:len(ready)-1]
			c, ok := pending[d]
			if !ok {
				continue
			}
			emit(c)
			delete(pending, d)
			demand[c.Src]--
			if demand[c.Src] == 0 {
				if _, stillPending := pending[c.Src]; stillPending {
					ready = append(ready, c.Src)
				}
			}
		}
		if len(pending) == 0 {
			break
		}

		// Every remaining copy is part of a cycle: its dest is still
		// wanted by another pending copy. Break one cycle by saving
		// the chosen dest's current value to a temp, redirecting
		// every copy that reads it to the temp instead.
		var stuck string
		for _, d := range order {
			if _, ok := pending[d]; ok {
				stuck = d
				break
			}
		}

		tmp := freshTemp(stuck)
		result = append(result, ir.Instruction{Op: "id", Dest: tmp, Type: pending[stuck].Type, Args: []string{stuck}})
		moved := 0
		for d, c := range pending {
			if c.Src == stuck {
				c.Src = tmp
				pending[d] = c
				moved++
			}
		}
		demand[tmp] = moved
		demand[stuck] = 0
		ready = append(ready, stuck)
	}

	return result
}
