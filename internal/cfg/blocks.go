// Package cfg partitions a function's instruction stream into basic blocks
// and builds the control-flow graph over them: successors, predecessors,
// entry canonicalization, and the flatten/insert/prune operations the rest
// of the passes build on.
package cfg

import (
	"fmt"

	"birlc/internal/ir"
)

// FormBlocks splits instrs into named basic blocks: split on terminators
// and labels, assign names (a leading label becomes the block's name;
// otherwise it gets a fresh "b<k>"), and append a terminator to any block
// that doesn't already end in one.
func FormBlocks(instrs []ir.Instruction) []*ir.Block {
	raw := splitBlocks(instrs)
	named := nameBlocks(raw)
	addTerminators(named)
	return named
}

// splitBlocks groups instructions into maximal straight-line runs: a
// terminator closes the current block; a label starts a new one (closing
// the current block first if it is non-empty, so a terminator immediately
// followed by a label doesn't produce a spurious empty block).
func splitBlocks(instrs []ir.Instruction) [][]ir.Instruction {
	var blocks [][]ir.Instruction
	var cur []ir.Instruction

	for _, instr := range instrs {
		if !instr.IsLabel() {
			cur = append(cur, instr)
			if instr.IsTerminator() {
				blocks = append(blocks, cur)
				cur = nil
			}
			continue
		}
		if len(cur) > 0 {
			blocks = append(blocks, cur)
		}
		cur = []ir.Instruction{instr}
	}
	if len(cur) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks
}

// nameBlocks assigns each raw block a name: a block whose first entry is a
// label marker adopts that label (and drops the marker); otherwise it gets
// a fresh "b<k>" with k increasing across the function.
func nameBlocks(blocks [][]ir.Instruction) []*ir.Block {
	named := make([]*ir.Block, 0, len(blocks))
	nextLabelNumber := 0

	for _, block := range blocks {
		var name string
		instrs := block
		if len(block) > 0 && block[0].IsLabel() {
			name = block[0].Label
			instrs = block[1:]
		} else {
			name = fmt.Sprintf("b%d", nextLabelNumber)
			nextLabelNumber++
		}
		named = append(named, &ir.Block{Name: name, Instrs: append([]ir.Instruction(nil), instrs...)})
	}
	return named
}

// addTerminators appends a jmp to the textually next block, or a ret if
// this is the last block, to any block whose last instruction isn't
// already jmp/br/ret.
func addTerminators(blocks []*ir.Block) {
	for i, block := range blocks {
		if len(block.Instrs) > 0 && block.Instrs[len(block.Instrs)-1].IsTerminator() {
			continue
		}
		if i == len(blocks)-1 {
			block.Instrs = append(block.Instrs, ir.Instruction{Op: ir.OpRet})
			continue
		}
		next := blocks[i+1]
		block.Instrs = append(block.Instrs, ir.Instruction{Op: ir.OpJmp, Labels: []string{next.Name}})
	}
}
