package cfg

import (
	"fmt"

	"birlc/internal/ir"
)

// Graph owns a function's basic blocks plus the successor/predecessor
// relation over them. Block order is insertion order, which doubles as
// program order: the first block is the entry, the last is the exit.
type Graph struct {
	blocks       *ir.OrderedMap[*ir.Block]
	successors   map[string][]string
	predecessors map[string][]string
}

// New runs the block former over instrs, computes successors/predecessors,
// and canonicalizes the entry block (see entryIsolated).
func New(instrs []ir.Instruction) *Graph {
	return FromBlocks(FormBlocks(instrs))
}

// FromBlocks builds a Graph over an already-named sequence of blocks
// (program order = slice order), skipping the block-forming step. This is
// what the `cfg` CLI command uses to build a graph from a prior `blocks`
// section instead of re-splitting the function's raw instruction stream.
func FromBlocks(blocks []*ir.Block) *Graph {
	g := &Graph{
		blocks:       ir.NewOrderedMap[*ir.Block](),
		successors:   make(map[string][]string),
		predecessors: make(map[string][]string),
	}
	for _, b := range blocks {
		g.blocks.Set(b.Name, b)
	}

	for _, name := range g.blocks.Keys() {
		g.successors[name] = g.computeSuccessors(name)
		g.predecessors[name] = nil
	}
	for _, name := range g.blocks.Keys() {
		for _, succ := range g.successors[name] {
			g.predecessors[succ] = append(g.predecessors[succ], name)
		}
	}

	g.isolateEntry()
	return g
}

// computeSuccessors derives the successor list for a block from its
// terminator: jmp/br use their label targets, ret has none, and a
// non-terminating fallthrough (shouldn't occur post block-formation, but
// handled defensively) targets the textually next block.
func (g *Graph) computeSuccessors(name string) []string {
	block, _ := g.blocks.Get(name)
	last := block.Last()
	if last == nil {
		return nil
	}
	switch last.Op {
	case ir.OpJmp, ir.OpBr:
		return append([]string(nil), last.Labels...)
	case ir.OpRet:
		return nil
	default:
		keys := g.blocks.Keys()
		for i, k := range keys {
			if k == name && i+1 < len(keys) {
				return []string{keys[i+1]}
			}
		}
		return nil
	}
}

// isolateEntry prepends a synthetic entry block if the current entry has
// predecessors: the entry block must have none. The synthetic block is
// named "entry.1", or the first "entry.<n>" variant not already taken by
// a user label.
func (g *Graph) isolateEntry() {
	if g.blocks.Len() == 0 {
		return
	}
	entry := g.blocks.Keys()[0]
	if len(g.predecessors[entry]) == 0 {
		return
	}

	name := "entry.1"
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("entry.%d", n)
		if _, exists := g.blocks.Get(candidate); !exists {
			name = candidate
			break
		}
	}

	block := &ir.Block{Name: name, Instrs: []ir.Instruction{{Op: ir.OpJmp, Labels: []string{entry}}}}
	g.blocks.Set(name, block)
	g.blocks.MoveToFront(name)
	g.successors[name] = []string{entry}
	g.predecessors[name] = nil
	g.predecessors[entry] = append(g.predecessors[entry], name)
}

// Entry returns the name of the entry block (first in order).
func (g *Graph) Entry() string {
	if g.blocks.Len() == 0 {
		return ""
	}
	return g.blocks.Keys()[0]
}

// Exit returns the name of the exit block (last in order).
func (g *Graph) Exit() string {
	keys := g.blocks.Keys()
	if len(keys) == 0 {
		return ""
	}
	return keys[len(keys)-1]
}

// BlockNames returns block names in program order.
func (g *Graph) BlockNames() []string {
	return g.blocks.Keys()
}

// Block returns the named block, or nil if it doesn't exist.
func (g *Graph) Block(name string) *ir.Block {
	b, _ := g.blocks.Get(name)
	return b
}

// SuccessorsOf returns the successor block names of name.
func (g *Graph) SuccessorsOf(name string) []string {
	return g.successors[name]
}

// PredecessorsOf returns the predecessor block names of name.
func (g *Graph) PredecessorsOf(name string) []string {
	return g.predecessors[name]
}

// Flatten emits the graph's blocks as a flat instruction list, each block
// preceded by a label marker carrying its name.
func (g *Graph) Flatten() []ir.Instruction {
	var out []ir.Instruction
	for _, name := range g.blocks.Keys() {
		block, _ := g.blocks.Get(name)
		out = append(out, ir.Instruction{Label: name})
		out = append(out, block.Instrs...)
	}
	return out
}

// InsertBetween creates a new block named "b.<pred>.<succ>" containing
// instrs plus a terminating jmp to succ, retargets pred's terminator from
// succ to the new block, and wires up the new block's successor/predecessor
// entries. It returns the new block's name.
//
// pred must currently have succ as a successor (via a jmp or br target);
// InsertBetween rewrites exactly the label(s) that equal succ.
func (g *Graph) InsertBetween(pred, succ string, instrs []ir.Instruction) string {
	name := fmt.Sprintf("b.%s.%s", pred, succ)

	body := append(append([]ir.Instruction(nil), instrs...), ir.Instruction{Op: ir.OpJmp, Labels: []string{succ}})
	block := &ir.Block{Name: name, Instrs: body}
	g.blocks.Set(name, block)

	predBlock, _ := g.blocks.Get(pred)
	last := predBlock.Last()
	for i, lbl := range last.Labels {
		if lbl == succ {
			last.Labels[i] = name
		}
	}

	g.successors[name] = []string{succ}
	g.predecessors[name] = []string{pred}

	newPredSuccessors := make([]string, 0, len(g.successors[pred]))
	for _, s := range g.successors[pred] {
		if s == succ {
			newPredSuccessors = append(newPredSuccessors, name)
		} else {
			newPredSuccessors = append(newPredSuccessors, s)
		}
	}
	g.successors[pred] = newPredSuccessors

	var newSuccPredecessors []string
	for _, p := range g.predecessors[succ] {
		if p == pred {
			continue
		}
		newSuccPredecessors = append(newSuccPredecessors, p)
	}
	g.predecessors[succ] = append(newSuccPredecessors, name)

	return name
}

// RemoveUnreachableBlocks keeps only blocks reachable from the entry by
// forward traversal of successors, re-deriving predecessors from what
// remains. Returns the set of removed block names.
func (g *Graph) RemoveUnreachableBlocks() []string {
	reachable := map[string]bool{}
	var visit func(name string)
	visit = func(name string) {
		if reachable[name] {
			return
		}
		reachable[name] = true
		for _, s := range g.successors[name] {
			visit(s)
		}
	}
	if g.blocks.Len() > 0 {
		visit(g.Entry())
	}

	var removed []string
	kept := ir.NewOrderedMap[*ir.Block]()
	for _, name := range g.blocks.Keys() {
		if reachable[name] {
			b, _ := g.blocks.Get(name)
			kept.Set(name, b)
		} else {
			removed = append(removed, name)
		}
	}
	g.blocks = kept

	newSucc := make(map[string][]string, kept.Len())
	newPred := make(map[string][]string, kept.Len())
	for _, name := range kept.Keys() {
		var succs []string
		for _, s := range g.successors[name] {
			if reachable[s] {
				succs = append(succs, s)
			}
		}
		newSucc[name] = succs
		newPred[name] = nil
	}
	for _, name := range kept.Keys() {
		for _, s := range newSucc[name] {
			newPred[s] = append(newPred[s], name)
		}
	}
	g.successors = newSucc
	g.predecessors = newPred

	return removed
}
