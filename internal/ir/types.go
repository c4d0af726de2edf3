// Package ir defines the instruction-based intermediate representation that
// every pass in this module operates on: functions, instructions, and the
// handful of predicates ("is this a label?", "is this a terminator?") that
// downstream passes rely on without needing to know every operator.
package ir

import "fmt"

// Terminators are the only operators allowed to end a block.
const (
	OpJmp = "jmp"
	OpBr  = "br"
	OpRet = "ret"
)

// terminators is the membership set used by IsTerminator and the block
// former; kept as a map so new terminators (there are none planned) stay a
// one-line change.
var terminators = map[string]bool{OpJmp: true, OpBr: true, OpRet: true}

// Type is a Bril-style type: either a bare name ("int", "bool") or a pointer
// to another type ({"ptr": <type>}). Exactly one of Name or Ptr is set.
type Type struct {
	Name string
	Ptr  *Type
}

func (t Type) String() string {
	if t.Ptr != nil {
		return fmt.Sprintf("ptr<%s>", t.Ptr.String())
	}
	return t.Name
}

// IsZero reports whether the type was never set (an instruction with no
// "type" field, e.g. a ret or a call with no result).
func (t Type) IsZero() bool {
	return t.Name == "" && t.Ptr == nil
}

// Param is a function formal argument.
type Param struct {
	Name string
	Type Type
}

// Instruction is a heterogeneous IR record: either a label marker (only
// Label is set) or an operation (Op is set, every other field optional
// depending on the operator). Passes that don't care about a given op
// leave the fields they don't touch untouched.
type Instruction struct {
	Op     string
	Label  string
	Dest   string
	Type   Type
	Args   []string
	Labels []string
	Funcs  []string
	Value  any
}

// IsLabel reports whether this record is a label marker rather than an
// operation.
func (i Instruction) IsLabel() bool {
	return i.Op == "" && i.Label != ""
}

// IsTerminator reports whether this instruction ends a basic block.
func (i Instruction) IsTerminator() bool {
	return terminators[i.Op]
}

// IsAssignment reports whether this instruction produces a value (has a
// destination variable).
func (i Instruction) IsAssignment() bool {
	return i.Dest != ""
}

// Block is an ordered, label-free sequence of instructions. The block
// former guarantees the last instruction is a terminator; the CFG owns
// Block values once constructed from a function body.
type Block struct {
	Name   string
	Instrs []Instruction
}

// Last returns the block's terminator; callers may assume it is non-nil
// on any block produced by the block former.
func (b *Block) Last() *Instruction {
	if len(b.Instrs) == 0 {
		return nil
	}
	return &b.Instrs[len(b.Instrs)-1]
}

// Function is a single IR function: a name, its formal parameters, and a
// body. Before CFG construction the body lives in Instrs (the raw linear
// instruction stream); after `blocks`/`cfg` passes run, Blocks and the CFG
// sections hold the structured form.
type Function struct {
	Name   string
	Args   []Param
	Instrs []Instruction

	// Blocks is populated by the `blocks` CLI command; nil otherwise.
	Blocks *OrderedMap[[]Instruction]
	// CFG is populated by the `cfg` CLI command; requires Blocks. nil
	// otherwise.
	CFG *OrderedMap[[]string]
}

// Program is an ordered list of functions.
type Program struct {
	Functions []*Function
}
