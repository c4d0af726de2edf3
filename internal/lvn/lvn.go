// Package lvn implements local value numbering: within each basic block,
// redundant computations are rewritten to copies of the canonical
// instruction that first computed the same value, and variables that will
// be reassigned later in the block are renamed out of the way.
package lvn

import (
	"fmt"
	"sort"
	"strings"

	"birlc/internal/cfg"
	"birlc/internal/dataflow"
	"birlc/internal/ir"
)

// commutative ops are canonicalized by sorting their operand value-keys,
// so e.g. add(a,b) and add(b,a) number to the same row.
var commutative = map[string]bool{"add": true, "mul": true, "eq": true, "and": true, "or": true}

func hasSideEffect(op string) bool { return op == "call" }

// value is a canonicalized description of what an instruction computes:
// its operator (function-name-qualified for calls) and, per operand, its
// row number, or the bare variable name when the operand was defined
// outside the block.
type value struct {
	op   string
	args string
}

func makeValue(op string, operands []string) value {
	if commutative[op] {
		sorted := append([]string(nil), operands...)
		sort.Strings(sorted)
		operands = sorted
	}
	return value{op: op, args: strings.Join(operands, ",")}
}

// Run performs LVN on every block of g. When cprop is true, it also folds
// constants using the dataflow constant-propagation results, rewriting
// foldable instructions into "const" instructions.
func Run(g *cfg.Graph, cprop bool) {
	var inConsts map[string]map[string]any
	if cprop {
		inConsts = dataflow.ConstantPropagation(g).In
	}

	for _, name := range g.BlockNames() {
		block := g.Block(name)
		lvnBlock(block, cloneConsts(inConsts[name]), cprop)
	}
}

func cloneConsts(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// lvnBlock mutates block.Instrs in place.
func lvnBlock(block *ir.Block, var2const map[string]any, cprop bool) {
	rowNum := 0
	lvnNumber := 0
	val2var := map[value]string{}
	var2num := map[string]int{}
	num2var := map[int]string{}

	replaceArgsWithCanonical := func(instr *ir.Instruction) {
		for i, arg := range instr.Args {
			n, ok := var2num[arg]
			if !ok {
				continue
			}
			instr.Args[i] = num2var[n]
		}
	}

	for i := range block.Instrs {
		instr := &block.Instrs[i]
		if instr.IsLabel() {
			continue
		}
		if !instr.IsAssignment() {
			replaceArgsWithCanonical(instr)
			continue
		}

		if cprop {
			if c, ok := dataflow.Lookup(*instr, var2const); ok {
				var2const[instr.Dest] = c
				instr.Op = "const"
				instr.Value = c
				instr.Args = nil
				instr.Labels = nil
				instr.Funcs = nil
			} else {
				var2const[instr.Dest] = dataflow.Unknown{}
			}
		}

		if instr.Op == "id" && len(instr.Args) == 1 {
			arg := instr.Args[0]
			if _, known := var2num[arg]; !known && !reassignedLater(arg, block.Instrs[i:]) {
				val2var[value{op: "id", args: fmt.Sprint(rowNum)}] = arg
				var2num[arg] = rowNum
				num2var[rowNum] = arg
				rowNum++
			}
		}

		replaceArgsWithCanonical(instr)
		val := extractValue(*instr, var2num)

		var theRowNum int
		if canon, ok := val2var[val]; ok && !hasSideEffect(val.op) {
			theRowNum = var2num[canon]
			if val.op != "const" {
				instr.Op = "id"
				instr.Args = []string{canon}
				instr.Labels = nil
				instr.Funcs = nil
				instr.Value = nil
			}
		} else {
			dest := renameIfWillBeReassigned(instr.Dest, block.Instrs[i+1:], lvnNumber)
			if dest != instr.Dest {
				if cprop {
					var2const[dest] = var2const[instr.Dest]
					delete(var2const, instr.Dest)
				}
				instr.Dest = dest
				lvnNumber++
			}

			if val.op == "id" && len(instr.Args) == 1 {
				if n, ok := var2num[instr.Args[0]]; ok {
					theRowNum = n
				} else {
					theRowNum = rowNum
					rowNum++
					num2var[theRowNum] = instr.Dest
				}
			} else {
				theRowNum = rowNum
				rowNum++
				num2var[theRowNum] = instr.Dest
			}
			val2var[val] = num2var[theRowNum]
		}

		var2num[instr.Dest] = theRowNum
	}
}

// reassignedLater reports whether dest is the destination of some later
// instruction in the block.
func reassignedLater(dest string, later []ir.Instruction) bool {
	for _, instr := range later {
		if instr.IsAssignment() && instr.Dest == dest {
			return true
		}
	}
	return false
}

// renameIfWillBeReassigned peeks ahead: if instr's destination will be
// overwritten by a later instruction in this block, it's renamed to a
// fresh "<dest>.<n>" name, and every use of the old name up to and
// including the reassignment is rewritten to the new name so later
// lookups still resolve to this instruction's value.
func renameIfWillBeReassigned(dest string, laterInstrs []ir.Instruction, next int) string {
	for i, later := range laterInstrs {
		if later.IsAssignment() && later.Dest == dest {
			newName := fmt.Sprintf("%s.%d", dest, next)
			renameArgsBetween(laterInstrs[:i+1], dest, newName)
			return newName
		}
	}
	return dest
}

func renameArgsBetween(instrs []ir.Instruction, oldName, newName string) {
	for i := range instrs {
		for j, arg := range instrs[i].Args {
			if arg == oldName {
				instrs[i].Args[j] = newName
			}
		}
	}
}

// extractValue builds the canonical value description for instr, given the
// current variable-to-row-number mapping. A "const" instruction's value is
// keyed on its literal and type so a bool false and an int 0 never alias.
func extractValue(instr ir.Instruction, var2num map[string]int) value {
	if instr.Op == "const" {
		return value{op: "const", args: fmt.Sprintf("%v:%s", instr.Value, instr.Type.String())}
	}

	op := instr.Op
	if len(instr.Funcs) > 0 {
		op += instr.Funcs[0]
	}

	operands := make([]string, len(instr.Args))
	for i, arg := range instr.Args {
		if n, ok := var2num[arg]; ok {
			operands[i] = fmt.Sprint(n)
		} else {
			operands[i] = arg
		}
	}
	return makeValue(op, operands)
}
