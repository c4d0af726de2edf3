package dataflow

import (
	"birlc/internal/cfg"
	"birlc/internal/ir"
)

// Unknown is the constant-propagation lattice's bottom-of-knowledge
// marker: a variable known to not hold a single constant value.
type Unknown struct{}

// ConstantPropagation computes, for each block, which variables are known
// to hold a compile-time constant at its entry and exit. It's a forward
// analysis; predecessor values are merged by per-name agreement: a name
// missing from some predecessor map is fine as long as every predecessor
// that does mention it agrees on the value.
func ConstantPropagation(g *cfg.Graph) Result[map[string]any] {
	solver := Solver[map[string]any]{
		Direction: Forward,
		Init:      func() map[string]any { return map[string]any{} },
		Merge:     mergeConstants,
		Equal:     constMapsEqual,
		Transfer:  constantOut,
	}
	return solver.Solve(g)
}

// mergeConstants merges a set of predecessor constant maps: a name present
// in only one map keeps that map's value; a name present in several maps
// with disagreeing values becomes Unknown.
func mergeConstants(maps []map[string]any) map[string]any {
	res := map[string]any{}
	for _, m := range maps {
		for k, v := range m {
			existing, ok := res[k]
			if !ok {
				res[k] = v
			} else if !constEqual(existing, v) {
				res[k] = Unknown{}
			}
		}
	}
	return res
}

func constEqual(a, b any) bool {
	if _, ok := a.(Unknown); ok {
		return false
	}
	if _, ok := b.(Unknown); ok {
		return false
	}
	return a == b
}

func constMapsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		_, aUnknown := v.(Unknown)
		_, bUnknown := bv.(Unknown)
		if aUnknown != bUnknown {
			return false
		}
		if !aUnknown && v != bv {
			return false
		}
	}
	return true
}

// constantOut walks the block in order, tracking known constant values:
// "const" assigns its literal, "id" of a known-constant source propagates
// it, a foldable operator with all-constant operands folds to a value, and
// anything else marks its destination Unknown.
func constantOut(b *ir.Block, in map[string]any) map[string]any {
	vars := make(map[string]any, len(in))
	for k, v := range in {
		vars[k] = v
	}

	for _, instr := range b.Instrs {
		if !instr.IsAssignment() {
			continue
		}
		switch {
		case instr.Op == "const":
			vars[instr.Dest] = instr.Value
		case instr.Op == "id" && len(instr.Args) == 1 && isKnownConstant(vars, instr.Args[0]):
			vars[instr.Dest] = vars[instr.Args[0]]
		default:
			if v, ok := fold(instr, vars); ok {
				vars[instr.Dest] = v
			} else {
				vars[instr.Dest] = Unknown{}
			}
		}
	}
	return vars
}

// Lookup attempts to resolve instr's result to a constant given the
// current var2const mapping, without mutating it. It reports ok=false when
// the instruction's result isn't known to be constant.
func Lookup(instr ir.Instruction, vars map[string]any) (any, bool) {
	switch {
	case instr.Op == "const":
		return instr.Value, true
	case instr.Op == "id" && len(instr.Args) == 1:
		if isKnownConstant(vars, instr.Args[0]) {
			return vars[instr.Args[0]], true
		}
		return nil, false
	default:
		return fold(instr, vars)
	}
}

func isKnownConstant(vars map[string]any, name string) bool {
	v, ok := vars[name]
	if !ok {
		return false
	}
	_, unknown := v.(Unknown)
	return !unknown
}

// foldableOps names the operators fold understands: arithmetic,
// comparison, and logic.
var foldableOps = map[string]bool{
	"add": true, "mul": true, "sub": true, "div": true,
	"eq": true, "lt": true, "gt": true, "le": true, "ge": true,
	"not": true, "and": true, "or": true,
}

// fold attempts to compute instr's result from known constant operands. It
// reports ok=false when the instruction isn't a foldable operator, or
// folding needs more constant information than is available.
func fold(instr ir.Instruction, vars map[string]any) (any, bool) {
	if !foldableOps[instr.Op] {
		return nil, false
	}

	vals := make([]any, len(instr.Args))
	for i, arg := range instr.Args {
		if isKnownConstant(vars, arg) {
			vals[i] = vars[arg]
		} else {
			vals[i] = Unknown{}
		}
	}

	switch instr.Op {
	case "eq", "lt", "gt", "le", "ge":
		if len(instr.Args) == 2 && instr.Args[0] == instr.Args[1] {
			switch instr.Op {
			case "eq", "le", "ge":
				return true, true
			default:
				return false, true
			}
		}
	case "and":
		if isFalse(vals, 0) || isFalse(vals, 1) {
			return false, true
		}
	case "or":
		if isTrue(vals, 0) || isTrue(vals, 1) {
			return true, true
		}
	case "div":
		if len(vals) == 2 {
			if v, ok := vals[1].(int64); ok && v == 0 {
				return nil, false
			}
		}
	}

	for _, v := range vals {
		if _, unknown := v.(Unknown); unknown {
			return nil, false
		}
	}
	return evalOp(instr.Op, vals)
}

func isFalse(vals []any, i int) bool {
	return i < len(vals) && vals[i] == false
}

func isTrue(vals []any, i int) bool {
	return i < len(vals) && vals[i] == true
}

// evalOp computes the concrete result of a fully-constant foldable
// instruction.
func evalOp(op string, vals []any) (any, bool) {
	switch op {
	case "add", "mul", "sub", "div":
		a, aok := vals[0].(int64)
		b, bok := vals[1].(int64)
		if !aok || !bok {
			return nil, false
		}
		switch op {
		case "add":
			return a + b, true
		case "mul":
			return a * b, true
		case "sub":
			return a - b, true
		case "div":
			return a / b, true
		}
	case "eq", "lt", "gt", "le", "ge":
		a, aok := vals[0].(int64)
		b, bok := vals[1].(int64)
		if !aok || !bok {
			return nil, false
		}
		switch op {
		case "eq":
			return a == b, true
		case "lt":
			return a < b, true
		case "gt":
			return a > b, true
		case "le":
			return a <= b, true
		case "ge":
			return a >= b, true
		}
	case "not":
		a, ok := vals[0].(bool)
		if !ok {
			return nil, false
		}
		return !a, true
	case "and":
		a, aok := vals[0].(bool)
		b, bok := vals[1].(bool)
		if !aok || !bok {
			return nil, false
		}
		return a && b, true
	case "or":
		a, aok := vals[0].(bool)
		b, bok := vals[1].(bool)
		if !aok || !bok {
			return nil, false
		}
		return a || b, true
	}
	return nil, false
}
