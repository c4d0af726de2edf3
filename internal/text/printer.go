package text

import (
	"fmt"
	"strconv"
	"strings"

	"birlc/internal/ir"
)

// Print renders a program in the textual IR surface, the inverse of Parse.
func Print(prog *ir.Program) string {
	var b strings.Builder
	for i, fn := range prog.Functions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(PrintFunction(fn))
	}
	return b.String()
}

// PrintFunction renders a single function.
func PrintFunction(fn *ir.Function) string {
	var b strings.Builder
	b.WriteString("@" + fn.Name + "(")
	for i, p := range fn.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name + ": " + printType(p.Type))
	}
	b.WriteString(")")
	b.WriteString(" {\n")
	for _, instr := range fn.Instrs {
		b.WriteString(printLine(instr))
	}
	b.WriteString("}\n")
	return b.String()
}

func printType(t ir.Type) string {
	if t.Ptr != nil {
		return "ptr(" + printType(*t.Ptr) + ")"
	}
	return t.Name
}

func printLine(instr ir.Instruction) string {
	if instr.IsLabel() {
		return fmt.Sprintf(".%s:\n", instr.Label)
	}

	var b strings.Builder
	b.WriteString("  ")
	if instr.Dest != "" {
		b.WriteString(instr.Dest + ": " + printType(instr.Type) + " = ")
	}
	b.WriteString(instr.Op)

	if instr.Op == "const" {
		b.WriteString(" " + printLiteral(instr.Value))
	} else {
		for _, f := range instr.Funcs {
			b.WriteString(" @" + f)
		}
		for _, l := range instr.Labels {
			b.WriteString(" ." + l)
		}
		for _, a := range instr.Args {
			b.WriteString(" " + a)
		}
	}
	b.WriteString(";\n")
	return b.String()
}

func printLiteral(v any) string {
	switch val := v.(type) {
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
