package text

import (
	"fmt"

	"github.com/alecthomas/participle/v2"

	"birlc/internal/errors"
	"birlc/internal/ir"
)

var textParser = participle.MustBuild[Program](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
)

// Parse parses a textual IR source document into an ir.Program.
func Parse(filename, source string) (*ir.Program, error) {
	ast, err := textParser.ParseString(filename, source)
	if err != nil {
		return nil, convertParseError(filename, source, err)
	}

	prog := &ir.Program{}
	for _, fn := range ast.Functions {
		converted, err := convertFunction(fn)
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, converted)
	}
	return prog, nil
}

// convertParseError turns a participle error into the toolchain's own
// CompilerError so text-surface syntax errors render with the same
// caret-style formatting as every other diagnostic.
func convertParseError(filename, source string, err error) error {
	pe, ok := err.(participle.Error)
	if !ok {
		return err
	}
	pos := pe.Position()
	cerr := errors.TextSyntaxError(pe.Message(), errors.Position{Line: pos.Line, Column: pos.Column})
	reporter := errors.NewErrorReporter(filename, source)
	return fmt.Errorf("%s", reporter.FormatError(cerr))
}

func convertFunction(fn *Function) (*ir.Function, error) {
	out := &ir.Function{Name: fn.Name}
	for _, p := range fn.Params {
		out.Args = append(out.Args, ir.Param{Name: p.Name, Type: convertType(p.Type)})
	}

	for _, line := range fn.Lines {
		if line.Label != nil {
			out.Instrs = append(out.Instrs, ir.Instruction{Label: *line.Label})
			continue
		}
		instr, err := convertInstruction(fn.Name, len(out.Instrs), line.Instr)
		if err != nil {
			return nil, err
		}
		out.Instrs = append(out.Instrs, instr)
	}
	return out, nil
}

func convertType(t Type) ir.Type {
	if t.Ptr != nil {
		inner := convertType(*t.Ptr)
		return ir.Type{Ptr: &inner}
	}
	return ir.Type{Name: t.Name}
}

// convertInstruction sorts a statement's generic operand list into
// ir.Instruction's Args/Funcs/Labels/Value fields. Which shape applies is a
// property of the operator, not of the grammar, so the parser stays
// operator-agnostic and interpretation lives with the consumer.
func convertInstruction(function string, index int, src *Instruction) (ir.Instruction, error) {
	out := ir.Instruction{Op: src.Op, Dest: src.Dest}
	if src.Dest != "" {
		out.Type = convertType(src.Type)
	}

	if src.Op == "const" {
		if len(src.Args) != 1 {
			return ir.Instruction{}, errors.MalformedInstruction(function, index, "const", "value")
		}
		out.Value = literalValue(src.Args[0])
		return out, nil
	}

	for _, arg := range src.Args {
		switch {
		case arg.Func != nil:
			out.Funcs = append(out.Funcs, *arg.Func)
		case arg.Label != nil:
			out.Labels = append(out.Labels, *arg.Label)
		case arg.Ident != nil:
			out.Args = append(out.Args, *arg.Ident)
		case arg.Int != nil:
			out.Args = append(out.Args, fmt.Sprintf("%d", *arg.Int))
		case arg.Float != nil:
			out.Args = append(out.Args, fmt.Sprintf("%g", *arg.Float))
		}
	}
	return out, nil
}

func literalValue(arg *Arg) any {
	switch {
	case arg.Float != nil:
		return *arg.Float
	case arg.Int != nil:
		return *arg.Int
	case arg.Ident != nil:
		switch *arg.Ident {
		case "true":
			return true
		case "false":
			return false
		default:
			return *arg.Ident
		}
	default:
		return nil
	}
}
