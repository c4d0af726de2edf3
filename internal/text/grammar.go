package text

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Program is a textual IR document: one function per "@name(...) { ... }"
// block, in source order.
type Program struct {
	Pos       lexer.Position
	Functions []*Function `parser:"@@*"`
}

// Function mirrors ir.Function's shape at the source level: a name, typed
// formal parameters, an optional result type, and a body of labels and
// instructions.
type Function struct {
	Pos    lexer.Position
	Name   string   `parser:"\"@\" @Ident \"(\""`
	Params []*Param `parser:"[ @@ { \",\" @@ } ] \")\""`
	Result *Type    `parser:"[ \":\" @@ ]"`
	Lines  []*Line  `parser:"\"{\" @@* \"}\""`
}

// Param is one function formal, "name: type".
type Param struct {
	Pos  lexer.Position
	Name string `parser:"@Ident \":\""`
	Type Type   `parser:"@@"`
}

// Type is a Bril-style type reference: a bare name, or "ptr" applied to
// another type, written ptr(inner).
type Type struct {
	Pos  lexer.Position
	Ptr  *Type  `parser:"( \"ptr\" \"(\" @@ \")\""`
	Name string `parser:"| @Ident )"`
}

// Line is one body line: either a label definition or an instruction.
type Line struct {
	Pos   lexer.Position
	Label *string      `parser:"  \".\" @Ident \":\""`
	Instr *Instruction `parser:"| @@"`
}

// Instruction is a single textual IR statement. Dest/Type are present only
// for assignments ("dest: type = op args;"); bare operators ("ret;", "br
// cond .l1 .l2;") omit them. Args carries every operand in source order,
// whether a variable reference, a function reference ("@name"), a label
// reference (".name"), or a literal. The converter re-sorts them into
// ir.Instruction's Args/Funcs/Labels/Value fields, since which shape an
// operator expects depends on the operator, not the grammar.
type Instruction struct {
	Pos  lexer.Position
	Dest string `parser:"[ @Ident \":\""`
	Type Type   `parser:"  @@ \"=\" ]"`
	Op   string `parser:"@Ident"`
	Args []*Arg `parser:"{ @@ } \";\""`
}

// Arg is one operand of an instruction: a function reference, a label
// reference, a numeric or boolean literal, or a plain variable name.
type Arg struct {
	Pos   lexer.Position
	Func  *string  `parser:"(   \"@\" @Ident"`
	Label *string  `parser:"  | \".\" @Ident"`
	Float *float64 `parser:"  | @Float"`
	Int   *int64   `parser:"  | @Int"`
	Ident *string  `parser:"  | @Ident )"`
}
