// Package text implements the human-writable textual IR surface: a
// line-oriented syntax that round-trips with the JSON wire format (the
// bril2txt/bril2json pairing every Bril-family toolchain ships). It exists
// alongside internal/ir's JSON codec, not in place of it.
package text

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes the textual IR surface: functions introduced with "@",
// labels introduced with ".", assignments written "dest: type = op args;",
// and bare-operator instructions written "op args;".
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Comment", Pattern: `#[^\n]*`, Action: nil},
		{Name: "Float", Pattern: `[0-9]+\.[0-9]+`, Action: nil},
		{Name: "Int", Pattern: `-?[0-9]+`, Action: nil},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Action: nil},
		{Name: "Punct", Pattern: `[:;,(){}=@.]`, Action: nil},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`, Action: nil},
	},
})
