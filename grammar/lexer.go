package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// MuCLexer tokenizes the toy grammar's input. Modeled directly on the
// teacher's KansoLexer (grammar/lexer.go): a flat stateful rule list,
// keywords left as plain Ident tokens and matched by literal text in
// the grammar tags rather than given their own token kind.
var MuCLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},

		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `0x[0-9a-fA-F]+|[0-9]+`, nil},
		{"String", `"(\\.|[^"\\])*"`, nil},

		{"Operator", `(==|!=|<=|>=|&&|\|\||\+\+|--|[-+*/%<>=&])`, nil},
		{"Punctuation", `[{}()\[\];,]`, nil},

		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
