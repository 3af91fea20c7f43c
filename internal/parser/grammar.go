// Package parser turns PCP source text into an internal/ast.Program. The
// surface grammar is parsed with a participle stateful lexer and struct-tag
// grammar, the same combination the example compiler this project grew out
// of uses for its own source language.
package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// pcpLexer tokenizes declarations, statements, and guard expressions.
var pcpLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `#[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `[0-9]+`, nil},
		{"Operator", `(:=|!=|<=|>=|[=<>+\-*/,])`, nil},
		{"Punct", `[{}()\[\];]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

// grammarProgram is the top-level parse tree: variable declarations followed
// by the statement sequence.
type grammarProgram struct {
	Pos   lexer.Position
	Decls []*grammarDecl `@@*`
	Stmts []*grammarStmt `@@*`
}

type grammarDecl struct {
	Pos   lexer.Position
	Name  string      `"int" @Ident "="`
	Value *grammarInt `@@ ";"`
}

type grammarInt struct {
	Pos  lexer.Position
	Neg  bool   `@"-"?`
	Text string `@Integer`
}

type grammarStmt struct {
	Pos    lexer.Position
	Choice *grammarChoice `( @@`
	If     *grammarIf     `| @@`
	While  *grammarWhile  `| @@`
	Skip   *grammarSkip   `| @@`
	Assign *grammarAssign `| @@ )`
}

type grammarSkip struct {
	Pos lexer.Position
	_   string `"skip" ";"`
}

type grammarAssign struct {
	Pos   lexer.Position
	Name  string      `@Ident ":="`
	Same  string      `@Ident`
	Sign  string      `@("+" | "-")`
	Mag   *grammarInt `@@ ";"`
}

type grammarIf struct {
	Pos   lexer.Position
	Guard *grammarGuard  `"if" "(" @@ ")" "{"`
	Then  []*grammarStmt `@@* "}"`
	Else  []*grammarStmt `( "else" "{" @@* "}" )?`
}

type grammarWhile struct {
	Pos   lexer.Position
	Guard *grammarGuard  `"while" "(" @@ ")" "{"`
	Body  []*grammarStmt `@@* "}"`
}

type grammarChoice struct {
	Pos  lexer.Position
	Then []*grammarStmt `"{" @@* "}"`
	Num  string         `"[" @Integer "/"`
	Den  string         `@Integer "]"`
	Else []*grammarStmt `"{" @@* "}"`
}

// --- Guards: or > and > not > comparison > additive > multiplicative > unary > primary ---

type grammarGuard struct {
	Pos lexer.Position
	Or  *grammarOr `@@`
}

type grammarOr struct {
	Pos   lexer.Position
	Left  *grammarAnd     `@@`
	Rest  []*grammarOrTail `@@*`
}

type grammarOrTail struct {
	Pos   lexer.Position
	_     string      `"or"`
	Right *grammarAnd `@@`
}

type grammarAnd struct {
	Pos  lexer.Position
	Left *grammarNot      `@@`
	Rest []*grammarAndTail `@@*`
}

type grammarAndTail struct {
	Pos   lexer.Position
	_     string      `"and"`
	Right *grammarNot `@@`
}

type grammarNot struct {
	Pos  lexer.Position
	Nots []string        `@"not"*`
	Atom *grammarGuardAtom `@@`
}

type grammarGuardAtom struct {
	Pos   lexer.Position
	Paren *grammarGuard    `( "(" @@ ")"`
	Bool  *string          `| @("true" | "false")`
	Cmp   *grammarCompare  `| @@ )`
}

type grammarCompare struct {
	Pos   lexer.Position
	Left  *grammarArith `@@`
	Op    string        `@("!=" | "<=" | ">=" | "=" | "<" | ">")`
	Right *grammarArith `@@`
}

type grammarArith struct {
	Pos  lexer.Position
	Left *grammarTerm      `@@`
	Rest []*grammarAddTail `@@*`
}

type grammarAddTail struct {
	Pos   lexer.Position
	Op    string       `@("+" | "-")`
	Right *grammarTerm `@@`
}

type grammarTerm struct {
	Pos  lexer.Position
	Left *grammarFactor    `@@`
	Rest []*grammarMulTail `@@*`
}

type grammarMulTail struct {
	Pos   lexer.Position
	Op    string         `@"*"`
	Right *grammarFactor `@@`
}

type grammarFactor struct {
	Pos     lexer.Position
	Neg     bool             `@"-"?`
	Primary *grammarPrimary `@@`
}

type grammarPrimary struct {
	Pos    lexer.Position
	Int    *string          `( @Integer`
	DivMod *grammarDivMod   `| @@`
	Ident  *string          `| @Ident`
	Paren  *grammarArith    `| "(" @@ ")" )`
}

type grammarDivMod struct {
	Pos  lexer.Position
	Kind string        `@("DIV" | "MOD") "("`
	X    *grammarArith `@@ ","`
	Y    *grammarArith `@@ ")"`
}
