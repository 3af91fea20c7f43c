package parser

import (
	"github.com/alecthomas/participle/v2"

	"pastry/internal/ast"
	perr "pastry/internal/errors"
)

var pcpParser = participle.MustBuild[grammarProgram](
	participle.Lexer(pcpLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(5),
)

// ParseString parses a PCP program from source text, returning a fully
// built ast.Program with its annotation (if any) attached.
func ParseString(name, source string) (*ast.Program, error) {
	stripped, inner, hasAnnotation := stripAnnotation(source)

	g, err := pcpParser.ParseString(name, stripped)
	if err != nil {
		if pe, ok := err.(participle.Error); ok {
			pos := pe.Position()
			return nil, perr.AtPosition(perr.Position{Line: pos.Line, Column: pos.Column}, "%s", pe.Message())
		}
		return nil, perr.Wrap(err, "parse failed")
	}

	prog, err := buildProgram(g)
	if err != nil {
		return nil, err
	}

	if hasAnnotation {
		ann, err := parseAnnotation(inner)
		if err != nil {
			return nil, err
		}
		prog.Annotation = ann
	}
	return prog, nil
}
