// Package normalizer reduces a multi-counter probabilistic program to a
// single-counter one by detecting which of the four supported reduction
// classes — Constant, Monotone, Bounded, Conditionally Bounded — the program
// belongs to, in that order, falling back to the trivial single-variable
// case when the program already has exactly one counter.
package normalizer

import (
	"pastry/internal/ast"
	perr "pastry/internal/errors"
)

// Normalized is the single-counter program a PCP reduces to, together with
// the name of its one surviving variable and the class that matched.
type Normalized struct {
	Program *ast.Program
	VarName string
	Class   string
}

// Normalize applies the class-detection cascade described by the project's
// reduction rules: annotated Bounded/CondBounded programs skip straight to
// their transform, unannotated multi-counter programs are tried against
// Constant then Monotone, and single-counter programs need no reduction at
// all.
func Normalize(prog *ast.Program) (*Normalized, error) {
	if len(prog.VariableOrder) == 0 {
		return nil, perr.New(perr.Internal, "program declares no variables")
	}
	if len(prog.VariableOrder) == 1 {
		return classify1D(prog), nil
	}

	if prog.Annotation != nil {
		switch prog.Annotation.Kind {
		case ast.AnnotationBounded:
			return convertBounded(prog, prog.Annotation)
		case ast.AnnotationCondBounded:
			return convertCondBounded(prog, prog.Annotation)
		}
	}

	if n, ok, err := tryConstant(prog); err != nil {
		return nil, err
	} else if ok {
		return n, nil
	}

	if n, ok, err := tryMonotone(prog); err != nil {
		return nil, err
	} else if ok {
		return n, nil
	}

	return nil, perr.New(perr.Unclassified,
		"program declares %d variables and matches no reduction class (no annotation present)",
		len(prog.VariableOrder))
}

func classify1D(prog *ast.Program) *Normalized {
	return &Normalized{Program: prog, VarName: prog.VariableOrder[0], Class: "1d"}
}
