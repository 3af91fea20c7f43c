package normalizer

import (
	"pastry/internal/ast"
	"pastry/internal/symbolic"
)

// zConstant is the name of the single counter a Constant-class program
// reduces to.
const zConstant = "z_ct"

// tryConstant attempts the Constant reduction: every guard that depends on
// any variable must be a single linear comparison, and all such guards must
// share the same coefficient vector (the "benchmark" coefficients) or its
// uniform negation, in which case the comparison is flipped. Every
// assignment is then rescaled by its variable's benchmark coefficient and
// folded into the single counter z_ct. Returns ok=false (no error) if the
// program does not match this shape, so the caller can fall through to the
// next class.
func tryConstant(prog *ast.Program) (*Normalized, bool, error) {
	guards := ast.Guards(prog.Body)

	constTerms := make([]int64, len(guards))
	ops := make([]symbolic.CmpOp, len(guards))
	signs := make([]int64, len(guards))
	hasFree := make([]bool, len(guards))

	var benchCoeffs map[string]int64

	for i, g := range guards {
		if len(symbolic.FreeVarsPred(g)) == 0 {
			continue
		}
		hasFree[i] = true

		cmp, ok := g.(*symbolic.Cmp)
		if !ok {
			return nil, false, nil
		}
		ops[i] = cmp.Op

		coeffs := map[string]int64{}
		constTerm, ok := linearCoeffs(&symbolic.Sub{X: cmp.X, Y: cmp.Y}, coeffs, 1)
		if !ok {
			return nil, false, nil
		}
		constTerms[i] = constTerm

		if benchCoeffs == nil {
			benchCoeffs = coeffs
			signs[i] = 1
			continue
		}
		sign, ok := matchSign(benchCoeffs, coeffs)
		if !ok {
			return nil, false, nil
		}
		signs[i] = sign
	}

	if benchCoeffs == nil {
		benchCoeffs = map[string]int64{}
	}

	for _, a := range ast.Assigns(prog.Body) {
		if _, ok := benchCoeffs[a.Name]; !ok {
			benchCoeffs[a.Name] = 0
		}
	}

	var initVal int64
	for v, c := range benchCoeffs {
		initVal += c * prog.Variables[v]
	}

	idx := 0
	tr := ast.Transform{
		Guard: func(p symbolic.Pred) symbolic.Pred {
			i := idx
			idx++
			if !hasFree[i] {
				return p
			}
			if signs[i] < 0 {
				// coeffs[i] == -benchCoeffs, so the guard's linear part is
				// -z_ct; dividing by -1 to isolate z_ct flips which side of
				// 0 it falls on, so the comparison operator flips too.
				return &symbolic.Cmp{
					Op: sideFlip(ops[i]),
					X:  &symbolic.VarRef{Name: zConstant},
					Y:  symbolic.IntConst(constTerms[i]),
				}
			}
			return &symbolic.Cmp{
				Op: ops[i],
				X:  &symbolic.VarRef{Name: zConstant},
				Y:  symbolic.IntConst(-constTerms[i]),
			}
		},
		Assign: func(a *ast.Assign) ast.Stmt {
			coeff, ok := benchCoeffs[a.Name]
			if !ok || coeff == 0 {
				return &ast.Skip{}
			}
			signed := coeff * a.Magnitude
			if !a.Positive {
				signed = -signed
			}
			if signed == 0 {
				return &ast.Skip{}
			}
			positive := signed > 0
			mag := signed
			if mag < 0 {
				mag = -mag
			}
			return &ast.Assign{Name: zConstant, Positive: positive, Magnitude: mag}
		},
	}

	newBody := tr.Block(prog.Body)
	newProg := &ast.Program{
		Variables:     map[string]int64{zConstant: initVal},
		VariableOrder: []string{zConstant},
		Body:          newBody,
	}
	return &Normalized{Program: newProg, VarName: zConstant, Class: "constant"}, true, nil
}

// sideFlip swaps a comparison's direction to compensate for multiplying both
// sides by -1 (Lt<->Gt, Le<->Ge); Eq and Ne are unaffected since "= 0" and
// "!= 0" are symmetric under negation.
func sideFlip(op symbolic.CmpOp) symbolic.CmpOp {
	switch op {
	case symbolic.Lt:
		return symbolic.Gt
	case symbolic.Le:
		return symbolic.Ge
	case symbolic.Gt:
		return symbolic.Lt
	case symbolic.Ge:
		return symbolic.Le
	default:
		return op
	}
}
