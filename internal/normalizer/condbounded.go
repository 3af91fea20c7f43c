package normalizer

import (
	"pastry/internal/ast"
	perr "pastry/internal/errors"
	"pastry/internal/symbolic"
)

// convertCondBounded implements the Conditionally Bounded reduction: each
// declared variable v co-moves with a central variable c according to the
// invariant A*v = B*c + C + r with |r| <= D. Rewriting the program in terms
// of the bounded remainder r (instead of v) turns v's guards and updates
// into expressions over r and c, after which the program has exactly the
// shape Bounded already knows how to pack into one counter, with c playing
// the role of the unbounded central variable.
func convertCondBounded(prog *ast.Program, ann *ast.Annotation) (*Normalized, error) {
	central := ann.Central
	if _, ok := prog.Variables[central]; !ok {
		return nil, perr.New(perr.Unclassified, "CondBounded annotation's central variable %q is not declared", central)
	}

	specs := map[string]ast.CondBoundedVar{}
	for _, cv := range ann.CondBounded {
		if cv.A == 0 {
			return nil, perr.New(perr.Unclassified, "CondBounded annotation: variable %q has coefficient A=0", cv.Name)
		}
		specs[cv.Name] = cv
	}

	remName := func(name string) string { return name + "$r" }

	substExpr := func(name string) symbolic.Expr {
		s := specs[name]
		num := &symbolic.Add{
			X: &symbolic.Add{X: &symbolic.Mul{X: symbolic.IntConst(s.B), Y: &symbolic.VarRef{Name: central}}, Y: symbolic.IntConst(s.C)},
			Y: &symbolic.VarRef{Name: remName(name)},
		}
		return &symbolic.Div{X: num, Y: symbolic.IntConst(s.A)}
	}

	subst := map[string]symbolic.Expr{}
	for _, cv := range ann.CondBounded {
		subst[cv.Name] = substExpr(cv.Name)
	}

	tr := ast.Transform{
		Guard: func(p symbolic.Pred) symbolic.Pred {
			return symbolic.SubstitutePred(p, subst)
		},
		Assign: func(a *ast.Assign) ast.Stmt {
			if s, ok := specs[a.Name]; ok {
				return &ast.Assign{Name: remName(a.Name), Positive: a.Positive, Magnitude: a.Magnitude * s.A}
			}
			if a.Name == central {
				return coUpdateBlock(a, ann.CondBounded, remName)
			}
			return a
		},
	}

	newBody := tr.Block(prog.Body)

	newVars := map[string]int64{central: prog.Variables[central]}
	var varOrder []string
	var boundedSpecs []ast.BoundedVar
	for _, cv := range ann.CondBounded {
		r := remName(cv.Name)
		init := prog.Variables[cv.Name]
		newVars[r] = cv.A*init - cv.B*prog.Variables[central] - cv.C
		varOrder = append(varOrder, r)
		boundedSpecs = append(boundedSpecs, ast.BoundedVar{Name: r, Lo: -cv.D, Hi: cv.D})
	}

	intermediate := &ast.Program{Variables: newVars, VariableOrder: append(varOrder, central), Body: newBody}

	slots, order, place := buildSlotsAndPlace(boundedSpecs)
	return convertBoundedCore(intermediate, slots, order, central, true, place)
}

// coUpdateBlock expands an assignment to the central variable into the
// central update itself plus every other variable's compensating remainder
// update: since r_v = A_v*v - B_v*central - C_v, a change of delta to
// central shifts r_v by -B_v*delta. The result is a Seq so Transform.Block
// can splice every generated assignment back into the surrounding sequence.
func coUpdateBlock(a *ast.Assign, specs []ast.CondBoundedVar, remName func(string) string) ast.Stmt {
	delta := a.Magnitude
	if !a.Positive {
		delta = -delta
	}

	out := ast.Block{a}
	for _, s := range specs {
		shift := -delta * s.B
		if shift == 0 {
			continue
		}
		mag := shift
		if mag < 0 {
			mag = -mag
		}
		out = append(out, &ast.Assign{Name: remName(s.Name), Positive: shift > 0, Magnitude: mag})
	}
	return &ast.Seq{Stmts: out}
}
