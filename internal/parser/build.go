package parser

import (
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"

	"pastry/internal/ast"
	perr "pastry/internal/errors"
	"pastry/internal/symbolic"
)

func buildProgram(g *grammarProgram) (*ast.Program, error) {
	prog := &ast.Program{Variables: map[string]int64{}}
	for _, d := range g.Decls {
		v, err := d.Value.intValue()
		if err != nil {
			return nil, err
		}
		if _, dup := prog.Variables[d.Name]; dup {
			return nil, perr.AtPosition(toPos(d.Pos), "duplicate declaration of %q", d.Name)
		}
		prog.Variables[d.Name] = v
		prog.VariableOrder = append(prog.VariableOrder, d.Name)
	}

	body, err := buildBlock(g.Stmts)
	if err != nil {
		return nil, err
	}
	prog.Body = body
	return prog, nil
}

func (g *grammarInt) intValue() (int64, error) {
	v, err := strconv.ParseInt(g.Text, 10, 64)
	if err != nil {
		return 0, perr.AtPosition(toPos(g.Pos), "bad integer literal %q", g.Text)
	}
	if g.Neg {
		v = -v
	}
	return v, nil
}

func toPos(p lexer.Position) perr.Position { return perr.Position{Line: p.Line, Column: p.Column} }

func buildBlock(stmts []*grammarStmt) (ast.Block, error) {
	out := make(ast.Block, 0, len(stmts))
	for _, s := range stmts {
		st, err := buildStmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func buildStmt(s *grammarStmt) (ast.Stmt, error) {
	switch {
	case s.Skip != nil:
		return &ast.Skip{}, nil
	case s.Assign != nil:
		return buildAssign(s.Assign)
	case s.If != nil:
		return buildIf(s.If)
	case s.While != nil:
		return buildWhile(s.While)
	case s.Choice != nil:
		return buildChoice(s.Choice)
	}
	return nil, perr.New(perr.Internal, "empty statement alternative")
}

func buildAssign(a *grammarAssign) (*ast.Assign, error) {
	if a.Name != a.Same {
		return nil, perr.AtPosition(toPos(a.Pos), "assignment must have the form %q := %q +/- n, got %q", a.Name, a.Name, a.Same)
	}
	mag, err := a.Mag.intValue()
	if err != nil {
		return nil, err
	}
	if mag < 0 {
		mag = -mag
	}
	return &ast.Assign{Name: a.Name, Positive: a.Sign == "+", Magnitude: mag}, nil
}

func buildIf(i *grammarIf) (*ast.If, error) {
	guard, err := buildGuard(i.Guard)
	if err != nil {
		return nil, err
	}
	then, err := buildBlock(i.Then)
	if err != nil {
		return nil, err
	}
	var els ast.Block
	if i.Else != nil {
		els, err = buildBlock(i.Else)
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Guard: guard, Then: then, Else: els}, nil
}

func buildWhile(w *grammarWhile) (*ast.While, error) {
	guard, err := buildGuard(w.Guard)
	if err != nil {
		return nil, err
	}
	body, err := buildBlock(w.Body)
	if err != nil {
		return nil, err
	}
	return &ast.While{Guard: guard, Body: body}, nil
}

func buildChoice(c *grammarChoice) (*ast.Choice, error) {
	num, err := strconv.ParseInt(c.Num, 10, 64)
	if err != nil {
		return nil, perr.AtPosition(toPos(c.Pos), "bad choice numerator %q", c.Num)
	}
	den, err := strconv.ParseInt(c.Den, 10, 64)
	if err != nil {
		return nil, perr.AtPosition(toPos(c.Pos), "bad choice denominator %q", c.Den)
	}
	if den <= 0 || num < 0 || num > den {
		return nil, perr.AtPosition(toPos(c.Pos), "choice probability %d/%d out of range", num, den)
	}
	then, err := buildBlock(c.Then)
	if err != nil {
		return nil, err
	}
	els, err := buildBlock(c.Else)
	if err != nil {
		return nil, err
	}
	return &ast.Choice{Num: num, Den: den, Then: then, Else: els}, nil
}

func buildGuard(g *grammarGuard) (symbolic.Pred, error) { return buildOr(g.Or) }

func buildOr(o *grammarOr) (symbolic.Pred, error) {
	left, err := buildAnd(o.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range o.Rest {
		right, err := buildAnd(r.Right)
		if err != nil {
			return nil, err
		}
		left = &symbolic.Or{X: left, Y: right}
	}
	return left, nil
}

func buildAnd(a *grammarAnd) (symbolic.Pred, error) {
	left, err := buildNot(a.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range a.Rest {
		right, err := buildNot(r.Right)
		if err != nil {
			return nil, err
		}
		left = &symbolic.And{X: left, Y: right}
	}
	return left, nil
}

func buildNot(n *grammarNot) (symbolic.Pred, error) {
	atom, err := buildAtom(n.Atom)
	if err != nil {
		return nil, err
	}
	for range n.Nots {
		atom = &symbolic.Not{X: atom}
	}
	return atom, nil
}

func buildAtom(a *grammarGuardAtom) (symbolic.Pred, error) {
	switch {
	case a.Paren != nil:
		return buildGuard(a.Paren)
	case a.Bool != nil:
		return &symbolic.BoolConst{Value: *a.Bool == "true"}, nil
	case a.Cmp != nil:
		return buildCompare(a.Cmp)
	}
	return nil, perr.New(perr.Internal, "empty guard atom alternative")
}

func buildCompare(c *grammarCompare) (symbolic.Pred, error) {
	left, err := buildArith(c.Left)
	if err != nil {
		return nil, err
	}
	right, err := buildArith(c.Right)
	if err != nil {
		return nil, err
	}
	var op symbolic.CmpOp
	switch c.Op {
	case "=":
		op = symbolic.Eq
	case "!=":
		op = symbolic.Ne
	case "<":
		op = symbolic.Lt
	case "<=":
		op = symbolic.Le
	case ">":
		op = symbolic.Gt
	case ">=":
		op = symbolic.Ge
	default:
		return nil, perr.AtPosition(toPos(c.Pos), "unknown comparison operator %q", c.Op)
	}
	return &symbolic.Cmp{Op: op, X: left, Y: right}, nil
}

func buildArith(a *grammarArith) (symbolic.Expr, error) {
	left, err := buildTerm(a.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range a.Rest {
		right, err := buildTerm(r.Right)
		if err != nil {
			return nil, err
		}
		if r.Op == "+" {
			left = &symbolic.Add{X: left, Y: right}
		} else {
			left = &symbolic.Sub{X: left, Y: right}
		}
	}
	return left, nil
}

func buildTerm(t *grammarTerm) (symbolic.Expr, error) {
	left, err := buildFactor(t.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range t.Rest {
		right, err := buildFactor(r.Right)
		if err != nil {
			return nil, err
		}
		left = &symbolic.Mul{X: left, Y: right}
	}
	return left, nil
}

func buildFactor(f *grammarFactor) (symbolic.Expr, error) {
	p, err := buildPrimary(f.Primary)
	if err != nil {
		return nil, err
	}
	if f.Neg {
		return &symbolic.Mul{X: symbolic.IntConst(-1), Y: p}, nil
	}
	return p, nil
}

func buildPrimary(p *grammarPrimary) (symbolic.Expr, error) {
	switch {
	case p.Int != nil:
		v, err := strconv.ParseInt(*p.Int, 10, 64)
		if err != nil {
			return nil, perr.AtPosition(toPos(p.Pos), "bad integer literal %q", *p.Int)
		}
		return symbolic.IntConst(v), nil
	case p.DivMod != nil:
		return buildDivMod(p.DivMod)
	case p.Ident != nil:
		return &symbolic.VarRef{Name: *p.Ident}, nil
	case p.Paren != nil:
		return buildArith(p.Paren)
	}
	return nil, perr.New(perr.Internal, "empty primary alternative")
}

func buildDivMod(d *grammarDivMod) (symbolic.Expr, error) {
	x, err := buildArith(d.X)
	if err != nil {
		return nil, err
	}
	y, err := buildArith(d.Y)
	if err != nil {
		return nil, err
	}
	if d.Kind == "DIV" {
		return &symbolic.Div{X: x, Y: y}, nil
	}
	return &symbolic.Mod{X: x, Y: y}, nil
}
