package symbolic

import "math/big"

// divModSite describes the innermost DIV/MOD node found by findInnermost:
// its dividend (a polynomial in the variable being analyzed), its divisor,
// and whether it was a Div (floor-division) or Mod (remainder) node.
type divModSite struct {
	dividend Expr
	divisor  *big.Int
	isDiv    bool
	// sign is +1 or -1, the sign of the dividend's leading coefficient in
	// varName — the direction used by the outer residue substitution
	// x <- i + sign*A*x̃.
	sign int
}

// findInnermost locates the innermost Div/Mod node in e whose divisor does
// not depend on varName and replaces that whole node with the placeholder
// variable tmpName (leaving the rest of e untouched). It returns the
// rewritten expression and the site description, or ok=false if e has no
// such node.
func findInnermost(e Expr, varName, tmpName string) (rewritten Expr, site *divModSite, ok bool) {
	switch n := e.(type) {
	case *Const, *VarRef:
		return e, nil, false
	case *Add:
		if m, s, found := findInnermost(n.X, varName, tmpName); found {
			return &Add{X: m, Y: n.Y}, s, true
		}
		if m, s, found := findInnermost(n.Y, varName, tmpName); found {
			return &Add{X: n.X, Y: m}, s, true
		}
	case *Sub:
		if m, s, found := findInnermost(n.X, varName, tmpName); found {
			return &Sub{X: m, Y: n.Y}, s, true
		}
		if m, s, found := findInnermost(n.Y, varName, tmpName); found {
			return &Sub{X: n.X, Y: m}, s, true
		}
	case *Mul:
		if m, s, found := findInnermost(n.X, varName, tmpName); found {
			return &Mul{X: m, Y: n.Y}, s, true
		}
		if m, s, found := findInnermost(n.Y, varName, tmpName); found {
			return &Mul{X: n.X, Y: m}, s, true
		}
	case *Pow:
		if m, s, found := findInnermost(n.Base, varName, tmpName); found {
			return &Pow{Base: m, Exp: n.Exp}, s, true
		}
	case *Div:
		if m, s, found := findInnermost(n.X, varName, tmpName); found {
			return &Div{X: m, Y: n.Y}, s, true
		}
		if !FreeVars(n.Y)[varName] && FreeVars(n.X)[varName] {
			divisor := EvalInt(n.Y, nil)
			site := &divModSite{dividend: n.X, divisor: divisor, isDiv: true, sign: leadingSign(n.X, varName)}
			return &VarRef{Name: tmpName}, site, true
		}
	case *Mod:
		if m, s, found := findInnermost(n.X, varName, tmpName); found {
			return &Mod{X: m, Y: n.Y}, s, true
		}
		if !FreeVars(n.Y)[varName] && FreeVars(n.X)[varName] {
			divisor := EvalInt(n.Y, nil)
			site := &divModSite{dividend: n.X, divisor: divisor, isDiv: false, sign: leadingSign(n.X, varName)}
			return &VarRef{Name: tmpName}, site, true
		}
	default:
		panic("symbolic: unreachable expr kind")
	}
	return e, nil, false
}

// hasDivMod reports whether e contains any Div or Mod node.
func hasDivMod(e Expr) bool {
	switch n := e.(type) {
	case *Const, *VarRef:
		return false
	case *Add:
		return hasDivMod(n.X) || hasDivMod(n.Y)
	case *Sub:
		return hasDivMod(n.X) || hasDivMod(n.Y)
	case *Mul:
		return hasDivMod(n.X) || hasDivMod(n.Y)
	case *Pow:
		return hasDivMod(n.Base)
	case *Div, *Mod:
		return true
	}
	panic("symbolic: unreachable expr kind")
}

// removeInnermostDivMod eliminates the innermost DIV/MOD node of e (already
// located via findInnermost and replaced there by the placeholder tmpName) by
// substituting xr for tmpName and expanding the DIV/MOD in closed form as a
// polynomial in xr:
//
//	MOD(P(x̃), A) with P = Σ c_k x̃^k  ⟶  (Σ c_k·xr^k) mod A
//	DIV(P(x̃), A)                    ⟶  Σ_k [ ⌊c_k·xr/A⌋ + Σ_{j=1}^{k} C(k,j)·A^{j-1}·xr^{k-j}·x^j ]
//
// where x is the fresh quotient variable (named xrVar) standing in for the
// residue class's remaining unbounded growth. This mirrors
// remove_innermost_MOD_DIV in the reference implementation.
func removeInnermostDivMod(rewritten Expr, site *divModSite, varName, tmpName string, residue int64) Expr {
	coeffs := Coeffs(site.dividend, varName)
	A := site.divisor
	xr := big.NewInt(residue)

	replacement := expandDivModClosedForm(coeffs, A, xr, varName, site.isDiv)
	return replaceSite(rewritten, tmpName, replacement)
}

// expandDivModClosedForm builds the closed-form replacement expression for a
// single innermost DIV or MOD node, given its dividend's coefficients
// (lowest-degree-first in the renamed variable), divisor A, residue xr, and
// the name of the fresh quotient variable.
//
// MOD(P(x̃), A) depends only on the residue class, not on the quotient's
// growth, so it collapses to the single integer (Σ c_k·xr^k) mod A — a
// constant, which is why the elimination recursion terminates on this
// branch. DIV(P(x̃), A) keeps the quotient variable's growth in its j>=1
// terms.
func expandDivModClosedForm(coeffs []*big.Int, A, xr *big.Int, xrVar string, isDiv bool) Expr {
	xv := &VarRef{Name: xrVar}

	if !isDiv {
		sum := big.NewInt(0)
		xrPow := big.NewInt(1)
		for _, c := range coeffs {
			term := new(big.Int).Mul(c, xrPow)
			sum.Add(sum, term)
			xrPow.Mul(xrPow, xr)
		}
		_, r := FloorDivMod(sum, A)
		return &Const{Value: r}
	}

	var total Expr = IntConst(0)
	for k, c := range coeffs {
		if c.Sign() == 0 {
			continue
		}
		ck := new(big.Int).Mul(c, xr)
		q, _ := FloorDivMod(ck, A)
		total = &Add{X: total, Y: &Const{Value: q}}

		for j := 1; j <= k; j++ {
			binom := binomial(k, j)
			coef := new(big.Int).Mul(binom, new(big.Int).Exp(A, big.NewInt(int64(j-1)), nil))
			xrPow := new(big.Int).Exp(xr, big.NewInt(int64(k-j)), nil)
			coef.Mul(coef, xrPow)
			if coef.Sign() == 0 {
				continue
			}
			term := Expr(&Mul{X: &Const{Value: coef}, Y: &Pow{Base: xv, Exp: j}})
			total = &Add{X: total, Y: term}
		}
	}
	return total
}

func binomial(n, k int) *big.Int {
	return new(big.Int).Binomial(int64(n), int64(k))
}

// replaceSite substitutes tmpName throughout e with replacement. Because
// findInnermost put tmpName in place of the DIV/MOD node itself, and
// nowhere else, a plain substitution recovers the fully-expanded
// expression.
func replaceSite(e Expr, tmpName string, replacement Expr) Expr {
	return SubstituteVar(e, tmpName, replacement)
}
