package normalizer

import "pastry/internal/symbolic"

// linearCoeffs walks e as a linear combination of variables plus a constant,
// accumulating each variable's coefficient (scaled by sign) into coeffs and
// returning the constant term. It reports ok=false as soon as it meets a
// non-linear construct (a variable times a variable, DIV/MOD, or any
// power, even one with exponent 1), which the caller treats as "does not match this reduction
// class" rather than a hard error.
func linearCoeffs(e symbolic.Expr, coeffs map[string]int64, sign int64) (constTerm int64, ok bool) {
	switch n := e.(type) {
	case *symbolic.Const:
		return sign * n.Value.Int64(), true
	case *symbolic.VarRef:
		coeffs[n.Name] += sign
		return 0, true
	case *symbolic.Add:
		c1, ok1 := linearCoeffs(n.X, coeffs, sign)
		if !ok1 {
			return 0, false
		}
		c2, ok2 := linearCoeffs(n.Y, coeffs, sign)
		if !ok2 {
			return 0, false
		}
		return c1 + c2, true
	case *symbolic.Sub:
		c1, ok1 := linearCoeffs(n.X, coeffs, sign)
		if !ok1 {
			return 0, false
		}
		c2, ok2 := linearCoeffs(n.Y, coeffs, -sign)
		if !ok2 {
			return 0, false
		}
		return c1 + c2, true
	case *symbolic.Mul:
		if cv, isConst := asConst(n.X); isConst {
			return linearCoeffs(n.Y, coeffs, sign*cv)
		}
		if cv, isConst := asConst(n.Y); isConst {
			return linearCoeffs(n.X, coeffs, sign*cv)
		}
		return 0, false
	default:
		return 0, false
	}
}

func asConst(e symbolic.Expr) (int64, bool) {
	if c, ok := e.(*symbolic.Const); ok {
		return c.Value.Int64(), true
	}
	return 0, false
}

func coeffsEqual(a, b map[string]int64) bool {
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	for k, v := range b {
		if a[k] != v {
			return false
		}
	}
	return true
}

// matchSign reports whether coeffs equals bench exactly (sign +1) or equals
// its uniform negation (sign -1), the two shapes check_const_guard accepts
// for a guard to belong to the same Constant benchmark. Any other relation
// between the two coefficient vectors is not a match.
func matchSign(bench, coeffs map[string]int64) (int64, bool) {
	if coeffsEqual(bench, coeffs) {
		return 1, true
	}
	negated := make(map[string]int64, len(coeffs))
	for k, v := range coeffs {
		negated[k] = -v
	}
	if coeffsEqual(bench, negated) {
		return -1, true
	}
	return 0, false
}
