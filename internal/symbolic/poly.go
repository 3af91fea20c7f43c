package symbolic

import "math/big"

// poly is a univariate polynomial in the one free variable of interest,
// represented as exponent -> coefficient. Degrees with a zero coefficient are
// omitted.
type poly map[int]*big.Int

func polyConst(v *big.Int) poly { return poly{0: new(big.Int).Set(v)} }

func polyVar() poly { return poly{1: big.NewInt(1)} }

func (p poly) add(q poly) poly {
	out := poly{}
	for k, v := range p {
		out[k] = new(big.Int).Set(v)
	}
	for k, v := range q {
		if cur, ok := out[k]; ok {
			out[k] = new(big.Int).Add(cur, v)
		} else {
			out[k] = new(big.Int).Set(v)
		}
	}
	out.trim()
	return out
}

func (p poly) sub(q poly) poly {
	neg := poly{}
	for k, v := range q {
		neg[k] = new(big.Int).Neg(v)
	}
	return p.add(neg)
}

func (p poly) mul(q poly) poly {
	out := poly{}
	for k1, v1 := range p {
		for k2, v2 := range q {
			k := k1 + k2
			term := new(big.Int).Mul(v1, v2)
			if cur, ok := out[k]; ok {
				out[k] = new(big.Int).Add(cur, term)
			} else {
				out[k] = term
			}
		}
	}
	out.trim()
	return out
}

func (p poly) pow(n int) poly {
	out := polyConst(big.NewInt(1))
	for i := 0; i < n; i++ {
		out = out.mul(p)
	}
	return out
}

func (p poly) trim() {
	for k, v := range p {
		if v.Sign() == 0 && k != 0 {
			delete(p, k)
		}
	}
}

func (p poly) degree() int {
	d := 0
	for k := range p {
		if k > d {
			d = k
		}
	}
	return d
}

// toPoly expands e as a polynomial in varName. It panics if e contains Div,
// Mod, or a non-constant exponent base other than varName — callers are
// expected to have already eliminated DIV/MOD via removeInnermostDivMod
// before reaching here.
func toPoly(e Expr, varName string) poly {
	switch n := e.(type) {
	case *Const:
		return polyConst(n.Value)
	case *VarRef:
		if n.Name == varName {
			return polyVar()
		}
		panic("symbolic: toPoly: free variable " + n.Name + " is not the polynomial variable")
	case *Add:
		return toPoly(n.X, varName).add(toPoly(n.Y, varName))
	case *Sub:
		return toPoly(n.X, varName).sub(toPoly(n.Y, varName))
	case *Mul:
		return toPoly(n.X, varName).mul(toPoly(n.Y, varName))
	case *Pow:
		return toPoly(n.Base, varName).pow(n.Exp)
	}
	panic("symbolic: toPoly: expression is not a polynomial (contains DIV/MOD)")
}

// leadingSign returns the sign of the highest-degree coefficient of e as a
// polynomial in varName; +1 if e does not depend on varName at all.
func leadingSign(e Expr, varName string) int {
	if !FreeVars(e)[varName] {
		return 1
	}
	p := toPoly(e, varName)
	d := p.degree()
	if v, ok := p[d]; ok && v.Sign() < 0 {
		return -1
	}
	return 1
}

// Coeffs returns the coefficients of e as a polynomial in varName, indexed
// lowest-degree-first, c[0]..c[degree].
func Coeffs(e Expr, varName string) []*big.Int {
	p := toPoly(e, varName)
	d := p.degree()
	out := make([]*big.Int, d+1)
	for k := 0; k <= d; k++ {
		if v, ok := p[k]; ok {
			out[k] = new(big.Int).Set(v)
		} else {
			out[k] = big.NewInt(0)
		}
	}
	return out
}

// CauchyRootBound returns 1 + max_k(|c_k / c_lead|) rounded up, the classic
// Cauchy bound on the magnitude of any real root of the polynomial with
// coefficients coeffs (lowest-degree-first, as returned by Coeffs). The
// leading (highest-degree) coefficient must be nonzero.
func CauchyRootBound(coeffs []*big.Int) *big.Int {
	lead := coeffs[len(coeffs)-1]
	if lead.Sign() == 0 {
		panic("symbolic: CauchyRootBound: zero leading coefficient")
	}
	bound := big.NewInt(0)
	for k := 0; k < len(coeffs)-1; k++ {
		if coeffs[k].Sign() == 0 {
			continue
		}
		num := new(big.Int).Abs(coeffs[k])
		den := new(big.Int).Abs(lead)
		q := ceilDiv(num, den)
		if q.Cmp(bound) > 0 {
			bound = q
		}
	}
	return new(big.Int).Add(bound, big.NewInt(1))
}

// ceilDiv computes ceil(a/b) for non-negative a and positive b.
func ceilDiv(a, b *big.Int) *big.Int {
	q, r := new(big.Int), new(big.Int)
	q.DivMod(a, b, r)
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// GCD returns the non-negative greatest common divisor of a and b.
func GCD(a, b int64) int64 {
	x, y := new(big.Int).Abs(big.NewInt(a)), new(big.Int).Abs(big.NewInt(b))
	return new(big.Int).GCD(nil, nil, x, y).Int64()
}

// LCM returns the least common multiple of a and b, both assumed positive.
func LCM(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	g := GCD(a, b)
	return a / g * b
}

// LCMAll folds LCM across a slice, returning 1 for an empty slice.
func LCMAll(vals []int64) int64 {
	out := int64(1)
	for _, v := range vals {
		out = LCM(out, v)
	}
	return out
}
