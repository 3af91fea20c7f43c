package symbolic

import "math/big"

// EvalInt evaluates e at VarRef(name) = x for every free variable bound in
// env, returning an exact integer. DIV/MOD use Euclidean division, which
// coincides with floor division/modulus whenever the divisor is positive —
// guaranteed by construction everywhere Pastry builds a Div/Mod node.
func EvalInt(e Expr, env map[string]int64) *big.Int {
	switch n := e.(type) {
	case *Const:
		return new(big.Int).Set(n.Value)
	case *VarRef:
		v, ok := env[n.Name]
		if !ok {
			panic("symbolic: unbound variable " + n.Name)
		}
		return big.NewInt(v)
	case *Add:
		return new(big.Int).Add(EvalInt(n.X, env), EvalInt(n.Y, env))
	case *Sub:
		return new(big.Int).Sub(EvalInt(n.X, env), EvalInt(n.Y, env))
	case *Mul:
		return new(big.Int).Mul(EvalInt(n.X, env), EvalInt(n.Y, env))
	case *Pow:
		return new(big.Int).Exp(EvalInt(n.Base, env), big.NewInt(int64(n.Exp)), nil)
	case *Div:
		q, _ := FloorDivMod(EvalInt(n.X, env), EvalInt(n.Y, env))
		return q
	case *Mod:
		_, r := FloorDivMod(EvalInt(n.X, env), EvalInt(n.Y, env))
		return r
	}
	panic("symbolic: unreachable expr kind")
}

// FloorDivMod returns (q, r) such that a = q*b + r with 0 <= r < |b|, i.e.
// the Euclidean division Go's math/big already implements for DivMod. This
// is floor division whenever b > 0.
func FloorDivMod(a, b *big.Int) (q, r *big.Int) {
	q, r = new(big.Int), new(big.Int)
	q.DivMod(a, b, r)
	return q, r
}

// EvalPred evaluates a guard predicate at VarRef(name) = x for the one free
// variable of interest plus any other bindings in env.
func EvalPred(p Pred, env map[string]int64) bool {
	switch n := p.(type) {
	case *BoolConst:
		return n.Value
	case *Cmp:
		x, y := EvalInt(n.X, env), EvalInt(n.Y, env)
		c := x.Cmp(y)
		switch n.Op {
		case Eq:
			return c == 0
		case Ne:
			return c != 0
		case Lt:
			return c < 0
		case Le:
			return c <= 0
		case Gt:
			return c > 0
		case Ge:
			return c >= 0
		}
	case *And:
		return EvalPred(n.X, env) && EvalPred(n.Y, env)
	case *Or:
		return EvalPred(n.X, env) || EvalPred(n.Y, env)
	case *Not:
		return !EvalPred(n.X, env)
	}
	panic("symbolic: unreachable pred kind")
}

// EvalPred1 is the common single-variable case: evaluate p at var = x.
func EvalPred1(p Pred, varName string, x int64) bool {
	return EvalPred(p, map[string]int64{varName: x})
}
