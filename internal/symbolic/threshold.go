package symbolic

// ThresholdPeriodExpr computes a threshold T and period π such that, for all
// x with |x| >= T, the value of e at x+π equals the value of e at x up to
// the growth captured by any remaining DIV/MOD quotient terms — i.e. the
// smallest window beyond which e's DIV/MOD structure repeats. Ported from
// get_threshold_and_period_from_expr: the base case (no DIV/MOD left) bounds
// the polynomial's real roots with CauchyRootBound; the recursive case picks
// off the innermost DIV/MOD node, enumerates its residue classes, and
// recurses on each closed-form residue expression.
func ThresholdPeriodExpr(e Expr, varName string) (threshold, period int64) {
	if !FreeVars(e)[varName] {
		return 0, 1
	}
	if !hasDivMod(e) {
		coeffs := Coeffs(e, varName)
		if len(coeffs) <= 1 {
			return 0, 1
		}
		return CauchyRootBound(coeffs).Int64(), 1
	}

	tmpName := varName + "$q"
	rewritten, site, ok := findInnermost(e, varName, tmpName)
	if !ok {
		panic("symbolic: hasDivMod reported true but findInnermost found no site")
	}
	A := site.divisor.Int64()
	if A <= 0 {
		panic("symbolic: DIV/MOD divisor must be a positive integer")
	}

	var thresholds, periods []int64
	for i := int64(0); i < A; i++ {
		shifted := SubstituteVar(rewritten, varName, &Add{X: IntConst(i), Y: &Mul{X: IntConst(A), Y: scaledVar(site.sign, varName)}})
		closed := removeInnermostDivMod(shifted, site, varName, tmpName, i)
		t, p := ThresholdPeriodExpr(closed, varName)
		thresholds = append(thresholds, t)
		periods = append(periods, p)
	}
	maxT := int64(0)
	for _, t := range thresholds {
		if t > maxT {
			maxT = t
		}
	}
	return A * (1 + maxT), A * LCMAll(periods)
}

func scaledVar(sign int, varName string) Expr {
	if sign >= 0 {
		return &VarRef{Name: varName}
	}
	return &Mul{X: IntConst(-1), Y: &VarRef{Name: varName}}
}

// GuardAtoms decomposes a guard predicate into its atomic comparisons,
// rewritten as "lhs - rhs" expressions, descending through And/Or/Not the
// way get_exprs walks a sympy boolean tree. BoolConst leaves contribute no
// atoms.
func GuardAtoms(p Pred) []Expr {
	var out []Expr
	collectAtoms(p, &out)
	return out
}

func collectAtoms(p Pred, out *[]Expr) {
	switch n := p.(type) {
	case *BoolConst:
	case *Cmp:
		*out = append(*out, &Sub{X: n.X, Y: n.Y})
	case *And:
		collectAtoms(n.X, out)
		collectAtoms(n.Y, out)
	case *Or:
		collectAtoms(n.X, out)
		collectAtoms(n.Y, out)
	case *Not:
		collectAtoms(n.X, out)
	default:
		panic("symbolic: unreachable pred kind")
	}
}

// ThresholdPeriodGuard computes the (threshold, positive-period,
// negative-period) triple for a guard predicate with at most one free
// variable, mirroring get_threshold_and_period_from_spguard: every atom
// contributes a per-direction threshold/period, folded by max/lcm, then
// minimized by MinimizeGuardThresholdAndPeriod.
func ThresholdPeriodGuard(p Pred, varName string) (threshold, periodPos, periodNeg int64) {
	free := FreeVarsPred(p)
	if len(free) == 0 {
		return 0, 1, 1
	}
	if _, ok := free[varName]; !ok || len(free) > 1 {
		panic("symbolic: ThresholdPeriodGuard: guard depends on a variable other than " + varName)
	}

	var maxT int64
	var periods []int64
	for _, atom := range GuardAtoms(p) {
		t, pr := ThresholdPeriodExpr(atom, varName)
		if t > maxT {
			maxT = t
		}
		periods = append(periods, pr)
	}
	period := LCMAll(periods)
	return MinimizeGuardThresholdAndPeriod(p, varName, maxT, period)
}

// MinimizeGuardThresholdAndPeriod shrinks an (over-approximate) threshold T
// given a period: it first recomputes the actual minimum positive and
// negative periods from the boundary-adjacent truth sequences via
// FindMinimumPeriod, then looks for the smallest prefix of the [-T, T] truth
// table that is unnecessary because the periodic tail already covers it,
// sliding two deques (one period_p/period_n wide, the other one element
// wider once primed) across the positive and negative truth sequences from
// the boundary inward, matching minimize_guard_threshold_and_period's
// deque-based scan exactly: the front/back comparison spans `period` apart,
// not `period - 1`, since the deque holds period+1 elements once the
// boundary value has been appended.
func MinimizeGuardThresholdAndPeriod(p Pred, varName string, T, period int64) (threshold, periodPos, periodNeg int64) {
	if period <= 0 {
		return T, 1, 1
	}

	posBools := boolWindow(p, varName, T, period, +1)
	negBools := boolWindow(p, varName, T, period, -1)
	periodPos = FindMinimumPeriod(boolsToInts(posBools))
	periodNeg = FindMinimumPeriod(boolsToInts(negBools))

	pCounter := T
	nCounter := -T

	dequeP := make([]bool, 0, periodPos)
	for i := pCounter - 1 + periodPos; i >= pCounter; i-- {
		dequeP = append(dequeP, EvalPred1(p, varName, i))
	}
	dequeN := make([]bool, 0, periodNeg)
	for i := nCounter + 1 - periodNeg; i <= nCounter; i++ {
		dequeN = append(dequeN, EvalPred1(p, varName, i))
	}

	pCounter--
	nCounter++

	shrunk := T
	for pCounter >= nCounter {
		dequeP = append(dequeP, EvalPred1(p, varName, pCounter))
		dequeN = append(dequeN, EvalPred1(p, varName, nCounter))
		if dequeP[0] != dequeP[len(dequeP)-1] || dequeN[0] != dequeN[len(dequeN)-1] {
			break
		}
		shrunk--
		dequeP = dequeP[1:]
		dequeN = dequeN[1:]
		pCounter--
		nCounter++
	}
	return shrunk, periodPos, periodNeg
}

// boolWindow evaluates p over a period-wide window starting at the boundary
// T*dirSign and stepping outward (away from zero) by dirSign, used to seed
// the minimization scan for one direction.
func boolWindow(p Pred, varName string, T, period int64, dirSign int64) []bool {
	out := make([]bool, 0, period)
	for k := int64(0); k < period; k++ {
		x := dirSign * (T + k)
		out = append(out, EvalPred1(p, varName, x))
	}
	return out
}

// boolsToInts converts a truth sequence to 0/1 so FindMinimumPeriod (which
// operates on the integer-valued sequences the rest of the package already
// produces) can find its minimum period too.
func boolsToInts(bs []bool) []int64 {
	out := make([]int64, len(bs))
	for i, b := range bs {
		if b {
			out[i] = 1
		}
	}
	return out
}

// FindMinimumPeriod returns the smallest period that makes values a
// repeating sequence (values[i] == values[i+period] for all valid i),
// scanning divisors of len(values) the way find_minimum_period does.
func FindMinimumPeriod(values []int64) int64 {
	n := int64(len(values))
	if n == 0 {
		return 1
	}
	for period := int64(1); period <= n; period++ {
		if n%period != 0 {
			continue
		}
		ok := true
		for i := int64(0); i < n && ok; i++ {
			if values[i] != values[i%period] {
				ok = false
			}
		}
		if ok {
			return period
		}
	}
	return n
}
