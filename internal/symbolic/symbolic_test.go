package symbolic

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalIntArithmetic(t *testing.T) {
	x := &VarRef{Name: "x"}
	e := &Add{X: &Mul{X: IntConst(2), Y: x}, Y: IntConst(3)}
	got := EvalInt(e, map[string]int64{"x": 5})
	assert.Equal(t, big.NewInt(13), got)
}

func TestFloorDivModPositiveDivisor(t *testing.T) {
	q, r := FloorDivMod(big.NewInt(-7), big.NewInt(3))
	assert.Equal(t, big.NewInt(-3), q)
	assert.Equal(t, big.NewInt(2), r)
}

func TestEvalPredComparisons(t *testing.T) {
	x := &VarRef{Name: "x"}
	p := &Cmp{Op: Gt, X: x, Y: IntConst(0)}
	assert.True(t, EvalPred1(p, "x", 1))
	assert.False(t, EvalPred1(p, "x", 0))
	assert.False(t, EvalPred1(p, "x", -1))
}

func TestNegatePushesThroughConnectives(t *testing.T) {
	x := &VarRef{Name: "x"}
	p := &And{
		X: &Cmp{Op: Gt, X: x, Y: IntConst(0)},
		Y: &Cmp{Op: Lt, X: x, Y: IntConst(10)},
	}
	n := Negate(p)
	or, ok := n.(*Or)
	require.True(t, ok)
	left := or.X.(*Cmp)
	assert.Equal(t, Le, left.Op)
}

func TestCoeffsAndCauchyRootBound(t *testing.T) {
	// e = x^2 - 4
	x := &VarRef{Name: "x"}
	e := &Sub{X: &Pow{Base: x, Exp: 2}, Y: IntConst(4)}
	coeffs := Coeffs(e, "x")
	require.Len(t, coeffs, 3)
	assert.Equal(t, big.NewInt(-4), coeffs[0])
	assert.Equal(t, big.NewInt(0), coeffs[1])
	assert.Equal(t, big.NewInt(1), coeffs[2])

	bound := CauchyRootBound(coeffs)
	assert.True(t, bound.Cmp(big.NewInt(2)) >= 0)
}

func TestThresholdPeriodExprNoDivMod(t *testing.T) {
	x := &VarRef{Name: "x"}
	e := &Sub{X: x, Y: IntConst(3)}
	threshold, period := ThresholdPeriodExpr(e, "x")
	assert.Equal(t, int64(1), period)
	assert.True(t, threshold >= 0)
}

func TestThresholdPeriodExprWithMod(t *testing.T) {
	x := &VarRef{Name: "x"}
	e := &Mod{X: x, Y: IntConst(4)}
	threshold, period := ThresholdPeriodExpr(e, "x")
	assert.Equal(t, int64(4), period)
	assert.True(t, threshold >= 4)
}

func TestFindMinimumPeriod(t *testing.T) {
	assert.Equal(t, int64(3), FindMinimumPeriod([]int64{1, 2, 3, 1, 2, 3}))
	assert.Equal(t, int64(1), FindMinimumPeriod([]int64{7, 7, 7, 7}))
}

func TestLCMAndGCD(t *testing.T) {
	assert.Equal(t, int64(12), LCM(4, 6))
	assert.Equal(t, int64(2), GCD(4, 6))
	assert.Equal(t, int64(1), LCMAll(nil))
	assert.Equal(t, int64(12), LCMAll([]int64{4, 6}))
}
