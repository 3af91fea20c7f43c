package rmc

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pastry/internal/ast"
	"pastry/internal/pts"
	"pastry/internal/symbolic"
)

// buildCountdown returns the PTS for "while (x > 0) { x := x - 1 }" starting
// at the given initial value, along with its global threshold and periods.
func buildCountdown(t *testing.T, init int64) (*pts.PTS, int64, int64, int64) {
	t.Helper()
	body := ast.Block{
		&ast.While{
			Guard: &symbolic.Cmp{Op: symbolic.Gt, X: &symbolic.VarRef{Name: "x"}, Y: symbolic.IntConst(0)},
			Body:  ast.Block{&ast.Assign{Name: "x", Positive: false, Magnitude: 1}},
		},
	}
	p, err := pts.Build("x", init, body)
	require.NoError(t, err)
	threshold, piPlus, piMinus := pts.AnalyzeThresholdAndPeriod(p)
	return p, threshold, piPlus, piMinus
}

// The global threshold must dominate the initial value even when guards are
// present -- T = max(|init|, max_i t_i), not max_i t_i alone, per the
// threshold/period definition.
func TestAnalyzeThresholdDominatesInitialValue(t *testing.T) {
	_, threshold, _, _ := buildCountdown(t, 1000)
	assert.GreaterOrEqual(t, threshold, int64(1000))
}

// Every row of A+B+C must sum to at most 1 (entries are real probabilities),
// and to exactly 1 on a row whose PTS state has no irregular transitions --
// the deterministic countdown's while-state and assign-state both always
// take their one outgoing arc with probability 1.
func TestRowSumsAreAtMostOneAndExactlyOneWhenTotal(t *testing.T) {
	p, threshold, piPlus, _ := buildCountdown(t, 2)
	r := New(p, Forward, threshold, piPlus)

	one := big.NewRat(1, 1)
	for i := 0; i < int(r.Width); i++ {
		sum := big.NewRat(0, 1)
		for j := 0; j < int(r.Width); j++ {
			sum.Add(sum, zeroIfNil(r.A[i][j]))
			sum.Add(sum, zeroIfNil(r.B[i][j]))
			sum.Add(sum, zeroIfNil(r.C[i][j]))
		}
		assert.True(t, sum.Cmp(one) <= 0, "row %d sums to more than 1: %s", i, sum.String())
		assert.Equal(t, 0, sum.Cmp(one), "row %d does not sum to exactly 1: %s", i, sum.String())
	}
}

// The boolean reachability matrix is the least fixpoint of
// R = A v B.R v C.R.R; recomputing the right-hand side from the returned R
// must reproduce R bit-for-bit.
func TestBooleanReachabilityIsAFixpoint(t *testing.T) {
	p, threshold, piPlus, _ := buildCountdown(t, 2)
	r := New(p, Forward, threshold, piPlus)

	reach := r.BooleanReachability()

	w := int(r.Width)
	a := toBoolMatrix(r.ANonzero, w)
	b := toBoolMatrix(r.BNonzero, w)
	c := toBoolMatrix(r.CNonzero, w)

	rr := boolMatMul(reach, reach)
	br := boolMatMul(b, reach)
	crr := boolMatMul(c, rr)
	rhs := orMatrices(a, br, crr)

	assert.True(t, equalBoolMatrix(reach, rhs))
}

// A deterministic countdown is acyclic in the regular tail: from any
// level-1 strip state there is no transition at all (the decrement always
// stays inside the irregular kernel once a guard fires), so its boolean
// reachability matrix beyond the threshold is the all-false matrix -- there
// is nothing left to abstract once the counter is deterministic.
func TestBooleanReachabilityEmptyForPurelyDeterministicTail(t *testing.T) {
	p, threshold, piPlus, _ := buildCountdown(t, 2)
	r := New(p, Forward, threshold, piPlus)
	reach := r.BooleanReachability()
	for i := range reach {
		for j := range reach[i] {
			assert.False(t, reach[i][j])
		}
	}
}

// Backward and forward RMCs over the same deterministic countdown PTS have
// matching widths: both abstractions tile the same PTS with the same
// period since there is only one kind of non-trivial guard in this program.
func TestForwardAndBackwardRMCWidthsMatch(t *testing.T) {
	p, threshold, piPlus, piMinus := buildCountdown(t, 2)
	fwd := New(p, Forward, threshold, piPlus)
	bwd := New(p, Backward, threshold, piMinus)
	assert.Equal(t, fwd.Width, bwd.Width)
}
