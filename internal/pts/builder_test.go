package pts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pastry/internal/ast"
	"pastry/internal/symbolic"
)

// Build on "while (x > 0) { x := x - 1 }" should produce exactly three
// states -- the while-test, the single decrement, and the terminal state --
// wired as: enter on x>0, loop back on the decrement, exit to terminal on
// x<=0, and the terminal's three self-loop drift transitions.
func TestBuildWhileDecrementProducesThreeStates(t *testing.T) {
	body := ast.Block{
		&ast.While{
			Guard: &symbolic.Cmp{Op: symbolic.Gt, X: &symbolic.VarRef{Name: "x"}, Y: symbolic.IntConst(0)},
			Body:  ast.Block{&ast.Assign{Name: "x", Positive: false, Magnitude: 1}},
		},
	}
	p, err := Build("x", 2, body)
	require.NoError(t, err)

	require.Equal(t, 3, p.States())
	assert.Equal(t, LabelWhile, p.Labels[0])
	assert.Equal(t, LabelAssign, p.Labels[1])
	assert.Equal(t, LabelTerminal, p.Labels[2])
	assert.Equal(t, 2, p.TerminalState())

	enter := p.Transitions(0, 1)
	require.Len(t, enter, 1)
	assert.Equal(t, int64(0), enter[0].Delta)

	loopBack := p.Transitions(1, 0)
	require.Len(t, loopBack, 1)
	assert.Equal(t, int64(-1), loopBack[0].Delta)

	exit := p.Transitions(0, 2)
	require.Len(t, exit, 1)
	assert.Equal(t, int64(0), exit[0].Delta)

	selfLoops := p.Transitions(2, 2)
	assert.Len(t, selfLoops, 3)
}

// A run of consecutive assignments with a net nonzero update is coalesced
// into a chain of |sum| unit-step states; a net-zero run produces no states
// at all for that run.
func TestBuildCoalescesConsecutiveAssignments(t *testing.T) {
	body := ast.Block{
		&ast.Assign{Name: "x", Positive: true, Magnitude: 1},
		&ast.Assign{Name: "x", Positive: true, Magnitude: 2},
	}
	p, err := Build("x", 0, body)
	require.NoError(t, err)

	// Coalesced run of net +3 becomes 3 assign states, plus the terminal.
	require.Equal(t, 4, p.States())
	for i := 0; i < 3; i++ {
		assert.Equal(t, LabelAssign, p.Labels[i])
	}
	assert.Equal(t, LabelTerminal, p.Labels[3])
}

func TestBuildNetZeroAssignRunProducesOnlyTerminal(t *testing.T) {
	body := ast.Block{
		&ast.Assign{Name: "x", Positive: true, Magnitude: 1},
		&ast.Assign{Name: "x", Positive: false, Magnitude: 1},
	}
	p, err := Build("x", 0, body)
	require.NoError(t, err)
	require.Equal(t, 1, p.States())
	assert.Equal(t, LabelTerminal, p.Labels[0])
}

func TestMCTransitionProbRespectsGuardAndDelta(t *testing.T) {
	body := ast.Block{
		&ast.While{
			Guard: &symbolic.Cmp{Op: symbolic.Gt, X: &symbolic.VarRef{Name: "x"}, Y: symbolic.IntConst(0)},
			Body:  ast.Block{&ast.Assign{Name: "x", Positive: false, Magnitude: 1}},
		},
	}
	p, err := Build("x", 2, body)
	require.NoError(t, err)

	num, den, ok := p.MCTransitionProb(MCState{PTSState: 0, Value: 2}, MCState{PTSState: 1, Value: 2})
	require.True(t, ok)
	assert.Equal(t, int64(1), num)
	assert.Equal(t, int64(1), den)

	_, _, ok = p.MCTransitionProb(MCState{PTSState: 0, Value: 0}, MCState{PTSState: 1, Value: 0})
	assert.False(t, ok, "guard x>0 must not hold at x=0")
}
