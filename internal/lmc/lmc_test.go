package lmc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pastry/internal/ast"
	"pastry/internal/pts"
	"pastry/internal/rmc"
	"pastry/internal/symbolic"
)

// A deterministic countdown ("while (x > 0) { x := x - 1 }" from x=3) always
// reaches the terminal state in exactly 3 steps, so it is both almost-sure
// and positive almost-sure terminating: every reachable state can reach the
// terminal, none of them are transient or null recurrent.
func TestDecideDeterministicCountdownIsPositiveAlmostSureTerminating(t *testing.T) {
	body := ast.Block{
		&ast.While{
			Guard: &symbolic.Cmp{Op: symbolic.Gt, X: &symbolic.VarRef{Name: "x"}, Y: symbolic.IntConst(0)},
			Body:  ast.Block{&ast.Assign{Name: "x", Positive: false, Magnitude: 1}},
		},
	}
	p, err := pts.Build("x", 3, body)
	require.NoError(t, err)

	threshold, piPlus, piMinus := pts.AnalyzeThresholdAndPeriod(p)
	fwd := rmc.New(p, rmc.Forward, threshold, piPlus)
	bwd := rmc.New(p, rmc.Backward, threshold, piMinus)

	chain, err := Build(p, threshold, fwd, bwd)
	require.NoError(t, err)

	astOK, pastOK, err := chain.Decide()
	require.NoError(t, err)
	assert.True(t, astOK)
	assert.True(t, pastOK)
}

// The initial state and the terminal state must always be present in the
// constructed graph, since Decide's post-set/ancestor-set computation keys
// off them directly.
func TestBuildAddsInitialAndTerminalVertices(t *testing.T) {
	body := ast.Block{
		&ast.While{
			Guard: &symbolic.Cmp{Op: symbolic.Gt, X: &symbolic.VarRef{Name: "x"}, Y: symbolic.IntConst(0)},
			Body:  ast.Block{&ast.Assign{Name: "x", Positive: false, Magnitude: 1}},
		},
	}
	p, err := pts.Build("x", 1, body)
	require.NoError(t, err)

	threshold, piPlus, piMinus := pts.AnalyzeThresholdAndPeriod(p)
	fwd := rmc.New(p, rmc.Forward, threshold, piPlus)
	bwd := rmc.New(p, rmc.Backward, threshold, piMinus)

	chain, err := Build(p, threshold, fwd, bwd)
	require.NoError(t, err)

	assert.True(t, chain.G.HasVertex(chain.InitialID))
	assert.True(t, chain.G.HasVertex(chain.TerminalID))
}

// PostSet must include the initial state itself, even when it has no
// outgoing edges yet explored (DFS always visits its own start node).
func TestPostSetIncludesInitialState(t *testing.T) {
	body := ast.Block{
		&ast.While{
			Guard: &symbolic.Cmp{Op: symbolic.Gt, X: &symbolic.VarRef{Name: "x"}, Y: symbolic.IntConst(0)},
			Body:  ast.Block{&ast.Assign{Name: "x", Positive: false, Magnitude: 1}},
		},
	}
	p, err := pts.Build("x", 2, body)
	require.NoError(t, err)

	threshold, piPlus, piMinus := pts.AnalyzeThresholdAndPeriod(p)
	fwd := rmc.New(p, rmc.Forward, threshold, piPlus)
	bwd := rmc.New(p, rmc.Backward, threshold, piMinus)

	chain, err := Build(p, threshold, fwd, bwd)
	require.NoError(t, err)

	post, err := chain.PostSet()
	require.NoError(t, err)
	assert.True(t, post[chain.InitialID])
}
