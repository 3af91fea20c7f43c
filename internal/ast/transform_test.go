package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pastry/internal/symbolic"
)

// Transform.Assign returning a *Seq must splice its statements back into
// the surrounding block flattened, not nested -- CondBounded's co-update
// rewrite relies on this to turn one assignment into several siblings.
func TestTransformBlockSplicesSeqResults(t *testing.T) {
	body := Block{
		&Assign{Name: "v", Positive: true, Magnitude: 1},
	}
	tr := Transform{
		Assign: func(a *Assign) Stmt {
			return &Seq{Stmts: Block{
				&Assign{Name: "v", Positive: true, Magnitude: 1},
				&Assign{Name: "w", Positive: false, Magnitude: 2},
			}}
		},
	}
	out := tr.Block(body)
	require.Len(t, out, 2)
	assign0, ok := out[0].(*Assign)
	require.True(t, ok)
	assert.Equal(t, "v", assign0.Name)
	assign1, ok := out[1].(*Assign)
	require.True(t, ok)
	assert.Equal(t, "w", assign1.Name)
}

// Transform.Guard must rewrite guards on both branches of nested
// control-flow, not just the top level.
func TestTransformStmtRewritesNestedGuards(t *testing.T) {
	inner := &While{
		Guard: &symbolic.Cmp{Op: symbolic.Gt, X: &symbolic.VarRef{Name: "x"}, Y: symbolic.IntConst(0)},
		Body:  Block{},
	}
	outer := &If{
		Guard: &symbolic.Cmp{Op: symbolic.Gt, X: &symbolic.VarRef{Name: "x"}, Y: symbolic.IntConst(0)},
		Then:  Block{inner},
		Else:  Block{},
	}

	replaced := &symbolic.BoolConst{Value: true}
	tr := Transform{Guard: func(p symbolic.Pred) symbolic.Pred { return replaced }}

	rewritten := tr.Stmt(outer).(*If)
	assert.Same(t, replaced, rewritten.Guard)

	nestedWhile := rewritten.Then[0].(*While)
	assert.Same(t, replaced, nestedWhile.Guard)
}

// Guards and Assigns must collect from every nested block, in traversal
// order, since the normalizer classes scan both to detect their class.
func TestGuardsAndAssignsCollectFromNestedBlocks(t *testing.T) {
	g1 := &symbolic.Cmp{Op: symbolic.Gt, X: &symbolic.VarRef{Name: "x"}, Y: symbolic.IntConst(0)}
	g2 := &symbolic.Cmp{Op: symbolic.Lt, X: &symbolic.VarRef{Name: "y"}, Y: symbolic.IntConst(5)}
	body := Block{
		&While{Guard: g1, Body: Block{
			&Assign{Name: "x", Positive: false, Magnitude: 1},
			&If{Guard: g2, Then: Block{&Assign{Name: "y", Positive: true, Magnitude: 1}}, Else: Block{}},
		}},
	}

	guards := Guards(body)
	require.Len(t, guards, 2)
	assert.Same(t, g1, guards[0])
	assert.Same(t, g2, guards[1])

	assigns := Assigns(body)
	require.Len(t, assigns, 2)
	assert.Equal(t, "x", assigns[0].Name)
	assert.Equal(t, "y", assigns[1].Name)
}
