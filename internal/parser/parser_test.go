package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pastry/internal/ast"
)

func TestParseSymmetricRandomWalk(t *testing.T) {
	src := `
int x = 5;

while (x > 0) {
  {
    x := x + 1;
  } [1/2] {
    x := x - 1;
  }
}
`
	prog, err := ParseString("walk", src)
	require.NoError(t, err)
	require.Equal(t, int64(5), prog.Variables["x"])
	require.Len(t, prog.Body, 1)

	w, ok := prog.Body[0].(*ast.While)
	require.True(t, ok)
	require.Len(t, w.Body, 1)

	choice, ok := w.Body[0].(*ast.Choice)
	require.True(t, ok)
	assert.Equal(t, int64(1), choice.Num)
	assert.Equal(t, int64(2), choice.Den)

	assign, ok := choice.Then[0].(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Name)
	assert.True(t, assign.Positive)
	assert.Equal(t, int64(1), assign.Magnitude)
}

func TestParseBoundedAnnotation(t *testing.T) {
	src := `
/*@ Bounded[x, -2, 3] @*/
int x = 0;
int y = 0;

skip;
`
	prog, err := ParseString("bounded", src)
	require.NoError(t, err)
	require.NotNil(t, prog.Annotation)
	assert.Equal(t, ast.AnnotationBounded, prog.Annotation.Kind)
	require.Len(t, prog.Annotation.Bounded, 1)
	assert.Equal(t, "x", prog.Annotation.Bounded[0].Name)
	assert.Equal(t, int64(-2), prog.Annotation.Bounded[0].Lo)
	assert.Equal(t, int64(3), prog.Annotation.Bounded[0].Hi)
}

// The canonical annotation spelling separates the category name from its
// bracketed tuples with a comma ("Bounded, [x,0,3], [y,0,3]"); the category
// token must still resolve to "Bounded" once the comma is swept up with the
// rest of the delimiter-split tokens.
func TestParseBoundedAnnotationWithCommaAfterCategory(t *testing.T) {
	src := `
/*@ Bounded, [x,0,3], [y,0,3] @*/
int x = 2;
int y = 2;

skip;
`
	prog, err := ParseString("bounded-comma", src)
	require.NoError(t, err)
	require.NotNil(t, prog.Annotation)
	assert.Equal(t, ast.AnnotationBounded, prog.Annotation.Kind)
	require.Len(t, prog.Annotation.Bounded, 2)
	assert.Equal(t, "x", prog.Annotation.Bounded[0].Name)
	assert.Equal(t, "y", prog.Annotation.Bounded[1].Name)
}

func TestParseCondBoundedAnnotation(t *testing.T) {
	src := `
/*@ CondBounded, c, [v, 1, 2, 0, 5] @*/
int c = 0;
int v = 0;

skip;
`
	prog, err := ParseString("condbounded", src)
	require.NoError(t, err)
	require.NotNil(t, prog.Annotation)
	assert.Equal(t, ast.AnnotationCondBounded, prog.Annotation.Kind)
	assert.Equal(t, "c", prog.Annotation.Central)
	require.Len(t, prog.Annotation.CondBounded, 1)
	cb := prog.Annotation.CondBounded[0]
	assert.Equal(t, "v", cb.Name)
	assert.Equal(t, int64(1), cb.A)
	assert.Equal(t, int64(2), cb.B)
	assert.Equal(t, int64(0), cb.C)
	assert.Equal(t, int64(5), cb.D)
}

func TestParseRejectsMismatchedAssign(t *testing.T) {
	_, err := ParseString("bad", "int x = 0;\nx := y + 1;\n")
	assert.Error(t, err)
}

func TestParseDivModGuard(t *testing.T) {
	src := `
int x = 0;
while (MOD(x, 2) = 0) {
  x := x + 1;
}
`
	_, err := ParseString("divmod", src)
	require.NoError(t, err)
}
