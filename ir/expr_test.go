package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExprSealed(t *testing.T) {
	// Verify all node types implement Expr (compile-time check via assignment)
	var _ Expr = &Scalar{}
	var _ Expr = &SymbolRef{}
	var _ Expr = &PauliTerm{}
	var _ Expr = &Sum{}
	var _ Expr = &Product{}
}

func TestConstructorsShareChildren(t *testing.T) {
	// Children already behind shared handles are reused as-is, never
	// deep-copied.
	a := NewSymbol(Named("a"))
	sum := NewSum([]Expr{a})

	require.IsType(t, &Sum{}, sum)
	assert.Same(t, a, sum.(*Sum).Terms[0])
}

func TestConstructorsCopyTopLevelSlice(t *testing.T) {
	terms := []Expr{NewScalar(1), NewScalar(2)}
	sum := NewSum(terms)

	terms[0] = NewScalar(99)
	assert.True(t, Equal(sum.(*Sum).Terms[0], NewScalar(1)))
}

func TestConstructorsDoNotFlatten(t *testing.T) {
	inner := NewSum([]Expr{NewScalar(1), NewScalar(2)})
	outer := NewSum([]Expr{NewScalar(3), inner})

	// The nested sum survives construction; only Flatten removes it.
	require.Len(t, outer.(*Sum).Terms, 2)
	assert.IsType(t, &Sum{}, outer.(*Sum).Terms[1])
}

func TestStructuralEquality(t *testing.T) {
	x := NewPauli(NewPauliString([]PauliOp{{Index: 0, Op: PauliX}}))
	tests := []struct {
		name  string
		a, b  Expr
		equal bool
	}{
		{"same scalar", NewScalar(2.5), NewScalar(2.5), true},
		{"different scalar", NewScalar(2.5), NewScalar(2.6), false},
		{"same symbol", NewSymbol(Named("a")), NewSymbol(Named("a")), true},
		{"named vs bound", NewSymbol(Named("a")), NewSymbol(Bound("a", 0)), false},
		{"scalar vs symbol", NewScalar(1), NewSymbol(Named("1")), false},
		{
			"same sum order",
			NewSum([]Expr{NewScalar(1), x}),
			NewSum([]Expr{NewScalar(1), x}),
			true,
		},
		{
			"reordered sum is structurally unequal",
			NewSum([]Expr{NewScalar(1), x}),
			NewSum([]Expr{x, NewScalar(1)}),
			false,
		},
		{
			"sum vs product over same children",
			NewSum([]Expr{NewScalar(1), x}),
			NewProduct([]Expr{NewScalar(1), x}),
			false,
		},
		{
			"nested shape matters",
			NewSum([]Expr{NewScalar(1), NewSum([]Expr{NewScalar(2)})}),
			NewSum([]Expr{NewScalar(1), NewScalar(2)}),
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, Equal(tt.a, tt.b))
		})
	}
}

func TestRender(t *testing.T) {
	phi := NewSymbol(Named("phi"))
	x0 := NewPauli(NewPauliString([]PauliOp{{Index: 0, Op: PauliX}}))

	sum := NewSum([]Expr{NewScalar(6), phi, x0})
	assert.Equal(t, "(6 + phi + X0)", Render(sum))

	prod := NewProduct([]Expr{sum, x0})
	assert.Equal(t, "((6 + phi + X0) * X0)", Render(prod))

	assert.Equal(t, "I", Render(NewPauli(NewPauliString(nil))))
	assert.Equal(t, "theta=0.25", Render(NewSymbol(Bound("theta", 0.25))))
}
