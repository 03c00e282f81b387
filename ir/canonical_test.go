package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sym(name string) Expr {
	return NewSymbol(Named(name))
}

func pauli(t *testing.T, s string) Expr {
	t.Helper()
	ps, err := ParsePauliString(s)
	require.NoError(t, err)
	return NewPauli(ps)
}

func TestFlattenSimpleSum(t *testing.T) {
	// (a + (b + c)) -> (a + b + c)
	a, b, c := sym("a"), sym("b"), sym("c")
	nested := NewSum([]Expr{a, NewSum([]Expr{b, c})})

	flat := Flatten(nested)

	sum, ok := flat.(*Sum)
	require.True(t, ok, "Flatten did not return a Sum")
	require.Len(t, sum.Terms, 3)
	assert.Same(t, a, sum.Terms[0])
	assert.Same(t, b, sum.Terms[1])
	assert.Same(t, c, sum.Terms[2])
}

func TestFlattenNestedProduct(t *testing.T) {
	// (x * (y * z)) -> (x * y * z)
	x := pauli(t, "X")
	y := pauli(t, "IY")
	z := pauli(t, "IIZ")
	nested := NewProduct([]Expr{x, NewProduct([]Expr{y, z})})

	flat := Flatten(nested)

	prod, ok := flat.(*Product)
	require.True(t, ok, "Flatten did not return a Product")
	require.Len(t, prod.Factors, 3)
	assert.Same(t, x, prod.Factors[0])
	assert.Same(t, y, prod.Factors[1])
	assert.Same(t, z, prod.Factors[2])
}

func TestFlattenLeafNode(t *testing.T) {
	s := sym("phi")
	assert.Same(t, s, Flatten(s))
}

func TestFlattenDeepNesting(t *testing.T) {
	// sum(sum(sum(a))) collapses to a single-level sum in one pass.
	a := sym("a")
	nested := NewSum([]Expr{NewSum([]Expr{NewSum([]Expr{a})})})

	flat := Flatten(nested)

	sum, ok := flat.(*Sum)
	require.True(t, ok)
	require.Len(t, sum.Terms, 1)
	assert.Same(t, a, sum.Terms[0])
}

func TestFlattenDoesNotCrossKinds(t *testing.T) {
	// A Sum inside a Product is not spliced; only same-kind nesting
	// unrolls.
	inner := NewSum([]Expr{sym("a"), sym("b")})
	prod := NewProduct([]Expr{sym("c"), inner})

	flat := Flatten(prod)

	p, ok := flat.(*Product)
	require.True(t, ok)
	require.Len(t, p.Factors, 2)
	assert.IsType(t, &Sum{}, p.Factors[1])
}

func TestFlattenIdempotent(t *testing.T) {
	nested := NewSum([]Expr{
		sym("a"),
		NewSum([]Expr{sym("b"), NewProduct([]Expr{sym("c"), NewProduct([]Expr{sym("d"), sym("e")})})}),
	})

	once := Flatten(nested)
	twice := Flatten(once)

	assert.True(t, Equal(once, twice))
}

func TestCompareRankTable(t *testing.T) {
	// Scalar < Symbol < Pauli < Sum < Product, in that fixed order.
	ordered := []Expr{
		NewScalar(1),
		sym("a"),
		pauli(t, "X"),
		NewSum([]Expr{sym("a")}),
		NewProduct([]Expr{sym("a")}),
	}
	for i := range ordered {
		for j := range ordered {
			got := Compare(ordered[i], ordered[j])
			switch {
			case i < j:
				assert.Negative(t, got, "rank %d vs %d", i, j)
			case i > j:
				assert.Positive(t, got, "rank %d vs %d", i, j)
			default:
				assert.Zero(t, got, "rank %d vs itself", i)
			}
		}
	}
}

func TestCompareScalarNaNFallsBackToEqual(t *testing.T) {
	// Incomparable pairs are silently treated as order-equal rather
	// than failing.
	nan := NewScalar(math.NaN())
	assert.Zero(t, Compare(nan, NewScalar(1)))
	assert.Zero(t, Compare(NewScalar(1), nan))
	assert.Zero(t, Compare(nan, nan))
}

func TestCompareSequences(t *testing.T) {
	ab := NewSum([]Expr{sym("a"), sym("b")})
	ac := NewSum([]Expr{sym("a"), sym("c")})
	abc := NewSum([]Expr{sym("a"), sym("b"), sym("c")})

	assert.Negative(t, Compare(ab, ac))
	assert.Negative(t, Compare(ab, abc)) // shorter prefix first
	assert.Zero(t, Compare(ab, NewSum([]Expr{sym("a"), sym("b")})))
}

func TestCanonicalSameOrder(t *testing.T) {
	a, b, c := sym("a"), sym("b"), sym("c")

	sum1 := Canonicalize(NewSum([]Expr{a, b, c}))
	sum2 := Canonicalize(NewSum([]Expr{a, b, c}))

	assert.True(t, sum1.Equal(sum2))
}

func TestCanonicalDifferentOrder(t *testing.T) {
	a, b, c := sym("a"), sym("b"), sym("c")

	sum1 := Canonicalize(NewSum([]Expr{a, b, c}))
	sum2 := Canonicalize(NewSum([]Expr{c, a, b}))

	assert.True(t, sum1.Equal(sum2))
}

func TestCanonicalAllPermutations(t *testing.T) {
	a, b, c := NewScalar(6), sym("phi"), pauli(t, "X")
	reference := Canonicalize(NewSum([]Expr{a, b, c}))

	perms := [][]Expr{
		{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a},
	}
	for _, p := range perms {
		assert.True(t, reference.Equal(Canonicalize(NewSum(p))))
	}
}

func TestCanonicalNested(t *testing.T) {
	a, b, c := sym("a"), sym("b"), sym("c")

	nested1 := NewSum([]Expr{a, NewSum([]Expr{c, b})})
	nested2 := NewSum([]Expr{a, NewSum([]Expr{b, c})})

	assert.True(t, Canonicalize(nested1).Equal(Canonicalize(nested2)))
}

func TestCanonicalProductOrderPreserved(t *testing.T) {
	x := pauli(t, "X")
	y := pauli(t, "Y")
	s := sym("phi")
	a := NewSum([]Expr{NewScalar(6), s, x})

	combined1 := NewProduct([]Expr{a, x, s, y})
	combined2 := NewProduct([]Expr{x, y, s, a})

	assert.False(t, Canonicalize(combined1).Equal(Canonicalize(combined2)))
}

func TestCanonicalProductWithReorderedInternalSums(t *testing.T) {
	// Reordering terms inside a Sum nested in a Product does not change
	// the canonical result; reordering the Product's own factors does.
	x := pauli(t, "X")
	y := pauli(t, "Y")
	s := sym("phi")

	a := NewSum([]Expr{NewScalar(6), s, x})
	aChanged := NewSum([]Expr{NewScalar(6), x, s})

	combined1 := NewProduct([]Expr{a, x, s, y})
	combined2 := NewProduct([]Expr{aChanged, x, s, y})

	assert.True(t, Canonicalize(combined1).Equal(Canonicalize(combined2)))
}

func TestCanonicalIdempotent(t *testing.T) {
	tree := NewProduct([]Expr{
		NewSum([]Expr{sym("b"), NewSum([]Expr{sym("a"), NewScalar(2)})}),
		pauli(t, "XZ"),
		NewProduct([]Expr{sym("c"), sym("d")}),
	})

	once := Canonicalize(tree)
	twice := Canonicalize(once.Expr())

	assert.True(t, once.Equal(twice))
}

func TestCanonicalLeafPassThrough(t *testing.T) {
	s := sym("phi")
	assert.Same(t, s, Canonicalize(s).Expr())
}

func TestCanonicalFlattensBeforeSorting(t *testing.T) {
	// sum(c, sum(b, a)) and sum(a, b, c) land on the same representative.
	a, b, c := sym("a"), sym("b"), sym("c")

	nested := Canonicalize(NewSum([]Expr{c, NewSum([]Expr{b, a})}))
	flat := Canonicalize(NewSum([]Expr{a, b, c}))

	assert.True(t, nested.Equal(flat))

	sum, ok := nested.Expr().(*Sum)
	require.True(t, ok)
	require.Len(t, sum.Terms, 3)
	assert.True(t, Equal(sum.Terms[0], a))
	assert.True(t, Equal(sum.Terms[1], b))
	assert.True(t, Equal(sum.Terms[2], c))
}

func TestAlgebraicEquivalenceNotRecognized(t *testing.T) {
	// a*(b+c) and a*b + a*c denote the same operator but are
	// structurally distinct; canonicalization must keep them distinct.
	a, b, c := sym("a"), sym("b"), sym("c")

	distributed := NewProduct([]Expr{a, NewSum([]Expr{b, c})})
	expanded := NewSum([]Expr{NewProduct([]Expr{a, b}), NewProduct([]Expr{a, c})})

	assert.False(t, Canonicalize(distributed).Equal(Canonicalize(expanded)))
}
