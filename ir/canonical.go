package ir

import "slices"

// This file implements the canonical-form passes: Flatten, the strict
// order over expression nodes, and Canonicalize. Canonical form is the
// unique representative of a tree's structural-equivalence class under
// commutativity of Sum and associativity of Sum/Product. It is NOT a
// normal form under algebraic equivalence: trees that denote the same
// operator through distributivity or term collection stay distinct.

// Canonicalized wraps an Expr guaranteed to be the output of
// Canonicalize. Functions may require a Canonicalized argument to state
// "already canonical" as a type-level contract instead of a runtime
// check. The zero value is not valid; the only way to obtain a
// Canonicalized is through Canonicalize.
type Canonicalized struct {
	inner Expr
}

// Expr returns the canonical expression.
func (c Canonicalized) Expr() Expr {
	return c.inner
}

// Flatten removes redundant nesting introduced by repeated sum(sum(..))
// or product(product(..)) construction: a flattened Sum term that is
// itself a Sum has its terms spliced in place, and likewise for
// Product. Leaves are returned unchanged, by reference. No semantic
// merging occurs and no order changes; Flatten is idempotent.
func Flatten(e Expr) Expr {
	switch x := e.(type) {
	case *Sum:
		out := make([]Expr, 0, len(x.Terms))
		for _, term := range x.Terms {
			flat := Flatten(term)
			if inner, ok := flat.(*Sum); ok {
				out = append(out, inner.Terms...)
			} else {
				out = append(out, flat)
			}
		}
		return &Sum{Terms: out}
	case *Product:
		out := make([]Expr, 0, len(x.Factors))
		for _, factor := range x.Factors {
			flat := Flatten(factor)
			if inner, ok := flat.(*Product); ok {
				out = append(out, inner.Factors...)
			} else {
				out = append(out, flat)
			}
		}
		return &Product{Factors: out}
	default:
		return e
	}
}

// Variant ranks for the strict order over heterogeneous nodes. The
// ranking is arbitrary but fixed; other implementations must reproduce
// it exactly, so it is spelled out here rather than derived.
const (
	rankScalar = iota
	rankSymbol
	rankPauli
	rankSum
	rankProduct
)

func rank(e Expr) int {
	switch e.(type) {
	case *Scalar:
		return rankScalar
	case *SymbolRef:
		return rankSymbol
	case *PauliTerm:
		return rankPauli
	case *Sum:
		return rankSum
	case *Product:
		return rankProduct
	default:
		panic("ir: unknown Expr variant")
	}
}

// Compare defines the strict order used to sort Sum terms during
// canonicalization: variant rank first (Scalar < Symbol < Pauli < Sum
// < Product), then value or substructure within the same variant.
//
// Incomparable values fall back to "equal" rather than failing: NaN
// scalars compare as order-equal to everything, and Pauli strings
// compare by index sequence only (see PauliString.Compare). Combined
// with a stable sort this keeps canonicalization total and
// deterministic for a given input order.
func Compare(a, b Expr) int {
	if d := rank(a) - rank(b); d != 0 {
		return d
	}
	switch x := a.(type) {
	case *Scalar:
		return compareFloat(x.Value, b.(*Scalar).Value)
	case *SymbolRef:
		return x.Sym.Compare(b.(*SymbolRef).Sym)
	case *PauliTerm:
		return x.String.Compare(b.(*PauliTerm).String)
	case *Sum:
		return compareSeq(x.Terms, b.(*Sum).Terms)
	case *Product:
		return compareSeq(x.Factors, b.(*Product).Factors)
	default:
		panic("ir: unknown Expr variant")
	}
}

// compareSeq orders sequences lexicographically, element-wise, with
// shorter prefixes first.
func compareSeq(a, b []Expr) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if d := Compare(a[i], b[i]); d != 0 {
			return d
		}
	}
	return len(a) - len(b)
}

// compareFloat orders floats numerically, treating incomparable pairs
// (either side NaN) as equal.
func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Canonicalize reduces an expression to the deterministic
// representative of its structural-equivalence class and wraps it:
//
//  1. Flatten the tree.
//  2. Recursively canonicalize every child.
//  3. Stable-sort Sum terms by Compare. Sorting is what makes two sums
//     differing only in term order canonicalize identically.
//  4. Leave Product factor order exactly as given - products do not
//     commute.
//
// Leaves pass through unchanged. Canonicalize never fails and is
// idempotent up to structural equality.
func Canonicalize(e Expr) Canonicalized {
	return Canonicalized{inner: canonicalize(e)}
}

func canonicalize(e Expr) Expr {
	switch x := Flatten(e).(type) {
	case *Sum:
		out := make([]Expr, len(x.Terms))
		for i, term := range x.Terms {
			out[i] = canonicalize(term)
		}
		slices.SortStableFunc(out, Compare)
		return &Sum{Terms: out}
	case *Product:
		out := make([]Expr, len(x.Factors))
		for i, factor := range x.Factors {
			out[i] = canonicalize(factor)
		}
		return &Product{Factors: out}
	default:
		return x
	}
}

// Equal reports structural equality of the wrapped expressions.
func (c Canonicalized) Equal(other Canonicalized) bool {
	return Equal(c.inner, other.inner)
}
