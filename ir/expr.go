package ir

import (
	"strconv"
	"strings"
)

// Expr is a node in an immutable operator-expression tree.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and
// enables exhaustive type switches in the canonicalization passes.
//
// Node types:
//   - Scalar: a numeric coefficient
//   - SymbolRef: a symbolic parameter leaf
//   - PauliTerm: a Pauli-string tensor product leaf
//   - Sum: an ordered sequence of terms; term order is semantically
//     irrelevant (addition commutes)
//   - Product: an ordered sequence of factors; factor order is
//     semantically significant (operator multiplication does not
//     commute) and is never reordered by any pass
//
// Nodes are shared by pointer: a node may be referenced from multiple
// parents, and because every node is immutable, sharing is always safe.
// Constructors never deep-copy children.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// Scalar is a numeric coefficient leaf.
type Scalar struct {
	Value float64
}

func (*Scalar) exprNode() {}

// SymbolRef is a symbolic parameter leaf.
type SymbolRef struct {
	Sym Symbol
}

func (*SymbolRef) exprNode() {}

// PauliTerm is a Pauli-string leaf.
type PauliTerm struct {
	String PauliString
}

func (*PauliTerm) exprNode() {}

// Sum is an ordered sequence of summed terms.
type Sum struct {
	Terms []Expr
}

func (*Sum) exprNode() {}

// Product is an ordered sequence of multiplied factors.
type Product struct {
	Factors []Expr
}

func (*Product) exprNode() {}

// NewScalar creates a scalar leaf.
func NewScalar(v float64) Expr {
	return &Scalar{Value: v}
}

// NewSymbol creates a symbol leaf.
func NewSymbol(s Symbol) Expr {
	return &SymbolRef{Sym: s}
}

// NewPauli creates a Pauli-string leaf.
func NewPauli(ps PauliString) Expr {
	return &PauliTerm{String: ps}
}

// NewSum creates a sum of the given terms. The terms slice is copied so
// later caller mutations cannot reach the node; the terms themselves
// are shared, not copied. No flattening, sorting, or simplification is
// performed - that is Canonicalize's job.
func NewSum(terms []Expr) Expr {
	return &Sum{Terms: slicesClone(terms)}
}

// NewProduct creates a product of the given factors, preserving their
// order. The factors slice is copied; the factors themselves are
// shared. No flattening or simplification is performed.
func NewProduct(factors []Expr) Expr {
	return &Product{Factors: slicesClone(factors)}
}

func slicesClone(in []Expr) []Expr {
	out := make([]Expr, len(in))
	copy(out, in)
	return out
}

// Equal reports purely structural equality: two trees are equal iff
// they have identical shape and identical leaf values in identical
// position and order. No algebraic reasoning is applied - a+b and b+a
// are unequal until canonicalized, and a distributed product is never
// equal to its expanded sum.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case *Scalar:
		y, ok := b.(*Scalar)
		return ok && x.Value == y.Value
	case *SymbolRef:
		y, ok := b.(*SymbolRef)
		return ok && x.Sym.Equal(y.Sym)
	case *PauliTerm:
		y, ok := b.(*PauliTerm)
		return ok && x.String.Equal(y.String)
	case *Sum:
		y, ok := b.(*Sum)
		return ok && equalSeq(x.Terms, y.Terms)
	case *Product:
		y, ok := b.(*Product)
		return ok && equalSeq(x.Factors, y.Factors)
	default:
		return false
	}
}

func equalSeq(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Render produces a simple text rendering of an expression for
// diagnostics: "(a + b)" for sums, "(a * b)" for products, leaf
// renderings otherwise. It is a display format, not a parseable one.
func Render(e Expr) string {
	var b strings.Builder
	render(&b, e)
	return b.String()
}

func render(b *strings.Builder, e Expr) {
	switch x := e.(type) {
	case *Scalar:
		b.WriteString(strconv.FormatFloat(x.Value, 'g', -1, 64))
	case *SymbolRef:
		b.WriteString(x.Sym.String())
	case *PauliTerm:
		b.WriteString(x.String.String())
	case *Sum:
		renderSeq(b, x.Terms, " + ")
	case *Product:
		renderSeq(b, x.Factors, " * ")
	}
}

func renderSeq(b *strings.Builder, nodes []Expr, sep string) {
	b.WriteByte('(')
	for i, n := range nodes {
		if i > 0 {
			b.WriteString(sep)
		}
		render(b, n)
	}
	b.WriteByte(')')
}
