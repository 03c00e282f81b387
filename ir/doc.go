// Package ir provides the symbolic intermediate representation for
// quantum-operator expressions: sums and products of scalars, symbolic
// parameters, and Pauli-string tensor products.
//
// This package is the foundational layer. All other packages import ir;
// ir imports nothing internal. It contains type definitions, constructors,
// and the canonicalization passes only - no evaluation, no algebraic
// simplification.
//
// Key design constraints:
//   - Every node is immutable once constructed; subtrees are shared by
//     pointer and never deep-copied
//   - Equality is structural, not algebraic: a+b and b+a are different
//     trees until canonicalized
//   - Product factor order is semantically significant (operators do not
//     commute) and is never reordered by any pass
//   - Canonicalized is the only proof a tree has been canonicalized; it
//     cannot be constructed outside this package
package ir
