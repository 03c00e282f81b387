// Package builder compiles CUE expression documents into ir expression
// trees.
//
// The builder is a front end only: it emits exactly the tree a document
// describes, with no flattening, reordering, or simplification. Callers
// pass the result to ir.Canonicalize themselves, so the boundary between
// "what was written" and "the canonical representative" stays visible.
//
// Document shape:
//
//	exprs: hamiltonian: {
//	    sum: [
//	        {scalar: 0.5},
//	        {pauli: "XZ"},
//	        {product: [
//	            {symbol: {name: "phi"}},
//	            {pauli: "IYZ"},
//	        ]},
//	    ]
//	}
//
// Each node carries exactly one of scalar, symbol, pauli, sum, or
// product. Symbols may bind a numeric value with an optional value
// field. Pauli strings use the textual form: character position is the
// qubit index.
package builder
