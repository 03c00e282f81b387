package ir

import (
	"fmt"
	"slices"
	"strings"
)

// Pauli is a single-qubit Pauli operator.
type Pauli uint8

const (
	PauliI Pauli = iota
	PauliX
	PauliY
	PauliZ
)

// String returns the one-letter operator name.
func (p Pauli) String() string {
	switch p {
	case PauliI:
		return "I"
	case PauliX:
		return "X"
	case PauliY:
		return "Y"
	case PauliZ:
		return "Z"
	default:
		return fmt.Sprintf("Pauli(%d)", uint8(p))
	}
}

// ParsePauli parses a single operator character. Any character outside
// {I, X, Y, Z} is a construction error.
func ParsePauli(c rune) (Pauli, error) {
	switch c {
	case 'I':
		return PauliI, nil
	case 'X':
		return PauliX, nil
	case 'Y':
		return PauliY, nil
	case 'Z':
		return PauliZ, nil
	default:
		return 0, &ParseError{Char: c, Pos: -1}
	}
}

// ParseError reports an invalid operator character encountered while
// parsing a Pauli string. It is the only recoverable error kind in this
// package.
type ParseError struct {
	// Char is the offending character.
	Char rune

	// Pos is the character position (qubit index) within the input, or
	// -1 when the character was parsed in isolation.
	Pos int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("invalid operator character %q at position %d", e.Char, e.Pos)
	}
	return fmt.Sprintf("invalid operator character %q", e.Char)
}

// PauliOp pairs a qubit index with the operator acting on it.
type PauliOp struct {
	Index int
	Op    Pauli
}

// PauliString is a tensor product of Pauli operators acting on specific
// qubit indices, stored sparsely: identities are implicit.
//
// Invariants:
//   - Operators are stored in ascending index order
//   - Identity operators are omitted (the all-identity string is empty)
//   - Indices should be unique; duplicates are currently accepted
//     without error and should be validated later
type PauliString struct {
	ops []PauliOp
}

// NewPauliString constructs a PauliString from an indexed list of Pauli
// operators. The input is normalized: identities are removed and the
// remaining entries are stable-sorted by index. The input slice is not
// retained.
func NewPauliString(ops []PauliOp) PauliString {
	kept := make([]PauliOp, 0, len(ops))
	for _, op := range ops {
		if op.Op != PauliI {
			kept = append(kept, op)
		}
	}
	slices.SortStableFunc(kept, func(a, b PauliOp) int {
		return a.Index - b.Index
	})
	return PauliString{ops: kept}
}

// ParsePauliString builds a PauliString from text, treating character
// position as qubit index and each character as an operator symbol.
// This is the user-facing, fallible entry point; internal callers
// should prefer NewPauliString.
//
// ParsePauliString("XZYIZZ") places X on qubit 0, Z on qubit 1, and so
// on, skipping identities. Any character outside {I, X, Y, Z} returns a
// *ParseError identifying the character and its position.
func ParsePauliString(s string) (PauliString, error) {
	ops := make([]PauliOp, 0, len(s))
	idx := 0
	for _, c := range s {
		p, err := ParsePauli(c)
		if err != nil {
			return PauliString{}, &ParseError{Char: c, Pos: idx}
		}
		if p != PauliI {
			ops = append(ops, PauliOp{Index: idx, Op: p})
		}
		idx++
	}
	return NewPauliString(ops), nil
}

// Ops returns the normalized (index, operator) pairs in ascending index
// order. The returned slice must not be modified.
func (ps PauliString) Ops() []PauliOp {
	return ps.ops
}

// Len returns the number of non-identity operators.
func (ps PauliString) Len() int {
	return len(ps.ops)
}

// Equal reports value equality over both indices and operators.
//
// Note the asymmetry with Compare, which inspects only the index
// sequence: two strings can be order-equal yet value-unequal.
func (ps PauliString) Equal(other PauliString) bool {
	if len(ps.ops) != len(other.ops) {
		return false
	}
	for i, op := range ps.ops {
		if op != other.ops[i] {
			return false
		}
	}
	return true
}

// Compare defines a strict order over the index sequences of two Pauli
// strings, ignoring the operator kind at each position. Two strings
// with identical indices but different operators compare as equal here
// while remaining unequal under Equal. This inconsistency is inherited
// from the reference behavior and is deliberate until decided otherwise;
// do not "fix" it without changing callers that rely on index-positional
// ordering.
func (ps PauliString) Compare(other PauliString) int {
	n := min(len(ps.ops), len(other.ops))
	for i := 0; i < n; i++ {
		if d := ps.ops[i].Index - other.ops[i].Index; d != 0 {
			if d < 0 {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ps.ops) < len(other.ops):
		return -1
	case len(ps.ops) > len(other.ops):
		return 1
	default:
		return 0
	}
}

// String renders "I" for the identity string, otherwise space-joined
// "<operator><index>" tokens in ascending index order, e.g. "X0 Z3".
func (ps PauliString) String() string {
	if len(ps.ops) == 0 {
		return "I"
	}
	var b strings.Builder
	for i, op := range ps.ops {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s%d", op.Op, op.Index)
	}
	return b.String()
}
