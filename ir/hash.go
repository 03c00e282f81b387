package ir

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"golang.org/x/text/unicode/norm"
)

// Domain prefix for content-addressed expression identity. The version
// suffix enables future encoding migration without colliding hashes.
const DomainExpr = "qexpr/expr/v1"

// Encoding tag bytes, one per Expr variant. These are part of the
// fingerprint format and must never be renumbered within a domain
// version.
const (
	tagScalar      = 0x01
	tagNamedSymbol = 0x02
	tagBoundSymbol = 0x03
	tagPauli       = 0x04
	tagSum         = 0x05
	tagProduct     = 0x06
)

// Fingerprint computes a content-addressed identity for the canonical
// expression: SHA-256 over the domain prefix, a null separator, and a
// deterministic binary encoding of the tree. Two Canonicalized values
// have the same fingerprint iff their trees are structurally equal, so
// downstream consumers can compare or deduplicate by fingerprint
// instead of walking trees.
//
// Fingerprint is only defined on Canonicalized: hashing a
// non-canonical tree would give structurally equivalent sums different
// identities.
func (c Canonicalized) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(DomainExpr))
	h.Write([]byte{0x00}) // Null separator between domain and payload
	h.Write(encodeExpr(nil, c.inner))
	return hex.EncodeToString(h.Sum(nil))
}

// floatBits returns the IEEE-754 bits of v with negative zero folded
// onto positive zero. 0.0 == -0.0 under structural equality, so the
// two must encode identically or equal trees would hash apart.
func floatBits(v float64) uint64 {
	if v == 0 {
		v = 0
	}
	return math.Float64bits(v)
}

// encodeExpr appends a self-delimiting binary encoding of e to buf.
// Every field is either fixed-width or length-prefixed, so no two
// distinct trees share an encoding.
func encodeExpr(buf []byte, e Expr) []byte {
	switch x := e.(type) {
	case *Scalar:
		buf = append(buf, tagScalar)
		buf = binary.BigEndian.AppendUint64(buf, floatBits(x.Value))
	case *SymbolRef:
		name := norm.NFC.String(x.Sym.Name()) // NFC at the serialization boundary
		if v, bound := x.Sym.Value(); bound {
			buf = append(buf, tagBoundSymbol)
			buf = binary.AppendUvarint(buf, uint64(len(name)))
			buf = append(buf, name...)
			buf = binary.BigEndian.AppendUint64(buf, floatBits(v))
		} else {
			buf = append(buf, tagNamedSymbol)
			buf = binary.AppendUvarint(buf, uint64(len(name)))
			buf = append(buf, name...)
		}
	case *PauliTerm:
		ops := x.String.Ops()
		buf = append(buf, tagPauli)
		buf = binary.AppendUvarint(buf, uint64(len(ops)))
		for _, op := range ops {
			buf = binary.AppendUvarint(buf, uint64(op.Index))
			buf = append(buf, byte(op.Op))
		}
	case *Sum:
		buf = append(buf, tagSum)
		buf = binary.AppendUvarint(buf, uint64(len(x.Terms)))
		for _, term := range x.Terms {
			buf = encodeExpr(buf, term)
		}
	case *Product:
		buf = append(buf, tagProduct)
		buf = binary.AppendUvarint(buf, uint64(len(x.Factors)))
		for _, factor := range x.Factors {
			buf = encodeExpr(buf, factor)
		}
	}
	return buf
}
