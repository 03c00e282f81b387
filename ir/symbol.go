package ir

import (
	"fmt"
	"strconv"
)

// Symbol is a symbolic parameter appearing in operator expressions.
// A symbol is either named (a free parameter) or bound to a numeric
// value. Bound symbols retain symbolic identity: binding does not imply
// evaluation, and a bound symbol is never equal to a named symbol of
// the same name.
//
// Symbols are immutable values; the zero value is the named symbol "".
type Symbol struct {
	name  string
	value float64
	bound bool
}

// Named creates a named symbolic parameter.
func Named(name string) Symbol {
	return Symbol{name: name}
}

// Bound creates a symbol bound to a numeric value.
func Bound(name string, value float64) Symbol {
	return Symbol{name: name, value: value, bound: true}
}

// Name returns the symbol's name, ignoring any bound value.
func (s Symbol) Name() string {
	return s.name
}

// Value returns the bound value and whether the symbol is bound.
func (s Symbol) Value() (float64, bool) {
	return s.value, s.bound
}

// Equal reports structural equality: both variant and all fields must
// match. Named("a") and Bound("a", 0) are not equal.
func (s Symbol) Equal(other Symbol) bool {
	if s.bound != other.bound {
		return false
	}
	if s.name != other.name {
		return false
	}
	return !s.bound || s.value == other.value
}

// Compare defines a strict structural order over symbols: named symbols
// rank before bound symbols, then names compare lexicographically, then
// bound values numerically. Incomparable values (NaN) compare as equal,
// consistent with compareFloat.
func (s Symbol) Compare(other Symbol) int {
	if s.bound != other.bound {
		if !s.bound {
			return -1
		}
		return 1
	}
	if s.name != other.name {
		if s.name < other.name {
			return -1
		}
		return 1
	}
	if !s.bound {
		return 0
	}
	return compareFloat(s.value, other.value)
}

// String renders "name" for named symbols and "name=value" for bound
// symbols.
func (s Symbol) String() string {
	if !s.bound {
		return s.name
	}
	return fmt.Sprintf("%s=%s", s.name, strconv.FormatFloat(s.value, 'g', -1, 64))
}
