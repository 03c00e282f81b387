package builder

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/qexpr/ir"
)

// nodeFields are the recognized expression node kinds; every node must
// carry exactly one of them.
var nodeFields = []string{"scalar", "symbol", "pauli", "sum", "product"}

// NamedExpr pairs an expression tree with the document label it was
// compiled from.
type NamedExpr struct {
	Name string
	Expr ir.Expr
}

// CompileError represents an error in a CUE expression document.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CompileDocument compiles every entry under the document's exprs
// field, in document order. The exprs field is required and must hold
// at least one expression.
func CompileDocument(v cue.Value) ([]NamedExpr, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	exprsVal := v.LookupPath(cue.ParsePath("exprs"))
	if !exprsVal.Exists() {
		return nil, &CompileError{
			Field:   "exprs",
			Message: "exprs is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := exprsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []NamedExpr
	for iter.Next() {
		name := iter.Label()
		expr, err := Compile(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("exprs.%s: %w", name, err)
		}
		out = append(out, NamedExpr{Name: name, Expr: expr})
	}
	if len(out) == 0 {
		return nil, &CompileError{
			Field:   "exprs",
			Message: "at least one expression is required",
			Pos:     exprsVal.Pos(),
		}
	}
	return out, nil
}

// Compile parses a single CUE expression node into an ir.Expr.
// The node must carry exactly one of scalar, symbol, pauli, sum, or
// product.
func Compile(v cue.Value) (ir.Expr, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	var kind string
	for _, f := range nodeFields {
		if v.LookupPath(cue.ParsePath(f)).Exists() {
			if kind != "" {
				return nil, &CompileError{
					Field:   f,
					Message: fmt.Sprintf("node carries both %s and %s; exactly one kind is allowed", kind, f),
					Pos:     v.Pos(),
				}
			}
			kind = f
		}
	}
	if kind == "" {
		return nil, &CompileError{
			Field:   "expr",
			Message: "node must carry one of scalar, symbol, pauli, sum, product",
			Pos:     v.Pos(),
		}
	}

	node := v.LookupPath(cue.ParsePath(kind))
	switch kind {
	case "scalar":
		return compileScalar(node)
	case "symbol":
		return compileSymbol(node)
	case "pauli":
		return compilePauli(node)
	case "sum":
		terms, err := compileList(node, "sum")
		if err != nil {
			return nil, err
		}
		return ir.NewSum(terms), nil
	default: // product
		factors, err := compileList(node, "product")
		if err != nil {
			return nil, err
		}
		return ir.NewProduct(factors), nil
	}
}

func compileScalar(v cue.Value) (ir.Expr, error) {
	f, err := v.Float64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	return ir.NewScalar(f), nil
}

func compileSymbol(v cue.Value) (ir.Expr, error) {
	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &CompileError{
			Field:   "symbol.name",
			Message: "name is required",
			Pos:     v.Pos(),
		}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}

	valueVal := v.LookupPath(cue.ParsePath("value"))
	if !valueVal.Exists() {
		return ir.NewSymbol(ir.Named(name)), nil
	}
	value, err := valueVal.Float64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	return ir.NewSymbol(ir.Bound(name, value)), nil
}

func compilePauli(v cue.Value) (ir.Expr, error) {
	s, err := v.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	ps, err := ir.ParsePauliString(s)
	if err != nil {
		return nil, &CompileError{
			Field:   "pauli",
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	return ir.NewPauli(ps), nil
}

func compileList(v cue.Value, field string) ([]ir.Expr, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{
			Field:   field,
			Message: "must be a list of expression nodes",
			Pos:     v.Pos(),
		}
	}
	var out []ir.Expr
	for i := 0; iter.Next(); i++ {
		child, err := Compile(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		out = append(out, child)
	}
	return out, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return firstErr
}
