package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/qexpr/internal/builder"
)

// LoadError represents an error that occurred while loading an
// expression document.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadExprFile reads and compiles one CUE expression document.
func LoadExprFile(path string) ([]builder.NamedExpr, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("expression file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}

	exprs, err := builder.CompileDocument(v)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeCompileFailed, Message: fmt.Sprintf("%s: %v", path, err)}
	}
	return exprs, nil
}
