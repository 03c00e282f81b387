package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qexpr/internal/cache"
	"github.com/roach88/qexpr/ir"
)

// CanonOptions holds flags for the canon command.
type CanonOptions struct {
	*RootOptions
	DBPath string // optional term-cache path
}

// CanonTerm is the per-expression payload of a canon run.
type CanonTerm struct {
	Name        string `json:"name"`
	Canonical   string `json:"canonical"`
	Fingerprint string `json:"fingerprint"`
	Known       *bool  `json:"known,omitempty"` // set when interning into a cache
}

// CanonResult aggregates a canon run.
type CanonResult struct {
	File  string      `json:"file"`
	Terms []CanonTerm `json:"terms"`
}

// NewCanonCommand creates the canon command.
func NewCanonCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CanonOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "canon <expr-file.cue>",
		Short: "Canonicalize expressions from a CUE document",
		Long: `Compile a CUE expression document, canonicalize every expression, and
print the canonical rendering and content fingerprint of each.

Two expressions that differ only in sum-term order or associative
nesting print identical fingerprints; product factor order is
significant and preserved.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanon(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "intern results into a term cache at this path")

	return cmd
}

func runCanon(opts *CanonOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	exprs, err := LoadExprFile(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Compiled %d expression(s) from %s", len(exprs), path)

	var (
		db  *cache.Cache
		run string
	)
	if opts.DBPath != "" {
		db, err = cache.Open(opts.DBPath)
		if err != nil {
			if ferr := formatter.Error(ErrCodeCacheFailed, err.Error(), nil); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitCommandError, "opening term cache", err)
		}
		defer db.Close()

		run, err = db.BeginRun(cmd.Context())
		if err != nil {
			if ferr := formatter.Error(ErrCodeCacheFailed, err.Error(), nil); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitCommandError, "starting cache run", err)
		}
	}

	result := CanonResult{File: path}
	for _, ne := range exprs {
		canonical := ir.Canonicalize(ne.Expr)
		term := CanonTerm{
			Name:        ne.Name,
			Canonical:   ir.Render(canonical.Expr()),
			Fingerprint: canonical.Fingerprint(),
		}
		if db != nil {
			res, err := db.Intern(cmd.Context(), run, canonical)
			if err != nil {
				if ferr := formatter.Error(ErrCodeCacheFailed, err.Error(), nil); ferr != nil {
					return ferr
				}
				return WrapExitError(ExitCommandError, "interning term", err)
			}
			known := res.Known
			term.Known = &known
		}
		result.Terms = append(result.Terms, term)
	}

	return outputCanonResult(formatter, result)
}

func outputCanonResult(f *OutputFormatter, result CanonResult) error {
	if f.Format == "json" {
		return f.Success(result)
	}
	for _, term := range result.Terms {
		fmt.Fprintf(f.Writer, "%s\t%s\t%s", term.Name, term.Fingerprint[:12], term.Canonical)
		if term.Known != nil && *term.Known {
			fmt.Fprint(f.Writer, "\t(known)")
		}
		fmt.Fprintln(f.Writer)
	}
	return nil
}

// outputLoadError renders a load failure and converts it into an exit
// code: missing paths are command errors, everything else a failure.
func outputLoadError(f *OutputFormatter, err error) error {
	var lerr *LoadError
	if errors.As(err, &lerr) {
		if ferr := f.Error(lerr.Code, lerr.Message, nil); ferr != nil {
			return ferr
		}
		if lerr.Code == ErrCodeNotFound {
			return NewExitError(ExitCommandError, lerr.Message)
		}
		return NewExitError(ExitFailure, lerr.Message)
	}
	if ferr := f.Error(ErrCodeGeneric, err.Error(), nil); ferr != nil {
		return ferr
	}
	return NewExitError(ExitFailure, err.Error())
}
