package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qexpr/ir"
)

// ParseResult holds the outcome of parsing one Pauli string.
type ParseResult struct {
	Input      string `json:"input"`
	Normalized string `json:"normalized"`
	Operators  int    `json:"operators"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <pauli-string>",
		Short: "Parse a textual Pauli string into normalized form",
		Long: `Parse a textual Pauli string, treating character position as qubit
index, and print the normalized sparse form. Identities are dropped and
operators are listed in ascending index order; the all-identity string
prints as "I".`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runParse(opts *RootOptions, input string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ps, err := ir.ParsePauliString(input)
	if err != nil {
		var perr *ir.ParseError
		details := interface{}(nil)
		if errors.As(err, &perr) {
			details = map[string]interface{}{"char": string(perr.Char), "pos": perr.Pos}
		}
		if ferr := formatter.Error(ErrCodeParseFailed, err.Error(), details); ferr != nil {
			return ferr
		}
		return NewExitError(ExitFailure, err.Error())
	}

	result := ParseResult{
		Input:      input,
		Normalized: ps.String(),
		Operators:  ps.Len(),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintln(formatter.Writer, result.Normalized)
	return nil
}
