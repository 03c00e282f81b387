package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/qexpr/internal/cache"
	"github.com/roach88/qexpr/ir"
)

// BatchManifest describes a batch intern run.
type BatchManifest struct {
	// Name labels the run in diagnostics.
	Name string `yaml:"name"`

	// Documents lists CUE expression files to canonicalize and intern.
	// Paths are relative to the manifest file location.
	Documents []string `yaml:"documents"`

	// DB is the term-cache path. Relative to the manifest file unless
	// overridden by the --db flag.
	DB string `yaml:"db"`
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	Name       string `json:"name"`
	Documents  int    `json:"documents"`
	Terms      int    `json:"terms"`
	New        int    `json:"new"`
	Duplicates int    `json:"duplicates"`
	Run        string `json:"run"`
}

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	DBPath string // overrides the manifest db path
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <manifest.yaml>",
		Short: "Canonicalize and intern expression documents listed in a manifest",
		Long: `Run a batch intern: compile every expression document listed in a YAML
manifest, canonicalize each expression, and intern the results into a
term cache. Reports how many terms were new versus already known.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "term cache path (overrides the manifest)")

	return cmd
}

func loadManifest(path string) (*BatchManifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("manifest not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeManifest, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	var m BatchManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &LoadError{Code: ErrCodeManifest, Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	if len(m.Documents) == 0 {
		return nil, &LoadError{Code: ErrCodeManifest, Message: "manifest lists no documents"}
	}
	return &m, nil
}

func runBatch(opts *BatchOptions, manifestPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	manifest, err := loadManifest(manifestPath)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	base := filepath.Dir(manifestPath)
	dbPath := opts.DBPath
	if dbPath == "" {
		if manifest.DB == "" {
			return outputLoadError(formatter, &LoadError{
				Code:    ErrCodeManifest,
				Message: "no term cache given: set db in the manifest or pass --db",
			})
		}
		dbPath = filepath.Join(base, manifest.DB)
	}

	db, err := cache.Open(dbPath)
	if err != nil {
		if ferr := formatter.Error(ErrCodeCacheFailed, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "opening term cache", err)
	}
	defer db.Close()

	run, err := db.BeginRun(cmd.Context())
	if err != nil {
		if ferr := formatter.Error(ErrCodeCacheFailed, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "starting cache run", err)
	}

	result := BatchResult{Name: manifest.Name, Run: run}
	for _, doc := range manifest.Documents {
		path := filepath.Join(base, doc)
		exprs, err := LoadExprFile(path)
		if err != nil {
			return outputLoadError(formatter, err)
		}
		formatter.VerboseLog("Interning %d expression(s) from %s", len(exprs), path)

		result.Documents++
		for _, ne := range exprs {
			res, err := db.Intern(cmd.Context(), run, ir.Canonicalize(ne.Expr))
			if err != nil {
				if ferr := formatter.Error(ErrCodeCacheFailed, err.Error(), nil); ferr != nil {
					return ferr
				}
				return WrapExitError(ExitCommandError, "interning term", err)
			}
			result.Terms++
			if res.Known {
				result.Duplicates++
			} else {
				result.New++
			}
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "%s: %d document(s), %d term(s), %d new, %d duplicate(s)\n",
		result.Name, result.Documents, result.Terms, result.New, result.Duplicates)
	return nil
}
