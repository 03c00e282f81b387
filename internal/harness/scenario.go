package harness

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/qexpr/internal/builder"
	"github.com/roach88/qexpr/ir"
)

// Scenario defines a canonicalization conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; it is also the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Exprs maps a label to an inline CUE expression node.
	Exprs map[string]string `yaml:"exprs"`

	// Equivalent lists groups of labels whose expressions must share
	// one canonical fingerprint.
	Equivalent [][]string `yaml:"equivalent,omitempty"`

	// Distinct lists groups of labels whose expressions must all have
	// different canonical fingerprints.
	Distinct [][]string `yaml:"distinct,omitempty"`
}

// TermResult is the canonical outcome for one labeled expression.
type TermResult struct {
	Label       string
	Rendering   string
	Fingerprint string
}

// Result holds the outcome of running a scenario.
type Result struct {
	// Terms are the canonicalized expressions, sorted by label.
	Terms []TermResult

	// Failures lists violated equivalence or distinctness expectations.
	Failures []string
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "equivalents:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Exprs) == 0 {
		return fmt.Errorf("exprs is required")
	}
	for _, group := range append(append([][]string{}, s.Equivalent...), s.Distinct...) {
		if len(group) < 2 {
			return fmt.Errorf("groups need at least two labels, got %v", group)
		}
		for _, label := range group {
			if _, ok := s.Exprs[label]; !ok {
				return fmt.Errorf("group references unknown label %q", label)
			}
		}
	}
	return nil
}

// Run compiles, canonicalizes, and checks a scenario. Compile errors
// abort the run; violated expectations are collected in
// Result.Failures.
func Run(s *Scenario) (*Result, error) {
	ctx := cuecontext.New()

	fingerprints := make(map[string]string, len(s.Exprs))
	result := &Result{}

	labels := make([]string, 0, len(s.Exprs))
	for label := range s.Exprs {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		v := ctx.CompileString(s.Exprs[label])
		if err := v.Err(); err != nil {
			return nil, fmt.Errorf("%s: parsing %q: %w", s.Name, label, err)
		}
		expr, err := builder.Compile(v)
		if err != nil {
			return nil, fmt.Errorf("%s: compiling %q: %w", s.Name, label, err)
		}

		canonical := ir.Canonicalize(expr)
		fp := canonical.Fingerprint()
		fingerprints[label] = fp
		result.Terms = append(result.Terms, TermResult{
			Label:       label,
			Rendering:   ir.Render(canonical.Expr()),
			Fingerprint: fp,
		})
	}

	for _, group := range s.Equivalent {
		want := fingerprints[group[0]]
		for _, label := range group[1:] {
			if fingerprints[label] != want {
				result.Failures = append(result.Failures, fmt.Sprintf(
					"expected %q and %q to canonicalize identically", group[0], label))
			}
		}
	}

	for _, group := range s.Distinct {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if fingerprints[group[i]] == fingerprints[group[j]] {
					result.Failures = append(result.Failures, fmt.Sprintf(
						"expected %q and %q to stay distinct", group[i], group[j]))
				}
			}
		}
	}

	return result, nil
}
