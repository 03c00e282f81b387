package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares the canonical
// renderings against a golden file at testdata/golden/{Name}.golden.
// Renderings, not fingerprints, go into the snapshot so a diff reads as
// expression text rather than hex.
//
// Group expectations are checked first; any violation fails the test
// before the golden comparison.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, failure := range result.Failures {
		t.Errorf("%s: %s", scenario.Name, failure)
	}

	var buf bytes.Buffer
	for _, term := range result.Terms {
		fmt.Fprintf(&buf, "%s\t%s\n", term.Label, term.Rendering)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, buf.Bytes())

	return nil
}
