// Package harness runs canonicalization conformance scenarios.
//
// A scenario is a YAML file naming a set of expression snippets (inline
// CUE nodes) together with groups that must canonicalize identically
// and groups that must stay distinct. The runner compiles each snippet,
// canonicalizes it, and checks every group by fingerprint; golden files
// pin the canonical renderings so an ordering regression shows up as a
// readable diff.
//
// Scenarios live in testdata/scenarios, golden files in testdata/golden.
// Regenerate golden files with:
//
//	go test ./internal/harness -update
package harness
