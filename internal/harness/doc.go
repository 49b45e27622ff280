// Package harness runs YAML scenario files end to end through the
// extraction pipeline: load a document (from a file or inline), extract
// its data flow, classify against the scenario's schema and stored
// variables, and evaluate typed assertions on the resulting report.
//
// Scenarios decode strictly: unknown YAML keys are rejected so a typo in
// an assertion name fails loudly instead of silently passing.
//
// Golden mode compares the report's canonical JSON against a fixture in
// testdata/golden via goldie; regenerate with go test -update.
package harness
