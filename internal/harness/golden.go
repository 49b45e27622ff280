package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/flowlens/flowlens/internal/report"
)

// RunWithGolden executes a scenario and compares the canonical report
// against a golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Assertion failures and
// golden mismatches are reported through t.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, assertErr := range result.Errors {
		t.Errorf("assertion failed: %s", assertErr.Error())
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-computed result's report against the
// golden file named scenarioName.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	reportJSON, err := report.MarshalCanonical(result.Report)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, reportJSON)
	return nil
}
