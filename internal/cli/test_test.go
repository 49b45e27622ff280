package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `
name: inline_pass
description: inline document with satisfied assertions
inline:
  steps:
    - method: enterText
      args: ["ctx.data.user.email"]
schema:
  - user.email
assertions:
  - type: read_count
    count: 1
  - type: classified_as
    field: user.email
    bucket: valid
`

const failingScenario = `
name: inline_fail
description: assertion that cannot hold
inline:
  steps:
    - method: enterText
      args: ["ctx.data.user.email"]
assertions:
  - type: read_count
    count: 7
`

// execTest runs the test command with the given args against a buffer.
func execTest(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestTestSingleScenarioPasses(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pass.yaml", passingScenario)

	buf, err := execTest(t, "text", path)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "PASS inline_pass")
	assert.Contains(t, output, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestDirectoryMixedResults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pass.yaml", passingScenario)
	writeFile(t, dir, "fail.yaml", failingScenario)

	buf, err := execTest(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	output := buf.String()
	assert.Contains(t, output, "PASS inline_pass")
	assert.Contains(t, output, "FAIL inline_fail")
	assert.Contains(t, output, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pass.yaml", passingScenario)
	writeFile(t, dir, "fail.yaml", failingScenario)

	// Filter matches file names, so the failing scenario never runs
	buf, err := execTest(t, "text", dir, "--filter", "pass")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestGoldenUpdateAndCompare(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pass.yaml", passingScenario)

	buf, err := execTest(t, "text", path, "--update")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "golden updated")

	goldenPath := filepath.Join(dir, "golden", "inline_pass.golden")
	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"report_version":"1"`)

	// Clean run against the fresh golden passes
	_, err = execTest(t, "text", path)
	require.NoError(t, err)

	// A perturbed golden is a mismatch
	require.NoError(t, os.WriteFile(goldenPath, []byte(`{"report_version":"0"}`), 0644))
	buf, err = execTest(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "does not match golden file")
}

func TestTestJSONEnvelope(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fail.yaml", failingScenario)

	buf, err := execTest(t, "json", dir)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
}

func TestTestNoScenarios(t *testing.T) {
	buf, err := execTest(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No scenarios found.")
}

func TestTestBadPath(t *testing.T) {
	_, err := execTest(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
