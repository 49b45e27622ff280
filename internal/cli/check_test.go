package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAllSatisfied(t *testing.T) {
	dir := t.TempDir()
	docPath := writeFile(t, dir, "login.json", loginDoc)
	schemaPath := writeFile(t, dir, "fields.json", `["user.role"]`)

	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{docPath, "--schema", schemaPath})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "valid: 1")
	assert.Contains(t, output, "from stored: 1")
}

func TestCheckMissingReadFails(t *testing.T) {
	docPath := writeFile(t, t.TempDir(), "login.json", loginDoc)

	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{docPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "user.role")
	assert.Contains(t, buf.String(), "missing: 1")
}

func TestCheckMissingReadJSON(t *testing.T) {
	docPath := writeFile(t, t.TempDir(), "login.json", loginDoc)

	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{docPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeMissingReads, resp.Error.Code)
	// The failing report still ships in the envelope
	assert.NotNil(t, resp.Data)
}

func TestCheckStoredFlagSatisfiesRead(t *testing.T) {
	dir := t.TempDir()
	docPath := writeFile(t, dir, "reuse.json", `{
  "steps": [{"method": "enterText", "args": ["{{cartId}}"]}]
}`)

	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{docPath, "--stored", "cartId"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "from stored: 1")
}

func TestCheckCUESchema(t *testing.T) {
	dir := t.TempDir()
	docPath := writeFile(t, dir, "login.json", loginDoc)
	schemaPath := writeFile(t, dir, "fields.cue", `
schema: {
	user: {
		role: string
	}
}
`)

	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{docPath, "--schema", schemaPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "valid: 1")
}

func TestCheckBadSchemaPath(t *testing.T) {
	docPath := writeFile(t, t.TempDir(), "login.json", loginDoc)

	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{docPath, "--schema", "/nonexistent/schema"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
