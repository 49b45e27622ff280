package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Message(t *testing.T) {
	err := NewExitError(ExitFailure, "something failed")
	assert.Equal(t, "something failed", err.Error())
	assert.Equal(t, ExitFailure, err.Code)
}

func TestExitError_Wrapped(t *testing.T) {
	inner := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to save", inner)

	assert.Equal(t, "failed to save: disk full", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "x")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "x")))

	// Wrapped deeper in a chain
	wrapped := fmt.Errorf("context: %w", NewExitError(ExitCommandError, "x"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))

	// Plain errors default to failure
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestWriteJSONOK(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeJSONOK(buf, map[string]int{"reads": 3}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestWriteJSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeJSONError(buf, nil, ErrCodeMissingReads, "2 read(s) unsatisfied", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeMissingReads, resp.Error.Code)
	assert.Equal(t, "2 read(s) unsatisfied", resp.Error.Message)
}
