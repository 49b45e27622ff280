package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // successful execution
	ExitFailure      = 1 // analysis failure (missing reads, drift, failed scenarios)
	ExitCommandError = 2 // command error (bad paths, malformed inputs)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // exit code (ExitFailure or ExitCommandError)
	Message string // error message
	Err     error  // underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the standard JSON response envelope for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // stable code, e.g. "E_MISSING_READS"
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Stable error codes for the JSON envelope.
const (
	ErrCodeMissingReads = "E_MISSING_READS"
	ErrCodeLintFailed   = "E_LINT_FAILED"
	ErrCodeDrift        = "E_DRIFT"
	ErrCodeTestFailed   = "E_TEST_FAILED"
)

// writeJSON emits the envelope with two-space indentation.
func writeJSON(w io.Writer, resp CLIResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// writeJSONOK emits a success envelope around data.
func writeJSONOK(w io.Writer, data any) error {
	return writeJSON(w, CLIResponse{Status: "ok", Data: data})
}

// writeJSONError emits an error envelope. The data payload is still
// included so a consumer can inspect the failing report.
func writeJSONError(w io.Writer, data any, code, message string, details any) error {
	return writeJSON(w, CLIResponse{
		Status: "error",
		Data:   data,
		Error:  &CLIError{Code: code, Message: message, Details: details},
	})
}
