// Package cli implements the flowlens command surface: extract, check,
// lint, diff, and test, over the extraction library.
//
// Exit codes are stable across commands:
//
//	0 - success
//	1 - analysis failure (missing reads, lint errors, baseline drift,
//	    failed scenarios)
//	2 - command error (bad paths, malformed inputs, usage mistakes)
//
// Output is either human-readable text or a {status, data, error} JSON
// envelope, selected by the persistent --format flag. Diagnostic logging
// goes to stderr through slog at debug level when --verbose is set.
package cli
