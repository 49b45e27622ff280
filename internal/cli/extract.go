package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowlens/flowlens/internal/compiler"
	"github.com/flowlens/flowlens/internal/dataflow"
	"github.com/flowlens/flowlens/internal/ir"
	"github.com/flowlens/flowlens/internal/report"
)

// NewExtractCommand creates the extract command.
func NewExtractCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <document>",
		Short: "Extract the data flow of a transition document",
		Long: `Extract field reads, storeAs writes, and condition facts from a
transition document, without validating them against a schema.

Examples:
  flowlens extract login.json
  flowlens extract login.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runExtract(opts *RootOptions, docPath string, cmd *cobra.Command) error {
	logger := opts.Logger()

	doc, err := compiler.LoadDocumentFile(docPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load document", err)
	}
	logger.Debug("document loaded", "path", docPath, "steps", len(doc.Steps))

	flow := dataflow.Extract(doc)
	logger.Debug("extraction complete",
		"reads", flow.Summary.TotalReads,
		"writes", flow.Summary.TotalWrites)

	r, err := report.Build(documentName(docPath), doc, flow, nil, nil, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build report", err)
	}

	if opts.Format == "json" {
		return writeJSONOK(cmd.OutOrStdout(), r)
	}
	report.RenderText(cmd.OutOrStdout(), r, opts.Verbose)
	return nil
}

// documentName derives the report's document key from the file path.
func documentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// loadReport runs the full analysis pipeline used by check and diff.
func loadReport(opts *RootOptions, docPath, schemaPath string, storedNames []string, storedFile string) (*report.Report, error) {
	logger := opts.Logger()

	doc, err := compiler.LoadDocumentFile(docPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load document", err)
	}

	var schema []ir.SchemaField
	if schemaPath != "" {
		schema, err = LoadSchemaPack(schemaPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load schema", err)
		}
		logger.Debug("schema loaded", "path", schemaPath, "fields", len(schema))
	}

	stored, err := loadStoredVars(storedNames, storedFile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load stored variables", err)
	}

	flow := dataflow.Extract(doc)
	class := dataflow.Classify(flow, schema, stored)
	lints := compiler.Validate(doc)
	order := dataflow.CheckOrder(flow)
	logger.Debug("analysis complete",
		"reads", flow.Summary.TotalReads,
		"missing", len(class.Missing),
		"lints", len(lints))

	r, err := report.Build(documentName(docPath), doc, flow, class, lints, order)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to build report", err)
	}
	return r, nil
}

// missingSummary formats the missing-read failure message.
func missingSummary(class *ir.Classification) string {
	fields := make([]string, len(class.Missing))
	for i, v := range class.Missing {
		fields[i] = v.Field
	}
	return fmt.Sprintf("%d read(s) unsatisfied: %s", len(fields), strings.Join(fields, ", "))
}
