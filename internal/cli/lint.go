package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowlens/flowlens/internal/compiler"
	"github.com/flowlens/flowlens/internal/dataflow"
)

// LintResult is the lint command's payload.
type LintResult struct {
	Document      string                     `json:"document"`
	Lints         []compiler.ValidationError `json:"lints"`
	OrderWarnings []dataflow.OrderWarning    `json:"order_warnings"`
}

// NewLintCommand creates the lint command.
func NewLintCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <document>",
		Short: "Report structural problems in a transition document",
		Long: `Lint a transition document for structural problems (E001-E009) and
stored-variable reads that precede the step storing them.

Exit codes:
  0 - clean (store-ordering warnings alone do not fail the lint)
  1 - one or more lint findings
  2 - command error

Examples:
  flowlens lint login.json
  flowlens lint login.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runLint(opts *RootOptions, docPath string, cmd *cobra.Command) error {
	logger := opts.Logger()

	doc, err := compiler.LoadDocumentFile(docPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load document", err)
	}

	lints := compiler.Validate(doc)
	order := dataflow.CheckOrder(dataflow.Extract(doc))
	logger.Debug("lint complete", "findings", len(lints), "order_warnings", len(order))

	result := LintResult{
		Document:      documentName(docPath),
		Lints:         lints,
		OrderWarnings: order,
	}
	if result.Lints == nil {
		result.Lints = []compiler.ValidationError{}
	}
	if result.OrderWarnings == nil {
		result.OrderWarnings = []dataflow.OrderWarning{}
	}

	w := cmd.OutOrStdout()
	failed := len(lints) > 0

	if opts.Format == "json" {
		if failed {
			message := fmt.Sprintf("%d lint finding(s)", len(lints))
			if err := writeJSONError(w, result, ErrCodeLintFailed, message, nil); err != nil {
				return err
			}
			return NewExitError(ExitFailure, message)
		}
		return writeJSONOK(w, result)
	}

	for _, lint := range lints {
		fmt.Fprintln(w, lint.Error())
	}
	for _, warn := range order {
		fmt.Fprintf(w, "[ordering] %s\n", warn.Message)
	}
	if failed {
		return NewExitError(ExitFailure, fmt.Sprintf("%d lint finding(s)", len(lints)))
	}
	if len(order) == 0 {
		fmt.Fprintf(w, "%s: clean\n", result.Document)
	}
	return nil
}
