package cli

import (
	"github.com/spf13/cobra"

	"github.com/flowlens/flowlens/internal/report"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Schema     string
	Stored     []string
	StoredFile string
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <document>",
		Short: "Extract and validate a transition document",
		Long: `Extract the data flow of a transition document and classify every
read against the test-data schema and the variables stored by earlier
steps or transitions.

Exit codes:
  0 - every read is satisfied (warnings allowed)
  1 - one or more reads are missing
  2 - command error (bad paths, malformed inputs)

Examples:
  flowlens check login.json --schema ./schema
  flowlens check login.json --schema fields.cue --stored sessionToken
  flowlens check login.yaml --schema fields.json --stored-file vars.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "schema pack (CUE dir/file or JSON/YAML field list)")
	cmd.Flags().StringSliceVar(&opts.Stored, "stored", nil, "stored variable name (repeatable)")
	cmd.Flags().StringVar(&opts.StoredFile, "stored-file", "", "JSON/YAML stored variable list")

	return cmd
}

func runCheck(opts *CheckOptions, docPath string, cmd *cobra.Command) error {
	r, err := loadReport(opts.RootOptions, docPath, opts.Schema, opts.Stored, opts.StoredFile)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	failed := r.Classification.HasMissing()

	if opts.Format == "json" {
		if failed {
			message := missingSummary(r.Classification)
			if err := writeJSONError(w, r, ErrCodeMissingReads, message, nil); err != nil {
				return err
			}
			return NewExitError(ExitFailure, message)
		}
		return writeJSONOK(w, r)
	}

	// RenderText already lists the missing bucket with reasons.
	report.RenderText(w, r, opts.Verbose)
	if failed {
		return NewExitError(ExitFailure, missingSummary(r.Classification))
	}
	return nil
}
