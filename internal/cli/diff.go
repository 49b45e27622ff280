package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowlens/flowlens/internal/ir"
	"github.com/flowlens/flowlens/internal/report"
	"github.com/flowlens/flowlens/internal/store"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions
	DB         string
	Name       string
	Save       bool
	Schema     string
	Stored     []string
	StoredFile string
}

// DiffResult is the diff command's payload.
type DiffResult struct {
	Document string             `json:"document"`
	Baseline *ir.BaselineRecord `json:"baseline,omitempty"` // latest baseline compared against
	Diff     *report.ReportDiff `json:"diff,omitempty"`
	Saved    bool               `json:"saved"` // whether --save inserted a row
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff <document>",
		Short: "Compare a document's report against its stored baseline",
		Long: `Build the current analysis report for a transition document and
compare it against the latest baseline stored under the document key.
With --save, the current report is recorded as a new baseline; saving
an identical report is a no-op.

Exit codes:
  0 - no baseline drift
  1 - report drifted from the stored baseline
  2 - command error

Examples:
  flowlens diff login.json --db baselines.db --save
  flowlens diff login.json --db baselines.db --schema ./schema
  flowlens diff login.json --db baselines.db --name login-v2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "baseline database file (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "document key (defaults to the document file name)")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "record the current report as a baseline")
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "schema pack (CUE dir/file or JSON/YAML field list)")
	cmd.Flags().StringSliceVar(&opts.Stored, "stored", nil, "stored variable name (repeatable)")
	cmd.Flags().StringVar(&opts.StoredFile, "stored-file", "", "JSON/YAML stored variable list")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runDiff(opts *DiffOptions, docPath string, cmd *cobra.Command) error {
	logger := opts.Logger()
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	current, err := loadReport(opts.RootOptions, docPath, opts.Schema, opts.Stored, opts.StoredFile)
	if err != nil {
		return err
	}

	name := opts.Name
	if name == "" {
		name = documentName(docPath)
	}

	db, err := store.Open(opts.DB, store.WithLogger(logger))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open baseline store", err)
	}
	defer db.Close()

	latest, err := db.LatestBaseline(ctx, name)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read baseline", err)
	}

	result := DiffResult{Document: name, Baseline: latest}

	if latest != nil {
		baseline, err := report.Decode(latest.ReportJSON)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to decode stored baseline", err)
		}
		result.Diff = report.Diff(baseline, current)
	}

	if opts.Save {
		saved, err := saveBaseline(ctx, db, name, current)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to save baseline", err)
		}
		result.Saved = saved
		logger.Debug("baseline save", "document", name, "inserted", saved)
	}

	drifted := result.Diff != nil && !result.Diff.Empty()

	if opts.Format == "json" {
		if drifted {
			message := fmt.Sprintf("report for %s drifted from its baseline", name)
			if err := writeJSONError(w, result, ErrCodeDrift, message, nil); err != nil {
				return err
			}
			return NewExitError(ExitFailure, message)
		}
		return writeJSONOK(w, result)
	}

	switch {
	case latest == nil && result.Saved:
		fmt.Fprintf(w, "%s: no baseline yet, recorded current report\n", name)
	case latest == nil:
		fmt.Fprintf(w, "%s: no baseline recorded (use --save)\n", name)
		if known, err := db.DocumentNames(ctx); err == nil && len(known) > 0 {
			fmt.Fprintf(w, "documents with baselines: %s\n", strings.Join(known, ", "))
		}
	default:
		report.RenderDiffText(w, result.Diff)
		if opts.Save && result.Saved {
			fmt.Fprintf(w, "recorded new baseline for %s\n", name)
		}
	}

	if drifted {
		return NewExitError(ExitFailure, fmt.Sprintf("report for %s drifted from its baseline", name))
	}
	return nil
}

// saveBaseline records the current report under the document key.
func saveBaseline(ctx context.Context, db *store.Store, name string, r *report.Report) (bool, error) {
	canonical, err := report.MarshalCanonical(r)
	if err != nil {
		return false, err
	}

	return db.SaveBaseline(ctx, ir.BaselineRecord{
		RunID:          store.UUIDRunIDs{}.New(),
		DocName:        name,
		DocFingerprint: r.Document.Fingerprint,
		ReportID:       ir.ReportID(canonical),
		ReportVersion:  r.ReportVersion,
		EngineVersion:  r.EngineVersion,
		ReportJSON:     canonical,
	})
}
