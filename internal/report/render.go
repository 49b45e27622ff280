package report

import (
	"fmt"
	"io"

	"github.com/flowlens/flowlens/internal/ir"
)

// RenderText writes a deterministic human-readable rendering of the
// report. Reads are grouped by root field in canonical key order; verdict
// buckets, writes, condition facts, lints, and order warnings follow.
// verbose adds provenance lists under each read.
func RenderText(w io.Writer, r *Report, verbose bool) {
	fmt.Fprintf(w, "document: %s\n", displayName(r))
	fmt.Fprintf(w, "fingerprint: %s\n", r.Document.Fingerprint)

	if r.Flow == nil {
		return
	}
	flow := r.Flow

	fmt.Fprintf(w, "\nreads: %d (%d required)\n",
		flow.Summary.TotalReads, flow.Summary.RequiredReads)
	for _, root := range flow.GroupRoots() {
		fmt.Fprintf(w, "  %s\n", root)
		for _, read := range flow.Grouped[root] {
			fmt.Fprintf(w, "    %s%s\n", read.Field, readMarkers(read))
			if verbose {
				for _, src := range read.Sources {
					fmt.Fprintf(w, "      from %s\n", src.String())
				}
			}
		}
	}

	if len(flow.Writes) > 0 {
		fmt.Fprintf(w, "\nwrites: %d\n", len(flow.Writes))
		for _, write := range flow.Writes {
			fmt.Fprintf(w, "  %s (%s)%s at %s\n",
				write.Field, write.Type, writeMarkers(write), write.Source.String())
		}
	}

	if len(flow.Conditions) > 0 {
		fmt.Fprintf(w, "\nconditions: %d\n", len(flow.Conditions))
		for _, fact := range flow.Conditions {
			line := fact.Field
			if fact.Operator != "" {
				line += " " + fact.Operator
			}
			if s, ok := ir.AsString(fact.Value); ok {
				line += fmt.Sprintf(" %q", s)
			}
			if fact.Legacy {
				line += " (legacy)"
			}
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	if r.Classification != nil {
		renderClassification(w, r.Classification)
	}

	if len(r.Lints) > 0 {
		fmt.Fprintf(w, "\nlint: %d finding(s)\n", len(r.Lints))
		for _, l := range r.Lints {
			fmt.Fprintf(w, "  %s\n", l.Error())
		}
	}

	if len(r.OrderWarnings) > 0 {
		fmt.Fprintf(w, "\nordering: %d warning(s)\n", len(r.OrderWarnings))
		for _, ow := range r.OrderWarnings {
			fmt.Fprintf(w, "  %s\n", ow.Message)
		}
	}
}

func renderClassification(w io.Writer, c *ir.Classification) {
	bucket := func(label string, verdicts []ir.Verdict) {
		if len(verdicts) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s: %d\n", label, len(verdicts))
		for _, v := range verdicts {
			switch {
			case v.MatchedBy != "" && v.MatchedBy != v.Field:
				fmt.Fprintf(w, "  %s (via %s)\n", v.Field, v.MatchedBy)
			case v.Reason != "":
				fmt.Fprintf(w, "  %s: %s\n", v.Field, v.Reason)
			default:
				fmt.Fprintf(w, "  %s\n", v.Field)
			}
		}
	}
	bucket("valid", c.Valid)
	bucket("from stored", c.FromStored)
	bucket("warnings", c.Warnings)
	bucket("missing", c.Missing)
}

// RenderDiffText writes a deterministic rendering of a report diff.
func RenderDiffText(w io.Writer, d *ReportDiff) {
	if d.Empty() {
		fmt.Fprintln(w, "no drift")
		return
	}

	if d.FingerprintChanged {
		fmt.Fprintln(w, "document fingerprint changed")
	}
	for _, field := range d.AddedReads {
		fmt.Fprintf(w, "+ read %s\n", field)
	}
	for _, field := range d.RemovedReads {
		fmt.Fprintf(w, "- read %s\n", field)
	}
	for _, field := range d.AddedWrites {
		fmt.Fprintf(w, "+ write %s\n", field)
	}
	for _, field := range d.RemovedWrites {
		fmt.Fprintf(w, "- write %s\n", field)
	}
	for _, tr := range d.VerdictChanges {
		fmt.Fprintf(w, "~ %s: %s -> %s\n", tr.Field, tr.From, tr.To)
	}
}

func displayName(r *Report) string {
	if r.Document.Name != "" {
		return r.Document.Name
	}
	return "(unnamed)"
}

func readMarkers(read ir.Read) string {
	markers := ""
	if read.Required {
		markers += " [required]"
	}
	if read.Kind == ir.ReadStoredVar {
		markers += " [stored-var]"
	}
	return markers
}

func writeMarkers(write ir.Write) string {
	markers := ""
	if !write.Persist {
		markers += " [transient]"
	}
	if write.Global {
		markers += " [global]"
	}
	return markers
}
