package dataflow

import (
	"fmt"
	"strings"

	"github.com/flowlens/flowlens/internal/ir"
)

// infraFieldHints are substrings of field names that usually denote
// harness or environment plumbing rather than project test data. A read
// matching one of these, but nothing else, is tolerated with a warning
// instead of being reported missing.
var infraFieldHints = []string{
	"lang", "device", "baseurl", "config", "status", "environment",
	"platform", "timeout", "retries", "page", "browser", "context",
}

// Classify buckets every read of a flow against the declared schema and
// the variables available from prior steps or transitions.
//
// The flow's own write fields are added to the stored set: a transition's
// writes satisfy its own later reads. Precedence per read is schema, then
// stored, then the infrastructure-field heuristic, then missing. Each read
// lands in exactly one bucket, in the flow's read order.
//
// Classify is a pure function with no side effects and no failure mode:
// the worst outcome for a read is the missing bucket.
func Classify(flow *ir.DataFlow, schema []ir.SchemaField, stored []ir.StoredVar) *ir.Classification {
	out := &ir.Classification{
		Valid:      []ir.Verdict{},
		FromStored: []ir.Verdict{},
		Warnings:   []ir.Verdict{},
		Missing:    []ir.Verdict{},
	}
	if flow == nil {
		return out
	}

	schemaSet := make(map[string]bool, len(schema))
	for _, f := range schema {
		if f.Key != "" {
			schemaSet[f.Key] = true
		}
	}

	storedSet := make(map[string]bool, len(stored)+len(flow.Writes))
	for _, v := range stored {
		if v.Name != "" {
			storedSet[v.Name] = true
		}
	}
	for _, field := range flow.WriteFields() {
		storedSet[field] = true
	}

	for _, read := range flow.Reads {
		verdict := ir.Verdict{
			Field:    read.Field,
			Root:     read.Root,
			Required: read.Required,
		}

		switch {
		case schemaSet[read.Field]:
			verdict.MatchedBy = read.Field
			out.Valid = append(out.Valid, verdict)
		case schemaSet[read.Root]:
			verdict.MatchedBy = read.Root
			out.Valid = append(out.Valid, verdict)
		case storedSet[read.Field]:
			verdict.MatchedBy = read.Field
			out.FromStored = append(out.FromStored, verdict)
		case storedSet[read.Root]:
			verdict.MatchedBy = read.Root
			out.FromStored = append(out.FromStored, verdict)
		case matchesInfraHint(read.Field):
			verdict.Reason = fmt.Sprintf(
				"%q is not in the schema or stored variables but looks like an infrastructure field; review whether the harness provides it",
				read.Field)
			out.Warnings = append(out.Warnings, verdict)
		default:
			verdict.Reason = fmt.Sprintf(
				"%q is not in the schema, not stored by a prior step or transition, and not written by this document",
				read.Field)
			out.Missing = append(out.Missing, verdict)
		}
	}

	return out
}

// matchesInfraHint reports whether a field name contains one of the known
// infrastructure substrings, case-insensitive.
func matchesInfraHint(field string) bool {
	f := strings.ToLower(field)
	for _, hint := range infraFieldHints {
		if strings.Contains(f, hint) {
			return true
		}
	}
	return false
}
