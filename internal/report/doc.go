// Package report assembles extraction results into deterministic,
// self-describing reports, renders them for humans, and diffs them against
// stored baselines.
//
// The report is the UI boundary: structured provenance tags become display
// strings here and nowhere else. Canonical JSON (ir.MarshalCanonical) is
// the stored and golden form; the content-addressed report ID is computed
// over it.
package report
