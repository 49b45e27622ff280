package report

import "github.com/flowlens/flowlens/internal/ir"

// VerdictChange records one field moving between classification buckets.
type VerdictChange struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// ReportDiff is the drift between two reports of the same document key.
// Field lists follow the newer report's order (removed entries follow the
// older report's order), so rendering is deterministic.
type ReportDiff struct {
	FingerprintChanged bool            `json:"fingerprint_changed"`
	AddedReads         []string        `json:"added_reads,omitempty"`
	RemovedReads       []string        `json:"removed_reads,omitempty"`
	AddedWrites        []string        `json:"added_writes,omitempty"`
	RemovedWrites      []string        `json:"removed_writes,omitempty"`
	VerdictChanges     []VerdictChange `json:"verdict_changes,omitempty"`
}

// Empty reports whether the diff contains no drift at all.
func (d *ReportDiff) Empty() bool {
	return !d.FingerprintChanged &&
		len(d.AddedReads) == 0 && len(d.RemovedReads) == 0 &&
		len(d.AddedWrites) == 0 && len(d.RemovedWrites) == 0 &&
		len(d.VerdictChanges) == 0
}

// Diff compares an older report against a newer one: reads and writes that
// appeared or disappeared, verdict transitions for fields present in both,
// and whether the document fingerprint moved.
func Diff(old, new *Report) *ReportDiff {
	d := &ReportDiff{
		FingerprintChanged: old.Document.Fingerprint != new.Document.Fingerprint,
	}

	oldReads := readFieldSet(old)
	newReads := readFieldSet(new)
	d.AddedReads = fieldsNotIn(readFieldOrder(new), oldReads)
	d.RemovedReads = fieldsNotIn(readFieldOrder(old), newReads)

	oldWrites := writeFieldSet(old)
	newWrites := writeFieldSet(new)
	d.AddedWrites = fieldsNotIn(writeFieldOrder(new), oldWrites)
	d.RemovedWrites = fieldsNotIn(writeFieldOrder(old), newWrites)

	oldVerdicts := verdictByField(old)
	newVerdicts := verdictByField(new)
	for _, field := range readFieldOrder(new) {
		from, inOld := oldVerdicts[field]
		to, inNew := newVerdicts[field]
		if inOld && inNew && from != to {
			d.VerdictChanges = append(d.VerdictChanges, VerdictChange{
				Field: field, From: from, To: to,
			})
		}
	}

	return d
}

func readFieldOrder(r *Report) []string {
	if r.Flow == nil {
		return nil
	}
	fields := make([]string, len(r.Flow.Reads))
	for i, read := range r.Flow.Reads {
		fields[i] = read.Field
	}
	return fields
}

func readFieldSet(r *Report) map[string]bool {
	set := make(map[string]bool)
	for _, field := range readFieldOrder(r) {
		set[field] = true
	}
	return set
}

func writeFieldOrder(r *Report) []string {
	if r.Flow == nil {
		return nil
	}
	return r.Flow.WriteFields()
}

func writeFieldSet(r *Report) map[string]bool {
	set := make(map[string]bool)
	for _, field := range writeFieldOrder(r) {
		set[field] = true
	}
	return set
}

func fieldsNotIn(fields []string, other map[string]bool) []string {
	var out []string
	for _, field := range fields {
		if !other[field] {
			out = append(out, field)
		}
	}
	return out
}

// verdictByField flattens a report's classification into field -> bucket.
func verdictByField(r *Report) map[string]string {
	verdicts := make(map[string]string)
	if r.Classification == nil {
		return verdicts
	}
	record := func(bucket string, list []ir.Verdict) {
		for _, v := range list {
			verdicts[v.Field] = bucket
		}
	}
	record("valid", r.Classification.Valid)
	record("fromStored", r.Classification.FromStored)
	record("warning", r.Classification.Warnings)
	record("missing", r.Classification.Missing)
	return verdicts
}
