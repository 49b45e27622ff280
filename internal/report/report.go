package report

import (
	"encoding/json"
	"fmt"

	"github.com/flowlens/flowlens/internal/compiler"
	"github.com/flowlens/flowlens/internal/dataflow"
	"github.com/flowlens/flowlens/internal/ir"
)

// DocumentInfo identifies the analyzed document.
type DocumentInfo struct {
	Name        string `json:"name,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

// Report is the complete analysis result for one transition document:
// the extracted flow, its classification, structural lint findings, and
// store-ordering warnings, stamped with schema and engine versions.
type Report struct {
	ReportVersion  string                     `json:"report_version"`
	EngineVersion  string                     `json:"engine_version"`
	Document       DocumentInfo               `json:"document"`
	Flow           *ir.DataFlow               `json:"flow"`
	Classification *ir.Classification         `json:"classification,omitempty"`
	Lints          []compiler.ValidationError `json:"lints,omitempty"`
	OrderWarnings  []dataflow.OrderWarning    `json:"order_warnings,omitempty"`
}

// Build assembles a report. class, lints, and order may be nil/empty when
// the caller ran extraction only. The document fingerprint covers the
// normalized document, so two legacy shapes that normalize identically
// produce the same fingerprint.
func Build(
	name string,
	doc *ir.TransitionDoc,
	flow *ir.DataFlow,
	class *ir.Classification,
	lints []compiler.ValidationError,
	order []dataflow.OrderWarning,
) (*Report, error) {
	fingerprint, err := ir.DocumentFingerprint(doc)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	return &Report{
		ReportVersion:  ir.ReportVersion,
		EngineVersion:  ir.EngineVersion,
		Document:       DocumentInfo{Name: name, Fingerprint: fingerprint},
		Flow:           flow,
		Classification: class,
		Lints:          lints,
		OrderWarnings:  order,
	}, nil
}

// MarshalCanonical renders the report as RFC 8785 canonical JSON. This is
// the baseline and golden form; ID hashes exactly these bytes.
func MarshalCanonical(r *Report) ([]byte, error) {
	return ir.MarshalCanonical(r.canonicalMap())
}

// Decode parses a stored report back into its structured form. Both the
// canonical form (provenance as display strings) and the struct form
// decode; provenance strings are parsed back into structured tags.
func Decode(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}

// ID computes the content-addressed report ID.
func ID(r *Report) (string, error) {
	canonical, err := MarshalCanonical(r)
	if err != nil {
		return "", err
	}
	return ir.ReportID(canonical), nil
}

// canonicalMap flattens the report for canonical serialization. Provenance
// tags render as display strings here, per the package contract.
func (r *Report) canonicalMap() map[string]any {
	m := map[string]any{
		"report_version": r.ReportVersion,
		"engine_version": r.EngineVersion,
	}

	docMap := map[string]any{"fingerprint": r.Document.Fingerprint}
	if r.Document.Name != "" {
		docMap["name"] = r.Document.Name
	}
	m["document"] = docMap

	if r.Flow != nil {
		m["flow"] = flowMap(r.Flow)
	}
	if r.Classification != nil {
		m["classification"] = classificationMap(r.Classification)
	}
	if len(r.Lints) > 0 {
		lints := make([]any, len(r.Lints))
		for i, l := range r.Lints {
			lints[i] = map[string]any{
				"code":    l.Code,
				"field":   l.Field,
				"message": l.Message,
			}
		}
		m["lints"] = lints
	}
	if len(r.OrderWarnings) > 0 {
		warns := make([]any, len(r.OrderWarnings))
		for i, w := range r.OrderWarnings {
			warns[i] = map[string]any{
				"field":      w.Field,
				"read_step":  w.ReadStep,
				"store_step": w.StoreStep,
				"message":    w.Message,
			}
		}
		m["order_warnings"] = warns
	}
	return m
}

func flowMap(flow *ir.DataFlow) map[string]any {
	reads := make([]any, len(flow.Reads))
	for i, r := range flow.Reads {
		reads[i] = readMap(r)
	}
	writes := make([]any, len(flow.Writes))
	for i, w := range flow.Writes {
		writes[i] = map[string]any{
			"field":   w.Field,
			"type":    string(w.Type),
			"persist": w.Persist,
			"global":  w.Global,
			"source":  w.Source.String(),
		}
	}
	conditions := make([]any, len(flow.Conditions))
	for i, c := range flow.Conditions {
		cm := map[string]any{
			"field":       c.Field,
			"block_index": c.BlockIndex,
		}
		if c.Operator != "" {
			cm["operator"] = c.Operator
		}
		if c.Value != nil {
			cm["value"] = c.Value
		}
		if c.ValueKind != "" {
			cm["value_kind"] = c.ValueKind
		}
		if c.BlockLabel != "" {
			cm["block_label"] = c.BlockLabel
		}
		if c.Legacy {
			cm["legacy"] = true
		}
		conditions[i] = cm
	}

	grouped := make(map[string]any, len(flow.Grouped))
	for root, reads := range flow.Grouped {
		list := make([]any, len(reads))
		for i, r := range reads {
			list[i] = readMap(r)
		}
		grouped[root] = list
	}

	return map[string]any{
		"reads":      reads,
		"writes":     writes,
		"conditions": conditions,
		"grouped":    grouped,
		"summary": map[string]any{
			"total_reads":    flow.Summary.TotalReads,
			"required_reads": flow.Summary.RequiredReads,
			"total_writes":   flow.Summary.TotalWrites,
			"has_conditions": flow.Summary.HasConditions,
		},
	}
}

func readMap(r ir.Read) map[string]any {
	sources := make([]any, len(r.Sources))
	for i, s := range r.Sources {
		sources[i] = s.String()
	}
	return map[string]any{
		"field":      r.Field,
		"root_field": r.Root,
		"is_nested":  r.Nested,
		"required":   r.Required,
		"kind":       string(r.Kind),
		"sources":    sources,
	}
}

func classificationMap(c *ir.Classification) map[string]any {
	bucket := func(verdicts []ir.Verdict) []any {
		out := make([]any, len(verdicts))
		for i, v := range verdicts {
			vm := map[string]any{
				"field":      v.Field,
				"root_field": v.Root,
				"required":   v.Required,
			}
			if v.MatchedBy != "" {
				vm["matched_by"] = v.MatchedBy
			}
			if v.Reason != "" {
				vm["reason"] = v.Reason
			}
			out[i] = vm
		}
		return out
	}
	return map[string]any{
		"valid":       bucket(c.Valid),
		"from_stored": bucket(c.FromStored),
		"warnings":    bucket(c.Warnings),
		"missing":     bucket(c.Missing),
	}
}
