package dataflow

import (
	"fmt"
	"strings"

	"github.com/flowlens/flowlens/internal/ir"
)

// DefaultMaxDepth bounds actionDetails recursion. Real documents nest the
// legacy shape once; deeper nesting contributes nothing beyond the bound.
const DefaultMaxDepth = 8

// Option configures extraction.
type Option func(*extractor)

// WithMaxDepth sets the maximum actionDetails nesting depth.
//
// Default: 8 (DefaultMaxDepth). Use WithMaxDepth(1) to ignore nested
// actionDetails entirely, or a small value when testing the bound.
func WithMaxDepth(depth int) Option {
	return func(x *extractor) {
		x.maxDepth = depth
	}
}

// Extract walks a normalized transition document and returns its data
// flow: deduplicated reads, storeAs writes, condition facts, reads grouped
// by root field, and summary counts.
//
// Extract is a pure function of the document. A nil document yields an
// empty flow; malformed sections were already dropped by the compiler, so
// every fact here is well-formed. Output order is document traversal
// order: conditions, legacy requires, imports, steps, actionDetails.
func Extract(doc *ir.TransitionDoc, opts ...Option) *ir.DataFlow {
	x := &extractor{
		readIndex: make(map[string]int),
		maxDepth:  DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(x)
	}

	x.walkDoc(doc, "", 0)

	return x.finish()
}

// extractor accumulates facts during one traversal. Fresh per Extract
// call; nothing here outlives the call.
type extractor struct {
	reads      []ir.Read
	readIndex  map[string]int // normalized field -> position in reads
	writes     []ir.Write
	conditions []ir.ConditionFact
	maxDepth   int
}

func (x *extractor) walkDoc(doc *ir.TransitionDoc, scope string, depth int) {
	if doc == nil {
		return
	}

	x.walkBlocks(doc.Conditions, scope, true, topLevelBlockProv)

	for _, rf := range doc.Requires {
		field := CheckFieldPath(rf.Name)
		if field == "" {
			continue
		}
		x.registerRead(field, ir.ReadContext, true, scoped(scope, ir.Provenance{
			Kind: ir.ProvenanceRequires,
			Name: rf.Name,
		}))
		x.conditions = append(x.conditions, ir.ConditionFact{
			Field:      field,
			Operator:   "equals",
			Value:      rf.Expected,
			BlockIndex: -1, // legacy facts sit outside the block list
			Legacy:     true,
		})
	}

	for i, imp := range doc.Imports {
		x.scanInto(imp.Constructor, false, scoped(scope, ir.Provenance{
			Kind: ir.ProvenanceImport, Index: i, Sub: "constructor",
		}))
		x.scanInto(imp.Path, false, scoped(scope, ir.Provenance{
			Kind: ir.ProvenanceImport, Index: i, Sub: "path",
		}))
	}

	for i, step := range doc.Steps {
		for _, text := range step.Texts {
			x.scanInto(text.Text, false, scoped(scope, ir.Provenance{
				Kind: ir.ProvenanceStep, Index: i, Sub: text.Sub,
			}))
		}

		if step.Store != nil && strings.TrimSpace(step.Store.Key) != "" {
			x.writes = append(x.writes, ir.Write{
				Field:   strings.TrimSpace(step.Store.Key),
				Type:    inferWriteType(step.Method, step.Type),
				Persist: step.Store.Persist,
				Global:  step.Store.Global,
				Source: scoped(scope, ir.Provenance{
					Kind: ir.ProvenanceStep, Index: i, Sub: "storeAs",
				}),
			})
		}

		// Step-scoped gating is advisory, so its reads register optional
		// where top-level condition reads register required.
		x.walkBlocks(step.Conditions, scope, false, stepBlockProv(i))
	}

	if doc.Action != nil && depth+1 < x.maxDepth {
		x.walkDoc(doc.Action, childScope(scope), depth+1)
	}
}

// topLevelBlockProv builds provenance for top-level condition blocks:
// condition[0], condition[1].code, condition[0].value.
func topLevelBlockProv(blockIdx int, sub string) ir.Provenance {
	return ir.Provenance{Kind: ir.ProvenanceCondition, Index: blockIdx, Sub: sub}
}

// stepBlockProv builds provenance for step-scoped condition blocks:
// step[2].condition[0], step[2].condition[1].code.
func stepBlockProv(stepIdx int) func(int, string) ir.Provenance {
	return func(blockIdx int, sub string) ir.Provenance {
		s := fmt.Sprintf("condition[%d]", blockIdx)
		if sub != "" {
			s += "." + sub
		}
		return ir.Provenance{Kind: ir.ProvenanceStep, Index: stepIdx, Sub: s}
	}
}

// walkBlocks traverses one condition block list. required dictates how
// direct field reads register; the check-value stored-variable read is
// always optional. prov maps (block index, subtag) to a provenance tag.
func (x *extractor) walkBlocks(
	blocks []ir.ConditionBlock,
	scope string,
	required bool,
	prov func(blockIdx int, sub string) ir.Provenance,
) {
	for i, block := range blocks {
		if !block.Enabled {
			continue
		}

		switch block.Kind {
		case ir.BlockConditionCheck:
			for _, check := range block.Checks {
				if !check.Enabled {
					continue
				}
				field := CheckFieldPath(check.Field)
				if field == "" {
					continue
				}
				x.registerRead(field, ir.ReadContext, required, scoped(scope, prov(i, "")))
				x.conditions = append(x.conditions, ir.ConditionFact{
					Field:      field,
					Operator:   check.Operator,
					Value:      check.Value,
					ValueKind:  check.ValueKind,
					BlockIndex: i,
					BlockLabel: block.Label,
				})

				// A variable-valued check also reads the stored variable
				// it compares against, but the variable is not what the
				// condition gates on.
				if check.ValueKind == ir.ValueKindVariable {
					if s, ok := ir.AsString(check.Value); ok {
						name := ir.NormalizeFieldPath(ir.StripInterpolation(s))
						if name != "" {
							x.registerRead(name, ir.ReadStoredVar, false, scoped(scope, prov(i, "value")))
						}
					}
				}
			}

		case ir.BlockCustomCode:
			for _, ref := range Scan(block.Code) {
				x.registerRead(ref.Path, ref.Kind, required, scoped(scope, prov(i, "code")))
			}
		}
		// Unknown block kinds carry nothing extraction understands; lint
		// reports them (E001).
	}
}

// scanInto registers every reference found in text under one provenance.
func (x *extractor) scanInto(text string, required bool, src ir.Provenance) {
	for _, ref := range Scan(text) {
		x.registerRead(ref.Path, ref.Kind, required, src)
	}
}

// registerRead records one read, merging into an existing requirement when
// the exact normalized field was seen before. Required widens; sources
// deduplicate by identical provenance; the first registration fixes Kind.
func (x *extractor) registerRead(field string, kind ir.ReadKind, required bool, src ir.Provenance) {
	if idx, ok := x.readIndex[field]; ok {
		read := &x.reads[idx]
		if required {
			read.Required = true
		}
		for _, existing := range read.Sources {
			if existing == src {
				return
			}
		}
		read.Sources = append(read.Sources, src)
		return
	}

	x.readIndex[field] = len(x.reads)
	x.reads = append(x.reads, ir.Read{
		Field:    field,
		Root:     ir.RootField(field),
		Nested:   ir.IsNested(field),
		Required: required,
		Kind:     kind,
		Sources:  []ir.Provenance{src},
	})
}

func (x *extractor) finish() *ir.DataFlow {
	flow := &ir.DataFlow{
		Reads:      x.reads,
		Writes:     x.writes,
		Conditions: x.conditions,
		Grouped:    make(map[string][]ir.Read, len(x.reads)),
	}
	if flow.Reads == nil {
		flow.Reads = []ir.Read{}
	}
	if flow.Writes == nil {
		flow.Writes = []ir.Write{}
	}
	if flow.Conditions == nil {
		flow.Conditions = []ir.ConditionFact{}
	}

	required := 0
	for _, read := range flow.Reads {
		flow.Grouped[read.Root] = append(flow.Grouped[read.Root], read)
		if read.Required {
			required++
		}
	}

	flow.Summary = ir.Summary{
		TotalReads:    len(flow.Reads),
		RequiredReads: required,
		TotalWrites:   len(flow.Writes),
		HasConditions: len(flow.Conditions) > 0,
	}
	return flow
}

// scoped applies the actionDetails scope chain to a provenance tag.
func scoped(scope string, p ir.Provenance) ir.Provenance {
	if scope == "" {
		return p
	}
	return p.InScope(scope)
}

// childScope extends the scope chain one actionDetails level deeper.
func childScope(scope string) string {
	if scope == "" {
		return ir.ScopeAction
	}
	return scope + "." + ir.ScopeAction
}

// inferWriteType classifies what a storeAs will hold from the producing
// step's declared type and method. Best effort: an explicit getText type
// wins, then method-name substrings, else unknown.
func inferWriteType(method, stepType string) ir.WriteType {
	if stepType == "getText" {
		return ir.WriteString
	}
	m := strings.ToLower(method)
	switch {
	case strings.Contains(m, "getter"):
		return ir.WriteGetter
	case strings.Contains(m, "text"):
		return ir.WriteString
	case strings.Contains(m, "count"):
		return ir.WriteNumber
	case strings.Contains(m, "list"):
		return ir.WriteArray
	default:
		return ir.WriteUnknown
	}
}
