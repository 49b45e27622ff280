package compiler

import (
	"fmt"
	"sort"

	"github.com/flowlens/flowlens/internal/ir"
)

// CompileDocument maps a decoded transition document, in any of the shapes
// the editor has historically emitted, onto the normalized model. Total
// function: type-mismatched fields are skipped and a non-map input yields
// an empty document. Malformed input degrades to fewer facts downstream,
// it never fails here.
func CompileDocument(raw any) *ir.TransitionDoc {
	doc := &ir.TransitionDoc{}

	m, ok := asMap(raw)
	if !ok {
		return doc
	}

	if s, ok := asString(m["name"]); ok {
		doc.Name = s
	} else if s, ok := asString(m["description"]); ok {
		doc.Name = s
	}

	doc.Conditions = compileConditionBlocks(m["conditions"])
	doc.Requires = compileRequires(m["requires"])
	doc.Imports = compileImports(m["imports"])
	doc.Steps = compileSteps(m["steps"])

	// Legacy file-loaded transitions embed the real content one level deeper.
	if nested, ok := asMap(m["actionDetails"]); ok {
		doc.Action = CompileDocument(nested)
	}

	return doc
}

// compileConditionBlocks accepts both the standard {blocks: [...]} wrapper
// and a bare block list.
func compileConditionBlocks(raw any) []ir.ConditionBlock {
	list, ok := asSlice(raw)
	if !ok {
		m, okm := asMap(raw)
		if !okm {
			return nil
		}
		if list, ok = asSlice(m["blocks"]); !ok {
			return nil
		}
	}

	var blocks []ir.ConditionBlock
	for _, entry := range list {
		bm, ok := asMap(entry)
		if !ok {
			continue
		}

		block := ir.ConditionBlock{
			Enabled: asBool(bm["enabled"], true),
		}
		if kind, ok := asString(bm["type"]); ok {
			block.Kind = ir.BlockKind(kind)
		}
		if label, ok := asString(bm["label"]); ok {
			block.Label = label
		}

		data, _ := asMap(bm["data"])

		// Checks live under data.checks in current documents; a few legacy
		// ones put them at the block level.
		checksRaw := bm["checks"]
		if data != nil {
			if _, present := data["checks"]; present {
				checksRaw = data["checks"]
			}
		}
		block.Checks = compileChecks(checksRaw)

		// Custom code lives at block.code, or data.code in one variant.
		if code, ok := asString(bm["code"]); ok {
			block.Code = code
		} else if data != nil {
			if code, ok := asString(data["code"]); ok {
				block.Code = code
			}
		}

		blocks = append(blocks, block)
	}
	return blocks
}

func compileChecks(raw any) []ir.ConditionCheck {
	list, ok := asSlice(raw)
	if !ok {
		return nil
	}

	var checks []ir.ConditionCheck
	for _, entry := range list {
		cm, ok := asMap(entry)
		if !ok {
			continue
		}

		check := ir.ConditionCheck{
			Enabled: asBool(cm["enabled"], true),
		}
		if field, ok := asString(cm["field"]); ok {
			check.Field = field
		}
		if op, ok := asString(cm["operator"]); ok {
			check.Operator = op
		}
		if _, present := cm["value"]; present {
			check.Value = ir.FromAny(cm["value"])
		}
		if vk, ok := asString(cm["valueType"]); ok {
			check.ValueKind = vk
		}
		checks = append(checks, check)
	}
	return checks
}

// compileRequires normalizes the legacy requires map. The map form is
// sorted by name for determinism; a list form keeps its order.
func compileRequires(raw any) []ir.RequiredField {
	if m, ok := asMap(raw); ok {
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)

		fields := make([]ir.RequiredField, 0, len(names))
		for _, name := range names {
			fields = append(fields, ir.RequiredField{
				Name:     name,
				Expected: ir.FromAny(m[name]),
			})
		}
		return fields
	}

	if list, ok := asSlice(raw); ok {
		var fields []ir.RequiredField
		for _, entry := range list {
			if name, ok := asString(entry); ok && name != "" {
				fields = append(fields, ir.RequiredField{Name: name})
			}
		}
		return fields
	}

	return nil
}

func compileImports(raw any) []ir.ImportSpec {
	list, ok := asSlice(raw)
	if !ok {
		return nil
	}

	var imports []ir.ImportSpec
	for _, entry := range list {
		// A bare string import is a path
		if s, ok := asString(entry); ok {
			imports = append(imports, ir.ImportSpec{Path: s})
			continue
		}

		im, ok := asMap(entry)
		if !ok {
			continue
		}
		spec := ir.ImportSpec{}
		if s, ok := asString(im["constructor"]); ok {
			spec.Constructor = s
		}
		if s, ok := asString(im["path"]); ok {
			spec.Path = s
		}
		if s, ok := asString(im["className"]); ok {
			spec.ClassName = s
		}
		imports = append(imports, spec)
	}
	return imports
}

func compileSteps(raw any) []ir.Step {
	list, ok := asSlice(raw)
	if !ok {
		return nil
	}

	var steps []ir.Step
	for _, entry := range list {
		sm, ok := asMap(entry)
		if !ok {
			// Position must survive: a malformed step still occupies its
			// index so later provenance tags stay aligned with the source.
			steps = append(steps, ir.Step{})
			continue
		}
		steps = append(steps, compileStep(sm))
	}
	return steps
}

func compileStep(sm map[string]any) ir.Step {
	step := ir.Step{}

	if s, ok := asString(sm["description"]); ok {
		step.Description = s
	}
	if s, ok := asString(sm["method"]); ok {
		step.Method = s
	}
	if s, ok := asString(sm["type"]); ok {
		step.Type = s
	}

	// args: array entries scan per element, the legacy string form scans
	// whole. Non-string entries are dropped; Sub tags keep positions honest.
	if argsRaw, present := sm["args"]; present {
		if argList, ok := asSlice(argsRaw); ok {
			for j, a := range argList {
				if s, ok := asString(a); ok {
					step.Texts = append(step.Texts, ir.StepText{
						Sub:  fmt.Sprintf("args[%d]", j),
						Text: s,
					})
				}
			}
		} else if s, ok := asString(argsRaw); ok {
			step.Texts = append(step.Texts, ir.StepText{Sub: "args", Text: s})
		}
	}
	if argList, ok := asSlice(sm["argsArray"]); ok {
		for j, a := range argList {
			if s, ok := asString(a); ok {
				step.Texts = append(step.Texts, ir.StepText{
					Sub:  fmt.Sprintf("argsArray[%d]", j),
					Text: s,
				})
			}
		}
	}
	for _, key := range []string{"value", "code", "selector"} {
		if s, ok := asString(sm[key]); ok && s != "" {
			step.Texts = append(step.Texts, ir.StepText{Sub: key, Text: s})
		}
	}

	step.Store = compileStore(sm["storeAs"])
	step.Conditions = compileConditionBlocks(sm["conditions"])

	return step
}

// compileStore normalizes storeAs. The bare-string form persists by
// default; the object form may override persist/global. A declared but
// keyless storeAs is preserved so lint can flag it.
func compileStore(raw any) *ir.StoreSpec {
	if raw == nil {
		return nil
	}

	if key, ok := asString(raw); ok {
		return &ir.StoreSpec{Key: key, Persist: true}
	}

	m, ok := asMap(raw)
	if !ok {
		return nil
	}
	spec := &ir.StoreSpec{Persist: true}
	if key, ok := asString(m["key"]); ok {
		spec.Key = key
	}
	if _, present := m["persist"]; present {
		spec.Persist = asBool(m["persist"], true)
	}
	spec.Global = asBool(m["global"], false)
	return spec
}

// Tolerant shape accessors. Only exact types count; anything else reads as
// absent so extraction degrades instead of guessing.

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}
