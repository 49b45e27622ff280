package ir

// BlockKind discriminates condition block variants.
type BlockKind string

const (
	BlockConditionCheck BlockKind = "condition-check"
	BlockCustomCode     BlockKind = "custom-code"
)

// TransitionDoc is the normalized form of an externally authored transition
// document. Every legacy shape the editor emits (requires vs conditions,
// args vs argsArray, storeAs string vs object, actionDetails nesting) maps
// onto this model before extraction runs, so the extractor never branches
// on raw document shapes.
//
// CRITICAL: extraction treats the document as read-only. Nothing in this
// package or its consumers mutates a TransitionDoc after compilation.
type TransitionDoc struct {
	Name       string           `json:"name,omitempty"`
	Conditions []ConditionBlock `json:"conditions,omitempty"`
	Requires   []RequiredField  `json:"requires,omitempty"`
	Imports    []ImportSpec     `json:"imports,omitempty"`
	Steps      []Step           `json:"steps,omitempty"`
	Action     *TransitionDoc   `json:"action_details,omitempty"` // legacy nested document
}

// ConditionBlock is one entry of conditions.blocks.
// Kind is kept verbatim for unknown block types so lint can report them;
// extraction only understands BlockConditionCheck and BlockCustomCode.
type ConditionBlock struct {
	Enabled bool             `json:"enabled"`
	Kind    BlockKind        `json:"kind"`
	Label   string           `json:"label,omitempty"`
	Checks  []ConditionCheck `json:"checks,omitempty"` // condition-check blocks
	Code    string           `json:"code,omitempty"`   // custom-code blocks
}

// ConditionCheck is one field comparison inside a condition-check block.
type ConditionCheck struct {
	Field     string `json:"field"`
	Operator  string `json:"operator,omitempty"`
	Value     Value  `json:"value,omitempty"`
	ValueKind string `json:"value_kind,omitempty"` // "static" or "variable"
	Enabled   bool   `json:"enabled"`
}

// ValueKindVariable marks a check whose value names a stored variable
// (typically written as {{name}}) rather than a literal.
const ValueKindVariable = "variable"

// RequiredField is one entry of the legacy requires map. The map form is
// normalized to a list sorted by name: Go exposes no object order for
// decoded JSON, and sorted order keeps extraction deterministic.
type RequiredField struct {
	Name     string `json:"name"`
	Expected Value  `json:"expected,omitempty"`
}

// ImportSpec declares a helper object the transition constructs.
// Constructor and Path are free text and may embed field references.
type ImportSpec struct {
	Constructor string `json:"constructor,omitempty"`
	Path        string `json:"path,omitempty"`
	ClassName   string `json:"class_name,omitempty"`
}

// StepText is one scannable free-text carrier of a step. Sub is the
// provenance subtag preserving where the text sat in the raw document:
// "args[0]" for array args, "args" for the legacy whole-string form,
// "argsArray[1]", "value", "code", "selector".
type StepText struct {
	Sub  string `json:"sub"`
	Text string `json:"text"`
}

// Step is one entry of the transition's step list.
//
// All legacy argument shapes flatten into Texts in scan order, so the
// extractor iterates one list instead of branching on args vs argsArray vs
// value vs code vs selector. Non-string argument entries are dropped during
// normalization; Sub tags keep the surviving positions honest.
type Step struct {
	Description string           `json:"description,omitempty"`
	Method      string           `json:"method,omitempty"`
	Type        string           `json:"type,omitempty"`
	Texts       []StepText       `json:"texts,omitempty"`
	Store       *StoreSpec       `json:"store,omitempty"`
	Conditions  []ConditionBlock `json:"conditions,omitempty"` // step-scoped gating
}

// StoreSpec is the normalized storeAs declaration.
// Persist defaults to true and Global to false when storeAs is a bare
// string; an object form may override either.
type StoreSpec struct {
	Key     string `json:"key"`
	Persist bool   `json:"persist"`
	Global  bool   `json:"global"`
}

// canonicalMap renders the document as a plain map for canonical
// serialization. Zero-valued fields are omitted so a section that was
// absent and one that normalized to empty fingerprint identically.
func (d *TransitionDoc) canonicalMap() map[string]any {
	m := map[string]any{}
	if d == nil {
		return m
	}
	if d.Name != "" {
		m["name"] = d.Name
	}
	if len(d.Conditions) > 0 {
		m["conditions"] = conditionMaps(d.Conditions)
	}
	if len(d.Requires) > 0 {
		reqs := make([]any, len(d.Requires))
		for i, r := range d.Requires {
			rm := map[string]any{"name": r.Name}
			if r.Expected != nil {
				rm["expected"] = r.Expected
			}
			reqs[i] = rm
		}
		m["requires"] = reqs
	}
	if len(d.Imports) > 0 {
		imps := make([]any, len(d.Imports))
		for i, imp := range d.Imports {
			im := map[string]any{}
			if imp.Constructor != "" {
				im["constructor"] = imp.Constructor
			}
			if imp.Path != "" {
				im["path"] = imp.Path
			}
			if imp.ClassName != "" {
				im["class_name"] = imp.ClassName
			}
			imps[i] = im
		}
		m["imports"] = imps
	}
	if len(d.Steps) > 0 {
		steps := make([]any, len(d.Steps))
		for i, s := range d.Steps {
			steps[i] = s.canonicalMap()
		}
		m["steps"] = steps
	}
	if d.Action != nil {
		m["action_details"] = d.Action.canonicalMap()
	}
	return m
}

func (s Step) canonicalMap() map[string]any {
	m := map[string]any{}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if s.Method != "" {
		m["method"] = s.Method
	}
	if s.Type != "" {
		m["type"] = s.Type
	}
	if len(s.Texts) > 0 {
		texts := make([]any, len(s.Texts))
		for i, txt := range s.Texts {
			texts[i] = map[string]any{"sub": txt.Sub, "text": txt.Text}
		}
		m["texts"] = texts
	}
	if s.Store != nil {
		m["store"] = map[string]any{
			"key":     s.Store.Key,
			"persist": s.Store.Persist,
			"global":  s.Store.Global,
		}
	}
	if len(s.Conditions) > 0 {
		m["conditions"] = conditionMaps(s.Conditions)
	}
	return m
}

func conditionMaps(blocks []ConditionBlock) []any {
	out := make([]any, len(blocks))
	for i, b := range blocks {
		bm := map[string]any{
			"enabled": b.Enabled,
			"kind":    string(b.Kind),
		}
		if b.Label != "" {
			bm["label"] = b.Label
		}
		if len(b.Checks) > 0 {
			checks := make([]any, len(b.Checks))
			for j, c := range b.Checks {
				cm := map[string]any{
					"field":   c.Field,
					"enabled": c.Enabled,
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
				checks[j] = cm
			}
			bm["checks"] = checks
		}
		if b.Code != "" {
			bm["code"] = b.Code
		}
		out[i] = bm
	}
	return out
}
