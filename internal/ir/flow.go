package ir

import "encoding/json"

// ReadKind distinguishes how a field reference was written in the source.
type ReadKind string

const (
	// ReadContext is a ctx.data / ctx / testData reference, resolved against
	// the project's test-data schema.
	ReadContext ReadKind = "context"
	// ReadStoredVar is a {{ }} interpolation naming a variable stored by an
	// earlier step or transition.
	ReadStoredVar ReadKind = "stored-variable"
)

// Read is one deduplicated read requirement. Deduplication is by exact
// normalized field string; Sources accumulates every distinct document
// location that referenced the field.
//
// CRITICAL: Required only widens. Once any contributing reference marks the
// field required, later optional references never clear it.
type Read struct {
	Field    string       `json:"field"`
	Root     string       `json:"root_field"`
	Nested   bool         `json:"is_nested"`
	Required bool         `json:"required"`
	Kind     ReadKind     `json:"kind"`
	Sources  []Provenance `json:"sources"`
}

// WriteType classifies what a step's storeAs is expected to produce.
// Best-effort inference from the step's method/type; unknown is common.
type WriteType string

const (
	WriteString  WriteType = "string"
	WriteNumber  WriteType = "number"
	WriteArray   WriteType = "array"
	WriteGetter  WriteType = "getter"
	WriteUnknown WriteType = "unknown"
)

// Write is one storeAs effect.
type Write struct {
	Field   string     `json:"field"`
	Type    WriteType  `json:"type"`
	Persist bool       `json:"persist"`
	Global  bool       `json:"global"`
	Source  Provenance `json:"source"`
}

// ConditionFact records one condition check as encountered. Facts are not
// deduplicated: a field checked in three blocks yields three facts but only
// one Read.
type ConditionFact struct {
	Field      string `json:"field"`
	Operator   string `json:"operator,omitempty"`
	Value      Value  `json:"value,omitempty"`
	ValueKind  string `json:"value_kind,omitempty"`
	BlockIndex int    `json:"block_index"`
	BlockLabel string `json:"block_label,omitempty"`
	Legacy     bool   `json:"legacy,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler for ConditionFact. Value is an
// interface field, so it is decoded through DecodeValue.
func (f *ConditionFact) UnmarshalJSON(data []byte) error {
	type alias ConditionFact
	aux := struct {
		*alias
		Value json.RawMessage `json:"value,omitempty"`
	}{alias: (*alias)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Value) > 0 {
		v, err := DecodeValue(aux.Value)
		if err != nil {
			return err
		}
		f.Value = v
	}
	return nil
}

// Summary aggregates flow counts for quick display.
type Summary struct {
	TotalReads    int  `json:"total_reads"`
	RequiredReads int  `json:"required_reads"`
	TotalWrites   int  `json:"total_writes"`
	HasConditions bool `json:"has_conditions"`
}

// DataFlow is the extractor's complete output for one document.
// Reads/Writes/Conditions preserve document traversal order; Grouped
// buckets the deduplicated reads by root field.
type DataFlow struct {
	Reads      []Read            `json:"reads"`
	Writes     []Write           `json:"writes"`
	Conditions []ConditionFact   `json:"conditions"`
	Grouped    map[string][]Read `json:"grouped"`
	Summary    Summary           `json:"summary"`
}

// WriteFields returns the distinct written field names in write order.
func (f *DataFlow) WriteFields() []string {
	seen := make(map[string]bool, len(f.Writes))
	out := make([]string, 0, len(f.Writes))
	for _, w := range f.Writes {
		if seen[w.Field] {
			continue
		}
		seen[w.Field] = true
		out = append(out, w.Field)
	}
	return out
}

// GroupRoots returns the grouped root fields in RFC 8785 key order, for
// deterministic rendering.
func (f *DataFlow) GroupRoots() []string {
	obj := make(Object, len(f.Grouped))
	for root := range f.Grouped {
		obj[root] = Null{}
	}
	return obj.SortedKeys()
}
