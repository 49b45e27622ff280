package ir

// SchemaField declares one field the project's test-data object provides.
type SchemaField struct {
	Key  string `json:"key"`
	Type string `json:"type,omitempty"`
}

// StoredVar names a variable produced by an earlier step or transition.
type StoredVar struct {
	Name string `json:"name"`
}

// Verdict is one classified read. MatchedBy names the schema field or
// stored variable that satisfied a valid/fromStored read; Reason carries
// the human-readable explanation required on warning and missing entries.
type Verdict struct {
	Field     string `json:"field"`
	Root      string `json:"root_field"`
	Required  bool   `json:"required"`
	MatchedBy string `json:"matched_by,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Classification buckets every read of a flow. Buckets are independent
// slices in the flow's read order, so a rendering layer can list them
// without re-deriving anything. A read lands in exactly one bucket.
type Classification struct {
	Valid      []Verdict `json:"valid"`
	FromStored []Verdict `json:"from_stored"`
	Warnings   []Verdict `json:"warnings"`
	Missing    []Verdict `json:"missing"`
}

// HasMissing reports whether any read failed classification outright.
func (c *Classification) HasMissing() bool {
	return len(c.Missing) > 0
}

// Total returns the number of classified reads across all buckets.
func (c *Classification) Total() int {
	return len(c.Valid) + len(c.FromStored) + len(c.Warnings) + len(c.Missing)
}
