package harness

import (
	"fmt"
	"strings"

	"github.com/flowlens/flowlens/internal/ir"
	"github.com/flowlens/flowlens/internal/report"
)

// Assertion validates one aspect of an extraction report.
type Assertion struct {
	// Type selects the check:
	//   read_count       deduplicated read total equals count
	//   write_count      write total equals count
	//   condition_count  condition fact total equals count
	//   read_required    field is a read and marked required
	//   read_optional    field is a read and not required
	//   classified_as    field landed in the named bucket
	//   writes_field     field is written (store_type optionally pinned)
	//   grouped_under    field is grouped under root
	Type string `yaml:"type"`

	// Field names the read or write under test.
	Field string `yaml:"field,omitempty"`

	// Root is the expected grouping root (grouped_under).
	Root string `yaml:"root,omitempty"`

	// Bucket is the expected classification bucket (classified_as):
	// valid, fromStored, warning, or missing.
	Bucket string `yaml:"bucket,omitempty"`

	// Count is the expected total (the *_count types).
	Count int `yaml:"count,omitempty"`

	// StoreType pins the inferred write type (writes_field), e.g.
	// "string" or "unknown". Empty accepts any.
	StoreType string `yaml:"store_type,omitempty"`
}

// Assertion type constants.
const (
	AssertReadCount      = "read_count"
	AssertWriteCount     = "write_count"
	AssertConditionCount = "condition_count"
	AssertReadRequired   = "read_required"
	AssertReadOptional   = "read_optional"
	AssertClassifiedAs   = "classified_as"
	AssertWritesField    = "writes_field"
	AssertGroupedUnder   = "grouped_under"
)

// Classification bucket names as used in scenarios.
const (
	BucketValid      = "valid"
	BucketFromStored = "fromStored"
	BucketWarning    = "warning"
	BucketMissing    = "missing"
)

// AssertionError is returned when an assertion fails. Expected and Actual
// carry human-readable outcomes; Detail adds context such as the list of
// fields that were present.
type AssertionError struct {
	Type     string `json:"type"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Detail   string `json:"detail,omitempty"`
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Detail != "" {
		fmt.Fprintf(&buf, "  %s\n", e.Detail)
	}
	return buf.String()
}

// evalAssertion checks one assertion against a report. Returns nil when
// the assertion holds.
func evalAssertion(r *report.Report, a Assertion) *AssertionError {
	switch a.Type {
	case AssertReadCount:
		return assertCount(a, len(r.Flow.Reads), "reads", readFields(r.Flow))
	case AssertWriteCount:
		return assertCount(a, len(r.Flow.Writes), "writes", r.Flow.WriteFields())
	case AssertConditionCount:
		return assertCount(a, len(r.Flow.Conditions), "condition facts", nil)
	case AssertReadRequired:
		return assertReadRequired(r.Flow, a, true)
	case AssertReadOptional:
		return assertReadRequired(r.Flow, a, false)
	case AssertClassifiedAs:
		return assertClassifiedAs(r.Classification, a)
	case AssertWritesField:
		return assertWritesField(r.Flow, a)
	case AssertGroupedUnder:
		return assertGroupedUnder(r.Flow, a)
	default:
		// Unknown types are rejected at load time; reaching this means the
		// scenario bypassed LoadScenario.
		return &AssertionError{
			Type:     a.Type,
			Expected: "a known assertion type",
			Actual:   fmt.Sprintf("unknown type %q", a.Type),
		}
	}
}

func assertCount(a Assertion, actual int, what string, fields []string) *AssertionError {
	if actual == a.Count {
		return nil
	}
	err := &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d %s", a.Count, what),
		Actual:   fmt.Sprintf("%d %s", actual, what),
	}
	if len(fields) > 0 {
		err.Detail = "present: " + strings.Join(fields, ", ")
	}
	return err
}

func assertReadRequired(flow *ir.DataFlow, a Assertion, wantRequired bool) *AssertionError {
	want := "optional"
	if wantRequired {
		want = "required"
	}
	for _, read := range flow.Reads {
		if read.Field != a.Field {
			continue
		}
		if read.Required == wantRequired {
			return nil
		}
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("read %q %s", a.Field, want),
			Actual:   fmt.Sprintf("read %q required=%v", a.Field, read.Required),
		}
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("read %q %s", a.Field, want),
		Actual:   "field is not read at all",
		Detail:   "present: " + strings.Join(readFields(flow), ", "),
	}
}

func assertClassifiedAs(class *ir.Classification, a Assertion) *AssertionError {
	if class == nil {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%q in bucket %s", a.Field, a.Bucket),
			Actual:   "scenario ran extraction only, no classification",
		}
	}

	actual := ""
	for bucket, verdicts := range map[string][]ir.Verdict{
		BucketValid:      class.Valid,
		BucketFromStored: class.FromStored,
		BucketWarning:    class.Warnings,
		BucketMissing:    class.Missing,
	} {
		for _, v := range verdicts {
			if v.Field == a.Field {
				actual = bucket
			}
		}
	}

	switch actual {
	case a.Bucket:
		return nil
	case "":
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%q in bucket %s", a.Field, a.Bucket),
			Actual:   "field was not classified (not a read)",
		}
	default:
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%q in bucket %s", a.Field, a.Bucket),
			Actual:   fmt.Sprintf("%q in bucket %s", a.Field, actual),
		}
	}
}

func assertWritesField(flow *ir.DataFlow, a Assertion) *AssertionError {
	for _, write := range flow.Writes {
		if write.Field != a.Field {
			continue
		}
		if a.StoreType == "" || string(write.Type) == a.StoreType {
			return nil
		}
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("write %q with type %s", a.Field, a.StoreType),
			Actual:   fmt.Sprintf("write %q with type %s", a.Field, write.Type),
		}
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("write %q", a.Field),
		Actual:   "field is not written",
		Detail:   "present: " + strings.Join(flow.WriteFields(), ", "),
	}
}

func assertGroupedUnder(flow *ir.DataFlow, a Assertion) *AssertionError {
	for _, read := range flow.Grouped[a.Root] {
		if read.Field == a.Field {
			return nil
		}
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%q grouped under %q", a.Field, a.Root),
		Actual:   fmt.Sprintf("group %q holds: %s", a.Root, strings.Join(groupFields(flow, a.Root), ", ")),
	}
}

func readFields(flow *ir.DataFlow) []string {
	fields := make([]string, len(flow.Reads))
	for i, read := range flow.Reads {
		fields[i] = read.Field
	}
	return fields
}

func groupFields(flow *ir.DataFlow, root string) []string {
	reads := flow.Grouped[root]
	fields := make([]string, len(reads))
	for i, read := range reads {
		fields[i] = read.Field
	}
	return fields
}
