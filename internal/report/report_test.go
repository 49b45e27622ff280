package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlens/flowlens/internal/compiler"
	"github.com/flowlens/flowlens/internal/dataflow"
	"github.com/flowlens/flowlens/internal/ir"
)

func sessionTokenDoc() *ir.TransitionDoc {
	return &ir.TransitionDoc{
		Name: "session_token_flow",
		Conditions: []ir.ConditionBlock{{
			Enabled: true,
			Kind:    ir.BlockConditionCheck,
			Checks: []ir.ConditionCheck{{
				Field:    "user.role",
				Operator: "equals",
				Value:    ir.String("admin"),
				Enabled:  true,
			}},
		}},
		Steps: []ir.Step{{
			Method: "getToken",
			Store:  &ir.StoreSpec{Key: "sessionToken", Persist: true},
		}},
	}
}

func buildSessionTokenReport(t *testing.T) *Report {
	t.Helper()

	doc := sessionTokenDoc()
	flow := dataflow.Extract(doc)
	class := dataflow.Classify(flow, []ir.SchemaField{{Key: "user.role", Type: "string"}}, nil)

	r, err := Build("session_token_flow", doc, flow, class, nil, nil)
	require.NoError(t, err)
	return r
}

func TestBuildStampsVersionsAndFingerprint(t *testing.T) {
	r := buildSessionTokenReport(t)

	assert.Equal(t, ir.ReportVersion, r.ReportVersion)
	assert.Equal(t, ir.EngineVersion, r.EngineVersion)
	assert.Equal(t, "session_token_flow", r.Document.Name)
	assert.Len(t, r.Document.Fingerprint, 64, "sha-256 hex")
	assert.Equal(t, ir.MustDocumentFingerprint(sessionTokenDoc()), r.Document.Fingerprint)
}

func TestBuildFingerprintIgnoresName(t *testing.T) {
	doc := sessionTokenDoc()
	flow := dataflow.Extract(doc)

	first, err := Build("one", doc, flow, nil, nil, nil)
	require.NoError(t, err)
	second, err := Build("two", doc, flow, nil, nil, nil)
	require.NoError(t, err)

	// The report name is a storage key; the fingerprint covers the document
	assert.Equal(t, first.Document.Fingerprint, second.Document.Fingerprint)
}

func TestMarshalCanonicalDeterministic(t *testing.T) {
	r := buildSessionTokenReport(t)

	first, err := MarshalCanonical(r)
	require.NoError(t, err)
	second, err := MarshalCanonical(r)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, json.Valid(first))
}

func TestMarshalCanonicalRendersProvenanceAsStrings(t *testing.T) {
	r := buildSessionTokenReport(t)

	data, err := MarshalCanonical(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	flow := decoded["flow"].(map[string]any)
	reads := flow["reads"].([]any)
	require.Len(t, reads, 1)
	sources := reads[0].(map[string]any)["sources"].([]any)
	assert.Equal(t, []any{"condition[0]"}, sources)

	writes := flow["writes"].([]any)
	require.Len(t, writes, 1)
	assert.Equal(t, "step[0].storeAs", writes[0].(map[string]any)["source"])
}

func TestReportIDStableAndContentAddressed(t *testing.T) {
	r := buildSessionTokenReport(t)

	first, err := ID(r)
	require.NoError(t, err)
	second, err := ID(r)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)

	// Any content change moves the ID
	r.Document.Name = "renamed"
	moved, err := ID(r)
	require.NoError(t, err)
	assert.NotEqual(t, first, moved)
}

func TestBuildCarriesLintsAndOrderWarnings(t *testing.T) {
	doc := sessionTokenDoc()
	flow := dataflow.Extract(doc)
	lints := []compiler.ValidationError{
		{Field: "steps[0]", Message: "step carries nothing to scan, store, or gate", Code: compiler.ErrInertStep},
	}
	order := []dataflow.OrderWarning{
		{Field: "token", ReadStep: 0, StoreStep: 2, Message: "token read at step[0] before step[2] stores it"},
	}

	r, err := Build("with_findings", doc, flow, nil, lints, order)
	require.NoError(t, err)

	data, err := MarshalCanonical(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "lints")
	assert.Contains(t, decoded, "order_warnings")
	assert.NotContains(t, decoded, "classification")
}
