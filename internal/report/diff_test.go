package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlens/flowlens/internal/dataflow"
	"github.com/flowlens/flowlens/internal/ir"
)

func reportForDoc(t *testing.T, doc *ir.TransitionDoc, schema []ir.SchemaField) *Report {
	t.Helper()
	flow := dataflow.Extract(doc)
	class := dataflow.Classify(flow, schema, nil)
	r, err := Build(doc.Name, doc, flow, class, nil, nil)
	require.NoError(t, err)
	return r
}

func TestDiffIdenticalReports(t *testing.T) {
	doc := sessionTokenDoc()
	old := reportForDoc(t, doc, nil)
	current := reportForDoc(t, doc, nil)

	d := Diff(old, current)
	assert.True(t, d.Empty())
}

func TestDiffAddedAndRemovedReads(t *testing.T) {
	oldDoc := &ir.TransitionDoc{
		Steps: []ir.Step{{Texts: []ir.StepText{{Sub: "args[0]", Text: "ctx.data.origin"}}}},
	}
	newDoc := &ir.TransitionDoc{
		Steps: []ir.Step{{Texts: []ir.StepText{{Sub: "args[0]", Text: "ctx.data.destination"}}}},
	}

	d := Diff(reportForDoc(t, oldDoc, nil), reportForDoc(t, newDoc, nil))

	assert.False(t, d.Empty())
	assert.True(t, d.FingerprintChanged)
	assert.Equal(t, []string{"destination"}, d.AddedReads)
	assert.Equal(t, []string{"origin"}, d.RemovedReads)
}

func TestDiffWrites(t *testing.T) {
	oldDoc := &ir.TransitionDoc{
		Steps: []ir.Step{{Store: &ir.StoreSpec{Key: "token", Persist: true}}},
	}
	newDoc := &ir.TransitionDoc{
		Steps: []ir.Step{{Store: &ir.StoreSpec{Key: "sessionToken", Persist: true}}},
	}

	d := Diff(reportForDoc(t, oldDoc, nil), reportForDoc(t, newDoc, nil))

	assert.Equal(t, []string{"sessionToken"}, d.AddedWrites)
	assert.Equal(t, []string{"token"}, d.RemovedWrites)
}

func TestDiffVerdictTransition(t *testing.T) {
	doc := &ir.TransitionDoc{
		Steps: []ir.Step{{Texts: []ir.StepText{{Sub: "args[0]", Text: "ctx.data.user.role"}}}},
	}

	// Same document, schema appears between the two runs
	old := reportForDoc(t, doc, nil)
	current := reportForDoc(t, doc, []ir.SchemaField{{Key: "user.role"}})

	d := Diff(old, current)

	assert.False(t, d.FingerprintChanged)
	require.Len(t, d.VerdictChanges, 1)
	assert.Equal(t, VerdictChange{Field: "user.role", From: "missing", To: "valid"}, d.VerdictChanges[0])
}

func TestDiffRenderText(t *testing.T) {
	d := &ReportDiff{
		FingerprintChanged: true,
		AddedReads:         []string{"destination"},
		RemovedReads:       []string{"origin"},
		VerdictChanges:     []VerdictChange{{Field: "user.role", From: "missing", To: "valid"}},
	}

	var buf bytes.Buffer
	RenderDiffText(&buf, d)

	out := buf.String()
	assert.Contains(t, out, "document fingerprint changed")
	assert.Contains(t, out, "+ read destination")
	assert.Contains(t, out, "- read origin")
	assert.Contains(t, out, "~ user.role: missing -> valid")
}
