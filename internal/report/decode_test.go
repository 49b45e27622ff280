package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRoundTripsCanonicalForm(t *testing.T) {
	r := buildSessionTokenReport(t)
	canonical, err := MarshalCanonical(r)
	require.NoError(t, err)

	decoded, err := Decode(canonical)
	require.NoError(t, err)

	assert.Equal(t, r.ReportVersion, decoded.ReportVersion)
	assert.Equal(t, r.Document.Fingerprint, decoded.Document.Fingerprint)
	assert.Equal(t, r.Flow.Summary, decoded.Flow.Summary)
	require.Len(t, decoded.Flow.Reads, len(r.Flow.Reads))

	// Provenance display strings parse back into structured tags
	assert.Equal(t, r.Flow.Reads[0].Sources, decoded.Flow.Reads[0].Sources)
	assert.Equal(t, r.Flow.Writes[0].Source, decoded.Flow.Writes[0].Source)
}

func TestDecodedReportDiffsClean(t *testing.T) {
	r := buildSessionTokenReport(t)
	canonical, err := MarshalCanonical(r)
	require.NoError(t, err)

	decoded, err := Decode(canonical)
	require.NoError(t, err)

	d := Diff(decoded, r)
	assert.True(t, d.Empty())
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{"flow": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode report")
}
