package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFieldPathIndices(t *testing.T) {
	assert.Equal(t, "passengers.adults[].name", NormalizeFieldPath("passengers.adults[0].name"))
	assert.Equal(t, "passengers.adults[].name", NormalizeFieldPath("passengers.adults[7].name"))
	assert.Equal(t, "a[].b[]", NormalizeFieldPath("a[0].b[13]"))
}

func TestNormalizeFieldPathAlreadyEmpty(t *testing.T) {
	// Pre-normalized brackets pass through unchanged
	assert.Equal(t, "items[]", NormalizeFieldPath("items[]"))
}

func TestNormalizeFieldPathTrims(t *testing.T) {
	assert.Equal(t, "user.role", NormalizeFieldPath("  user.role  "))
	assert.Equal(t, "user.role", NormalizeFieldPath("user.role."))
	assert.Equal(t, "", NormalizeFieldPath("   "))
}

func TestRootField(t *testing.T) {
	assert.Equal(t, "passengers", RootField("passengers.adults[].name"))
	assert.Equal(t, "a", RootField("a[0]"))
	assert.Equal(t, "a", RootField("a[]"))
	assert.Equal(t, "isLoggedIn", RootField("isLoggedIn"))
	assert.Equal(t, "", RootField(""))
}

func TestIsNested(t *testing.T) {
	assert.True(t, IsNested("user.role"))
	assert.False(t, IsNested("user"))
	assert.False(t, IsNested("items[]"))
}

func TestStripInterpolation(t *testing.T) {
	assert.Equal(t, "userId", StripInterpolation("{{userId}}"))
	assert.Equal(t, "user.name", StripInterpolation("{{ user.name }}"))
	assert.Equal(t, "plain", StripInterpolation("  plain  "))
	// Embedded interpolation is not a single wrapper, stays untouched
	assert.Equal(t, "a {{b}} c", StripInterpolation("a {{b}} c"))
}

func TestProvenanceStringForms(t *testing.T) {
	tests := []struct {
		tag  Provenance
		want string
	}{
		{Provenance{Kind: ProvenanceCondition, Index: 0}, "condition[0]"},
		{Provenance{Kind: ProvenanceCondition, Index: 1, Sub: "code"}, "condition[1].code"},
		{Provenance{Kind: ProvenanceCondition, Index: 0, Sub: "value"}, "condition[0].value"},
		{Provenance{Kind: ProvenanceRequires, Name: "isLoggedIn"}, "requires.isLoggedIn"},
		{Provenance{Kind: ProvenanceImport, Index: 0, Sub: "constructor"}, "import[0].constructor"},
		{Provenance{Kind: ProvenanceStep, Index: 2, Sub: "args[0]"}, "step[2].args[0]"},
		{Provenance{Kind: ProvenanceStep, Index: 3, Sub: "condition[1]"}, "step[3].condition[1]"},
		{Provenance{Scope: ScopeAction, Kind: ProvenanceStep, Index: 1, Sub: "code"}, "actionDetails.step[1].code"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.tag.String())
	}
}

func TestProvenanceInScope(t *testing.T) {
	p := Provenance{Kind: ProvenanceStep, Index: 0, Sub: "value"}

	scoped := p.InScope(ScopeAction)
	assert.Equal(t, "actionDetails.step[0].value", scoped.String())

	// Re-tagging chains for doubly nested documents
	twice := scoped.InScope(ScopeAction)
	assert.Equal(t, "actionDetails.actionDetails.step[0].value", twice.String())

	// Original is untouched
	assert.Equal(t, "step[0].value", p.String())
}

func TestFormatSources(t *testing.T) {
	sources := []Provenance{
		{Kind: ProvenanceCondition, Index: 0},
		{Kind: ProvenanceStep, Index: 2, Sub: "args[1]"},
	}

	assert.Equal(t, []string{"condition[0]", "step[2].args[1]"}, FormatSources(sources))
}
