package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFieldsDeduplicates(t *testing.T) {
	flow := &DataFlow{
		Writes: []Write{
			{Field: "token", Type: WriteUnknown},
			{Field: "userId", Type: WriteString},
			{Field: "token", Type: WriteGetter},
		},
	}

	assert.Equal(t, []string{"token", "userId"}, flow.WriteFields())
}

func TestGroupRootsSorted(t *testing.T) {
	flow := &DataFlow{
		Grouped: map[string][]Read{
			"zebra": {},
			"user":  {},
			"Alpha": {},
		},
	}

	// RFC 8785 order: uppercase before lowercase
	assert.Equal(t, []string{"Alpha", "user", "zebra"}, flow.GroupRoots())
}

func TestConditionFactJSONRoundTrip(t *testing.T) {
	fact := ConditionFact{
		Field:      "user.role",
		Operator:   "equals",
		Value:      String("admin"),
		ValueKind:  "static",
		BlockIndex: 1,
		BlockLabel: "role gate",
	}

	data, err := json.Marshal(fact)
	require.NoError(t, err)

	var back ConditionFact
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, fact, back)
}

func TestConditionFactUnmarshalNumberValue(t *testing.T) {
	var fact ConditionFact
	require.NoError(t, json.Unmarshal([]byte(`{"field":"count","value":1.50,"block_index":0}`), &fact))

	assert.Equal(t, Number("1.50"), fact.Value)
}

func TestConditionFactUnmarshalNoValue(t *testing.T) {
	var fact ConditionFact
	require.NoError(t, json.Unmarshal([]byte(`{"field":"isLoggedIn","legacy":true,"block_index":0}`), &fact))

	assert.Nil(t, fact.Value)
	assert.True(t, fact.Legacy)
}

func TestClassificationHasMissing(t *testing.T) {
	c := &Classification{}
	assert.False(t, c.HasMissing())

	c.Missing = append(c.Missing, Verdict{Field: "ghost"})
	assert.True(t, c.HasMissing())
}

func TestClassificationTotal(t *testing.T) {
	c := &Classification{
		Valid:      []Verdict{{Field: "a"}},
		FromStored: []Verdict{{Field: "b"}},
		Warnings:   []Verdict{{Field: "c"}},
		Missing:    []Verdict{{Field: "d"}, {Field: "e"}},
	}

	assert.Equal(t, 5, c.Total())
}
