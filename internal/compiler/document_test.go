package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlens/flowlens/internal/ir"
)

func TestCompileDocumentNonMapInput(t *testing.T) {
	assert.Equal(t, &ir.TransitionDoc{}, CompileDocument(nil))
	assert.Equal(t, &ir.TransitionDoc{}, CompileDocument("not a document"))
	assert.Equal(t, &ir.TransitionDoc{}, CompileDocument([]any{"still not"}))
}

func TestCompileDocumentName(t *testing.T) {
	doc := CompileDocument(map[string]any{"name": "login_flow"})
	assert.Equal(t, "login_flow", doc.Name)

	// description is the fallback
	doc = CompileDocument(map[string]any{"description": "legacy name"})
	assert.Equal(t, "legacy name", doc.Name)
}

func TestCompileDocumentConditionsWrapper(t *testing.T) {
	raw := map[string]any{
		"conditions": map[string]any{
			"blocks": []any{
				map[string]any{
					"type": "condition-check",
					"data": map[string]any{
						"checks": []any{
							map[string]any{"field": "user.role", "operator": "equals", "value": "admin"},
						},
					},
				},
			},
		},
	}

	doc := CompileDocument(raw)
	require.Len(t, doc.Conditions, 1)

	block := doc.Conditions[0]
	assert.Equal(t, ir.BlockConditionCheck, block.Kind)
	assert.True(t, block.Enabled, "absent enabled means enabled")
	require.Len(t, block.Checks, 1)
	assert.Equal(t, "user.role", block.Checks[0].Field)
	assert.Equal(t, "equals", block.Checks[0].Operator)
	assert.Equal(t, ir.String("admin"), block.Checks[0].Value)
	assert.True(t, block.Checks[0].Enabled)
}

func TestCompileDocumentConditionsBareList(t *testing.T) {
	raw := map[string]any{
		"conditions": []any{
			map[string]any{"type": "custom-code", "code": "ctx.data.cart"},
		},
	}

	doc := CompileDocument(raw)
	require.Len(t, doc.Conditions, 1)
	assert.Equal(t, ir.BlockCustomCode, doc.Conditions[0].Kind)
	assert.Equal(t, "ctx.data.cart", doc.Conditions[0].Code)
}

func TestCompileDocumentCodeUnderData(t *testing.T) {
	raw := map[string]any{
		"conditions": []any{
			map[string]any{
				"type": "custom-code",
				"data": map[string]any{"code": "testData.flightNumber"},
			},
		},
	}

	doc := CompileDocument(raw)
	require.Len(t, doc.Conditions, 1)
	assert.Equal(t, "testData.flightNumber", doc.Conditions[0].Code)
}

func TestCompileDocumentDisabledBlockAndCheck(t *testing.T) {
	raw := map[string]any{
		"conditions": []any{
			map[string]any{
				"type":    "condition-check",
				"enabled": false,
				"checks": []any{
					map[string]any{"field": "a", "enabled": false},
					map[string]any{"field": "b"},
				},
			},
		},
	}

	doc := CompileDocument(raw)
	require.Len(t, doc.Conditions, 1)
	assert.False(t, doc.Conditions[0].Enabled)
	require.Len(t, doc.Conditions[0].Checks, 2)
	assert.False(t, doc.Conditions[0].Checks[0].Enabled)
	assert.True(t, doc.Conditions[0].Checks[1].Enabled)
}

func TestCompileDocumentCheckValueKind(t *testing.T) {
	raw := map[string]any{
		"conditions": []any{
			map[string]any{
				"type": "condition-check",
				"checks": []any{
					map[string]any{"field": "user.id", "valueType": "variable", "value": "{{currentUser}}"},
				},
			},
		},
	}

	doc := CompileDocument(raw)
	check := doc.Conditions[0].Checks[0]
	assert.Equal(t, "variable", check.ValueKind)
	assert.Equal(t, ir.String("{{currentUser}}"), check.Value)
}

func TestCompileDocumentRequiresMapSorted(t *testing.T) {
	raw := map[string]any{
		"requires": map[string]any{
			"zulu":       true,
			"alpha":      "x",
			"isLoggedIn": true,
		},
	}

	doc := CompileDocument(raw)
	require.Len(t, doc.Requires, 3)
	assert.Equal(t, "alpha", doc.Requires[0].Name)
	assert.Equal(t, "isLoggedIn", doc.Requires[1].Name)
	assert.Equal(t, "zulu", doc.Requires[2].Name)
	assert.Equal(t, ir.Bool(true), doc.Requires[1].Expected)
}

func TestCompileDocumentRequiresList(t *testing.T) {
	raw := map[string]any{
		"requires": []any{"first", "second", 42},
	}

	doc := CompileDocument(raw)
	require.Len(t, doc.Requires, 2)
	assert.Equal(t, "first", doc.Requires[0].Name)
	assert.Equal(t, "second", doc.Requires[1].Name)
}

func TestCompileDocumentImports(t *testing.T) {
	raw := map[string]any{
		"imports": []any{
			map[string]any{
				"constructor": `new LoginPage(ctx.data.baseUrl)`,
				"path":        "pages/login",
				"className":   "LoginPage",
			},
			"pages/cart",
			42,
		},
	}

	doc := CompileDocument(raw)
	require.Len(t, doc.Imports, 2)
	assert.Equal(t, "LoginPage", doc.Imports[0].ClassName)
	assert.Equal(t, "pages/cart", doc.Imports[1].Path)
}

func TestCompileDocumentStepArgsArray(t *testing.T) {
	raw := map[string]any{
		"steps": []any{
			map[string]any{"args": []any{"ctx.data.user.name", 42, "{{token}}"}},
		},
	}

	doc := CompileDocument(raw)
	require.Len(t, doc.Steps, 1)
	// The non-string arg is dropped but positions stay honest
	assert.Equal(t, []ir.StepText{
		{Sub: "args[0]", Text: "ctx.data.user.name"},
		{Sub: "args[2]", Text: "{{token}}"},
	}, doc.Steps[0].Texts)
}

func TestCompileDocumentStepArgsString(t *testing.T) {
	raw := map[string]any{
		"steps": []any{
			map[string]any{"args": "ctx.data.cart.total"},
		},
	}

	doc := CompileDocument(raw)
	require.Len(t, doc.Steps, 1)
	assert.Equal(t, []ir.StepText{{Sub: "args", Text: "ctx.data.cart.total"}}, doc.Steps[0].Texts)
}

func TestCompileDocumentStepTextOrder(t *testing.T) {
	raw := map[string]any{
		"steps": []any{
			map[string]any{
				"args":      []any{"a"},
				"argsArray": []any{"b"},
				"value":     "c",
				"code":      "d",
				"selector":  "e",
			},
		},
	}

	doc := CompileDocument(raw)
	require.Len(t, doc.Steps, 1)
	assert.Equal(t, []ir.StepText{
		{Sub: "args[0]", Text: "a"},
		{Sub: "argsArray[0]", Text: "b"},
		{Sub: "value", Text: "c"},
		{Sub: "code", Text: "d"},
		{Sub: "selector", Text: "e"},
	}, doc.Steps[0].Texts)
}

func TestCompileDocumentStoreAsString(t *testing.T) {
	raw := map[string]any{
		"steps": []any{
			map[string]any{"storeAs": "sessionToken", "method": "getToken"},
		},
	}

	doc := CompileDocument(raw)
	store := doc.Steps[0].Store
	require.NotNil(t, store)
	assert.Equal(t, "sessionToken", store.Key)
	assert.True(t, store.Persist)
	assert.False(t, store.Global)
}

func TestCompileDocumentStoreAsObject(t *testing.T) {
	raw := map[string]any{
		"steps": []any{
			map[string]any{
				"storeAs": map[string]any{"key": "userId", "persist": false, "global": true},
			},
		},
	}

	doc := CompileDocument(raw)
	store := doc.Steps[0].Store
	require.NotNil(t, store)
	assert.Equal(t, "userId", store.Key)
	assert.False(t, store.Persist)
	assert.True(t, store.Global)
}

func TestCompileDocumentStoreAsKeylessPreserved(t *testing.T) {
	// Lint needs to see the keyless declaration
	raw := map[string]any{
		"steps": []any{
			map[string]any{"storeAs": map[string]any{"persist": true}},
		},
	}

	doc := CompileDocument(raw)
	store := doc.Steps[0].Store
	require.NotNil(t, store)
	assert.Empty(t, store.Key)
}

func TestCompileDocumentMalformedStepKeepsPosition(t *testing.T) {
	raw := map[string]any{
		"steps": []any{
			map[string]any{"value": "first"},
			"not a step",
			map[string]any{"value": "third"},
		},
	}

	doc := CompileDocument(raw)
	require.Len(t, doc.Steps, 3, "a malformed step still occupies its index")
	assert.Empty(t, doc.Steps[1].Texts)
	assert.Equal(t, "third", doc.Steps[2].Texts[0].Text)
}

func TestCompileDocumentStepConditions(t *testing.T) {
	raw := map[string]any{
		"steps": []any{
			map[string]any{
				"conditions": map[string]any{
					"blocks": []any{
						map[string]any{
							"type":   "condition-check",
							"checks": []any{map[string]any{"field": "flag"}},
						},
					},
				},
			},
		},
	}

	doc := CompileDocument(raw)
	require.Len(t, doc.Steps[0].Conditions, 1)
	assert.Equal(t, "flag", doc.Steps[0].Conditions[0].Checks[0].Field)
}

func TestCompileDocumentActionDetails(t *testing.T) {
	raw := map[string]any{
		"actionDetails": map[string]any{
			"requires": map[string]any{"isLoggedIn": true},
			"steps": []any{
				map[string]any{"code": "ctx.data.user"},
			},
		},
	}

	doc := CompileDocument(raw)
	require.NotNil(t, doc.Action)
	assert.Len(t, doc.Action.Requires, 1)
	assert.Len(t, doc.Action.Steps, 1)
}

func TestCompileDocumentWrongTypesEverywhere(t *testing.T) {
	// Nothing here conforms; compilation must survive all of it
	raw := map[string]any{
		"name":          42,
		"conditions":    "nope",
		"requires":      3.14,
		"imports":       map[string]any{"x": 1},
		"steps":         "nope",
		"actionDetails": []any{"nope"},
	}

	doc := CompileDocument(raw)
	assert.Empty(t, doc.Name)
	assert.Empty(t, doc.Conditions)
	assert.Empty(t, doc.Requires)
	assert.Empty(t, doc.Imports)
	assert.Empty(t, doc.Steps)
	assert.Nil(t, doc.Action)
}
