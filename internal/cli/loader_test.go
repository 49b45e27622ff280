package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlens/flowlens/internal/ir"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSchemaPack_CUEFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fields.cue", `
schema: {
	"user.role": string
	cart: {
		total: number
	}
}
`)

	fields, err := LoadSchemaPack(path)
	require.NoError(t, err)

	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	assert.Contains(t, keys, "user.role")
	assert.Contains(t, keys, "cart")
	assert.Contains(t, keys, "cart.total")
}

func TestLoadSchemaPack_CUEDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "schema.cue", `
schema: {
	"user.email": string
}
`)

	fields, err := LoadSchemaPack(dir)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "user.email", fields[0].Key)
	assert.Equal(t, "string", fields[0].Type)
}

func TestLoadSchemaPack_JSONList(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fields.json",
		`["user.role", {"key": "cart.total", "type": "number"}]`)

	fields, err := LoadSchemaPack(path)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "user.role", fields[0].Key)
	assert.Equal(t, "cart.total", fields[1].Key)
	assert.Equal(t, "number", fields[1].Type)
}

func TestLoadSchemaPack_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fields.txt", "user.role")

	_, err := LoadSchemaPack(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}

func TestLoadSchemaPack_Missing(t *testing.T) {
	_, err := LoadSchemaPack("/nonexistent/schema")
	require.Error(t, err)
}

func TestLoadStoredVars_NamesOnly(t *testing.T) {
	stored, err := loadStoredVars([]string{"token", "token", "userId", ""}, "")
	require.NoError(t, err)
	assert.Equal(t, []ir.StoredVar{{Name: "token"}, {Name: "userId"}}, stored)
}

func TestLoadStoredVars_MergeFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vars.yaml", `
variables:
  - token
  - cartId
`)

	stored, err := loadStoredVars([]string{"token"}, path)
	require.NoError(t, err)
	// token from --stored wins; cartId merges from the file
	assert.Equal(t, []ir.StoredVar{{Name: "token"}, {Name: "cartId"}}, stored)
}
