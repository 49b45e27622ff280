package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flowlens/flowlens/internal/ir"
)

// LoadDocumentFile reads a transition document from a JSON or YAML file
// and compiles it onto the normalized model. The format is dispatched on
// the file extension; anything that is not .yaml/.yml parses as JSON.
//
// File and syntax errors are the caller's problem; shape problems are
// not (CompileDocument is total).
func LoadDocumentFile(path string) (*ir.TransitionDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := DecodeDocument(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", path, err)
	}
	return doc, nil
}

// DecodeDocument parses raw JSON or YAML bytes into a normalized
// document. ext selects the format (".yaml"/".yml" for YAML, JSON
// otherwise).
func DecodeDocument(data []byte, ext string) (*ir.TransitionDoc, error) {
	raw, err := decodeRaw(data, ext)
	if err != nil {
		return nil, err
	}
	return CompileDocument(raw), nil
}

// LoadSchemaListFile reads a JSON/YAML schema file through the flexible
// list adapter (bare strings or {key|name, type} objects).
func LoadSchemaListFile(path string) ([]ir.SchemaField, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	raw, err := decodeRaw(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", path, err)
	}
	return CompileSchemaList(raw), nil
}

// LoadStoredFile reads a JSON/YAML prior-variable file through the
// flexible list adapter (bare strings or {name|field|key} objects).
func LoadStoredFile(path string) ([]ir.StoredVar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stored variables: %w", err)
	}
	raw, err := decodeRaw(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse stored variables %s: %w", path, err)
	}
	return CompileStored(raw), nil
}

// decodeRaw parses bytes into the generic shape the adapters accept.
// JSON numbers decode through json.Number so literals survive into the
// Value model.
func decodeRaw(data []byte, ext string) (any, error) {
	if isYAMLExt(ext) {
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func isYAMLExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
