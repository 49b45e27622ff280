package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"

	"github.com/flowlens/flowlens/internal/ir"
)

// CompileSchema parses a CUE schema pack value into schema fields.
// Uses the CUE SDK's Go API directly (not CLI subprocess).
//
// The value's "schema" struct maps field keys to CUE type expressions. Keys
// may be flat dotted paths or nested structs:
//
//	schema: {
//	    "user.role": string
//	    cart: {items: [...], total: number}
//	}
//
// A nested struct registers both the interior path (type "object") and
// every leaf, so a read of either "cart" or "cart.total" matches.
func CompileSchema(v cue.Value) ([]ir.SchemaField, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	root := v.LookupPath(cue.ParsePath("schema"))
	if !root.Exists() {
		return nil, &CompileError{
			Field:   "schema",
			Message: "schema struct is required",
			Pos:     v.Pos(),
		}
	}

	var fields []ir.SchemaField
	if err := walkSchemaStruct(root, "", &fields); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, &CompileError{
			Field:   "schema",
			Message: "schema declares no fields",
			Pos:     root.Pos(),
		}
	}
	return fields, nil
}

func walkSchemaStruct(v cue.Value, prefix string, out *[]ir.SchemaField) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		label := strings.Trim(iter.Label(), `"`)
		key := label
		if prefix != "" {
			key = prefix + "." + label
		}

		fv := iter.Value()
		if fv.IncompleteKind() == cue.StructKind {
			*out = append(*out, ir.SchemaField{Key: key, Type: "object"})
			if err := walkSchemaStruct(fv, key, out); err != nil {
				return err
			}
			continue
		}

		typeName, err := extractTypeName(fv)
		if err != nil {
			return err
		}
		*out = append(*out, ir.SchemaField{Key: key, Type: typeName})
	}
	return nil
}

// extractTypeName converts a CUE type expression to a schema type string.
// Schema packs describe foreign test data, so number types are legal here.
func extractTypeName(v cue.Value) (string, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		return "string", nil
	case cue.IntKind:
		return "int", nil
	case cue.FloatKind, cue.NumberKind:
		return "number", nil
	case cue.BoolKind:
		return "bool", nil
	case cue.ListKind:
		return "array", nil
	case cue.NullKind:
		return "null", nil
	case cue.TopKind:
		return "any", nil
	default:
		return "", &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("unsupported type kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// CompileSchemaList adapts a decoded JSON/YAML schema file. Entries may be
// bare strings or objects exposing key or name (plus an optional type).
// Total function: nonconforming entries are skipped, duplicates keep their
// first occurrence.
func CompileSchemaList(raw any) []ir.SchemaField {
	list, ok := asSlice(raw)
	if !ok {
		// Accept a {fields: [...]} wrapper
		if m, okm := asMap(raw); okm {
			return CompileSchemaList(m["fields"])
		}
		return nil
	}

	var out []ir.SchemaField
	seen := make(map[string]bool)
	for _, entry := range list {
		if s, ok := asString(entry); ok {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, ir.SchemaField{Key: s})
			continue
		}

		m, ok := asMap(entry)
		if !ok {
			continue
		}
		key := flexName(m, "key", "name")
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		field := ir.SchemaField{Key: key}
		if tp, ok := asString(m["type"]); ok {
			field.Type = tp
		}
		out = append(out, field)
	}
	return out
}

// flexName returns the first non-empty string under the given keys.
func flexName(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := asString(m[k]); ok && s != "" {
			return s
		}
	}
	return ""
}
