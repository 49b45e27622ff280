package compiler

import "github.com/flowlens/flowlens/internal/ir"

// CompileStored adapts a decoded prior-variable list. Entries may be bare
// strings or objects exposing name, field, or key. Total function:
// nonconforming entries are skipped, duplicates keep their first
// occurrence.
func CompileStored(raw any) []ir.StoredVar {
	list, ok := asSlice(raw)
	if !ok {
		if m, okm := asMap(raw); okm {
			return CompileStored(m["variables"])
		}
		return nil
	}

	var out []ir.StoredVar
	seen := make(map[string]bool)
	for _, entry := range list {
		name := ""
		if s, ok := asString(entry); ok {
			name = s
		} else if m, ok := asMap(entry); ok {
			name = flexName(m, "name", "field", "key")
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, ir.StoredVar{Name: name})
	}
	return out
}
