package dataflow

import (
	"regexp"
	"strings"

	"github.com/flowlens/flowlens/internal/ir"
)

// pathExpr matches a dotted field path with optional index brackets:
// "user.role", "passengers.adults[0].name", "items[]".
const pathExpr = `[a-zA-Z_$][\w$]*(?:\.[a-zA-Z_$][\w$]*|\[\d*\])*`

var (
	ctxDataPattern  = regexp.MustCompile(`\bctx\.data\.(` + pathExpr + `)`)
	ctxPattern      = regexp.MustCompile(`\bctx\.(` + pathExpr + `)`)
	testDataPattern = regexp.MustCompile(`\btestData\.(` + pathExpr + `)`)
	mustachePattern = regexp.MustCompile(`\{\{\s*(` + pathExpr + `)\s*\}\}`)
)

// Ref is one field reference recognized in free text.
type Ref struct {
	Path string      // normalized field path
	Kind ir.ReadKind // context reference or stored-variable interpolation
}

// Scan extracts every field reference embedded in a free-text snippet
// (code, selector, arg, constructor expression). Recognized families:
//
//	ctx.data.<path>   context reference
//	ctx.<path>        context reference (lower-priority alias)
//	testData.<path>   context reference
//	{{<path>}}        stored-variable reference
//
// Matches are reported per family in the order above, each normalized
// (array indices collapse to []). A ctx.data. match never double-registers
// through the bare ctx. alias. Empty input yields no matches; scanning is
// best-effort and never fails.
func Scan(text string) []Ref {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var refs []Ref
	add := func(path string, kind ir.ReadKind) {
		if p := ir.NormalizeFieldPath(path); p != "" {
			refs = append(refs, Ref{Path: p, Kind: kind})
		}
	}

	for _, m := range ctxDataPattern.FindAllStringSubmatch(text, -1) {
		add(m[1], ir.ReadContext)
	}
	for _, m := range ctxPattern.FindAllStringSubmatch(text, -1) {
		// ctx.data.x already matched above; the bare alias skips it so the
		// same reference is not registered twice under two spellings.
		if strings.HasPrefix(m[1], "data.") || m[1] == "data" {
			continue
		}
		add(m[1], ir.ReadContext)
	}
	for _, m := range testDataPattern.FindAllStringSubmatch(text, -1) {
		add(m[1], ir.ReadContext)
	}
	for _, m := range mustachePattern.FindAllStringSubmatch(text, -1) {
		add(m[1], ir.ReadStoredVar)
	}
	return refs
}

// contextPrefixes are stripped from condition-check field names, which are
// authored either as bare paths ("user.role") or fully qualified
// ("ctx.data.user.role").
var contextPrefixes = []string{"ctx.data.", "testData.", "ctx."}

// CheckFieldPath normalizes a condition check's field name to a bare field
// path. Returns "" for text that holds no path at all.
func CheckFieldPath(field string) string {
	f := strings.TrimSpace(field)
	for _, prefix := range contextPrefixes {
		if strings.HasPrefix(f, prefix) {
			f = strings.TrimPrefix(f, prefix)
			break
		}
	}
	return ir.NormalizeFieldPath(f)
}
