package ir

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ScopeAction marks facts lifted out of the legacy actionDetails nested
// document. The top-level document has the empty scope.
const ScopeAction = "actionDetails"

// ProvenanceKind enumerates the document regions that can produce a fact.
type ProvenanceKind string

const (
	ProvenanceCondition ProvenanceKind = "condition"
	ProvenanceRequires  ProvenanceKind = "requires"
	ProvenanceImport    ProvenanceKind = "import"
	ProvenanceStep      ProvenanceKind = "step"
)

// Provenance locates the document region that produced a read, write, or
// condition fact. Tags stay structured internally; String renders the
// display form used at the reporting boundary.
type Provenance struct {
	Scope string         `json:"scope,omitempty"` // "" or "actionDetails"
	Kind  ProvenanceKind `json:"kind"`
	Index int            `json:"index"`          // block/import/step position
	Name  string         `json:"name,omitempty"` // requires key
	Sub   string         `json:"sub,omitempty"`  // "args[0]", "code", "condition[1]", ...
}

// InScope returns a copy re-tagged under scope. Nested scopes chain:
// re-tagging an already actionDetails-scoped tag prefixes again.
func (p Provenance) InScope(scope string) Provenance {
	if p.Scope != "" {
		p.Scope = scope + "." + p.Scope
	} else {
		p.Scope = scope
	}
	return p
}

// String renders the display form: "condition[0]", "requires.isLoggedIn",
// "import[0].constructor", "step[2].args[0]", "actionDetails.step[1].code".
func (p Provenance) String() string {
	var b strings.Builder
	if p.Scope != "" {
		b.WriteString(p.Scope)
		b.WriteByte('.')
	}
	b.WriteString(string(p.Kind))
	if p.Kind == ProvenanceRequires {
		if p.Name != "" {
			b.WriteByte('.')
			b.WriteString(p.Name)
		}
	} else {
		fmt.Fprintf(&b, "[%d]", p.Index)
	}
	if p.Sub != "" {
		b.WriteByte('.')
		b.WriteString(p.Sub)
	}
	return b.String()
}

// FormatSources renders a provenance list to display strings, preserving
// order.
func FormatSources(sources []Provenance) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = s.String()
	}
	return out
}

var provenancePattern = regexp.MustCompile(`^(condition|import|step)\[(\d+)\](?:\.(.+))?$`)

// ParseProvenance inverts String, so canonical reports round-trip through
// their stored form.
func ParseProvenance(s string) (Provenance, error) {
	var p Provenance

	var scopes []string
	for strings.HasPrefix(s, ScopeAction+".") {
		scopes = append(scopes, ScopeAction)
		s = strings.TrimPrefix(s, ScopeAction+".")
	}
	p.Scope = strings.Join(scopes, ".")

	if name, ok := strings.CutPrefix(s, string(ProvenanceRequires)+"."); ok {
		p.Kind = ProvenanceRequires
		p.Name = name
		return p, nil
	}

	m := provenancePattern.FindStringSubmatch(s)
	if m == nil {
		return Provenance{}, fmt.Errorf("ParseProvenance: malformed tag %q", s)
	}
	p.Kind = ProvenanceKind(m[1])
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return Provenance{}, fmt.Errorf("ParseProvenance: malformed index in %q", s)
	}
	p.Index = idx
	p.Sub = m[3]
	return p, nil
}

// UnmarshalJSON accepts both the structured object form and the display
// string emitted by canonical report serialization.
func (p *Provenance) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseProvenance(s)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	type alias Provenance
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Provenance(a)
	return nil
}
