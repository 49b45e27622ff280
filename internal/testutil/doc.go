// Package testutil provides shared test fixtures: a fluent builder for
// normalized transition documents and a deterministic run-ID source.
package testutil

import (
	"fmt"

	"github.com/flowlens/flowlens/internal/ir"
)

// DocBuilder assembles normalized transition documents for tests without
// the raw-map noise of the compiler's input shapes.
//
// Example:
//
//	doc := testutil.NewDoc().
//	    Name("checkout").
//	    ConditionCheck("user.role", "equals", ir.String("admin")).
//	    StoreStep("sessionToken", "getToken").
//	    Build()
type DocBuilder struct {
	doc ir.TransitionDoc
}

// NewDoc creates an empty document builder.
func NewDoc() *DocBuilder {
	return &DocBuilder{}
}

// Name sets the document name.
func (b *DocBuilder) Name(name string) *DocBuilder {
	b.doc.Name = name
	return b
}

// ConditionCheck appends an enabled condition-check block with one check.
func (b *DocBuilder) ConditionCheck(field, operator string, value ir.Value) *DocBuilder {
	b.doc.Conditions = append(b.doc.Conditions, ir.ConditionBlock{
		Enabled: true,
		Kind:    ir.BlockConditionCheck,
		Checks: []ir.ConditionCheck{{
			Field:    field,
			Operator: operator,
			Value:    value,
			Enabled:  true,
		}},
	})
	return b
}

// CustomCode appends an enabled custom-code condition block.
func (b *DocBuilder) CustomCode(code string) *DocBuilder {
	b.doc.Conditions = append(b.doc.Conditions, ir.ConditionBlock{
		Enabled: true,
		Kind:    ir.BlockCustomCode,
		Code:    code,
	})
	return b
}

// Require appends a legacy required field.
func (b *DocBuilder) Require(name string, expected ir.Value) *DocBuilder {
	b.doc.Requires = append(b.doc.Requires, ir.RequiredField{
		Name:     name,
		Expected: expected,
	})
	return b
}

// Import appends an import spec.
func (b *DocBuilder) Import(constructor, path string) *DocBuilder {
	b.doc.Imports = append(b.doc.Imports, ir.ImportSpec{
		Constructor: constructor,
		Path:        path,
	})
	return b
}

// Step appends a step carrying the given scannable texts.
func (b *DocBuilder) Step(texts ...ir.StepText) *DocBuilder {
	b.doc.Steps = append(b.doc.Steps, ir.Step{Texts: texts})
	return b
}

// ArgStep appends a step whose args are the given strings, tagged
// args[0], args[1], and so on.
func (b *DocBuilder) ArgStep(args ...string) *DocBuilder {
	step := ir.Step{}
	for i, arg := range args {
		step.Texts = append(step.Texts, ir.StepText{
			Sub:  argSub(i),
			Text: arg,
		})
	}
	b.doc.Steps = append(b.doc.Steps, step)
	return b
}

// StoreStep appends a step that stores under key, with the given method
// for write-type inference.
func (b *DocBuilder) StoreStep(key, method string) *DocBuilder {
	b.doc.Steps = append(b.doc.Steps, ir.Step{
		Method: method,
		Store:  &ir.StoreSpec{Key: key, Persist: true},
	})
	return b
}

// Action sets the legacy actionDetails nested document.
func (b *DocBuilder) Action(nested *ir.TransitionDoc) *DocBuilder {
	b.doc.Action = nested
	return b
}

// Build returns the assembled document. The builder can keep being used;
// each Build returns an independent copy of the top-level struct.
func (b *DocBuilder) Build() *ir.TransitionDoc {
	doc := b.doc
	return &doc
}

func argSub(i int) string {
	return fmt.Sprintf("args[%d]", i)
}
