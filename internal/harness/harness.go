package harness

import (
	"fmt"

	"github.com/flowlens/flowlens/internal/compiler"
	"github.com/flowlens/flowlens/internal/dataflow"
	"github.com/flowlens/flowlens/internal/ir"
	"github.com/flowlens/flowlens/internal/report"
)

// Result is the outcome of running one scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Errors holds one entry per failed assertion, in assertion order.
	Errors []AssertionError `json:"errors,omitempty"`

	// Report is the full analysis report the assertions ran against.
	Report *report.Report `json:"report"`
}

// Run executes a scenario through the whole pipeline: document, schema,
// and stored-variable loading, extraction, classification, lint,
// store-ordering analysis, report assembly, and assertion evaluation.
//
// An error means the scenario's inputs could not be loaded. Assertion
// failures are not errors; they land in Result.Errors with Pass false.
func Run(s *Scenario) (*Result, error) {
	doc, err := loadScenarioDocument(s)
	if err != nil {
		return nil, err
	}

	schema, err := loadScenarioSchema(s)
	if err != nil {
		return nil, err
	}

	stored, err := loadScenarioStored(s)
	if err != nil {
		return nil, err
	}

	flow := dataflow.Extract(doc)
	class := dataflow.Classify(flow, schema, stored)
	lints := compiler.Validate(doc)
	order := dataflow.CheckOrder(flow)

	r, err := report.Build(s.Name, doc, flow, class, lints, order)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	result := &Result{Pass: true, Report: r}
	for _, assertion := range s.Assertions {
		if assertErr := evalAssertion(r, assertion); assertErr != nil {
			result.Pass = false
			result.Errors = append(result.Errors, *assertErr)
		}
	}
	return result, nil
}

func loadScenarioDocument(s *Scenario) (*ir.TransitionDoc, error) {
	if s.Inline != nil {
		return compiler.CompileDocument(s.Inline), nil
	}
	doc, err := compiler.LoadDocumentFile(s.Document)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return doc, nil
}

func loadScenarioSchema(s *Scenario) ([]ir.SchemaField, error) {
	var schema []ir.SchemaField
	if len(s.Schema) > 0 {
		schema = compiler.CompileSchemaList(s.Schema)
	}
	if s.SchemaFile != "" {
		fromFile, err := compiler.LoadSchemaListFile(s.SchemaFile)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		schema = append(schema, fromFile...)
	}
	return schema, nil
}

func loadScenarioStored(s *Scenario) ([]ir.StoredVar, error) {
	var stored []ir.StoredVar
	if len(s.Stored) > 0 {
		stored = compiler.CompileStored(s.Stored)
	}
	if s.StoredFile != "" {
		fromFile, err := compiler.LoadStoredFile(s.StoredFile)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		stored = append(stored, fromFile...)
	}
	return stored, nil
}
