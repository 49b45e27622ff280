package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one end-to-end extraction test case.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Document is a path to a JSON/YAML transition document, relative to
	// the scenario file. Exactly one of Document and Inline must be set.
	Document string `yaml:"document,omitempty"`

	// Inline embeds the raw document directly in the scenario.
	Inline map[string]any `yaml:"inline,omitempty"`

	// Schema lists schema fields through the flexible adapter: bare
	// strings or {key|name, type} mappings.
	Schema []any `yaml:"schema,omitempty"`

	// SchemaFile is a path to a JSON/YAML schema list file, relative to
	// the scenario file. Entries merge after Schema.
	SchemaFile string `yaml:"schema_file,omitempty"`

	// Stored lists prior variables: bare strings or {name|field|key}.
	Stored []any `yaml:"stored,omitempty"`

	// StoredFile is a path to a JSON/YAML stored-variable file, relative
	// to the scenario file. Entries merge after Stored.
	StoredFile string `yaml:"stored_file,omitempty"`

	// Assertions validate the extracted flow and its classification.
	Assertions []Assertion `yaml:"assertions"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected (catches typos like "assertion:" for "assertions:"). File
// references inside the scenario resolve relative to the scenario file's
// directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	scenario.Document = resolvePath(base, scenario.Document)
	scenario.SchemaFile = resolvePath(base, scenario.SchemaFile)
	scenario.StoredFile = resolvePath(base, scenario.StoredFile)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func resolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// validateScenario checks that required fields are present and coherent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Document == "" && s.Inline == nil {
		return fmt.Errorf("one of document or inline is required")
	}
	if s.Document != "" && s.Inline != nil {
		return fmt.Errorf("document and inline are mutually exclusive")
	}
	if s.Document != "" {
		if _, err := os.Stat(s.Document); os.IsNotExist(err) {
			return fmt.Errorf("document file not found: %s", s.Document)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertReadCount, AssertWriteCount, AssertConditionCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertReadRequired, AssertReadOptional:
		if a.Field == "" {
			return fmt.Errorf("assertions[%d]: field is required for %s", index, a.Type)
		}
	case AssertClassifiedAs:
		if a.Field == "" {
			return fmt.Errorf("assertions[%d]: field is required for classified_as", index)
		}
		if !validBucket(a.Bucket) {
			return fmt.Errorf("assertions[%d]: bucket must be one of valid, fromStored, warning, missing", index)
		}
	case AssertWritesField:
		if a.Field == "" {
			return fmt.Errorf("assertions[%d]: field is required for writes_field", index)
		}
	case AssertGroupedUnder:
		if a.Root == "" || a.Field == "" {
			return fmt.Errorf("assertions[%d]: root and field are required for grouped_under", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func validBucket(bucket string) bool {
	switch bucket {
	case BucketValid, BucketFromStored, BucketWarning, BucketMissing:
		return true
	}
	return false
}
