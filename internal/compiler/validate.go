package compiler

import (
	"fmt"
	"strings"

	"github.com/flowlens/flowlens/internal/ir"
)

// Validation error codes (E001-E099)
const (
	ErrUnknownBlockType  = "E001" // condition block has an unknown type
	ErrBlockNoChecks     = "E002" // condition-check block has no checks
	ErrCheckNoField      = "E003" // condition check is missing its field
	ErrBlockNoCode       = "E004" // custom-code block has no code text
	ErrImportUnresolved  = "E005" // import declares neither constructor nor path
	ErrStoreNoKey        = "E006" // storeAs is missing its key
	ErrInertStep         = "E007" // step carries nothing to scan, store, or gate
	ErrLegacyRequires    = "E008" // legacy requires used alongside condition blocks
	ErrNestedActionDepth = "E009" // actionDetails nesting deeper than documents ever ship
)

// maxLintDepth bounds actionDetails recursion during lint. Real documents
// nest once; anything deeper is reported and not descended into.
const maxLintDepth = 8

// ValidationError represents a structural document problem.
// These are lint findings: the extractor still runs on a document that
// carries them, producing fewer facts.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate lints a normalized document.
// Returns all problems found (does not fail-fast), in document order.
func Validate(doc *ir.TransitionDoc) []ValidationError {
	return validateDoc(doc, "", 0)
}

func validateDoc(doc *ir.TransitionDoc, prefix string, depth int) []ValidationError {
	var errs []ValidationError
	if doc == nil {
		return errs
	}

	errs = append(errs, validateBlocks(doc.Conditions, prefix+"conditions")...)

	// E008: both condition systems present at once
	if len(doc.Requires) > 0 && len(doc.Conditions) > 0 {
		errs = append(errs, ValidationError{
			Field:   prefix + "requires",
			Message: "legacy requires map used alongside condition blocks, migrate the entries into condition checks",
			Code:    ErrLegacyRequires,
		})
	}

	for i, imp := range doc.Imports {
		// E005: nothing to resolve the import by
		if strings.TrimSpace(imp.Constructor) == "" && strings.TrimSpace(imp.Path) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%simports[%d]", prefix, i),
				Message: "import declares neither constructor nor path",
				Code:    ErrImportUnresolved,
			})
		}
	}

	for i, step := range doc.Steps {
		stepField := fmt.Sprintf("%ssteps[%d]", prefix, i)

		// E006: storeAs declared but keyless
		if step.Store != nil && strings.TrimSpace(step.Store.Key) == "" {
			errs = append(errs, ValidationError{
				Field:   stepField + ".storeAs",
				Message: "storeAs is missing its key",
				Code:    ErrStoreNoKey,
			})
		}

		// E007: step contributes nothing at all
		if len(step.Texts) == 0 && step.Store == nil && len(step.Conditions) == 0 && step.Method == "" {
			errs = append(errs, ValidationError{
				Field:   stepField,
				Message: "step carries nothing to scan, store, or gate",
				Code:    ErrInertStep,
			})
		}

		errs = append(errs, validateBlocks(step.Conditions, stepField+".conditions")...)
	}

	if doc.Action != nil {
		if depth+1 >= maxLintDepth {
			errs = append(errs, ValidationError{
				Field:   prefix + "actionDetails",
				Message: fmt.Sprintf("actionDetails nested more than %d levels deep", maxLintDepth),
				Code:    ErrNestedActionDepth,
			})
		} else {
			errs = append(errs, validateDoc(doc.Action, prefix+"actionDetails.", depth+1)...)
		}
	}

	return errs
}

func validateBlocks(blocks []ir.ConditionBlock, fieldBase string) []ValidationError {
	var errs []ValidationError

	for i, block := range blocks {
		blockField := fmt.Sprintf("%s[%d]", fieldBase, i)

		switch block.Kind {
		case ir.BlockConditionCheck:
			// E002: check block with nothing to check
			if len(block.Checks) == 0 {
				errs = append(errs, ValidationError{
					Field:   blockField,
					Message: "condition-check block has no checks",
					Code:    ErrBlockNoChecks,
				})
			}
			for j, check := range block.Checks {
				// E003: check without a field never gates anything
				if strings.TrimSpace(check.Field) == "" {
					errs = append(errs, ValidationError{
						Field:   fmt.Sprintf("%s.checks[%d].field", blockField, j),
						Message: "condition check is missing its field",
						Code:    ErrCheckNoField,
					})
				}
			}
		case ir.BlockCustomCode:
			// E004: code block with no code
			if strings.TrimSpace(block.Code) == "" {
				errs = append(errs, ValidationError{
					Field:   blockField,
					Message: "custom-code block has no code text",
					Code:    ErrBlockNoCode,
				})
			}
		default:
			// E001: extraction will skip this block entirely
			errs = append(errs, ValidationError{
				Field:   blockField + ".type",
				Message: fmt.Sprintf("unknown condition block type %q", string(block.Kind)),
				Code:    ErrUnknownBlockType,
			})
		}
	}

	return errs
}
