package dataflow

import (
	"fmt"

	"github.com/flowlens/flowlens/internal/ir"
)

// OrderWarning reports a stored-variable read that happens before any step
// of the same document stores the variable.
type OrderWarning struct {
	Field     string `json:"field"`
	ReadStep  int    `json:"read_step"`
	StoreStep int    `json:"store_step"` // earliest producing step
	Message   string `json:"message"`
}

// CheckOrder finds stored-variable reads that are satisfied only by the
// document's own writes, where every producing step comes after the
// earliest reading step. Classification treats a document's writes as
// order-insensitive (the transition may run more than once); this pass is
// the advisory companion that flags the first run's gap.
//
// Top-level scope only: reads and writes lifted out of actionDetails
// execute under the legacy runner, whose step ordering is not ours to
// reason about.
func CheckOrder(flow *ir.DataFlow) []OrderWarning {
	if flow == nil {
		return nil
	}

	// Earliest top-level producing step per written field.
	earliestStore := make(map[string]int, len(flow.Writes))
	for _, w := range flow.Writes {
		if w.Source.Scope != "" || w.Source.Kind != ir.ProvenanceStep {
			continue
		}
		if at, ok := earliestStore[w.Field]; !ok || w.Source.Index < at {
			earliestStore[w.Field] = w.Source.Index
		}
	}

	var warnings []OrderWarning
	for _, read := range flow.Reads {
		if read.Kind != ir.ReadStoredVar {
			continue
		}
		storeAt, produced := earliestStore[read.Field]
		if !produced {
			continue
		}

		readAt, reads := earliestStepRead(read.Sources)
		if !reads || readAt >= storeAt {
			continue
		}

		warnings = append(warnings, OrderWarning{
			Field:     read.Field,
			ReadStep:  readAt,
			StoreStep: storeAt,
			Message: fmt.Sprintf("%s read at step[%d] before step[%d] stores it",
				read.Field, readAt, storeAt),
		})
	}
	return warnings
}

// earliestStepRead returns the smallest top-level step index among a
// read's sources, and whether any step source exists at all. Condition and
// import sources carry no step position and do not participate.
func earliestStepRead(sources []ir.Provenance) (int, bool) {
	earliest := 0
	found := false
	for _, src := range sources {
		if src.Scope != "" || src.Kind != ir.ProvenanceStep {
			continue
		}
		if !found || src.Index < earliest {
			earliest = src.Index
			found = true
		}
	}
	return earliest, found
}
