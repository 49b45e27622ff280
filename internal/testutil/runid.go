package testutil

import "sync"

// FixedRunIDs returns predetermined run IDs in order.
//
// This enables deterministic baseline records and exact assertions on
// stored rows. Tests provide a known sequence and the store consumes it.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedRunIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedRunIDs creates a source that returns ids in order.
//
// Example:
//
//	src := testutil.NewFixedRunIDs("run-1", "run-2")
//	src.New() // "run-1"
//	src.New() // "run-2"
//	src.New() // panic: all run IDs exhausted
func NewFixedRunIDs(ids ...string) *FixedRunIDs {
	return &FixedRunIDs{ids: ids}
}

// New returns the next predetermined run ID.
//
// Panics when the sequence is exhausted. Fail-fast catches test
// misconfiguration (more saves than the test expected).
func (f *FixedRunIDs) New() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.idx >= len(f.ids) {
		panic("FixedRunIDs: all run IDs exhausted")
	}
	id := f.ids[f.idx]
	f.idx++
	return id
}
