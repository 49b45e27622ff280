package store

import "github.com/google/uuid"

// RunIDSource generates run IDs for saved baselines.
// Implemented by UUIDRunIDs (production) and testutil.FixedRunIDs (tests).
type RunIDSource interface {
	New() string
}

// UUIDRunIDs generates time-sortable UUIDv7 run IDs.
//
// UUIDv7 embeds a timestamp in the most significant bits, so run IDs sort
// by creation time, which keeps baseline listings readable.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDRunIDs struct{}

// New creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDRunIDs) New() string {
	return uuid.Must(uuid.NewV7()).String()
}
