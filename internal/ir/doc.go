// Package ir provides the normalized document model and flow-fact types for
// flowlens.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal. This keeps ir
// the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Documents are foreign data: the Value model round-trips every JSON
//     shape, and Number preserves source literals instead of using floats
//   - Extraction never mutates a TransitionDoc
//   - Content-addressed IDs hash canonical JSON only (MarshalCanonical)
//   - All JSON tags use snake_case
package ir
