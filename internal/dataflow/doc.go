// Package dataflow implements the extraction engine and read classifier.
//
// Extract walks a normalized transition document and produces the set of
// data fields the transition reads before it runs and the fields it writes
// via storeAs, each annotated with provenance and required/optional status.
// Classify consumes that flow plus two external knowledge sources, the
// declared test-data schema and the variables produced by prior steps or
// transitions, and buckets every read as valid, fromStored, warning, or
// missing.
//
// # Architecture
//
//	TransitionDoc --Extract--> DataFlow --Classify--> Classification
//	                                   \--CheckOrder--> []OrderWarning
//
// Both operations are pure functions over in-memory data: no I/O, no
// shared state, safe to call repeatedly and concurrently. The extractor is
// invoked live while a user edits a form, so the standing policy is
// robustness over completeness: malformed input degrades to fewer facts,
// it never produces an error.
//
// # Critical patterns
//
// CRITICAL: extraction is read-only over the document and deterministic.
// Facts are emitted in document traversal order (conditions, legacy
// requires, imports, steps, actionDetails), which golden tests rely on.
//
// CRITICAL: a later pass only adds facts. Required status widens and never
// narrows once any reference marks a field required.
//
// Field-reference scanning over free text is a deliberate heuristic. It
// cannot distinguish a reference inside a string literal from live code,
// and it is not a parser. See Scan for the recognized pattern families.
package dataflow
