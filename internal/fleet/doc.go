// Package fleet defines the trainset records the induction engine reads.
//
// Records are plain values. Derived fields (certificate days-left, branding
// SLA status, mileage variance, job-card aggregates) are recomputed by
// Train.Derive whenever a record is loaded, patched, or edited; nothing in
// this package trusts a derived field supplied by a caller.
//
// The fixture format is YAML validated against an embedded CUE schema before
// decoding. Demo returns the built-in six-trainset fixture.
//
// Store is the single authoritative copy of the fleet for long-lived
// callers such as the HTTP API. It hands out deep copies and applies edits
// copy-on-write, so a snapshot given to the engine never changes underneath it.
package fleet
