// Package harness runs declarative what-if scenarios against a fleet and
// checks the outcome.
//
// A scenario file names a fleet fixture (the embedded demo fleet when
// omitted), an optional simulation, and a list of assertions:
//
//	name: fc-cancelled-km001
//	description: Losing the rolling stock certificate drops KM-001 out of service
//	simulate:
//	  kind: fc_cancelled
//	  train: KM-001
//	assertions:
//	  - type: rank_order
//	    order: [KM-004, KM-002, KM-006]
//	  - type: impact
//	    impact:
//	      eligible_trains_change: -1
//
// Run evaluates the assertions. Snapshot renders the ranking and impact as
// canonical JSON so runs can be compared against golden files; see
// RunWithGolden.
package harness
