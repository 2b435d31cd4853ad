// Package harness runs YAML conformance scenarios for filter clauses.
//
// A scenario names one clause and the outcomes it must produce:
//
//	name: in_list
//	description: IN matches any listed value
//	clause: "A IN (1, 2, 3)"
//	fields: [A]
//	rows:
//	  - values: {A: 2}
//	    match: true
//	  - values: {A: x}
//	    error: type_mismatch
//
// or a compile failure:
//
//	name: unclosed_paren
//	description: a missing ")" is reported at end of input
//	clause: "(A = 1"
//	expect_error: {kind: syntax, pos: 6}
//
// Rows are evaluated with the map adapter. Rows that hold only JSON scalars
// are also evaluated through the protobuf and JSON adapters, and any
// disagreement fails the scenario.
//
// Snapshot renders what a run observed as canonical JSON for golden file
// comparison.
package harness
