// Package harness provides fixture loading and golden-table assertions.
//
// Fixtures are YAML files describing one import batch:
//
//	name: standard
//	description: Three interviews of one coding system
//	data:
//	  coding_systems:
//	    - {id: 1, name: MITI}
//	  interviews:
//	    - {id: 1, name: S1, client_id: "101", rater_id: R1, session_number: 1, coding_system_id: 1}
//	  ...
//
// Unknown fields are rejected, and every reference inside the batch is
// checked before anything touches a store. The same format is accepted by
// "caasets import".
//
// Golden tables are stored as CSV under testdata/golden and compared with
// goldie. To regenerate them, run:
//
//	go test ./... -update
package harness
