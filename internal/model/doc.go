// Package model defines the entities of a behavioral-coding database and the
// cell values produced by dataset projections.
//
// Entities mirror the relational schema owned by internal/store:
//
//	CodingSystem ─┬─ CodingProperty ── PropertyValue ──┐
//	              │                                     UtteranceCode ── Utterance ── Interview
//	              └─ GlobalProperty ── GlobalValue ── GlobalRating ─────────────────── Interview
//
// Entities are read-only inputs to the projection engine. Projections produce
// Value cells, a sealed set of types: Null, Int, Float and Text. Null is the
// universal missing-value marker; internal sentinels never appear as a Value.
package model
