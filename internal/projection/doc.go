// Package projection builds the query plans behind both datasets.
//
// A sequential plan joins interviews to utterances and LEFT JOINs one slice
// per selected coding property, so every utterance yields exactly one row.
// A session plan unions a code-count stream and a global-rating stream into
// one long result that the caller pivots to one row per interview.
//
// Plans are queryir values; Materializer compiles and runs them against a
// store.Querier and converts the result into a table.Table.
package projection
