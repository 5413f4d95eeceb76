// Package dataset assembles analysis-ready tables from a coding store.
//
// Two shapes are produced:
//
//   - Sequential: one row per utterance of the selected interviews, one
//     column per selected coding property.
//   - Session level: one row per interview (client, rater, session), one
//     column per "<property display name>_<value>" code count and one per
//     global rating.
//
// Every operation runs inside a single read snapshot of the store, so the
// catalog lookups and the dataset query observe the same data. A failure
// anywhere aborts the operation; no partial table is ever returned.
package dataset
