// Package catalog resolves coding-schema metadata for the projection engine.
//
// The catalog answers two kinds of questions, always inside the caller's
// snapshot transaction:
//   - Which of the requested property / global property ids exist, and what
//     are their display names and declared data types? Unknown ids are
//     dropped with a WARN log line, never an error.
//   - What variable labels describe the columns of a sequential or
//     session-level dataset for a coding system?
//
// Catalog queries are built as queryir plans and compiled by querysql, the
// same path the dataset projections take.
package catalog
