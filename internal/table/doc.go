// Package table holds materialized dataset results.
//
// A Table is an ordered list of column names and rows of model.Value cells.
// Pivot turns the long session-level stream into one wide row per group;
// the writers render tables as CSV, JSON or aligned text.
package table
