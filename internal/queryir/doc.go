// Package queryir provides the typed query intermediate representation (IR)
// used to describe dataset projections.
//
// The projection engine never concatenates SQL strings. It builds plans from
// the node types in this package and hands them to a backend compiler
// (internal/querysql for SQLite):
//
//	[catalog + registry] → [Query IR] → [SQL backend] → [materializer]
//
// SUPPORTED FRAGMENT:
//
//   - Select(with, columns, from, joins, filter, group by, order by)
//   - UnionAll(members, order by) - bag union, no dedup
//   - Joins: INNER and LEFT OUTER
//   - Expressions: Col, Lit, Cast, Coalesce, Concat, Agg (COUNT, MIN)
//   - Predicates: Equals, In, And
//
// Everything else (OR, subqueries in expressions, window functions,
// server-side pivot) is outside the fragment. Pivoting is done in memory by
// internal/table because not every store supports it.
//
// SEALED INTERFACES:
//
// Query, Predicate and Expr are sealed with marker methods. Only types in this
// package implement them, which keeps backend type switches exhaustive:
//
//	switch q := query.(type) {
//	case Select:
//	    // Handle select
//	case UnionAll:
//	    // Handle union
//	}
//
// VALUES:
//
// Literal values are model.Value cells. Backends must bind them as
// parameters; they are never interpolated into generated text.
//
// VALIDATION:
//
// Validate is a pure structural check (aliases, join conditions, union arity,
// CTE names). The dataset layer refuses to compile a plan that fails it.
package queryir
