package queryir

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPlan is wrapped by every validation and compilation failure, so
// callers can tell a malformed plan from a failed query.
var ErrInvalidPlan = errors.New("invalid query plan")

// ValidationResult contains the structural problems found in a query.
type ValidationResult struct {
	// Valid is true when Problems is empty.
	Valid bool

	// Problems lists every structural defect, in traversal order.
	Problems []string
}

// Err returns nil for a valid result, otherwise one error listing every
// problem.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidPlan, strings.Join(r.Problems, "; "))
}

// Validate checks that a query is well formed:
//  1. Every Select has at least one column and a From table
//  2. Computed columns carry an alias; output names are unique
//  3. Every join has a table and an On predicate
//  4. CTE names are non-empty and unique (across union members too)
//  5. UnionAll members agree on column count and carry no ORDER BY
//  6. UnionAll ORDER BY references output names of the first member
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{
		problems: []string{},
		ctes:     map[string]bool{},
	}
	v.validateQuery(query)

	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
	ctes     map[string]bool
}

// addProblem appends a problem message.
func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

// validateQuery dispatches on the query node type.
func (v *validator) validateQuery(q Query) {
	if q == nil {
		v.addProblem("nil query")
		return
	}

	switch query := q.(type) {
	case Select:
		v.validateSelect(query, "select")
	case *Select:
		v.validateSelect(*query, "select")
	case UnionAll:
		v.validateUnion(query)
	case *UnionAll:
		v.validateUnion(*query)
	default:
		v.addProblem("unknown query type: %T", q)
	}
}

// validateSelect validates one Select; where names it in problem messages.
func (v *validator) validateSelect(sel Select, where string) {
	for _, cte := range sel.With {
		v.validateCTE(cte, where)
	}

	if len(sel.Columns) == 0 {
		v.addProblem("%s: no output columns", where)
	}
	if sel.From.Name == "" {
		v.addProblem("%s: missing FROM table", where)
	}

	seen := map[string]bool{}
	for i, col := range sel.Columns {
		if col.Expr == nil {
			v.addProblem("%s: column %d has nil expression", where, i)
			continue
		}
		v.validateExpr(col.Expr, where)

		name := col.Name()
		if name == "" {
			v.addProblem("%s: computed column %d has no alias", where, i)
			continue
		}
		if seen[name] {
			v.addProblem("%s: duplicate output column %q", where, name)
		}
		seen[name] = true
	}

	refs := map[string]bool{}
	if sel.From.Name != "" {
		refs[sel.From.Ref()] = true
	}
	for i, join := range sel.Joins {
		if join.Table.Name == "" {
			v.addProblem("%s: join %d has no table", where, i)
			continue
		}
		if refs[join.Table.Ref()] {
			v.addProblem("%s: table reference %q used twice", where, join.Table.Ref())
		}
		refs[join.Table.Ref()] = true

		if join.Kind != JoinInner && join.Kind != JoinLeftOuter {
			v.addProblem("%s: join %d has unknown kind %d", where, i, join.Kind)
		}
		if join.On == nil {
			v.addProblem("%s: join on %q has no ON condition", where, join.Table.Ref())
			continue
		}
		v.validatePredicate(join.On, where)
	}

	if sel.Filter != nil {
		v.validatePredicate(sel.Filter, where)
	}
	for _, g := range sel.GroupBy {
		v.validateExpr(g, where)
	}
	for _, o := range sel.OrderBy {
		v.validateExpr(o.Expr, where)
	}
}

// validateCTE validates a CTE definition and registers its name.
func (v *validator) validateCTE(cte CTE, where string) {
	if cte.Name == "" {
		v.addProblem("%s: CTE with empty name", where)
		return
	}
	if v.ctes[cte.Name] {
		v.addProblem("%s: duplicate CTE name %q", where, cte.Name)
	}
	v.ctes[cte.Name] = true

	if len(cte.Query.With) > 0 {
		v.addProblem("cte %s: nested WITH is not supported", cte.Name)
	}
	if len(cte.Query.OrderBy) > 0 {
		v.addProblem("cte %s: ORDER BY inside a CTE has no effect", cte.Name)
	}
	v.validateSelect(cte.Query, "cte "+cte.Name)
}

// validateUnion validates a UnionAll and its members.
func (v *validator) validateUnion(u UnionAll) {
	if len(u.Members) == 0 {
		v.addProblem("union: no members")
		return
	}

	width := len(u.Members[0].Columns)
	for i, m := range u.Members {
		where := fmt.Sprintf("union member %d", i)
		if len(m.Columns) != width {
			v.addProblem("%s: has %d columns, first member has %d", where, len(m.Columns), width)
		}
		if len(m.OrderBy) > 0 {
			v.addProblem("%s: ORDER BY must be set on the union, not a member", where)
		}
		v.validateSelect(m, where)
	}

	names := map[string]bool{}
	for _, name := range OutputColumns(u) {
		names[name] = true
	}
	for _, o := range u.OrderBy {
		col, ok := o.Expr.(Col)
		if !ok || col.Table != "" {
			v.addProblem("union: ORDER BY terms must be unqualified output columns")
			continue
		}
		if !names[col.Name] {
			v.addProblem("union: ORDER BY references unknown column %q", col.Name)
		}
	}
}

// validatePredicate recursively validates a predicate node.
func (v *validator) validatePredicate(p Predicate, where string) {
	switch pred := p.(type) {
	case nil:
		return
	case Equals:
		if pred.Left == nil || pred.Right == nil {
			v.addProblem("%s: Equals with nil operand", where)
			return
		}
		v.validateExpr(pred.Left, where)
		v.validateExpr(pred.Right, where)
	case In:
		if pred.Expr == nil {
			v.addProblem("%s: In with nil expression", where)
			return
		}
		v.validateExpr(pred.Expr, where)
	case And:
		for _, sub := range pred.Predicates {
			if sub == nil {
				v.addProblem("%s: nil predicate inside And", where)
				continue
			}
			v.validatePredicate(sub, where)
		}
	default:
		v.addProblem("%s: unknown predicate type: %T", where, p)
	}
}

// validateExpr recursively validates an expression node.
func (v *validator) validateExpr(e Expr, where string) {
	switch expr := e.(type) {
	case nil:
		v.addProblem("%s: nil expression", where)
	case Col:
		if expr.Name == "" {
			v.addProblem("%s: column reference without name", where)
		}
	case Lit:
		if expr.Value == nil {
			v.addProblem("%s: literal without value", where)
		}
	case Cast:
		switch expr.To {
		case TypeInteger, TypeReal, TypeText:
		default:
			v.addProblem("%s: unsupported cast target %q", where, expr.To)
		}
		v.validateExpr(expr.Expr, where)
	case Coalesce:
		if len(expr.Exprs) == 0 {
			v.addProblem("%s: COALESCE without arguments", where)
		}
		for _, sub := range expr.Exprs {
			v.validateExpr(sub, where)
		}
	case Concat:
		if len(expr.Exprs) == 0 {
			v.addProblem("%s: concatenation without arguments", where)
		}
		for _, sub := range expr.Exprs {
			v.validateExpr(sub, where)
		}
	case Agg:
		switch expr.Func {
		case AggCount:
			if expr.Expr != nil {
				v.validateExpr(expr.Expr, where)
			}
		case AggMin:
			v.validateExpr(expr.Expr, where)
		default:
			v.addProblem("%s: unsupported aggregate %q", where, expr.Func)
		}
	default:
		v.addProblem("%s: unknown expression type: %T", where, e)
	}
}
