package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/caasets/internal/model"
	"github.com/roach88/caasets/internal/queryir"
)

// SQLCompiler compiles QueryIR to parameterized SQL for SQLite.
//
// CRITICAL: Every top-level query must carry an ORDER BY; results are never
// left in store order.
// CRITICAL: All values are parameterized (never interpolated). Identifiers
// are always double-quoted, so display names may contain any character.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a QueryIR query to parameterized SQL.
// Returns (sql, params, error) tuple. Params appear in placeholder order.
// Errors wrap queryir.ErrInvalidPlan.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	text, params, err := c.compile(q)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", queryir.ErrInvalidPlan, err)
	}
	return text, params, nil
}

func (c *SQLCompiler) compile(q queryir.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}

	e := &emitter{}
	var err error
	switch query := q.(type) {
	case queryir.Select:
		err = e.topSelect(query)
	case *queryir.Select:
		err = e.topSelect(*query)
	case queryir.UnionAll:
		err = e.union(query)
	case *queryir.UnionAll:
		err = e.union(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
	if err != nil {
		return "", nil, err
	}

	return e.sb.String(), e.params, nil
}

// emitter accumulates SQL text and parameters in placeholder order.
type emitter struct {
	sb     strings.Builder
	params []any
}

func (e *emitter) write(parts ...string) {
	for _, p := range parts {
		e.sb.WriteString(p)
	}
}

// bind writes a placeholder for v and records the parameter.
func (e *emitter) bind(v model.Value) {
	e.sb.WriteString("?")
	e.params = append(e.params, model.Interface(v))
}

// topSelect compiles a statement-level Select.
func (e *emitter) topSelect(sel queryir.Select) error {
	if len(sel.OrderBy) == 0 {
		return fmt.Errorf("query has no ORDER BY: results would be nondeterministic")
	}
	if err := e.with(sel.With); err != nil {
		return err
	}
	if err := e.selectCore(sel); err != nil {
		return err
	}
	return e.orderBy(sel.OrderBy)
}

// union compiles a UnionAll. Member CTEs are hoisted into one WITH clause
// because SQLite only accepts WITH at the head of a compound statement.
func (e *emitter) union(u queryir.UnionAll) error {
	if len(u.Members) == 0 {
		return fmt.Errorf("cannot compile union without members")
	}
	if len(u.OrderBy) == 0 {
		return fmt.Errorf("query has no ORDER BY: results would be nondeterministic")
	}

	var hoisted []queryir.CTE
	for _, m := range u.Members {
		hoisted = append(hoisted, m.With...)
	}
	if err := e.with(hoisted); err != nil {
		return err
	}

	for i, m := range u.Members {
		if i > 0 {
			e.write(" UNION ALL ")
		}
		if len(m.OrderBy) > 0 {
			return fmt.Errorf("union member %d: ORDER BY must be set on the union", i)
		}
		if err := e.selectCore(m); err != nil {
			return fmt.Errorf("union member %d: %w", i, err)
		}
	}

	return e.orderBy(u.OrderBy)
}

// with compiles a WITH clause; nothing is written for no CTEs.
func (e *emitter) with(ctes []queryir.CTE) error {
	if len(ctes) == 0 {
		return nil
	}

	e.write("WITH ")
	for i, cte := range ctes {
		if i > 0 {
			e.write(", ")
		}
		if len(cte.Query.With) > 0 {
			return fmt.Errorf("cte %s: nested WITH is not supported", cte.Name)
		}
		e.write(quoteIdent(cte.Name), " AS (")
		if err := e.selectCore(cte.Query); err != nil {
			return fmt.Errorf("cte %s: %w", cte.Name, err)
		}
		e.write(")")
	}
	e.write(" ")
	return nil
}

// selectCore compiles SELECT ... FROM ... JOIN ... WHERE ... GROUP BY.
func (e *emitter) selectCore(sel queryir.Select) error {
	if len(sel.Columns) == 0 {
		return fmt.Errorf("select has no columns")
	}

	e.write("SELECT ")
	for i, col := range sel.Columns {
		if i > 0 {
			e.write(", ")
		}
		name := col.Name()
		if name == "" {
			return fmt.Errorf("column %d has no name", i)
		}
		if err := e.expr(col.Expr); err != nil {
			return fmt.Errorf("column %s: %w", name, err)
		}
		e.write(" AS ", quoteIdent(name))
	}

	e.write(" FROM ", tableRef(sel.From))

	for _, join := range sel.Joins {
		if join.On == nil {
			return fmt.Errorf("join on %s has no ON condition", join.Table.Ref())
		}
		e.write(" ", join.Kind.String(), " ", tableRef(join.Table), " ON ")
		if err := e.predicate(join.On); err != nil {
			return fmt.Errorf("compile join ON: %w", err)
		}
	}

	if sel.Filter != nil {
		e.write(" WHERE ")
		if err := e.predicate(sel.Filter); err != nil {
			return fmt.Errorf("compile filter: %w", err)
		}
	}

	if len(sel.GroupBy) > 0 {
		e.write(" GROUP BY ")
		for i, g := range sel.GroupBy {
			if i > 0 {
				e.write(", ")
			}
			if err := e.expr(g); err != nil {
				return fmt.Errorf("compile group by: %w", err)
			}
		}
	}

	return nil
}

// orderBy compiles ORDER BY terms.
func (e *emitter) orderBy(terms []queryir.Order) error {
	e.write(" ORDER BY ")
	for i, o := range terms {
		if i > 0 {
			e.write(", ")
		}
		if err := e.expr(o.Expr); err != nil {
			return fmt.Errorf("compile order by: %w", err)
		}
		if o.Desc {
			e.write(" DESC")
		} else {
			e.write(" ASC")
		}
	}
	return nil
}

// predicate compiles a predicate.
// CRITICAL: Values NEVER interpolated - always use ? placeholders.
func (e *emitter) predicate(p queryir.Predicate) error {
	switch pred := p.(type) {
	case nil:
		e.write("1 = 1") // Always true
		return nil
	case queryir.Equals:
		if err := e.expr(pred.Left); err != nil {
			return err
		}
		e.write(" = ")
		return e.expr(pred.Right)
	case queryir.In:
		return e.in(pred)
	case queryir.And:
		if len(pred.Predicates) == 0 {
			e.write("1 = 1") // Vacuous truth
			return nil
		}
		for i, sub := range pred.Predicates {
			if i > 0 {
				e.write(" AND ")
			}
			if err := e.predicate(sub); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// in compiles "expr IN (?, ?, ...)". An empty list matches nothing.
func (e *emitter) in(pred queryir.In) error {
	if len(pred.Values) == 0 {
		e.write("0 = 1")
		return nil
	}
	if err := e.expr(pred.Expr); err != nil {
		return err
	}
	e.write(" IN (")
	for i, v := range pred.Values {
		if i > 0 {
			e.write(", ")
		}
		e.bind(v)
	}
	e.write(")")
	return nil
}

// expr compiles a scalar or aggregate expression.
func (e *emitter) expr(x queryir.Expr) error {
	switch ex := x.(type) {
	case queryir.Col:
		if ex.Table != "" {
			e.write(quoteIdent(ex.Table), ".")
		}
		e.write(quoteIdent(ex.Name))
	case queryir.Lit:
		if ex.Value == nil {
			return fmt.Errorf("literal without value")
		}
		e.bind(ex.Value)
	case queryir.Cast:
		switch ex.To {
		case queryir.TypeInteger, queryir.TypeReal, queryir.TypeText:
		default:
			return fmt.Errorf("unsupported cast target %q", ex.To)
		}
		e.write("CAST(")
		if err := e.expr(ex.Expr); err != nil {
			return err
		}
		e.write(" AS ", string(ex.To), ")")
	case queryir.Coalesce:
		return e.call("COALESCE", ", ", ex.Exprs)
	case queryir.Concat:
		return e.call("", " || ", ex.Exprs)
	case queryir.Agg:
		switch ex.Func {
		case queryir.AggCount, queryir.AggMin:
		default:
			return fmt.Errorf("unsupported aggregate %q", ex.Func)
		}
		if ex.Expr == nil {
			if ex.Func != queryir.AggCount {
				return fmt.Errorf("%s requires an argument", ex.Func)
			}
			e.write("COUNT(*)")
			return nil
		}
		return e.call(string(ex.Func), "", []queryir.Expr{ex.Expr})
	case nil:
		return fmt.Errorf("nil expression")
	default:
		return fmt.Errorf("unsupported expression type: %T", x)
	}
	return nil
}

// call writes fn(arg sep arg ...). An empty fn writes a bare parenthesized
// group.
func (e *emitter) call(fn, sep string, args []queryir.Expr) error {
	if len(args) == 0 {
		return fmt.Errorf("%s without arguments", strings.TrimSpace(fn+sep))
	}
	e.write(fn, "(")
	for i, a := range args {
		if i > 0 {
			e.write(sep)
		}
		if err := e.expr(a); err != nil {
			return err
		}
	}
	e.write(")")
	return nil
}

// tableRef renders a table reference with its alias.
func tableRef(t queryir.TableRef) string {
	if t.Alias == "" || t.Alias == t.Name {
		return quoteIdent(t.Name)
	}
	return quoteIdent(t.Name) + " AS " + quoteIdent(t.Alias)
}

// quoteIdent double-quotes an identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
