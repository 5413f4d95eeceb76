package queryir

import "github.com/roach88/caasets/internal/model"

// Query is a sealed interface for a complete, executable query.
//
// Query types:
//   - Select: one SELECT statement, optionally with CTEs
//   - UnionAll: bag union of Selects with a shared ORDER BY
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Predicate is a sealed interface for filter and join conditions.
//
// Predicate types:
//   - Equals: left = right
//   - In: expr IN (values...)
//   - And: all predicates must be true
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Expr is a sealed interface for scalar and aggregate expressions.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// Select represents one SELECT statement.
//
// Semantics:
//
//	WITH <with>
//	SELECT <columns> FROM <from> <joins>
//	WHERE <filter> GROUP BY <group by> ORDER BY <order by>
//
// Example (one property slice):
//
//	Select{
//	  Columns: []Column{
//	    As(C("uc", "utterance_id"), "utterance_id"),
//	    As(Agg{Func: AggMin, Expr: C("pv", "pv_value")}, "value"),
//	  },
//	  From:    TableRef{Name: "utterance_codes", Alias: "uc"},
//	  Joins:   []Join{InnerJoin(TableRef{Name: "property_values", Alias: "pv"},
//	    Equals{Left: C("uc", "property_value_id"), Right: C("pv", "property_value_id")})},
//	  Filter:  Equals{Left: C("pv", "coding_property_id"), Right: Lit{Value: model.Int(7)}},
//	  GroupBy: []Expr{C("uc", "utterance_id")},
//	}
type Select struct {
	With    []CTE     // Common table expressions (nil = none)
	Columns []Column  // Output columns, in order (required)
	From    TableRef  // Base table
	Joins   []Join    // Joined tables, in order
	Filter  Predicate // WHERE conditions (nil = no filter)
	GroupBy []Expr    // GROUP BY terms (nil = no grouping)
	OrderBy []Order   // ORDER BY terms (nil = backend default)
}

func (Select) queryNode() {}

// UnionAll concatenates the rows of every member.
//
// Semantics:
//
//	<member1> UNION ALL <member2> ... ORDER BY <order by>
//
// Members must produce the same number of columns. Output column names are
// taken from the first member, and OrderBy may only reference those names
// (unqualified Col terms). Member CTEs are hoisted by the backend into a
// single WITH clause, so CTE names must be unique across members.
type UnionAll struct {
	Members []Select
	OrderBy []Order
}

func (UnionAll) queryNode() {}

// CTE is a named common table expression. Its column names are the output
// names of Query.
type CTE struct {
	Name  string
	Query Select
}

// TableRef names a table or CTE, optionally aliased.
type TableRef struct {
	Name  string
	Alias string // "" = refer to the table by Name
}

// Ref returns the name used to qualify columns of this table.
func (t TableRef) Ref() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// JoinKind selects join semantics.
type JoinKind int

const (
	// JoinInner keeps rows with a match on both sides.
	JoinInner JoinKind = iota

	// JoinLeftOuter keeps every left row; unmatched right columns are NULL.
	JoinLeftOuter
)

// String returns the SQL keyword for the join kind.
func (k JoinKind) String() string {
	switch k {
	case JoinInner:
		return "INNER JOIN"
	case JoinLeftOuter:
		return "LEFT OUTER JOIN"
	default:
		return "UNKNOWN JOIN"
	}
}

// Join attaches Table to the query with condition On (required).
type Join struct {
	Kind  JoinKind
	Table TableRef
	On    Predicate
}

// InnerJoin is shorthand for an inner Join.
func InnerJoin(table TableRef, on Predicate) Join {
	return Join{Kind: JoinInner, Table: table, On: on}
}

// LeftJoin is shorthand for a left outer Join.
func LeftJoin(table TableRef, on Predicate) Join {
	return Join{Kind: JoinLeftOuter, Table: table, On: on}
}

// Column is one output column. Alias is required for every expression
// other than a bare Col.
type Column struct {
	Expr  Expr
	Alias string
}

// Name returns the output name of the column.
func (c Column) Name() string {
	if c.Alias != "" {
		return c.Alias
	}
	if col, ok := c.Expr.(Col); ok {
		return col.Name
	}
	return ""
}

// As builds an aliased Column.
func As(e Expr, alias string) Column {
	return Column{Expr: e, Alias: alias}
}

// Order is one ORDER BY term.
type Order struct {
	Expr Expr
	Desc bool
}

// Asc builds an ascending Order term.
func Asc(e Expr) Order {
	return Order{Expr: e}
}

// Col references a column, qualified by a table reference when Table is set.
type Col struct {
	Table string
	Name  string
}

func (Col) exprNode() {}

// C is shorthand for a qualified Col.
func C(table, name string) Col {
	return Col{Table: table, Name: name}
}

// Lit is a literal value, always bound as a parameter.
type Lit struct {
	Value model.Value
}

func (Lit) exprNode() {}

// SQLType is a cast target.
type SQLType string

const (
	TypeInteger SQLType = "INTEGER"
	TypeReal    SQLType = "REAL"
	TypeText    SQLType = "TEXT"
)

// Cast converts Expr to type To.
type Cast struct {
	Expr Expr
	To   SQLType
}

func (Cast) exprNode() {}

// Coalesce returns the first non-NULL expression.
type Coalesce struct {
	Exprs []Expr
}

func (Coalesce) exprNode() {}

// Concat joins the text of every expression.
type Concat struct {
	Exprs []Expr
}

func (Concat) exprNode() {}

// AggFunc is an aggregate function.
type AggFunc string

const (
	AggCount AggFunc = "COUNT"
	AggMin   AggFunc = "MIN"
)

// Agg applies an aggregate function. A nil Expr with AggCount means COUNT(*).
type Agg struct {
	Func AggFunc
	Expr Expr
}

func (Agg) exprNode() {}

// Equals is Left = Right.
type Equals struct {
	Left  Expr
	Right Expr
}

func (Equals) predicateNode() {}

// In is Expr IN (Values...). An empty Values list matches nothing.
type In struct {
	Expr   Expr
	Values []model.Value
}

func (In) predicateNode() {}

// And is a conjunction. Empty Predicates means "always true".
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// AllOf combines predicates with And, dropping nils. It returns nil when no
// predicate remains and the single predicate when only one does.
func AllOf(preds ...Predicate) Predicate {
	var kept []Predicate
	for _, p := range preds {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return And{Predicates: kept}
	}
}

// OutputColumns returns the output column names of q.
func OutputColumns(q Query) []string {
	var cols []Column
	switch query := q.(type) {
	case Select:
		cols = query.Columns
	case *Select:
		cols = query.Columns
	case UnionAll:
		if len(query.Members) > 0 {
			cols = query.Members[0].Columns
		}
	case *UnionAll:
		if len(query.Members) > 0 {
			cols = query.Members[0].Columns
		}
	}

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
	}
	return names
}
