package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/caasets/internal/model"
)

func validSelect() Select {
	return Select{
		Columns: []Column{
			{Expr: C("i", "interview_name")},
			As(Cast{Expr: C("i", "client_id"), To: TypeInteger}, "client_id"),
		},
		From: TableRef{Name: "interviews", Alias: "i"},
		Joins: []Join{
			InnerJoin(TableRef{Name: "utterances", Alias: "u"},
				Equals{Left: C("u", "interview_id"), Right: C("i", "interview_id")}),
		},
		Filter:  In{Expr: C("i", "interview_name"), Values: []model.Value{model.Text("S1")}},
		OrderBy: []Order{Asc(C("", "client_id"))},
	}
}

func TestValidate_ValidSelect(t *testing.T) {
	result := Validate(validSelect())
	assert.True(t, result.Valid, "problems: %v", result.Problems)
	assert.Empty(t, result.Problems)
	assert.NoError(t, result.Err())
}

func TestValidate_NilQuery(t *testing.T) {
	result := Validate(nil)
	assert.False(t, result.Valid)
	assert.ErrorIs(t, result.Err(), ErrInvalidPlan)
}

func TestValidate_SelectProblems(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Select)
		problem string
	}{
		{
			name:    "no columns",
			mutate:  func(s *Select) { s.Columns = nil },
			problem: "no output columns",
		},
		{
			name:    "missing from",
			mutate:  func(s *Select) { s.From = TableRef{} },
			problem: "missing FROM table",
		},
		{
			name: "computed column without alias",
			mutate: func(s *Select) {
				s.Columns = append(s.Columns, Column{Expr: Lit{Value: model.Int(1)}})
			},
			problem: "has no alias",
		},
		{
			name: "duplicate output column",
			mutate: func(s *Select) {
				s.Columns = append(s.Columns, As(C("u", "utt_text"), "client_id"))
			},
			problem: `duplicate output column "client_id"`,
		},
		{
			name: "join without condition",
			mutate: func(s *Select) {
				s.Joins = append(s.Joins, LeftJoin(TableRef{Name: "slice_1"}, nil))
			},
			problem: "has no ON condition",
		},
		{
			name: "table reference used twice",
			mutate: func(s *Select) {
				s.Joins = append(s.Joins, InnerJoin(TableRef{Name: "x", Alias: "u"},
					Equals{Left: C("u", "a"), Right: C("i", "a")}))
			},
			problem: `table reference "u" used twice`,
		},
		{
			name: "bad cast",
			mutate: func(s *Select) {
				s.Columns = append(s.Columns, As(Cast{Expr: C("u", "x"), To: "DATE"}, "d"))
			},
			problem: "unsupported cast target",
		},
		{
			name: "empty coalesce",
			mutate: func(s *Select) {
				s.Columns = append(s.Columns, As(Coalesce{}, "c"))
			},
			problem: "COALESCE without arguments",
		},
		{
			name: "unsupported aggregate",
			mutate: func(s *Select) {
				s.Columns = append(s.Columns, As(Agg{Func: "SUM", Expr: C("u", "x")}, "s"))
			},
			problem: "unsupported aggregate",
		},
		{
			name: "equals with nil operand",
			mutate: func(s *Select) {
				s.Filter = Equals{Left: C("i", "a")}
			},
			problem: "Equals with nil operand",
		},
		{
			name: "nil inside and",
			mutate: func(s *Select) {
				s.Filter = And{Predicates: []Predicate{nil}}
			},
			problem: "nil predicate inside And",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := validSelect()
			tt.mutate(&sel)

			result := Validate(sel)
			require.False(t, result.Valid)
			assert.Contains(t, result.Err().Error(), tt.problem)
		})
	}
}

func TestValidate_CountStarIsValid(t *testing.T) {
	sel := validSelect()
	sel.Columns = append(sel.Columns, As(Agg{Func: AggCount}, "cnt"))
	sel.GroupBy = []Expr{C("i", "interview_name"), C("i", "client_id")}

	result := Validate(sel)
	assert.True(t, result.Valid, "problems: %v", result.Problems)
}

func TestValidate_CTEs(t *testing.T) {
	cte := CTE{Name: "slice_1", Query: Select{
		Columns: []Column{{Expr: C("uc", "utterance_id")}},
		From:    TableRef{Name: "utterance_codes", Alias: "uc"},
	}}

	t.Run("valid", func(t *testing.T) {
		sel := validSelect()
		sel.With = []CTE{cte}
		assert.True(t, Validate(sel).Valid)
	})

	t.Run("duplicate name", func(t *testing.T) {
		sel := validSelect()
		sel.With = []CTE{cte, cte}
		result := Validate(sel)
		require.False(t, result.Valid)
		assert.Contains(t, result.Err().Error(), `duplicate CTE name "slice_1"`)
	})

	t.Run("empty name", func(t *testing.T) {
		sel := validSelect()
		sel.With = []CTE{{Query: cte.Query}}
		assert.False(t, Validate(sel).Valid)
	})

	t.Run("nested with", func(t *testing.T) {
		nested := cte
		nested.Query.With = []CTE{{Name: "inner", Query: cte.Query}}
		sel := validSelect()
		sel.With = []CTE{nested}
		result := Validate(sel)
		require.False(t, result.Valid)
		assert.Contains(t, result.Err().Error(), "nested WITH")
	})
}

func TestValidate_Union(t *testing.T) {
	member := func() Select {
		s := validSelect()
		s.OrderBy = nil
		return s
	}

	t.Run("valid", func(t *testing.T) {
		u := UnionAll{
			Members: []Select{member(), member()},
			OrderBy: []Order{Asc(Col{Name: "client_id"})},
		}
		result := Validate(u)
		assert.True(t, result.Valid, "problems: %v", result.Problems)
		assert.True(t, Validate(&u).Valid)
	})

	t.Run("no members", func(t *testing.T) {
		assert.False(t, Validate(UnionAll{}).Valid)
	})

	t.Run("arity mismatch", func(t *testing.T) {
		short := member()
		short.Columns = short.Columns[:1]
		result := Validate(UnionAll{Members: []Select{member(), short}})
		require.False(t, result.Valid)
		assert.Contains(t, result.Err().Error(), "has 1 columns, first member has 2")
	})

	t.Run("member order by", func(t *testing.T) {
		result := Validate(UnionAll{Members: []Select{validSelect(), member()}})
		require.False(t, result.Valid)
		assert.Contains(t, result.Err().Error(), "ORDER BY must be set on the union")
	})

	t.Run("qualified order by", func(t *testing.T) {
		result := Validate(UnionAll{
			Members: []Select{member(), member()},
			OrderBy: []Order{Asc(C("i", "client_id"))},
		})
		require.False(t, result.Valid)
		assert.Contains(t, result.Err().Error(), "unqualified output columns")
	})

	t.Run("unknown order by column", func(t *testing.T) {
		result := Validate(UnionAll{
			Members: []Select{member(), member()},
			OrderBy: []Order{Asc(Col{Name: "var_name"})},
		})
		require.False(t, result.Valid)
		assert.Contains(t, result.Err().Error(), `unknown column "var_name"`)
	})

	t.Run("cte names unique across members", func(t *testing.T) {
		a, b := member(), member()
		shared := CTE{Name: "counts", Query: Select{
			Columns: []Column{{Expr: C("uc", "utterance_id")}},
			From:    TableRef{Name: "utterance_codes", Alias: "uc"},
		}}
		a.With = []CTE{shared}
		b.With = []CTE{shared}
		result := Validate(UnionAll{Members: []Select{a, b}})
		require.False(t, result.Valid)
		assert.Contains(t, result.Err().Error(), `duplicate CTE name "counts"`)
	})
}
