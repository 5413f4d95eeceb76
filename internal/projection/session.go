package projection

import (
	"github.com/roach88/caasets/internal/model"
	"github.com/roach88/caasets/internal/queryir"
	"github.com/roach88/caasets/internal/table"
)

// Variable kinds of the session-level long stream. Counts sort before
// globals in the pivoted table.
const (
	KindCount  int64 = 0
	KindGlobal int64 = 1
)

// SessionKeyColumns identify one session-level row.
var SessionKeyColumns = []string{"interview_name", "client_id", "rater_id", "session_number"}

// SessionPivot reshapes the result of SessionPlan into the wide dataset.
var SessionPivot = table.PivotSpec{
	Keys:  SessionKeyColumns,
	Name:  "var_name",
	Value: "var_value",
	Rank:  "var_kind",
}

// SessionScope restricts the session-level dataset. Unset filters include
// everything; explicit empty filters include nothing.
type SessionScope struct {
	Interviews Filter[string]
	Properties Filter[int64]
	Globals    Filter[int64]
}

// sessionKeys are the leading columns shared by both streams.
func sessionKeys(opts Options) []queryir.Column {
	return []queryir.Column{
		queryir.As(queryir.C("i", "interview_name"), "interview_name"),
		opts.clientColumn(),
		queryir.As(queryir.C("i", "rater_id"), "rater_id"),
		queryir.As(queryir.C("i", "session_number"), "session_number"),
	}
}

// CodeCountStream yields one row per (interview, property value of the
// interview's coding system): the number of utterances of that interview
// coded with the value, zero when none are.
func CodeCountStream(scope SessionScope, opts Options) queryir.Select {
	counts := queryir.CTE{
		Name: "code_counts",
		Query: queryir.Select{
			Columns: []queryir.Column{
				queryir.As(queryir.C("u", "interview_id"), "interview_id"),
				queryir.As(queryir.C("uc", "property_value_id"), "property_value_id"),
				queryir.As(queryir.Agg{Func: queryir.AggCount}, "cnt"),
			},
			From: queryir.TableRef{Name: "utterance_codes", Alias: "uc"},
			Joins: []queryir.Join{
				queryir.InnerJoin(queryir.TableRef{Name: "utterances", Alias: "u"},
					queryir.Equals{Left: queryir.C("u", "utterance_id"), Right: queryir.C("uc", "utterance_id")}),
			},
			GroupBy: []queryir.Expr{queryir.C("u", "interview_id"), queryir.C("uc", "property_value_id")},
		},
	}

	columns := append(sessionKeys(opts),
		queryir.As(queryir.Concat{Exprs: []queryir.Expr{
			queryir.C("cp", "cp_display_name"),
			queryir.Lit{Value: model.Text("_")},
			queryir.C("pv", "pv_value"),
		}}, "var_name"),
		queryir.As(queryir.Coalesce{Exprs: []queryir.Expr{
			queryir.C("code_counts", "cnt"),
			queryir.Lit{Value: model.Int(0)},
		}}, "var_value"),
		queryir.As(queryir.Lit{Value: model.Int(KindCount)}, "var_kind"),
	)

	return queryir.Select{
		With:    []queryir.CTE{counts},
		Columns: columns,
		From:    queryir.TableRef{Name: "interviews", Alias: "i"},
		Joins: []queryir.Join{
			queryir.InnerJoin(queryir.TableRef{Name: "coding_properties", Alias: "cp"},
				queryir.Equals{Left: queryir.C("cp", "coding_system_id"), Right: queryir.C("i", "coding_system_id")}),
			queryir.InnerJoin(queryir.TableRef{Name: "property_values", Alias: "pv"},
				queryir.Equals{Left: queryir.C("pv", "coding_property_id"), Right: queryir.C("cp", "coding_property_id")}),
			queryir.LeftJoin(queryir.TableRef{Name: "code_counts"},
				queryir.AllOf(
					queryir.Equals{Left: queryir.C("code_counts", "interview_id"), Right: queryir.C("i", "interview_id")},
					queryir.Equals{Left: queryir.C("code_counts", "property_value_id"), Right: queryir.C("pv", "property_value_id")},
				)),
		},
		Filter: queryir.AllOf(
			scope.Interviews.predicate(queryir.C("i", "interview_name"), textValue),
			scope.Properties.predicate(queryir.C("cp", "coding_property_id"), intValue),
		),
	}
}

// GlobalRatingStream yields one row per (interview, global property of the
// interview's coding system): the rating cast to an integer, or missing
// when the interview was not rated on that property.
func GlobalRatingStream(scope SessionScope, opts Options) queryir.Select {
	ratings := queryir.CTE{
		Name: "ratings",
		Query: queryir.Select{
			Columns: []queryir.Column{
				queryir.As(queryir.C("gr", "interview_id"), "interview_id"),
				queryir.As(queryir.C("gv", "global_property_id"), "global_property_id"),
				queryir.As(queryir.Cast{Expr: queryir.C("gv", "gv_value"), To: queryir.TypeInteger}, "rating"),
			},
			From: queryir.TableRef{Name: "global_ratings", Alias: "gr"},
			Joins: []queryir.Join{
				queryir.InnerJoin(queryir.TableRef{Name: "global_values", Alias: "gv"},
					queryir.Equals{Left: queryir.C("gv", "global_value_id"), Right: queryir.C("gr", "global_value_id")}),
			},
		},
	}

	columns := append(sessionKeys(opts),
		queryir.As(queryir.C("gp", "gp_name"), "var_name"),
		queryir.As(opts.orMissing(queryir.C("ratings", "rating"), model.Int(NumericSentinel)), "var_value"),
		queryir.As(queryir.Lit{Value: model.Int(KindGlobal)}, "var_kind"),
	)

	return queryir.Select{
		With:    []queryir.CTE{ratings},
		Columns: columns,
		From:    queryir.TableRef{Name: "interviews", Alias: "i"},
		Joins: []queryir.Join{
			queryir.InnerJoin(queryir.TableRef{Name: "global_properties", Alias: "gp"},
				queryir.Equals{Left: queryir.C("gp", "coding_system_id"), Right: queryir.C("i", "coding_system_id")}),
			queryir.LeftJoin(queryir.TableRef{Name: "ratings"},
				queryir.AllOf(
					queryir.Equals{Left: queryir.C("ratings", "interview_id"), Right: queryir.C("i", "interview_id")},
					queryir.Equals{Left: queryir.C("ratings", "global_property_id"), Right: queryir.C("gp", "global_property_id")},
				)),
		},
		Filter: queryir.AllOf(
			scope.Interviews.predicate(queryir.C("i", "interview_name"), textValue),
			scope.Globals.predicate(queryir.C("gp", "global_property_id"), intValue),
		),
	}
}

// SessionPlan unions both streams into the long session-level result.
func SessionPlan(scope SessionScope, opts Options) queryir.UnionAll {
	return queryir.UnionAll{
		Members: []queryir.Select{
			CodeCountStream(scope, opts),
			GlobalRatingStream(scope, opts),
		},
		OrderBy: []queryir.Order{
			queryir.Asc(queryir.Col{Name: "client_id"}),
			queryir.Asc(queryir.Col{Name: "session_number"}),
			queryir.Asc(queryir.Col{Name: "rater_id"}),
			queryir.Asc(queryir.Col{Name: "interview_name"}),
			queryir.Asc(queryir.Col{Name: "var_name"}),
		},
	}
}
