package projection

import (
	"github.com/roach88/caasets/internal/model"
	"github.com/roach88/caasets/internal/queryir"
)

// sliceCTE builds the slice of one coding property: at most one row per
// utterance, holding the utterance's value for that property. Numeric values
// are cast to REAL. Should an utterance carry several values of the same
// property, the smallest wins so the sequential join never fans out.
func sliceCTE(spec ColumnSpec) queryir.CTE {
	var value queryir.Expr = queryir.C("pv", "pv_value")
	if spec.DataType == model.DataTypeNumeric {
		value = queryir.Cast{Expr: value, To: queryir.TypeReal}
	}

	return queryir.CTE{
		Name: spec.Slice,
		Query: queryir.Select{
			Columns: []queryir.Column{
				queryir.As(queryir.C("uc", "utterance_id"), "utterance_id"),
				queryir.As(queryir.Agg{Func: queryir.AggMin, Expr: value}, "value"),
			},
			From: queryir.TableRef{Name: "utterance_codes", Alias: "uc"},
			Joins: []queryir.Join{
				queryir.InnerJoin(queryir.TableRef{Name: "property_values", Alias: "pv"},
					queryir.Equals{Left: queryir.C("pv", "property_value_id"), Right: queryir.C("uc", "property_value_id")}),
			},
			Filter:  queryir.Equals{Left: queryir.C("pv", "coding_property_id"), Right: queryir.Lit{Value: model.Int(spec.PropertyID)}},
			GroupBy: []queryir.Expr{queryir.C("uc", "utterance_id")},
		},
	}
}

// sliceJoin LEFT JOINs a slice to utterances aliased u.
func sliceJoin(spec ColumnSpec) queryir.Join {
	return queryir.LeftJoin(queryir.TableRef{Name: spec.Slice},
		queryir.Equals{Left: queryir.C(spec.Slice, "utterance_id"), Right: queryir.C("u", "utterance_id")})
}

// sliceColumn is the output column carrying a slice's value.
func sliceColumn(spec ColumnSpec, opts Options) queryir.Column {
	return queryir.As(opts.orMissing(queryir.C(spec.Slice, "value"), sentinelFor(spec.DataType)), spec.Name)
}
