package projection

import (
	"fmt"

	"github.com/roach88/caasets/internal/model"
	"github.com/roach88/caasets/internal/queryir"
)

// MissingPolicy selects how absent property values and ratings are
// represented inside the query. Materialized tables always carry model.Null.
type MissingPolicy int

const (
	// MissingNull leaves absent values as SQL NULL.
	MissingNull MissingPolicy = iota

	// MissingSentinel substitutes NumericSentinel or TextSentinel in the
	// query, for consumers reading the SQL output directly.
	MissingSentinel
)

// Sentinels substituted under MissingSentinel.
const (
	NumericSentinel int64  = -999999999999999
	TextSentinel    string = "-999999999999999"
)

func (p MissingPolicy) String() string {
	switch p {
	case MissingNull:
		return "null"
	case MissingSentinel:
		return "sentinel"
	default:
		return "unknown"
	}
}

// ParseMissingPolicy parses "null" or "sentinel".
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch s {
	case "null", "":
		return MissingNull, nil
	case "sentinel":
		return MissingSentinel, nil
	default:
		return MissingNull, fmt.Errorf("unknown missing-value policy %q (want null or sentinel)", s)
	}
}

// Options shapes every plan built by this package.
type Options struct {
	// ClientAsText keeps client_id as stored text. By default client_id is
	// cast to an integer, which also makes ordering numeric.
	ClientAsText bool

	Missing MissingPolicy
}

// clientColumn is the client_id output column of interviews aliased i.
func (o Options) clientColumn() queryir.Column {
	col := queryir.C("i", "client_id")
	if o.ClientAsText {
		return queryir.As(col, "client_id")
	}
	return queryir.As(queryir.Cast{Expr: col, To: queryir.TypeInteger}, "client_id")
}

// orMissing wraps expr so absent values take sentinel under MissingSentinel.
func (o Options) orMissing(expr queryir.Expr, sentinel model.Value) queryir.Expr {
	if o.Missing != MissingSentinel {
		return expr
	}
	return queryir.Coalesce{Exprs: []queryir.Expr{expr, queryir.Lit{Value: sentinel}}}
}

// sentinelFor returns the missing-value marker of a property column.
func sentinelFor(dt model.DataType) model.Value {
	if dt == model.DataTypeText {
		return model.Text(TextSentinel)
	}
	return model.Float(NumericSentinel)
}

// isSentinel reports whether a materialized cell is a missing-value marker.
func isSentinel(v model.Value) bool {
	switch val := v.(type) {
	case model.Int:
		return int64(val) == NumericSentinel
	case model.Float:
		return float64(val) == float64(NumericSentinel)
	case model.Text:
		return string(val) == TextSentinel
	default:
		return false
	}
}
