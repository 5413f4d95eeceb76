package projection

import (
	"github.com/roach88/caasets/internal/queryir"
)

var (
	sequentialHeadColumns = []string{
		"interview_name", "rater_id", "client_id", "session_number",
		"utt_line", "utt_enum", "utt_role",
	}
	sequentialTailColumns = []string{"utt_text", "utt_start_time", "utt_end_time"}
)

// SequentialColumns returns the header of a sequential dataset built with reg.
func SequentialColumns(reg *Registry) []string {
	cols := make([]string, 0, len(sequentialHeadColumns)+reg.Len()+len(sequentialTailColumns))
	cols = append(cols, sequentialHeadColumns...)
	cols = append(cols, reg.Names()...)
	return append(cols, sequentialTailColumns...)
}

// SequentialPlan builds the utterance-level query: one row per utterance of
// the named interviews, with one column per registry entry. An empty
// interviews list yields a plan that returns no rows.
func SequentialPlan(interviews []string, reg *Registry, opts Options) queryir.Select {
	specs := reg.Specs()

	sel := queryir.Select{
		From: queryir.TableRef{Name: "interviews", Alias: "i"},
		Joins: []queryir.Join{
			queryir.InnerJoin(queryir.TableRef{Name: "utterances", Alias: "u"},
				queryir.Equals{Left: queryir.C("u", "interview_id"), Right: queryir.C("i", "interview_id")}),
		},
		Filter: Only(interviews...).predicate(queryir.C("i", "interview_name"), textValue),
	}

	sel.Columns = []queryir.Column{
		queryir.As(queryir.C("i", "interview_name"), "interview_name"),
		queryir.As(queryir.C("i", "rater_id"), "rater_id"),
		opts.clientColumn(),
		queryir.As(queryir.C("i", "session_number"), "session_number"),
		queryir.As(queryir.C("u", "utt_line"), "utt_line"),
		queryir.As(queryir.C("u", "utt_enum"), "utt_enum"),
		queryir.As(queryir.C("u", "utt_role"), "utt_role"),
	}

	for _, spec := range specs {
		sel.With = append(sel.With, sliceCTE(spec))
		sel.Joins = append(sel.Joins, sliceJoin(spec))
		sel.Columns = append(sel.Columns, sliceColumn(spec, opts))
	}

	sel.Columns = append(sel.Columns,
		queryir.As(queryir.C("u", "utt_text"), "utt_text"),
		queryir.As(queryir.C("u", "utt_start_time"), "utt_start_time"),
		queryir.As(queryir.C("u", "utt_end_time"), "utt_end_time"),
	)

	// client_id is the output alias so the integer cast drives ordering.
	sel.OrderBy = []queryir.Order{
		queryir.Asc(queryir.Col{Name: "client_id"}),
		queryir.Asc(queryir.C("i", "session_number")),
		queryir.Asc(queryir.C("u", "utt_enum")),
		queryir.Asc(queryir.C("i", "rater_id")),
		queryir.Asc(queryir.C("i", "interview_name")),
		queryir.Asc(queryir.C("u", "utterance_id")),
	}

	return sel
}
