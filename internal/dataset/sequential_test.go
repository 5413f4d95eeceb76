package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/caasets/internal/harness"
	"github.com/roach88/caasets/internal/model"
	"github.com/roach88/caasets/internal/projection"
	"github.com/roach88/caasets/internal/table"
	"github.com/roach88/caasets/internal/testutil"
)

var allInterviews = []string{"S1", "S2", "S3"}

func newTestBuilder(t *testing.T, opts ...Option) *Builder {
	t.Helper()
	return New(testutil.SeededStore(t), opts...)
}

func mustColumn(t *testing.T, tbl *table.Table, name string) []model.Value {
	t.Helper()
	col, ok := tbl.Column(name)
	require.True(t, ok, "column %q missing from %v", name, tbl.Columns)
	return col
}

func TestSequential_Golden(t *testing.T) {
	b := newTestBuilder(t)

	got, err := b.Sequential(context.Background(), SequentialRequest{
		InterviewNames: allInterviews,
		PropertyIDs:    []int64{testutil.PropStrength, testutil.PropBehavior, testutil.PropCode},
	})
	require.NoError(t, err)

	harness.AssertTableGolden(t, "sequential_all", got)
}

func TestSequential_ExampleScenario(t *testing.T) {
	b := newTestBuilder(t)

	got, err := b.Sequential(context.Background(), SequentialRequest{
		InterviewNames: []string{"S1"},
		PropertyIDs:    []int64{testutil.PropStrength, testutil.PropBehavior},
	})
	require.NoError(t, err)
	require.Equal(t, 3, got.NumRows())

	text, _ := got.Value(1, "utt_text")
	strength, _ := got.Value(1, "Strength")
	behavior, _ := got.Value(1, "Behavior")
	assert.Equal(t, model.Text("Fine."), text)
	assert.Equal(t, "3.0", strength.String())
	assert.True(t, model.IsNull(behavior))
}

func TestSequential_RowCountIndependentOfProperties(t *testing.T) {
	b := newTestBuilder(t)
	ctx := context.Background()

	for _, ids := range [][]int64{nil, {testutil.PropCode}, {1, 2, 3, 4}} {
		got, err := b.Sequential(ctx, SequentialRequest{InterviewNames: []string{"S1", "S3"}, PropertyIDs: ids})
		require.NoError(t, err)
		assert.Equal(t, 4, got.NumRows(), "properties %v", ids)
	}
}

func TestSequential_ColumnIndependence(t *testing.T) {
	b := newTestBuilder(t)
	ctx := context.Background()

	both, err := b.Sequential(ctx, SequentialRequest{
		InterviewNames: allInterviews,
		PropertyIDs:    []int64{testutil.PropStrength, testutil.PropCode},
	})
	require.NoError(t, err)

	single, err := b.Sequential(ctx, SequentialRequest{
		InterviewNames: allInterviews,
		PropertyIDs:    []int64{testutil.PropStrength},
	})
	require.NoError(t, err)

	assert.Equal(t, mustColumn(t, single, "Strength"), mustColumn(t, both, "Strength"))
}

func TestSequential_DeterministicOrder(t *testing.T) {
	b := newTestBuilder(t)
	ctx := context.Background()
	req := SequentialRequest{InterviewNames: allInterviews, PropertyIDs: []int64{1, 2}}

	first, err := b.Sequential(ctx, req)
	require.NoError(t, err)
	for range 3 {
		again, err := b.Sequential(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	clients := mustColumn(t, first, "client_id")
	sessions := mustColumn(t, first, "session_number")
	enums := mustColumn(t, first, "utt_enum")
	for i := 1; i < first.NumRows(); i++ {
		prev := []int64{int64(clients[i-1].(model.Int)), int64(sessions[i-1].(model.Int)), int64(enums[i-1].(model.Int))}
		cur := []int64{int64(clients[i].(model.Int)), int64(sessions[i].(model.Int)), int64(enums[i].(model.Int))}
		assert.LessOrEqual(t, compareKeys(prev, cur), 0, "row %d out of order", i)
	}
}

func compareKeys(a, b []int64) int {
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

func TestSequential_UnknownPropertyTolerated(t *testing.T) {
	b := newTestBuilder(t)

	got, err := b.Sequential(context.Background(), SequentialRequest{
		InterviewNames: allInterviews,
		PropertyIDs:    []int64{testutil.PropStrength, testutil.UnknownProperty, testutil.PropCode},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"interview_name", "rater_id", "client_id", "session_number", "utt_line", "utt_enum", "utt_role",
		"Strength", "Code",
		"utt_text", "utt_start_time", "utt_end_time",
	}, got.Columns)
}

func TestSequential_DuplicateIDsCollapse(t *testing.T) {
	b := newTestBuilder(t)

	got, err := b.Sequential(context.Background(), SequentialRequest{
		InterviewNames: []string{"S1", "S1"},
		PropertyIDs:    []int64{testutil.PropCode, testutil.PropCode},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, got.NumRows())
	assert.Equal(t, 1, countColumn(got.Columns, "Code"))
}

func countColumn(cols []string, name string) int {
	n := 0
	for _, c := range cols {
		if c == name {
			n++
		}
	}
	return n
}

func TestSequential_EmptyInterviewsHeadersOnly(t *testing.T) {
	b := newTestBuilder(t)

	got, err := b.Sequential(context.Background(), SequentialRequest{
		PropertyIDs: []int64{testutil.PropStrength},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, got.NumRows())
	assert.Contains(t, got.Columns, "Strength")
}

func TestSequential_ClientAsText(t *testing.T) {
	b := newTestBuilder(t)

	got, err := b.Sequential(context.Background(), SequentialRequest{
		InterviewNames: allInterviews,
		ClientAsText:   true,
	})
	require.NoError(t, err)

	clients := mustColumn(t, got, "client_id")
	assert.Equal(t, model.Text("101"), clients[0])
	assert.Equal(t, model.Text("9"), clients[len(clients)-1])
}

func TestSequential_SentinelPolicy(t *testing.T) {
	st := testutil.SeededStore(t)
	req := SequentialRequest{InterviewNames: allInterviews, PropertyIDs: []int64{1, 2, 3}}

	plain, err := New(st).Sequential(context.Background(), req)
	require.NoError(t, err)
	sentinel, err := New(st, WithMissingPolicy(projection.MissingSentinel)).Sequential(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, plain, sentinel)
}

func TestSequential_SeveralValuesOfOnePropertyKeepOneRow(t *testing.T) {
	st := testutil.SeededStore(t)
	testutil.Seed(t, st, model.Batch{
		UtteranceCodes: []model.UtteranceCode{
			{UtteranceID: 1, PropertyValueID: 22}, // u1 is now Question and Reflection
			{UtteranceID: 2, PropertyValueID: 11}, // u2 is now Strength 3 and 1
		},
	})

	got, err := New(st).Sequential(context.Background(), SequentialRequest{
		InterviewNames: []string{"S1"},
		PropertyIDs:    []int64{testutil.PropStrength, testutil.PropBehavior},
	})
	require.NoError(t, err)
	require.Equal(t, 3, got.NumRows())

	assert.Equal(t, []model.Value{model.Int(1), model.Int(2), model.Int(3)}, mustColumn(t, got, "utt_enum"))

	behavior, _ := got.Value(0, "Behavior")
	assert.Equal(t, model.Text("Question"), behavior)
	strength, _ := got.Value(1, "Strength")
	assert.Equal(t, model.Float(1), strength)
}

func TestSequential_SentinelLookalikeTextKeptUnderNullPolicy(t *testing.T) {
	st := testutil.SeededStore(t)
	testutil.Seed(t, st, model.Batch{
		Utterances: []model.Utterance{
			{ID: 7, InterviewID: 3, Enum: 2, Line: 2, Role: "T", Text: projection.TextSentinel},
		},
	})

	got, err := New(st).Sequential(context.Background(), SequentialRequest{
		InterviewNames: []string{"S3"},
		PropertyIDs:    []int64{testutil.PropCode},
	})
	require.NoError(t, err)
	require.Equal(t, 2, got.NumRows())

	text, _ := got.Value(1, "utt_text")
	assert.Equal(t, model.Text(projection.TextSentinel), text)
}
