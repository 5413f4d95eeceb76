package dataset

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/caasets/internal/queryir"
	"github.com/roach88/caasets/internal/querysql"
	"github.com/roach88/caasets/internal/store"
	"github.com/roach88/caasets/internal/testutil"
)

func TestSequential_ClosedStoreIsTransactionError(t *testing.T) {
	st := testutil.SeededStore(t)
	b := New(st)
	require.NoError(t, st.Close())

	got, err := b.Sequential(context.Background(), SequentialRequest{InterviewNames: allInterviews})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, IsTransactionError(err))

	var te *store.TxError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "begin", te.Op)
}

func TestSessionLevel_QueryFailureIsTransactionError(t *testing.T) {
	st := testutil.SeededStore(t)
	_, err := st.DB().Exec("DROP TABLE global_ratings")
	require.NoError(t, err)

	got, err := New(st).SessionLevel(context.Background(), SessionRequest{})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, IsTransactionError(err))

	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "session", de.Op)
	assert.Contains(t, err.Error(), "TRANSACTION_FAILED")
}

func TestLabels_ClosedStoreIsTransactionError(t *testing.T) {
	st := testutil.SeededStore(t)
	b := New(st)
	require.NoError(t, st.Close())

	_, err := b.SessionLabels(context.Background(), 1)
	assert.True(t, IsTransactionError(err))
}

func TestClassify(t *testing.T) {
	cause := errors.New("boom")

	err := classify("sequential", cause)
	assert.True(t, IsTransactionError(err))
	assert.ErrorIs(t, err, cause)

	err = classify("sequential", &Error{Code: CodeInvalidPlan, Err: cause})
	assert.True(t, IsInvalidPlanError(err))
	assert.False(t, IsTransactionError(err))
	assert.Equal(t, "sequential: INVALID_PLAN: boom", err.Error())

	assert.False(t, IsTransactionError(nil))
	assert.False(t, IsTransactionError(cause))
}

func TestClassify_CatalogPlanFailuresAreInvalidPlan(t *testing.T) {
	invalid := queryir.Validate(queryir.Select{}).Err()
	require.Error(t, invalid)

	err := classify("labels", fmt.Errorf("resolve properties: %w", invalid))
	assert.True(t, IsInvalidPlanError(err))
	assert.False(t, IsTransactionError(err))

	_, _, compileErr := querysql.NewSQLCompiler().Compile(nil)
	require.Error(t, compileErr)

	err = classify("sequential", fmt.Errorf("compile: %w", compileErr))
	assert.True(t, IsInvalidPlanError(err))

	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "sequential", de.Op)
}

func TestClassify_TxErrorWinsOverPlanError(t *testing.T) {
	err := classify("session", &store.TxError{Op: "query", Err: queryir.ErrInvalidPlan})
	assert.True(t, IsTransactionError(err))
}
