package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/caasets/internal/model"
)

func countInterviews(ctx context.Context, q Querier) (int, error) {
	rows, err := q.QueryContext(ctx, "SELECT COUNT(*) FROM interviews")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var n int
	for rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rows.Err()
}

func TestReadSnapshot_RunsFunction(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	_, err := s.Import(ctx, createTestBatch())
	require.NoError(t, err)

	var n int
	err = s.ReadSnapshot(ctx, func(q Querier) error {
		var err error
		n, err = countInterviews(ctx, q)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReadSnapshot_ReturnsFunctionError(t *testing.T) {
	s := createTestStore(t)
	sentinel := errors.New("boom")

	err := s.ReadSnapshot(context.Background(), func(q Querier) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.False(t, IsTxError(err))

	// The connection is released after rollback
	assert.NoError(t, s.ReadSnapshot(context.Background(), func(q Querier) error { return nil }))
}

func TestReadSnapshot_BeginFailure(t *testing.T) {
	s := createTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.ReadSnapshot(ctx, func(q Querier) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)

	var txErr *TxError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, "begin", txErr.Op)
}

func TestReadSnapshot_IsolatedFromConcurrentWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	reader, err := Open(path)
	require.NoError(t, err)
	defer reader.Close()
	writer, err := Open(path)
	require.NoError(t, err)
	defer writer.Close()

	ctx := context.Background()
	_, err = writer.Import(ctx, createTestBatch())
	require.NoError(t, err)

	var before, during int
	err = reader.ReadSnapshot(ctx, func(q Querier) error {
		var err error
		if before, err = countInterviews(ctx, q); err != nil {
			return err
		}

		// A second interview commits while the snapshot is open
		_, err = writer.Import(ctx, model.Batch{Interviews: []model.Interview{
			{ID: 2, Name: "S2", ClientID: "102", RaterID: "R1", SessionNumber: 1, CodingSystemID: 1},
		}})
		if err != nil {
			return err
		}

		during, err = countInterviews(ctx, q)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, 1, before)
	assert.Equal(t, 1, during, "snapshot must not observe a concurrent commit")

	after, err := countInterviews(ctx, reader.DB())
	require.NoError(t, err)
	assert.Equal(t, 2, after)
}

func TestTxError(t *testing.T) {
	inner := errors.New("disk I/O error")
	err := error(&TxError{Op: "commit", Err: inner})

	assert.Equal(t, "transaction commit failed: disk I/O error", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.True(t, IsTxError(err))
	assert.False(t, IsTxError(inner))
}
