package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Querier runs read queries. *sql.Tx and *sql.DB both satisfy it; dataset
// code only ever receives the transaction handed out by ReadSnapshot.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// TxError reports a failure of the transaction itself (begin, commit) or of
// a query executed inside it, as opposed to an empty result.
type TxError struct {
	Op  string // "begin", "query", "commit"
	Err error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Op, e.Err)
}

func (e *TxError) Unwrap() error {
	return e.Err
}

// IsTxError reports whether err is, or wraps, a *TxError.
func IsTxError(err error) bool {
	var te *TxError
	return errors.As(err, &te)
}

// ReadSnapshot runs fn inside one read-only transaction. Every query fn
// issues observes the same snapshot of the database.
//
// If fn returns an error the transaction is rolled back and the error is
// returned unchanged; nothing fn produced should be used. Begin and commit
// failures are returned as *TxError.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(q Querier) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return &TxError{Op: "begin", Err: err}
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return &TxError{Op: "commit", Err: err}
	}
	return nil
}
