package dataset

import (
	"errors"
	"fmt"

	"github.com/roach88/caasets/internal/queryir"
	"github.com/roach88/caasets/internal/store"
)

// ErrorCode categorizes dataset errors.
type ErrorCode string

const (
	// CodeTransaction indicates the snapshot transaction or a query inside
	// it failed.
	CodeTransaction ErrorCode = "TRANSACTION_FAILED"

	// CodeInvalidPlan indicates a query plan failed validation or
	// compilation.
	CodeInvalidPlan ErrorCode = "INVALID_PLAN"

	// CodePivot indicates the session-level result could not be reshaped.
	CodePivot ErrorCode = "PIVOT_FAILED"
)

// Error is returned by every Builder operation.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the operation that failed ("sequential", "session", ...).
	Op string

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransactionError reports whether err is a dataset transaction failure.
func IsTransactionError(err error) bool {
	return hasCode(err, CodeTransaction)
}

// IsInvalidPlanError reports whether err is a dataset plan failure.
func IsInvalidPlanError(err error) bool {
	return hasCode(err, CodeInvalidPlan)
}

func hasCode(err error, code ErrorCode) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// classify wraps err for op. Errors already carrying a code keep it. A
// malformed plan that never reached the store is an invalid plan; any other
// failure inside the snapshot is a transaction failure.
func classify(op string, err error) error {
	var de *Error
	if errors.As(err, &de) {
		if de.Op == "" {
			de.Op = op
		}
		return de
	}
	if !store.IsTxError(err) && errors.Is(err, queryir.ErrInvalidPlan) {
		return &Error{Code: CodeInvalidPlan, Op: op, Err: err}
	}
	return &Error{Code: CodeTransaction, Op: op, Err: err}
}
