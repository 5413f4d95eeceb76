package dataset

import (
	"context"

	"github.com/roach88/caasets/internal/projection"
	"github.com/roach88/caasets/internal/store"
)

// ExplainSequential returns the SQL Sequential would run for req, without
// running it.
func (b *Builder) ExplainSequential(ctx context.Context, req SequentialRequest) (projection.Statement, error) {
	var stmt projection.Statement
	err := b.store.ReadSnapshot(ctx, func(q store.Querier) error {
		plan, err := b.sequentialPlan(ctx, q, req)
		if err != nil {
			return err
		}
		return b.compile(plan, &stmt)
	})
	if err != nil {
		return projection.Statement{}, classify("explain sequential", err)
	}
	return stmt, nil
}

// ExplainSession returns the SQL SessionLevel would run for req, before
// pivoting.
func (b *Builder) ExplainSession(ctx context.Context, req SessionRequest) (projection.Statement, error) {
	var stmt projection.Statement
	err := b.store.ReadSnapshot(ctx, func(q store.Querier) error {
		plan, err := b.sessionPlan(ctx, q, req)
		if err != nil {
			return err
		}
		return b.compile(plan, &stmt)
	})
	if err != nil {
		return projection.Statement{}, classify("explain session", err)
	}
	return stmt, nil
}
