package dataset

import (
	"context"

	"github.com/roach88/caasets/internal/catalog"
	"github.com/roach88/caasets/internal/store"
)

// SequentialLabels returns the variable labels of sequential datasets of a
// coding system.
func (b *Builder) SequentialLabels(ctx context.Context, codingSystemID int64) ([]catalog.Label, error) {
	var labels []catalog.Label
	err := b.store.ReadSnapshot(ctx, func(q store.Querier) error {
		var err error
		labels, err = b.catalog.SequentialLabels(ctx, q, codingSystemID)
		return err
	})
	if err != nil {
		return nil, classify("sequential labels", err)
	}
	return labels, nil
}

// SessionLabels returns the variable labels of session-level datasets of a
// coding system.
func (b *Builder) SessionLabels(ctx context.Context, codingSystemID int64) ([]catalog.Label, error) {
	var labels []catalog.Label
	err := b.store.ReadSnapshot(ctx, func(q store.Querier) error {
		var err error
		labels, err = b.catalog.SessionLabels(ctx, q, codingSystemID)
		return err
	})
	if err != nil {
		return nil, classify("session labels", err)
	}
	return labels, nil
}
