package projection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/caasets/internal/catalog"
	"github.com/roach88/caasets/internal/queryir"
	"github.com/roach88/caasets/internal/store"
	"github.com/roach88/caasets/internal/table"
	"github.com/roach88/caasets/internal/testutil"
)

// materialize runs plan against s inside one snapshot.
func materialize(t *testing.T, s *store.Store, plan queryir.Query) *table.Table {
	t.Helper()
	return materializeWith(t, s, plan, MissingNull)
}

// materializeWith runs a plan built under the missing policy.
func materializeWith(t *testing.T, s *store.Store, plan queryir.Query, missing MissingPolicy) *table.Table {
	t.Helper()
	var result *table.Table
	err := s.ReadSnapshot(context.Background(), func(q store.Querier) error {
		var err error
		result, err = NewMaterializer(nil, missing).Materialize(context.Background(), q, plan)
		return err
	})
	require.NoError(t, err)
	return result
}

// registryFor resolves ids against the standard fixture.
func registryFor(t *testing.T, s *store.Store, ids ...int64) *Registry {
	t.Helper()
	var set catalog.PropertySet
	err := s.ReadSnapshot(context.Background(), func(q store.Querier) error {
		var err error
		set, err = catalog.New(nil).ResolveProperties(context.Background(), q, ids)
		return err
	})
	require.NoError(t, err)
	return NewRegistry(set.Properties, nil)
}

func seeded(t *testing.T) *store.Store {
	return testutil.SeededStore(t)
}
