// Package testutil provides seeded stores shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/caasets/internal/model"
	"github.com/roach88/caasets/internal/store"
)

// OpenStore opens an empty store in a temp directory, closed on cleanup.
func OpenStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// SeededStore opens a store loaded with StandardBatch.
func SeededStore(t *testing.T) *store.Store {
	t.Helper()
	s := OpenStore(t)
	Seed(t, s, StandardBatch())
	return s
}

// Seed imports batch into s, failing the test on error.
func Seed(t *testing.T, s *store.Store, batch model.Batch) {
	t.Helper()
	if _, err := s.Import(context.Background(), batch); err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
}
