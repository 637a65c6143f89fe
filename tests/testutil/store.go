package testutil

import (
	"context"
	"testing"

	"github.com/nhle/sadhana/internal/model"
	"github.com/nhle/sadhana/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SeedLogs writes logs into s, failing the test on the first error.
func SeedLogs(t *testing.T, s store.Store, logs ...model.SadhanaLog) {
	t.Helper()

	for _, log := range logs {
		if err := s.UpsertByDate(context.Background(), log); err != nil {
			t.Fatalf("seeding %s: %v", log.Date, err)
		}
	}
}
