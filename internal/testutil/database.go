package testutil

import (
	"testing"

	"shelfbot/internal/database"
	"shelfbot/internal/database/migrations"
	"shelfbot/internal/engine"
)

// NewTestStore creates a new in-memory SQLite store with schema applied.
// The store is automatically closed when the test completes.
func NewTestStore(t *testing.T) *database.SQLiteStore {
	t.Helper()
	return NewTestStoreWithClock(t, nil)
}

// NewTestStoreWithClock is NewTestStore with an injectable clock.
func NewTestStoreWithClock(t *testing.T, clock engine.Clock) *database.SQLiteStore {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	// An in-memory database exists per connection; pin the pool to one
	// so migrations and queries see the same database.
	sqlDB.SetMaxOpenConns(1)

	if err := migrations.MigrateUp(sqlDB); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	store := database.NewSQLiteStoreFromDB(sqlDB, clock)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}
