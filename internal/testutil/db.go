// Package testutil provides test utilities for database setup.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/dqs/internal/infrastructure/sqlite"
)

// NewTestDB creates a migrated in-memory database that is closed when the
// test ends.
func NewTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.NewMemoryDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// NewSeededDB creates an in-memory database holding the standard people.
func NewSeededDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := NewTestDB(t)
	NewBuilder(t, db).WithStandardPeople().Build()
	return db
}
