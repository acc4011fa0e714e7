// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/database"
)

// TestDBOption adds a preparation step to MustOpenTestDB.
type TestDBOption func(*testDB)

type testDB struct {
	name  string
	steps []func(*gorm.DB) error
}

// WithAutoMigrate creates the schema without seeding roles.
func WithAutoMigrate() TestDBOption {
	return func(tdb *testDB) {
		tdb.steps = append(tdb.steps, database.AutoMigrate)
	}
}

// WithSeedData creates the schema and inserts the system roles.
func WithSeedData() TestDBOption {
	return func(tdb *testDB) {
		tdb.steps = append(tdb.steps, database.AutoMigrateAndSeed)
	}
}

// WithName fixes the in-memory database name so a second connection can attach to it.
func WithName(name string) TestDBOption {
	return func(tdb *testDB) {
		tdb.name = name
	}
}

// MustOpenTestDB opens an isolated in-memory SQLite database and runs the
// requested preparation steps. The connection is closed on test cleanup.
func MustOpenTestDB(t *testing.T, opts ...TestDBOption) *gorm.DB {
	t.Helper()

	tdb := testDB{name: uuid.NewString()}
	for _, opt := range opts {
		opt(&tdb)
	}

	db, err := database.Open(database.Config{Driver: database.DriverSQLite, DSN: database.MemoryDSN(tdb.name)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	for _, step := range tdb.steps {
		require.NoError(t, step(db))
	}
	return db
}
