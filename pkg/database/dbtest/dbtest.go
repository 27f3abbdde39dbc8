// Package dbtest opens throwaway sqlite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tair/inventory-ledger/pkg/database"
)

// Open creates a migrated sqlite database under t.TempDir and closes it on cleanup.
func Open(t testing.TB, models ...interface{}) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(ctx, db) })

	require.NoError(t, database.Migrate(ctx, db, models...))
	return db
}
