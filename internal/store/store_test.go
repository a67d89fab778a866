package store

import (
	"path/filepath"
	"testing"

	"github.com/MichaelDViau/Kunaay-Demo/internal/config"
	"github.com/MichaelDViau/Kunaay-Demo/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh SQLite file under t.TempDir and migrates it.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.AutoMigrate(db))
	return db
}
