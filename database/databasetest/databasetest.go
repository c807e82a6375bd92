// Package databasetest opens throwaway migrated databases for tests.
package databasetest

import (
	"path/filepath"
	"testing"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm/logger"
)

// New returns a Database backed by a migrated SQLite file under t.TempDir.
// The connection is closed when the test ends.
func New(t testing.TB) database.Database {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "portfolio.db") + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := database.Open(config.DatabaseConfig{Type: database.TypeSQLite, URL: dsn}, logger.Discard)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	store := database.New(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}
