// Package testhelpers provides a migrated throwaway database for tests.
package testhelpers

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/shared/database"
)

// TestConfig is a SQLite configuration rooted in dir.
func TestConfig(dir string) *config.Config {
	return &config.Config{
		Env:               "test",
		LogLevel:          "disabled",
		DBDriver:          "sqlite",
		SQLitePath:        filepath.Join(dir, "loyalty.db"),
		VATRate:           decimal.RequireFromString("0.20"),
		DefaultPostalCode: "75000",
		DefaultCountry:    "France",
	}
}

// SetupTestDB migrates a fresh SQLite file under tb.TempDir and returns its
// gorm handle. The connection is closed when the test ends.
func SetupTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	cfg := TestConfig(tb.TempDir())

	if err := database.Migrate(cfg); err != nil {
		tb.Fatalf("Failed to migrate test database: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		tb.Fatalf("Failed to open test database: %v", err)
	}
	tb.Cleanup(func() {
		_ = db.Close()
	})

	return db.GORM
}

// CountRows returns the number of rows in table.
func CountRows(tb testing.TB, db *gorm.DB, table string) int64 {
	tb.Helper()

	var n int64
	if err := db.Table(table).Count(&n).Error; err != nil {
		tb.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
