package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CatalogSchema holds sqlite equivalents of migrations/000001_init_schema.up.sql.
var CatalogSchema = []string{
	`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		sku TEXT UNIQUE,
		description TEXT,
		category TEXT,
		unit_price NUMERIC NOT NULL DEFAULT 0,
		stock INTEGER NOT NULL DEFAULT 0,
		image_url TEXT,
		image_key TEXT,
		specifications TEXT DEFAULT '{}',
		status TEXT NOT NULL DEFAULT 'active',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE solar_packages (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		min_bill NUMERIC NOT NULL,
		max_bill NUMERIC NOT NULL,
		system_power TEXT,
		total_price NUMERIC NOT NULL,
		installation_cost NUMERIC NOT NULL DEFAULT 0,
		features TEXT DEFAULT '[]',
		status TEXT NOT NULL DEFAULT 'active',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE package_line_items (
		id TEXT PRIMARY KEY,
		package_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		position INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE quote_requests (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		city TEXT,
		monthly_bill NUMERIC NOT NULL DEFAULT 0,
		package_id TEXT,
		message TEXT,
		status TEXT NOT NULL DEFAULT 'new',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
}

// NewSQLiteDB opens an in-memory sqlite database with the catalog schema.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// Every pooled connection to :memory: would see its own empty database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range CatalogSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// NewSQLiteFileDB opens a WAL-mode sqlite database under t.TempDir with the
// catalog schema. Unlike NewSQLiteDB it allows several connections, so readers
// and writers really run side by side.
func NewSQLiteFileDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "catalog.db") + "?_journal_mode=WAL&_busy_timeout=10000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(4)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range CatalogSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}
