package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Esyonel/vural-enerji-sub001/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add quote source", "add_quote_source"},
		{"Add-Package-Tags", "add_package_tags"},
		{"ADD__PRODUCT__IMAGES", "add_product_images"},
		{"  spaces  ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_Sequential(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "init schema", "")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_init_schema.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_init_schema.down.sql"), first.DownPath)

	second, err := CreateMigration(dir, "add quote source", "Track where the quote came from")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)

	content, err := os.ReadFile(second.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "-- add quote source")
	assert.Contains(t, string(content), "-- Track where the quote came from")

	down, err := os.ReadFile(second.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "-- Rollback: add quote source")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(dir, "first", "")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000010_tenth.up.sql", "000010_tenth.down.sql",
		"000002_second.up.sql", "000002_second.down.sql",
		"README.md", "notes_without_version.up.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql"), 0o755))

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000002_second", "000010_tenth"}, names)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	names, err := ListMigrations(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	require.NoError(t, err)

	files := make(map[string]bool)
	for _, e := range entries {
		files[e.Name()] = true
	}
	require.True(t, files["000001_init_schema.up.sql"])
	for name := range files {
		if base, ok := strings.CutSuffix(name, ".up.sql"); ok {
			assert.True(t, files[base+".down.sql"], "missing down migration for %s", base)
		}
	}
}
