package migration

import (
	"testing"

	"github.com/Esyonel/vural-enerji-sub001/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSource(t *testing.T) {
	src, err := Embedded(migrations.FS).open()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	_, err := CreateMigration(dir, "create products", "")
	require.NoError(t, err)

	src, err := Dir(dir).open()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
}

func TestDirSource_Missing(t *testing.T) {
	_, err := Dir("/nonexistent/migrations").open()
	assert.Error(t, err)
}
