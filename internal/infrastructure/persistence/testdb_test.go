package persistence

import (
	"testing"

	"github.com/Esyonel/vural-enerji-sub001/tests/testutil"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewSQLiteDB(t)
}
