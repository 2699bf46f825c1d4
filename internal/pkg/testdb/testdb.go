// Package testdb opens a private in-memory SQLite database with every table migrated.
package testdb

import (
	"fmt"
	"testing"

	"raw-ai-be/internal/model"
	"raw-ai-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.NewGormDBWithLogger(dsn, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, model.All()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
