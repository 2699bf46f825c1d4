package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestIsSQLite(t *testing.T) {
	assert.True(t, IsSQLite("file:test?mode=memory&cache=shared"))
	assert.True(t, IsSQLite("sqlite://./dev.db"))
	assert.True(t, IsSQLite("./dev.db"))
	assert.False(t, IsSQLite("host=localhost user=postgres dbname=rawai sslmode=disable"))
	assert.False(t, IsSQLite("postgres://u:p@localhost:5432/rawai"))
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	type widget struct {
		ID   uint
		Name string
	}

	db, err := NewGormDBWithLogger("file:dbtest?mode=memory&cache=shared", logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, Migrate(db, &widget{}))

	require.NoError(t, db.Create(&widget{Name: "a"}).Error)
	var n int64
	require.NoError(t, db.Model(&widget{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
