package database

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn, // Log level
			IgnoreRecordNotFoundError: true,        // Ignore ErrRecordNotFound error for logger
			ParameterizedQueries:      true,        // Don't include params in the SQL log
			Colorful:                  true,
		},
	)
}

// IsSQLite reports whether dsn selects the embedded SQLite driver.
func IsSQLite(dsn string) bool {
	return strings.HasPrefix(dsn, "file:") || strings.HasPrefix(dsn, "sqlite://") || strings.HasSuffix(dsn, ".db")
}

func dialector(dsn string) gorm.Dialector {
	if IsSQLite(dsn) {
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	}
	return postgres.Open(dsn)
}

func configureConnectionPool(db *gorm.DB, sqliteMode bool) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if sqliteMode {
		// A single writer avoids SQLITE_BUSY between pooled connections.
		sqlDB.SetMaxOpenConns(1)
		return nil
	}

	// SetMaxIdleConns sets the maximum number of connections in the idle connection pool.
	sqlDB.SetMaxIdleConns(10)

	// SetMaxOpenConns sets the maximum number of open connections to the database.
	sqlDB.SetMaxOpenConns(100)

	// SetConnMaxLifetime sets the maximum amount of time a connection may be reused.
	sqlDB.SetConnMaxLifetime(time.Hour)

	return nil
}

// NewGormDBFromDSN opens postgres, or SQLite for file: DSNs.
func NewGormDBFromDSN(dsn string) (*gorm.DB, error) {
	return NewGormDBWithLogger(dsn, getLogger())
}

func NewGormDBWithLogger(dsn string, l logger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(dsn), &gorm.Config{
		Logger: l,
	})
	if err != nil {
		return nil, err
	}

	if err := configureConnectionPool(db, IsSQLite(dsn)); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the given tables.
func Migrate(db *gorm.DB, models ...interface{}) error {
	return db.AutoMigrate(models...)
}
