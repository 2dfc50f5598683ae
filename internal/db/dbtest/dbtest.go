// Package dbtest opens throwaway in-memory SQLite databases for package tests.
package dbtest

import (
	"testing"

	"github.com/MuseumTrail/MT-Backend/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated in-memory database that is closed when the test ends.
func Open(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := db.Open(db.Config{DSN: dsn, LogLevel: logger.Silent})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if len(models) > 0 {
		if err := conn.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate test database: %v", err)
		}
	}

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}
