package testutil

import (
	"fmt"
	"testing"
	"time"

	"coursehub-backend/config"
	"coursehub-backend/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB opens a private in-memory sqlite database with every table migrated.
// Only one connection is kept open so the shared-cache database lives as
// long as the handle; callers inside a transaction must use the
// transaction's repositories.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := config.AutoMigrate(db); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.Nop()
}

// Clock is a manually advanced time source.
type Clock struct {
	T time.Time
}

func NewClock() *Clock {
	return &Clock{T: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time { return c.T }

func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }
