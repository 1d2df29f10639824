package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens a SQLite database at path with foreign keys enforced. SQLite
// serialises writers, so the pool is capped at a single connection.
func New(ctx context.Context, path string) (*gorm.DB, error) {
	return open(ctx, withForeignKeys(path))
}

// NewInMemory opens a private in-memory database. Distinct names never share
// data.
func NewInMemory(ctx context.Context, name string) (*gorm.DB, error) {
	return open(ctx, fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name))
}

func open(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sqlite sql db failed: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxIdleTime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping sqlite failed: %w", err)
	}
	return db, nil
}

func withForeignKeys(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}
