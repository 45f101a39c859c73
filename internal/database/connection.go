package database

import (
	"fmt"
	"sync/atomic"

	"github.com/locus/locus/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// journals counts opened databases so each gets its own in-memory store
var journals atomic.Int64

type DB struct {
	*gorm.DB
}

// memoryDSN names a private in-memory database. Nothing is written to disk and
// the data is gone once the last connection closes.
func memoryDSN() string {
	return fmt.Sprintf("file:locus-journal-%d?mode=memory&cache=shared", journals.Add(1))
}

// Connect opens a fresh in-memory journal
func Connect() (*DB, error) {
	db, err := gorm.Open(sqlite.Open(memoryDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// A single long-lived connection keeps the in-memory database alive and
	// serialises writers.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return &DB{db}, nil
}

func (db *DB) Initialize() error {
	err := db.AutoMigrate(&models.WindowChange{}, &models.ErrorLog{})
	if err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return nil
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
