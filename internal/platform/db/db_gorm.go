// Package db opens the trade journal database.
package db

import (
	"crypto_backend/internal/feature/trading/adapters"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects the journal database.
type Config struct {
	Driver         string        // sqlite or postgres
	DSN            string        // file path for sqlite, connection string for postgres
	ConnectTimeout time.Duration // total time spent retrying the first connection
	RetryInterval  time.Duration
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// NewOpener returns the Opener of driver.
func NewOpener(driver string) (Opener, error) {
	var dial func(string) gorm.Dialector
	switch driver {
	case DriverSQLite:
		dial = sqlite.Open
	case DriverPostgres:
		dial = postgres.Open
	default:
		return nil, fmt.Errorf("unsupported journal driver %q", driver)
	}
	return func(dsn string) (*gorm.DB, error) {
		return gorm.Open(dial(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	}, nil
}

// ConnectWithRetry calls open until it succeeds or timeout has elapsed.
func ConnectWithRetry(dsn string, timeout, interval time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "retry_in", interval)
		time.Sleep(interval)
	}
}

// OpenJournalDB connects to the journal database and migrates its schema.
func OpenJournalDB(cfg Config) (*gorm.DB, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 30 * time.Second
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 3 * time.Second
	}
	open, err := NewOpener(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := ConnectWithRetry(cfg.DSN, cfg.ConnectTimeout, cfg.RetryInterval, open)
	if err != nil {
		return nil, err
	}
	if cfg.Driver == DriverSQLite {
		// sqlite allows a single writer; an in-memory database also lives on one connection
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&adapters.JournalModel{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	slog.Info("journal database ready", "driver", cfg.Driver)
	return db, nil
}
