package database

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"example.com/procurement/config"
	"example.com/procurement/internal/models"
)

// Connect establishes a connection to the database and configures the pool
func Connect(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Error
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get underlying DB connection")
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	return models.SetupModels(db)
}

// IsRecordNotFoundError checks if an error is a record not found error
func IsRecordNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// AcquireReceiptPostingLock serializes receipt posting per purchase order
// across instances using Postgres transaction-scoped advisory locks.
// NOTE: the lock is bound to the transaction, so this must be called on the
// *gorm.DB of the transaction that performs the posting; it is released
// automatically on commit or rollback.
func AcquireReceiptPostingLock(tx *gorm.DB, poID string) error {
	lockName := fmt.Sprintf("po:%s", poID)
	if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", lockName).Error; err != nil {
		return errors.Wrapf(err, "could not acquire posting lock for po_id=%s", poID)
	}
	return nil
}

// WaitUntilReady pings the database until it responds or the deadline passes.
// Used by the worker on startup so a slow database does not kill the process.
func WaitUntilReady(db *gorm.DB, timeout time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get underlying DB connection")
	}

	deadline := time.Now().Add(timeout)
	for {
		if err = sqlDB.Ping(); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.Wrap(err, "database not ready before deadline")
		}
		time.Sleep(time.Second)
	}
}
