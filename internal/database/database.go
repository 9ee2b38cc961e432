package database

import (
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/HAAN6892/real-estate-monitor/internal/models"
)

// Database stores the raw transaction records and the commute table between
// collector runs. The matching engine never reads it directly; snapshots
// are built from full in-memory loads.
type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// RunMigrations creates or updates the schema.
func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(&models.TransactionRecord{}, &models.CommuteEntry{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// GetDB exposes the underlying gorm handle for transactional batch writes.
func (d *Database) GetDB() *gorm.DB {
	return d.db
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UpsertRecords inserts a batch of transaction records, silently skipping
// rows already present under the record identity index. Collection windows
// overlap between runs, so duplicates are the common case.
func UpsertRecords(tx *gorm.DB, batch []*models.TransactionRecord) error {
	if len(batch) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&batch).Error
}

// GetRecordsByKind loads every stored record of one market, ordered by
// insertion so snapshot grouping is deterministic.
func (d *Database) GetRecordsByKind(kind string) ([]models.TransactionRecord, error) {
	var records []models.TransactionRecord
	if err := d.db.Where("kind = ?", kind).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s records: %w", kind, err)
	}
	return records, nil
}

// CountRecords reports how many records of one market are stored.
func (d *Database) CountRecords(kind string) (int64, error) {
	var count int64
	err := d.db.Model(&models.TransactionRecord{}).Where("kind = ?", kind).Count(&count).Error
	return count, err
}

// ReplaceCommuteEntries swaps the stored commute table for a fresh one in a
// single transaction.
func (d *Database) ReplaceCommuteEntries(entries []models.CommuteEntry) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.CommuteEntry{}).Error; err != nil {
			return fmt.Errorf("failed to clear commute entries: %w", err)
		}
		if len(entries) == 0 {
			return nil
		}
		if err := tx.Create(&entries).Error; err != nil {
			return fmt.Errorf("failed to insert commute entries: %w", err)
		}
		return nil
	})
}

// GetCommuteEntries loads the commute table in insertion order, which the
// fuzzy matcher relies on for deterministic first-match fallbacks.
func (d *Database) GetCommuteEntries() ([]models.CommuteEntry, error) {
	var entries []models.CommuteEntry
	if err := d.db.Order("id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load commute entries: %w", err)
	}
	return entries, nil
}
