package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	// import sqlite driver.
	_ "github.com/mattn/go-sqlite3"

	"github.com/GustavoCaso/spadesk/internal/config"
	"github.com/GustavoCaso/spadesk/internal/storage"
)

type sqliteStorage struct {
	db *sql.DB

	categories       *resource[storage.Category]
	subCategories    *resource[storage.SubCategory]
	paymentModes     *resource[storage.PaymentMode]
	measurementUnits *resource[storage.MeasurementUnit]
	giftCards        *resource[storage.GiftCard]
	inventory        *resource[storage.InventoryItem]
}

// New opens the database described by dbConfig. Date range filters are resolved to whole
// days in loc.
func New(dbConfig config.DBConfig, loc *time.Location) (storage.Storage, error) {
	db, err := sql.Open("sqlite3", dsn(dbConfig))
	if err != nil {
		return nil, err
	}

	if dbConfig.MaxOpenConns > 0 {
		db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	}

	if dbConfig.MaxIdleConns > 0 {
		db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	}

	if dbConfig.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)
	}

	if dbConfig.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(dbConfig.ConnMaxIdleTime)
	}

	if err = applyPragmas(context.Background(), db, dbConfig); err != nil {
		_ = db.Close()
		return nil, err
	}

	if loc == nil {
		loc = time.UTC
	}

	return &sqliteStorage{
		db:               db,
		categories:       newResource(db, loc, categorySchema),
		subCategories:    newResource(db, loc, subCategorySchema),
		paymentModes:     newResource(db, loc, paymentModeSchema),
		measurementUnits: newResource(db, loc, measurementUnitSchema),
		giftCards:        newResource(db, loc, giftCardSchema),
		inventory:        newResource(db, loc, inventorySchema),
	}, nil
}

// dsn sets the per-connection PRAGMAs through the driver so every pooled connection gets them.
func dsn(dbConfig config.DBConfig) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	if dbConfig.BusyTimeout > 0 {
		params.Set("_busy_timeout", strconv.Itoa(dbConfig.BusyTimeout))
	}

	separator := "?"
	if strings.Contains(dbConfig.Source, "?") {
		separator = "&"
	}
	return dbConfig.Source + separator + params.Encode()
}

func applyPragmas(ctx context.Context, db *sql.DB, dbConfig config.DBConfig) error {
	if dbConfig.JournalMode != "" {
		_, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA journal_mode = %s", dbConfig.JournalMode))
		if err != nil {
			return fmt.Errorf("failed to set journal_mode: %w", err)
		}
	}

	if dbConfig.Synchronous != "" {
		_, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA synchronous = %s", dbConfig.Synchronous))
		if err != nil {
			return fmt.Errorf("failed to set synchronous: %w", err)
		}
	}

	if dbConfig.CacheSize != 0 {
		_, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA cache_size = %d", dbConfig.CacheSize))
		if err != nil {
			return fmt.Errorf("failed to set cache_size: %w", err)
		}
	}

	return nil
}

func (s *sqliteStorage) Categories() storage.Repository[storage.Category] {
	return s.categories
}

func (s *sqliteStorage) SubCategories() storage.Repository[storage.SubCategory] {
	return s.subCategories
}

func (s *sqliteStorage) PaymentModes() storage.Repository[storage.PaymentMode] {
	return s.paymentModes
}

func (s *sqliteStorage) MeasurementUnits() storage.Repository[storage.MeasurementUnit] {
	return s.measurementUnits
}

func (s *sqliteStorage) GiftCards() storage.Repository[storage.GiftCard] {
	return s.giftCards
}

func (s *sqliteStorage) Inventory() storage.Repository[storage.InventoryItem] {
	return s.inventory
}

func (s *sqliteStorage) Close() error {
	return s.db.Close()
}
