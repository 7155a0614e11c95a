package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/GustavoCaso/spadesk/internal/logger"
)

type migration struct {
	name string
	up   func(ctx context.Context, tx *sql.Tx) error
}

func execStatement(statement string) func(ctx context.Context, tx *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, statement)
		return err
	}
}

var migrations = []migration{
	{
		name: "Create categories table",
		up: execStatement(`
			CREATE TABLE IF NOT EXISTS categories
			(
			 id INTEGER PRIMARY KEY,
			 name TEXT NOT NULL,
			 description TEXT NOT NULL DEFAULT '',
			 status TEXT NOT NULL,
			 created_at INTEGER NOT NULL,
			 UNIQUE(name) ON CONFLICT FAIL
			) STRICT;`),
	},
	{
		name: "Create sub_categories table",
		up: execStatement(`
			CREATE TABLE IF NOT EXISTS sub_categories
			(
			 id INTEGER PRIMARY KEY,
			 category_id INTEGER NOT NULL,
			 name TEXT NOT NULL,
			 status TEXT NOT NULL,
			 created_at INTEGER NOT NULL,
			 UNIQUE(category_id, name) ON CONFLICT FAIL,
			 FOREIGN KEY(category_id) REFERENCES categories(id) ON DELETE CASCADE
			) STRICT;`),
	},
	{
		name: "Create payment_modes table",
		up: execStatement(`
			CREATE TABLE IF NOT EXISTS payment_modes
			(
			 id INTEGER PRIMARY KEY,
			 name TEXT NOT NULL,
			 type TEXT NOT NULL,
			 status TEXT NOT NULL,
			 created_at INTEGER NOT NULL,
			 UNIQUE(name) ON CONFLICT FAIL
			) STRICT;`),
	},
	{
		name: "Create measurement_units table",
		up: execStatement(`
			CREATE TABLE IF NOT EXISTS measurement_units
			(
			 id INTEGER PRIMARY KEY,
			 name TEXT NOT NULL,
			 short_name TEXT NOT NULL,
			 created_at INTEGER NOT NULL,
			 UNIQUE(short_name) ON CONFLICT FAIL
			) STRICT;`),
	},
	{
		name: "Create gift_cards table",
		up: execStatement(`
			CREATE TABLE IF NOT EXISTS gift_cards
			(
			 id INTEGER PRIMARY KEY,
			 code TEXT NOT NULL,
			 customer_id INTEGER NOT NULL DEFAULT 0,
			 outlet_id INTEGER NOT NULL,
			 amount INTEGER NOT NULL,
			 balance INTEGER NOT NULL,
			 issued_on INTEGER NOT NULL,
			 expires_on INTEGER,
			 status TEXT NOT NULL,
			 UNIQUE(code) ON CONFLICT FAIL
			) STRICT;`),
	},
	{
		name: "Create inventory_items table",
		up: execStatement(`
			CREATE TABLE IF NOT EXISTS inventory_items
			(
			 id INTEGER PRIMARY KEY,
			 name TEXT NOT NULL,
			 sku TEXT NOT NULL,
			 outlet_id INTEGER NOT NULL,
			 category_id INTEGER NOT NULL DEFAULT 0,
			 measurement_unit_id INTEGER NOT NULL DEFAULT 0,
			 quantity INTEGER NOT NULL DEFAULT 0,
			 reorder_level INTEGER NOT NULL DEFAULT 0,
			 created_at INTEGER NOT NULL,
			 UNIQUE(sku, outlet_id) ON CONFLICT FAIL
			) STRICT;`),
	},
	{
		name: "Create users table",
		up: execStatement(`
			CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY,
				username TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				created_at INTEGER NOT NULL,
				UNIQUE(username) ON CONFLICT FAIL
			) STRICT;`),
	},
	{
		name: "Index listing date columns",
		up: func(ctx context.Context, tx *sql.Tx) error {
			statements := []string{
				"CREATE INDEX IF NOT EXISTS idx_gift_cards_issued_on ON gift_cards(issued_on)",
				"CREATE INDEX IF NOT EXISTS idx_gift_cards_outlet_id ON gift_cards(outlet_id)",
				"CREATE INDEX IF NOT EXISTS idx_inventory_items_outlet_id ON inventory_items(outlet_id)",
				"CREATE INDEX IF NOT EXISTS idx_sub_categories_category_id ON sub_categories(category_id)",
			}
			for _, statement := range statements {
				if _, err := tx.ExecContext(ctx, statement); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

func createMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
					version INTEGER PRIMARY KEY,
					applied_at INTEGER NOT NULL
			)
	`)
	return err
}

func (s *sqliteStorage) ApplyMigrations(ctx context.Context, logger *logger.Logger) error {
	if err := createMigrationsTable(ctx, s.db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion := 0
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for i, migration := range migrations {
		migrationVersion := i + 1
		if migrationVersion <= currentVersion {
			continue
		}

		logger.Info("Applying migration",
			"version", migrationVersion,
			"name", migration.name)

		if err := s.applyMigration(ctx, migrationVersion, migration); err != nil {
			return err
		}
	}

	return nil
}

func (s *sqliteStorage) applyMigration(ctx context.Context, version int, migration migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", version, err)
	}

	if err = migration.up(ctx, tx); err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			return rErr
		}
		return fmt.Errorf("migration %d failed: %w", version, err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
		version, time.Now().Unix(),
	)
	if err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			return rErr
		}
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", version, err)
	}

	return nil
}
