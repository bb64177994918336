package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial ledger schema with legacy hierarchy cleanup",
		Up: func(tx *sql.Tx) error {
			// Databases written by the old two-level category/subcategory
			// layout cannot be mapped onto the flat account schema; they
			// are dropped and recreated.
			var legacy string
			err := tx.QueryRow(
				`SELECT name FROM sqlite_master WHERE type='table' AND name='subcategories'`,
			).Scan(&legacy)
			switch {
			case err == nil:
				slog.Warn("legacy subcategory schema detected, recreating tables")
				for _, drop := range []string{
					`DROP TABLE IF EXISTS transactions`,
					`DROP TABLE IF EXISTS subcategories`,
					`DROP TABLE IF EXISTS categories`,
					`DROP TABLE IF EXISTS asset_history`,
					`DROP TABLE IF EXISTS assets`,
				} {
					if _, dropErr := tx.Exec(drop); dropErr != nil {
						return fmt.Errorf("failed to drop legacy table: %w", dropErr)
					}
				}
			case err != sql.ErrNoRows:
				return fmt.Errorf("failed to inspect schema: %w", err)
			}

			queries := []string{
				`CREATE TABLE IF NOT EXISTS accounts (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL UNIQUE,
					type TEXT NOT NULL DEFAULT '',
					color TEXT NOT NULL DEFAULT '#1976D2',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS transactions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					date DATE NOT NULL,
					description TEXT NOT NULL,
					amount REAL NOT NULL,
					transaction_type TEXT NOT NULL CHECK(transaction_type IN ('income', 'expense', 'transfer')),
					account_id INTEGER REFERENCES accounts(id) ON DELETE SET NULL,
					notes TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
				`CREATE INDEX idx_transactions_account ON transactions(account_id)`,
				`CREATE INDEX idx_transactions_type ON transactions(transaction_type)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Seed default accounts",
		Up: func(tx *sql.Tx) error {
			defaults := []struct {
				name        string
				accountType string
				color       string
			}{
				{"Compte courant", "checking", "#4CAF50"},
				{"Livret A", "savings", "#2196F3"},
				{"Livret Épargne", "savings", "#009688"},
			}

			for _, d := range defaults {
				_, err := tx.Exec(
					`INSERT OR IGNORE INTO accounts (name, type, color) VALUES (?, ?, ?)`,
					d.name, d.accountType, d.color,
				)
				if err != nil {
					return fmt.Errorf("failed to seed account %q: %w", d.name, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Add asset tracking with append-only value history",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS assets (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					account_id INTEGER REFERENCES accounts(id) ON DELETE SET NULL,
					current_value REAL NOT NULL DEFAULT 0,
					purchase_value REAL NOT NULL DEFAULT 0,
					purchase_date DATE,
					notes TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS asset_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					asset_id INTEGER NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
					value REAL NOT NULL,
					recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_asset_history_asset ON asset_history(asset_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	// Apply migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		// Update version
		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
