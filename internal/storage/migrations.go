package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/finanzaspro/finanzas/internal/model"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
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
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS accounts (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					type TEXT NOT NULL,
					balance REAL NOT NULL DEFAULT 0,
					color TEXT,
					icon TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS categories (
					id TEXT PRIMARY KEY,
					name TEXT UNIQUE NOT NULL,
					color TEXT,
					icon TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					amount REAL NOT NULL,
					category_id TEXT NOT NULL,
					account_id TEXT NOT NULL,
					target_account_id TEXT,
					debt_id TEXT,
					description TEXT,
					date DATETIME NOT NULL,
					type TEXT NOT NULL,
					attachments TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
				`CREATE INDEX idx_transactions_account ON transactions(account_id)`,
				`CREATE INDEX idx_transactions_category ON transactions(category_id)`,
				`CREATE INDEX idx_transactions_type ON transactions(type)`,

				`CREATE TABLE IF NOT EXISTS debts (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					total_amount REAL NOT NULL,
					remaining_amount REAL NOT NULL,
					interest_rate REAL DEFAULT 0,
					due_date DATETIME,
					type TEXT NOT NULL,
					icon TEXT,
					color TEXT
				)`,

				`CREATE TABLE IF NOT EXISTS obligations (
					id TEXT PRIMARY KEY,
					description TEXT NOT NULL,
					amount REAL NOT NULL,
					category_id TEXT NOT NULL,
					account_id TEXT NOT NULL,
					due_date DATETIME NOT NULL,
					is_paid BOOLEAN NOT NULL DEFAULT 0,
					is_recurring BOOLEAN NOT NULL DEFAULT 0
				)`,
				`CREATE INDEX idx_obligations_due ON obligations(due_date)`,
				`CREATE INDEX idx_obligations_paid ON obligations(is_paid)`,

				`CREATE TABLE IF NOT EXISTS budgets (
					category_id TEXT PRIMARY KEY,
					limit_amount REAL NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS settings (
					id INTEGER PRIMARY KEY CHECK (id = 1),
					user_name TEXT NOT NULL,
					currency TEXT NOT NULL,
					primary_color TEXT,
					secondary_color TEXT,
					accent_color TEXT,
					logo TEXT,
					ai_api_key TEXT
				)`,
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
		Description: "Seed default categories, accounts, and settings",
		Up: func(tx *sql.Tx) error {
			for _, cat := range model.DefaultCategories() {
				_, err := tx.Exec(
					`INSERT OR IGNORE INTO categories (id, name, color, icon) VALUES (?, ?, ?, ?)`,
					cat.ID, cat.Name, cat.Color, cat.Icon,
				)
				if err != nil {
					return fmt.Errorf("failed to seed category %q: %w", cat.Name, err)
				}
			}

			for _, acc := range model.DefaultAccounts() {
				_, err := tx.Exec(
					`INSERT OR IGNORE INTO accounts (id, name, type, balance, color, icon) VALUES (?, ?, ?, ?, ?, ?)`,
					acc.ID, acc.Name, acc.Type, acc.Balance, acc.Color, acc.Icon,
				)
				if err != nil {
					return fmt.Errorf("failed to seed account %q: %w", acc.Name, err)
				}
			}

			defaults := model.DefaultSettings()
			_, err := tx.Exec(
				`INSERT OR IGNORE INTO settings (id, user_name, currency, primary_color, secondary_color, accent_color)
				 VALUES (1, ?, ?, ?, ?, ?)`,
				defaults.UserName, defaults.Currency, defaults.PrimaryColor, defaults.SecondaryColor, defaults.AccentColor,
			)
			if err != nil {
				return fmt.Errorf("failed to seed settings: %w", err)
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Index debt payments by debt",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_transactions_debt ON transactions(debt_id) WHERE debt_id IS NOT NULL`)
			return err
		},
	},
}

// Migrate brings the database schema up to the expected version.
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
