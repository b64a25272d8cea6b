package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finanzaspro/finanzas/internal/model"
)

// UpsertSettings writes the single settings row.
func (s *SQLiteStorage) UpsertSettings(ctx context.Context, settings *model.Settings) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if settings == nil {
		return fmt.Errorf("%w: settings", ErrNilParameter)
	}
	return upsertSettings(ctx, s.db, settings)
}

func (t *sqliteTx) UpsertSettings(ctx context.Context, settings *model.Settings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings", ErrNilParameter)
	}
	return upsertSettings(ctx, t.tx, settings)
}

func upsertSettings(ctx context.Context, q dbtx, settings *model.Settings) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO settings (id, user_name, currency, primary_color, secondary_color, accent_color, logo, ai_api_key)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_name = excluded.user_name,
			currency = excluded.currency,
			primary_color = excluded.primary_color,
			secondary_color = excluded.secondary_color,
			accent_color = excluded.accent_color,
			logo = excluded.logo,
			ai_api_key = excluded.ai_api_key`,
		settings.UserName, settings.Currency, settings.PrimaryColor,
		settings.SecondaryColor, settings.AccentColor,
		nullString(settings.Logo), nullString(settings.AIAPIKey),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	return nil
}

func loadSettings(ctx context.Context, q dbtx) (model.Settings, error) {
	var settings model.Settings
	var logo, apiKey sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT user_name, currency, primary_color, secondary_color, accent_color, logo, ai_api_key
		FROM settings WHERE id = 1`).Scan(
		&settings.UserName, &settings.Currency, &settings.PrimaryColor,
		&settings.SecondaryColor, &settings.AccentColor, &logo, &apiKey,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to load settings: %w", err)
	}
	settings.Logo = logo.String
	settings.AIAPIKey = apiKey.String
	return settings, nil
}
