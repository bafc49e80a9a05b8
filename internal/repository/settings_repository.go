package repository

import (
	"context"
	"errors"

	"jobtrack/internal/database"

	"github.com/jackc/pgx/v5"
)

// SettingsRepository is a narrow key/value store for site-wide settings
// (site_name, maintenance_mode). Values are opaque strings.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type PostgresSettingsRepository struct {
	db database.DB
}

func NewPostgresSettingsRepository(db database.DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

func (r *PostgresSettingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	row := r.db.QueryRow(ctx, `SELECT COALESCE(value, '') FROM site_settings WHERE key = $1`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (r *PostgresSettingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO site_settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	return err
}

var _ SettingsRepository = (*PostgresSettingsRepository)(nil)
