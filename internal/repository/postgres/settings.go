package postgres

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/jmoiron/sqlx"

	"hypertracker/internal/domain/settings"
	"hypertracker/pkg/errors"
)

// Compile-time check
var _ settings.Repository = (*SettingsRepository)(nil)

// SettingsRepository implements settings.Repository using sqlx
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the value stored under key
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var setting settings.Setting

	query := `SELECT key, value FROM settings WHERE key = $1 LIMIT 1`

	err := r.db.GetContext(ctx, &setting, query, key)
	if err == sql.ErrNoRows {
		return "", errors.Wrapf(errors.ErrConfigMissing, "setting %q", key)
	}
	if err != nil {
		return "", errors.Wrapf(errors.ErrPersistence, "read setting %q: %v", key, err)
	}

	return setting.Value, nil
}

// GetFloat returns the value stored under key parsed as a float
func (r *SettingsRepository) GetFloat(ctx context.Context, key string) (float64, error) {
	value, err := r.Get(ctx, key)
	if err != nil {
		return 0, err
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrConfigInvalid, "setting %q: %q is not numeric", key, value)
	}

	return parsed, nil
}
