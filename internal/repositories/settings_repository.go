package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/infinito/platform/internal/models"
)

// settingsRepository stores site settings as JSON documents keyed by name
type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sql.DB) *settingsRepository {
	return &settingsRepository{
		db: db,
	}
}

// Get decodes the setting stored under key into dst.
// It returns ErrNotFound when the key has never been saved.
func (r *settingsRepository) Get(ctx context.Context, key string, dst any) error {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM site_settings WHERE setting_key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return fmt.Errorf("setting %s %w", key, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to query setting %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode setting %s: %w", key, err)
	}
	return nil
}

// Put replaces the setting stored under key with value
func (r *settingsRepository) Put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting %s: %w", key, err)
	}

	query := `
		INSERT INTO site_settings (setting_key, value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value)
	`
	if _, err := r.db.ExecContext(ctx, query, key, raw); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}
