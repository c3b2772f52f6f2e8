// Package settings_repo stores the single business settings row.
package settings_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/domain/settings"
	"essenceflow/internal/infrastructure/storage/postgres"
)

// settingsKey is the primary key of the only row.
const settingsKey = "business"

type categoryRow struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

type settingsRow struct {
	Name       string        `db:"name"`
	Caption    string        `db:"caption"`
	Email      string        `db:"email"`
	LogoURL    string        `db:"logo_url"`
	Categories []categoryRow `db:"categories"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

// SettingsRepo implements settings.Repository.
type SettingsRepo struct {
	txm *postgres.TxManager
}

var _ settings.Repository = (*SettingsRepo)(nil)

// NewSettingsRepo creates a new settings repository.
func NewSettingsRepo(txm *postgres.TxManager) *SettingsRepo {
	return &SettingsRepo{txm: txm}
}

// Get returns NOT_FOUND until settings are saved for the first time.
func (r *SettingsRepo) Get(ctx context.Context) (*settings.BusinessSettings, error) {
	var row settingsRow
	err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &row, `
		SELECT name, caption, email, logo_url, categories, created_at, updated_at
		FROM business_settings
		WHERE key = $1
	`, settingsKey)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("Settings", settingsKey)
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	out := &settings.BusinessSettings{
		Name:       row.Name,
		Caption:    row.Caption,
		Email:      row.Email,
		LogoURL:    row.LogoURL,
		Categories: make([]settings.Category, 0, len(row.Categories)),
	}
	for _, c := range row.Categories {
		out.Categories = append(out.Categories, settings.Category{Name: c.Name, Unit: c.Unit})
	}
	out.CreatedAt = row.CreatedAt
	out.UpdatedAt = row.UpdatedAt
	return out, nil
}

// Save upserts the settings row.
func (r *SettingsRepo) Save(ctx context.Context, s *settings.BusinessSettings) error {
	categories := make([]categoryRow, 0, len(s.Categories))
	for _, c := range s.Categories {
		categories = append(categories, categoryRow{Name: c.Name, Unit: c.Unit})
	}

	_, err := r.txm.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO business_settings (key, name, caption, email, logo_url, categories, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (key) DO UPDATE SET
			name = EXCLUDED.name,
			caption = EXCLUDED.caption,
			email = EXCLUDED.email,
			logo_url = EXCLUDED.logo_url,
			categories = EXCLUDED.categories,
			updated_at = EXCLUDED.updated_at
	`, settingsKey, s.Name, s.Caption, s.Email, s.LogoURL, categories, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
