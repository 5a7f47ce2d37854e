package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"tasbih/internal/database"
	"tasbih/internal/models"
)

type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the single settings row, or defaults when none exists yet
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	settings := &models.Settings{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT chat_id, notifications_enabled, updated_at FROM settings WHERE singleton`,
	).Scan(&settings.ChatID, &settings.NotificationsEnabled, &settings.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.Settings{NotificationsEnabled: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *SettingsRepository) SetChatID(ctx context.Context, chatID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO settings (singleton, chat_id) VALUES (TRUE, $1)
		 ON CONFLICT (singleton) DO UPDATE SET chat_id = EXCLUDED.chat_id, updated_at = CURRENT_TIMESTAMP`,
		chatID,
	)
	return err
}

func (r *SettingsRepository) SetNotificationsEnabled(ctx context.Context, enabled bool) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO settings (singleton, notifications_enabled) VALUES (TRUE, $1)
		 ON CONFLICT (singleton) DO UPDATE SET notifications_enabled = EXCLUDED.notifications_enabled, updated_at = CURRENT_TIMESTAMP`,
		enabled,
	)
	return err
}
