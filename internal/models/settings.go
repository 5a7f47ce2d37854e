package models

import "time"

// Settings is the single-row owner binding for this installation. The bot
// serves exactly one person; ChatID is learned from /start.
type Settings struct {
	ChatID               *int64    `json:"chat_id"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	UpdatedAt            time.Time `json:"updated_at"`
}
