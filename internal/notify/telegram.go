package notify

import (
	"context"
	"fmt"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tasbih/internal/repository"
)

// TelegramNotifier delivers reminders to the owner's chat. Permission is
// derived from the settings row: unbound chat reads as not-yet-asked,
// a bound chat with notifications switched off reads as denied.
type TelegramNotifier struct {
	api      *tgbotapi.BotAPI
	settings *repository.SettingsRepository

	mu       sync.Mutex
	lastSent map[string]int // tag -> message ID of the previous alert
}

func NewTelegramNotifier(api *tgbotapi.BotAPI, settings *repository.SettingsRepository) *TelegramNotifier {
	return &TelegramNotifier{
		api:      api,
		settings: settings,
		lastSent: make(map[string]int),
	}
}

func (t *TelegramNotifier) Permission(ctx context.Context) Permission {
	settings, err := t.settings.Get(ctx)
	if err != nil {
		log.Printf("Failed to read settings: %v", err)
		return PermissionDefault
	}
	if settings.ChatID == nil {
		return PermissionDefault
	}
	if !settings.NotificationsEnabled {
		return PermissionDenied
	}
	return PermissionGranted
}

func (t *TelegramNotifier) Send(ctx context.Context, n Notification) error {
	settings, err := t.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if settings.ChatID == nil {
		return fmt.Errorf("no chat bound, cannot deliver notification")
	}
	chatID := *settings.ChatID

	// Delete the previous alert with the same tag so repeats collapse
	// instead of flooding the chat.
	t.mu.Lock()
	prevID, hasPrev := t.lastSent[n.Tag]
	t.mu.Unlock()
	if hasPrev {
		deleteMsg := tgbotapi.NewDeleteMessage(chatID, prevID)
		if _, err := t.api.Request(deleteMsg); err != nil {
			log.Printf("Failed to delete old notification %d: %v", prevID, err)
			// Continue anyway, the old message might have been deleted by the user
		}
	}

	msg := tgbotapi.NewMessage(chatID, "⏰ *"+n.Title+"*\n\n"+n.Body)
	msg.ParseMode = "Markdown"
	sentMsg, err := t.api.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	t.mu.Lock()
	t.lastSent[n.Tag] = sentMsg.MessageID
	t.mu.Unlock()
	return nil
}
