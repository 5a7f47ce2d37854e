package handlers

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handlers) handleNotifications(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.TrimSpace(strings.ToLower(msg.CommandArguments()))
	switch arg {
	case "on":
		if err := h.repos.Settings.SetNotificationsEnabled(ctx, true); err != nil {
			log.Printf("Failed to enable notifications: %v", err)
			h.sendMessage(msg.Chat.ID, "Failed to update settings, please try again")
			return
		}
		h.sched.Notify()
		h.sendMessage(msg.Chat.ID, "🔔 Reminders enabled")
	case "off":
		if err := h.repos.Settings.SetNotificationsEnabled(ctx, false); err != nil {
			log.Printf("Failed to disable notifications: %v", err)
			h.sendMessage(msg.Chat.ID, "Failed to update settings, please try again")
			return
		}
		h.sendMessage(msg.Chat.ID, "🔕 Reminders disabled")
	default:
		settings, err := h.repos.Settings.Get(ctx)
		if err != nil {
			log.Printf("Failed to read settings: %v", err)
			return
		}
		state := "off"
		if settings.NotificationsEnabled {
			state = "on"
		}
		h.sendMessage(msg.Chat.ID, "Reminders are *"+state+"*. Usage: /notifications on|off")
	}
}

// handleReset asks for confirmation before wiping the store
func (h *Handlers) handleReset(ctx context.Context, msg *tgbotapi.Message) {
	reply := tgbotapi.NewMessage(msg.Chat.ID, "⚠️ This deletes ALL goals and history permanently. There is no undo.")
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete everything", "reset_confirm"),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", "reset_cancel"),
		),
	)
	if _, err := h.api.Send(reply); err != nil {
		log.Printf("Failed to send reset confirmation: %v", err)
	}
}

func (h *Handlers) handleResetConfirm(ctx context.Context, chatID int64, messageID int) {
	if err := h.backup.Reset(ctx); err != nil {
		log.Printf("Failed to reset data: %v", err)
		h.editMessageText(chatID, messageID, "Reset failed, nothing was changed")
		return
	}
	h.editMessageText(chatID, messageID, "🗑 All data deleted")
}
