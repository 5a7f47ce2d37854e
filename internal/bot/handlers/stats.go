package handlers

import (
	"context"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tasbih/internal/stats"
)

func (h *Handlers) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	summary, err := h.stats.Weekly(ctx, time.Now())
	if err != nil {
		log.Printf("Failed to build stats: %v", err)
		h.sendMessage(msg.Chat.ID, "Failed to load statistics, please try again")
		return
	}
	h.sendMessage(msg.Chat.ID, stats.Render(summary))
}
