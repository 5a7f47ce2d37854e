package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tasbih/internal/models"
)

func (h *Handlers) handleCount(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())

	var targetID *int
	count := 1
	var err error

	switch len(args) {
	case 0:
	case 1:
		if count, err = strconv.Atoi(args[0]); err != nil || count <= 0 {
			h.sendMessage(msg.Chat.ID, "Usage: /count [n] or /count <goal> <n>")
			return
		}
	case 2:
		id, errID := strconv.Atoi(args[0])
		count, err = strconv.Atoi(args[1])
		if errID != nil || err != nil || count <= 0 {
			h.sendMessage(msg.Chat.ID, "Usage: /count [n] or /count <goal> <n>")
			return
		}
		targetID = &id
	default:
		h.sendMessage(msg.Chat.ID, "Usage: /count [n] or /count <goal> <n>")
		return
	}

	reply, err := h.addCount(ctx, targetID, count)
	if err != nil {
		log.Printf("Failed to record count: %v", err)
		h.sendMessage(msg.Chat.ID, "Failed to record the count, please try again")
		return
	}
	h.sendMessage(msg.Chat.ID, reply)
}

// handleTap handles the +1 inline button under a goal listing
func (h *Handlers) handleTap(ctx context.Context, chatID int64, targetID int) {
	reply, err := h.addCount(ctx, &targetID, 1)
	if err != nil {
		log.Printf("Failed to record tap: %v", err)
		return
	}
	h.sendMessage(chatID, reply)
}

// addCount writes the activity log entry and, when a goal is named,
// advances its tally. Reaching the goal marks it completed.
func (h *Handlers) addCount(ctx context.Context, targetID *int, count int) (string, error) {
	now := time.Now()
	entry := &models.Log{
		Count:     count,
		TargetID:  targetID,
		Timestamp: now,
		DateStr:   now.Format(models.DateLayout),
	}
	if err := h.repos.Log.Create(ctx, entry); err != nil {
		return "", fmt.Errorf("failed to log count: %w", err)
	}

	if targetID == nil {
		return fmt.Sprintf("📿 +%d recorded", count), nil
	}

	target, err := h.repos.Target.GetByID(ctx, *targetID)
	if err != nil {
		return "", fmt.Errorf("failed to load target %d: %w", *targetID, err)
	}

	newCount, err := h.repos.Target.IncrementCount(ctx, target.TargetID, count)
	if err != nil {
		return "", fmt.Errorf("failed to advance target %d: %w", target.TargetID, err)
	}

	// Counting changes reminder eligibility, re-check promptly
	h.sched.Notify()

	if target.Status == models.StatusActive && newCount >= target.TargetCount {
		if err := h.repos.Target.SetStatus(ctx, target.TargetID, models.StatusCompleted); err != nil {
			log.Printf("Failed to complete target %d: %v", target.TargetID, err)
		} else {
			return fmt.Sprintf("🏆 *%s* completed! %d / %d — may it be accepted.",
				target.Title, newCount, target.TargetCount), nil
		}
	}

	return fmt.Sprintf("📿 *%s*: %d / %d", target.Title, newCount, target.TargetCount), nil
}

func (h *Handlers) handleToday(ctx context.Context, msg *tgbotapi.Message) {
	today := time.Now().Format(models.DateLayout)
	total, err := h.repos.Log.TotalForDate(ctx, today)
	if err != nil {
		log.Printf("Failed to get today's total: %v", err)
		h.sendMessage(msg.Chat.ID, "Failed to load today's total, please try again")
		return
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("🌙 Today: *%d* repetitions", total))
}
