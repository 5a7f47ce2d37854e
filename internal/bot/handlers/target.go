package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tasbih/internal/adhkar"
	"tasbih/internal/models"
	"tasbih/internal/schedule"
)

func (h *Handlers) handleTargetAdd(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		h.sendMessage(msg.Chat.ID, "Usage: /target <count> <title> [by YYYY-MM-DD]\nExample: /target 1000 Salawat by 2026-09-30")
		return
	}

	targetCount, err := strconv.Atoi(args[0])
	if err != nil || targetCount <= 0 {
		h.sendMessage(msg.Chat.ID, "The first argument must be the goal count")
		return
	}

	titleWords := args[1:]
	var deadline *time.Time
	if len(titleWords) >= 2 && titleWords[len(titleWords)-2] == "by" {
		if d, err := time.Parse("2006-01-02", titleWords[len(titleWords)-1]); err == nil {
			deadline = &d
			titleWords = titleWords[:len(titleWords)-2]
		}
	}
	if len(titleWords) == 0 {
		h.sendMessage(msg.Chat.ID, "Please give the goal a title")
		return
	}

	target := &models.Target{
		Title:        strings.Join(titleWords, " "),
		TargetCount:  targetCount,
		Status:       models.StatusActive,
		Deadline:     deadline,
		ReminderType: models.ReminderNone,
	}
	if err := h.repos.Target.Create(ctx, target); err != nil {
		log.Printf("Failed to create target: %v", err)
		h.sendMessage(msg.Chat.ID, "Failed to create the goal, please try again")
		return
	}

	reply := fmt.Sprintf("🏆 Goal *%s* created (#%d), counting to %d.", target.Title, target.TargetID, target.TargetCount)
	if deadline != nil {
		reply += fmt.Sprintf("\n📅 Deadline %s", deadline.Format("2006-01-02"))
	}
	reply += "\nAdd a reminder with /remind " + strconv.Itoa(target.TargetID)
	h.sendMessage(msg.Chat.ID, reply)
}

func (h *Handlers) handleTargetList(ctx context.Context, msg *tgbotapi.Message) {
	targets, err := h.repos.Target.GetActive(ctx)
	if err != nil {
		log.Printf("Failed to list targets: %v", err)
		h.sendMessage(msg.Chat.ID, "Failed to load your goals, please try again")
		return
	}

	if len(targets) == 0 {
		h.sendMessage(msg.Chat.ID, "🏆 No active goals. Create one with /target or /adhkar")
		return
	}

	now := time.Now()
	var sb strings.Builder
	sb.WriteString("🏆 *Active Goals*\n\n")
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, target := range targets {
		sb.WriteString(fmt.Sprintf("*#%d %s*\n", target.TargetID, target.Title))
		sb.WriteString(fmt.Sprintf("%s %d / %d (%d%%)\n",
			progressBar(target.Progress()), target.CurrentCount, target.TargetCount, target.Progress()))
		if days := target.DaysLeft(now); days != nil {
			sb.WriteString(fmt.Sprintf("📅 %d days left\n", *days))
		}
		if target.ReminderType != models.ReminderNone {
			sb.WriteString("⏰ " + schedule.Describe(target))
			if target.IsRecurring() {
				if next, err := schedule.NextOccurrence(target, now); err == nil && next != nil {
					sb.WriteString(" (next: " + next.Format("Mon 15:04") + ")")
				}
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")

		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				"+1 "+target.Title,
				fmt.Sprintf("tap:%d", target.TargetID),
			),
		))
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, sb.String())
	reply.ParseMode = "Markdown"
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := h.api.Send(reply); err != nil {
		log.Printf("Failed to send target list: %v", err)
	}
}

func (h *Handlers) handleAdhkar(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		var sb strings.Builder
		sb.WriteString("📿 *Adhkar Presets*\n\n")
		for i, preset := range adhkar.Presets {
			sb.WriteString(fmt.Sprintf("*%d.* %s ×%d\n_%s_\n\n", i+1, preset.Title, preset.Target, preset.Meaning))
		}
		sb.WriteString("Create a goal from a preset with /adhkar <number>")
		h.sendMessage(msg.Chat.ID, sb.String())
		return
	}

	index, err := strconv.Atoi(args)
	if err != nil || index < 1 || index > len(adhkar.Presets) {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("Pick a preset between 1 and %d", len(adhkar.Presets)))
		return
	}

	preset := adhkar.Presets[index-1]
	target := &models.Target{
		Title:        preset.Title,
		TargetCount:  preset.Target,
		Status:       models.StatusActive,
		ReminderType: models.ReminderNone,
	}
	if err := h.repos.Target.Create(ctx, target); err != nil {
		log.Printf("Failed to create preset target: %v", err)
		h.sendMessage(msg.Chat.ID, "Failed to create the goal, please try again")
		return
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("🏆 Goal *%s* ×%d created (#%d)", preset.Title, preset.Target, target.TargetID))
}

func (h *Handlers) handleTargetDone(ctx context.Context, msg *tgbotapi.Message) {
	h.setTargetStatus(ctx, msg, models.StatusCompleted, "🏆 Goal #%d marked completed")
}

func (h *Handlers) handleTargetArchive(ctx context.Context, msg *tgbotapi.Message) {
	h.setTargetStatus(ctx, msg, models.StatusArchived, "🗄 Goal #%d archived")
}

func (h *Handlers) setTargetStatus(ctx context.Context, msg *tgbotapi.Message, status models.TargetStatus, confirmFormat string) {
	targetID, ok := h.parseTargetID(msg)
	if !ok {
		return
	}
	if err := h.repos.Target.SetStatus(ctx, targetID, status); err != nil {
		log.Printf("Failed to set status of target %d: %v", targetID, err)
		h.sendMessage(msg.Chat.ID, "Failed to update the goal, check the number")
		return
	}
	h.sched.Notify()
	h.sendMessage(msg.Chat.ID, fmt.Sprintf(confirmFormat, targetID))
}

func (h *Handlers) handleTargetDelete(ctx context.Context, msg *tgbotapi.Message) {
	targetID, ok := h.parseTargetID(msg)
	if !ok {
		return
	}
	if err := h.repos.Target.Delete(ctx, targetID); err != nil {
		log.Printf("Failed to delete target %d: %v", targetID, err)
		h.sendMessage(msg.Chat.ID, "Failed to delete the goal, check the number")
		return
	}
	h.sched.Notify()
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("🗑 Goal #%d deleted", targetID))
}

func (h *Handlers) parseTargetID(msg *tgbotapi.Message) (int, bool) {
	args := strings.TrimSpace(msg.CommandArguments())
	targetID, err := strconv.Atoi(strings.TrimPrefix(args, "#"))
	if args == "" || err != nil {
		h.sendMessage(msg.Chat.ID, "Please give the goal number, see /targets")
		return 0, false
	}
	return targetID, true
}

const progressBarWidth = 10

func progressBar(percent int) string {
	filled := percent * progressBarWidth / 100
	return strings.Repeat("▣", filled) + strings.Repeat("▢", progressBarWidth-filled)
}
