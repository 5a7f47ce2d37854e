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
	"tasbih/internal/schedule"
)

// handleAIMessage turns free-form text into a counting or goal action.
// Without a configured AI client the bot only speaks commands.
func (h *Handlers) handleAIMessage(ctx context.Context, msg *tgbotapi.Message) {
	if h.ai == nil {
		h.sendMessage(msg.Chat.ID, "I only understand commands, see /help")
		return
	}

	intent, err := h.ai.ParseIntent(ctx, msg.Text)
	if err != nil {
		log.Printf("Failed to parse intent: %v", err)
		h.sendMessage(msg.Chat.ID, "I could not work that out, see /help")
		return
	}

	switch intent.Action {
	case "create_target":
		h.aiCreateTarget(ctx, msg, intent.Parameters, intent.Reply)
	case "add_count":
		h.aiAddCount(ctx, msg, intent.Parameters)
	case "set_reminder":
		h.aiSetReminder(ctx, msg, intent.Parameters)
	case "show_stats":
		h.handleStats(ctx, msg)
	case "list_targets":
		h.handleTargetList(ctx, msg)
	default:
		reply := intent.Reply
		if reply == "" {
			reply = "I can count dhikr and track goals, see /help"
		}
		h.sendMessage(msg.Chat.ID, reply)
	}
}

func (h *Handlers) aiCreateTarget(ctx context.Context, msg *tgbotapi.Message, params map[string]string, reply string) {
	title := strings.TrimSpace(params["title"])
	targetCount, err := strconv.Atoi(params["target_count"])
	if title == "" || err != nil || targetCount <= 0 {
		h.sendMessage(msg.Chat.ID, "Tell me the dhikr and how many times, e.g. \"1000 salawat by Friday\"")
		return
	}

	var deadline *time.Time
	if d, err := time.Parse("2006-01-02", params["deadline"]); err == nil {
		deadline = &d
	}

	target := &models.Target{
		Title:        title,
		TargetCount:  targetCount,
		Status:       models.StatusActive,
		Deadline:     deadline,
		ReminderType: models.ReminderNone,
	}
	if err := h.repos.Target.Create(ctx, target); err != nil {
		log.Printf("Failed to create target from intent: %v", err)
		h.sendMessage(msg.Chat.ID, "Failed to create the goal, please try again")
		return
	}

	if reply == "" {
		reply = fmt.Sprintf("🏆 Goal *%s* created (#%d)", target.Title, target.TargetID)
	} else {
		reply += fmt.Sprintf(" (goal #%d)", target.TargetID)
	}
	h.sendMessage(msg.Chat.ID, reply)
}

func (h *Handlers) aiAddCount(ctx context.Context, msg *tgbotapi.Message, params map[string]string) {
	count, err := strconv.Atoi(params["count"])
	if err != nil || count <= 0 {
		count = 1
	}
	var targetID *int
	if id, err := strconv.Atoi(params["target_id"]); err == nil {
		targetID = &id
	}

	reply, err := h.addCount(ctx, targetID, count)
	if err != nil {
		log.Printf("Failed to record count from intent: %v", err)
		h.sendMessage(msg.Chat.ID, "Failed to record the count, please try again")
		return
	}
	h.sendMessage(msg.Chat.ID, reply)
}

func (h *Handlers) aiSetReminder(ctx context.Context, msg *tgbotapi.Message, params map[string]string) {
	targetID, err := strconv.Atoi(params["target_id"])
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Which goal? Tell me its number, see /targets")
		return
	}
	target, err := h.repos.Target.GetByID(ctx, targetID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("Goal #%d not found", targetID))
		return
	}

	if gapStr, ok := params["gap_minutes"]; ok {
		gap, err := strconv.Atoi(gapStr)
		if err != nil || gap <= 0 {
			h.sendMessage(msg.Chat.ID, "I need the delay in minutes for that reminder")
			return
		}
		now := time.Now()
		target.ReminderType = models.ReminderOneOff
		target.StartTime = &now
		target.ReminderGap = gap
		target.Frequency = ""
		target.ReminderTime = ""
		target.ReminderDays = nil
	} else {
		clock := params["time"]
		if _, _, err := schedule.ParseClock(clock); err != nil {
			h.sendMessage(msg.Chat.ID, "I need a time like 09:00 for that reminder")
			return
		}
		target.ReminderType = models.ReminderRecurring
		target.StartTime = nil
		target.ReminderGap = 0
		target.ReminderTime = clock
		target.ReminderDays = nil
		switch params["frequency"] {
		case "weekly":
			target.Frequency = models.FrequencyWeekly
			for _, field := range strings.Split(params["days"], ",") {
				if d, err := strconv.Atoi(strings.TrimSpace(field)); err == nil && d >= 0 && d <= 6 {
					target.ReminderDays = append(target.ReminderDays, int32(d))
				}
			}
		default:
			target.Frequency = models.FrequencyDaily
		}
		if _, err := schedule.Rule(target, time.Now()); err != nil {
			log.Printf("Rejected reminder intent for target %d: %v", targetID, err)
			h.sendMessage(msg.Chat.ID, "That reminder schedule is not valid")
			return
		}
	}

	if err := h.repos.Target.SetReminder(ctx, target); err != nil {
		log.Printf("Failed to save reminder from intent: %v", err)
		h.sendMessage(msg.Chat.ID, "Failed to save the reminder, please try again")
		return
	}
	h.sched.Notify()
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("⏰ Reminder for *%s*: %s", target.Title, schedule.Describe(target)))
}
