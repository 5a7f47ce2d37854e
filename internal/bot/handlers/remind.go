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

var weekdayIndices = map[string]int32{
	"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
}

const remindUsage = `Usage:
/remind <goal> after <minutes> - once, if the goal is untouched that long
/remind <goal> daily <HH:MM>
/remind <goal> weekly <HH:MM> <mon,wed,...>
/remind <goal> off`

func (h *Handlers) handleRemind(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		h.sendMessage(msg.Chat.ID, remindUsage)
		return
	}

	targetID, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Please give the goal number first, see /targets")
		return
	}

	target, err := h.repos.Target.GetByID(ctx, targetID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("Goal #%d not found", targetID))
		return
	}

	switch args[1] {
	case "off":
		target.ReminderType = models.ReminderNone
		target.StartTime = nil
		target.ReminderGap = 0
		target.Frequency = ""
		target.ReminderTime = ""
		target.ReminderDays = nil

	case "after":
		if len(args) != 3 {
			h.sendMessage(msg.Chat.ID, remindUsage)
			return
		}
		gap, err := strconv.Atoi(args[2])
		if err != nil || gap <= 0 {
			h.sendMessage(msg.Chat.ID, "Give the delay in minutes, e.g. /remind 1 after 30")
			return
		}
		now := time.Now()
		target.ReminderType = models.ReminderOneOff
		target.StartTime = &now
		target.ReminderGap = gap
		target.Frequency = ""
		target.ReminderTime = ""
		target.ReminderDays = nil

	case "daily", "weekly":
		if len(args) < 3 {
			h.sendMessage(msg.Chat.ID, remindUsage)
			return
		}
		clock := args[2]
		if _, _, err := schedule.ParseClock(clock); err != nil {
			h.sendMessage(msg.Chat.ID, "Time must be HH:MM, e.g. 09:00")
			return
		}

		target.ReminderType = models.ReminderRecurring
		target.StartTime = nil
		target.ReminderGap = 0
		target.ReminderTime = clock
		target.ReminderDays = nil
		if args[1] == "daily" {
			target.Frequency = models.FrequencyDaily
		} else {
			if len(args) != 4 {
				h.sendMessage(msg.Chat.ID, "Give the weekdays, e.g. /remind 1 weekly 18:00 mon,wed")
				return
			}
			days, err := parseWeekdays(args[3])
			if err != nil {
				h.sendMessage(msg.Chat.ID, err.Error())
				return
			}
			target.Frequency = models.FrequencyWeekly
			target.ReminderDays = days
		}

		// Validate the combination as a recurrence rule before saving
		if _, err := schedule.Rule(target, time.Now()); err != nil {
			log.Printf("Rejected reminder config for target %d: %v", targetID, err)
			h.sendMessage(msg.Chat.ID, "That reminder schedule is not valid")
			return
		}

	default:
		h.sendMessage(msg.Chat.ID, remindUsage)
		return
	}

	if err := h.repos.Target.SetReminder(ctx, target); err != nil {
		log.Printf("Failed to save reminder for target %d: %v", targetID, err)
		h.sendMessage(msg.Chat.ID, "Failed to save the reminder, please try again")
		return
	}
	h.sched.Notify()

	if target.ReminderType == models.ReminderNone {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("🔕 Reminder removed from *%s*", target.Title))
		return
	}
	reply := fmt.Sprintf("⏰ Reminder for *%s*: %s", target.Title, schedule.Describe(target))
	if target.IsRecurring() {
		if next, err := schedule.NextOccurrence(target, time.Now()); err == nil && next != nil {
			reply += fmt.Sprintf("\nNext: %s", next.Format("Mon 2006-01-02 15:04"))
		}
	}
	h.sendMessage(msg.Chat.ID, reply)
}

func parseWeekdays(arg string) ([]int32, error) {
	var days []int32
	seen := make(map[int32]bool)
	for _, name := range strings.Split(strings.ToLower(arg), ",") {
		index, ok := weekdayIndices[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("Unknown weekday %q, use mon,tue,wed,thu,fri,sat,sun", name)
		}
		if !seen[index] {
			seen[index] = true
			days = append(days, index)
		}
	}
	return days, nil
}
