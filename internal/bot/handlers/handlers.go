package handlers

import (
	"context"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tasbih/internal/ai"
	"tasbih/internal/backup"
	"tasbih/internal/repository"
	"tasbih/internal/scheduler"
	"tasbih/internal/stats"
)

type Repositories struct {
	Target   *repository.TargetRepository
	Log      *repository.LogRepository
	Settings *repository.SettingsRepository
}

type Handlers struct {
	api    *tgbotapi.BotAPI
	repos  *Repositories
	ai     *ai.Client
	backup *backup.Service
	stats  *stats.Service
	sched  *scheduler.Scheduler
}

func New(api *tgbotapi.BotAPI, repos *Repositories, aiClient *ai.Client, backupSvc *backup.Service, statsSvc *stats.Service, sched *scheduler.Scheduler) *Handlers {
	return &Handlers{
		api:    api,
		repos:  repos,
		ai:     aiClient,
		backup: backupSvc,
		stats:  statsSvc,
		sched:  sched,
	}
}

// authorized reports whether the message comes from the bound owner chat.
// This is a single-user bot; everyone else is ignored.
func (h *Handlers) authorized(ctx context.Context, chatID int64) bool {
	settings, err := h.repos.Settings.Get(ctx)
	if err != nil {
		log.Printf("Failed to read settings: %v", err)
		return false
	}
	return settings.ChatID != nil && *settings.ChatID == chatID
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Command() == "start" {
		h.handleStart(ctx, msg)
		return
	}
	if !h.authorized(ctx, msg.Chat.ID) {
		return
	}

	switch msg.Command() {
	case "help":
		h.handleHelp(ctx, msg)
	case "count":
		h.handleCount(ctx, msg)
	case "today":
		h.handleToday(ctx, msg)
	case "target":
		h.handleTargetAdd(ctx, msg)
	case "targets":
		h.handleTargetList(ctx, msg)
	case "adhkar":
		h.handleAdhkar(ctx, msg)
	case "done":
		h.handleTargetDone(ctx, msg)
	case "archive":
		h.handleTargetArchive(ctx, msg)
	case "delete":
		h.handleTargetDelete(ctx, msg)
	case "remind":
		h.handleRemind(ctx, msg)
	case "stats":
		h.handleStats(ctx, msg)
	case "notifications":
		h.handleNotifications(ctx, msg)
	case "export":
		h.handleExport(ctx, msg)
	case "import":
		h.handleImport(ctx, msg)
	case "reset":
		h.handleReset(ctx, msg)
	default:
		h.sendMessage(msg.Chat.ID, "Unknown command, see /help")
	}
}

func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !h.authorized(ctx, msg.Chat.ID) {
		return
	}
	h.handleAIMessage(ctx, msg)
}

func (h *Handlers) HandleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	// Answer callback to remove loading state
	answer := tgbotapi.NewCallback(callback.ID, "")
	if _, err := h.api.Request(answer); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}

	if callback.Message == nil || !h.authorized(ctx, callback.Message.Chat.ID) {
		return
	}

	parts := strings.Split(callback.Data, ":")
	switch parts[0] {
	case "tap":
		if len(parts) != 2 {
			return
		}
		targetID, err := strconv.Atoi(parts[1])
		if err != nil {
			return
		}
		h.handleTap(ctx, callback.Message.Chat.ID, targetID)
	case "reset_confirm":
		h.handleResetConfirm(ctx, callback.Message.Chat.ID, callback.Message.MessageID)
	case "reset_cancel":
		h.editMessageText(callback.Message.Chat.ID, callback.Message.MessageID, "❌ Reset cancelled")
	}
}

func (h *Handlers) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handlers) editMessageText(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	if _, err := h.api.Send(edit); err != nil {
		log.Printf("Failed to edit message: %v", err)
	}
}

func (h *Handlers) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	settings, err := h.repos.Settings.Get(ctx)
	if err != nil {
		log.Printf("Failed to read settings: %v", err)
		return
	}
	if settings.ChatID != nil && *settings.ChatID != msg.Chat.ID {
		// Already bound to someone else's chat
		return
	}
	if settings.ChatID == nil {
		if err := h.repos.Settings.SetChatID(ctx, msg.Chat.ID); err != nil {
			log.Printf("Failed to bind chat: %v", err)
			h.sendMessage(msg.Chat.ID, "Something went wrong, please try again")
			return
		}
	}

	h.sendMessage(msg.Chat.ID, `👋 As-salamu alaykum!

I am your personal tasbih counter.

📿 Count dhikr with /count or the buttons under /targets
🏆 Track goals with /target and /targets
⏰ Get reminders with /remind
📊 See your progress with /stats

Reminders are now enabled for this chat. Use /help for all commands.`)
}

func (h *Handlers) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	h.sendMessage(msg.Chat.ID, `📖 *Commands*

*Counting*
/count [n] - log n repetitions (default 1)
/count <goal> <n> - count n towards a goal
/today - today's total

*Goals*
/target <count> <title> [by YYYY-MM-DD] - new goal
/targets - list goals with progress
/adhkar [n] - dhikr presets / create goal from preset
/done <goal> - mark completed
/archive <goal> - archive
/delete <goal> - delete

*Reminders*
/remind <goal> after <minutes> - once, if not started in time
/remind <goal> daily <HH:MM> - every day
/remind <goal> weekly <HH:MM> <mon,wed,...> - chosen weekdays
/remind <goal> off - disable

*Data*
/stats - weekly chart and totals
/notifications on|off - reminder delivery
/export - backup as JSON file
/import - reply to a backup file
/reset - delete everything

💡 You can also just tell me things like "count 33 subhanallah"`)
}
