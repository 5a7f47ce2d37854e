package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tasbih/internal/backup"
)

func (h *Handlers) handleExport(ctx context.Context, msg *tgbotapi.Message) {
	data, err := h.backup.Export(ctx)
	if err != nil {
		log.Printf("Failed to export backup: %v", err)
		h.sendMessage(msg.Chat.ID, "Export failed, please try again")
		return
	}

	file := tgbotapi.FileBytes{
		Name:  fmt.Sprintf("tasbih-backup-%s.json", time.Now().Format("2006-01-02")),
		Bytes: data,
	}
	doc := tgbotapi.NewDocument(msg.Chat.ID, file)
	doc.Caption = "💾 Backup of all goals and activity"
	if _, err := h.api.Send(doc); err != nil {
		log.Printf("Failed to send backup document: %v", err)
		h.sendMessage(msg.Chat.ID, "Export failed, please try again")
	}
}

func (h *Handlers) handleImport(ctx context.Context, msg *tgbotapi.Message) {
	if msg.ReplyToMessage == nil || msg.ReplyToMessage.Document == nil {
		h.sendMessage(msg.Chat.ID, "Send your backup file, then reply to it with /import")
		return
	}

	data, err := h.downloadDocument(msg.ReplyToMessage.Document)
	if err != nil {
		log.Printf("Failed to download backup document: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not read the backup file")
		return
	}

	parsed, err := backup.Parse(data)
	if err != nil {
		log.Printf("Rejected backup file: %v", err)
		h.sendMessage(msg.Chat.ID, "Invalid backup file")
		return
	}

	if err := h.backup.Restore(ctx, parsed); err != nil {
		log.Printf("Failed to restore backup: %v", err)
		h.sendMessage(msg.Chat.ID, "Restore failed, nothing was changed")
		return
	}
	h.sched.Notify()

	h.sendMessage(msg.Chat.ID, fmt.Sprintf("✅ Backup restored: %d goals, %d log entries",
		len(parsed.Targets), len(parsed.Logs)))
}

func (h *Handlers) downloadDocument(doc *tgbotapi.Document) ([]byte, error) {
	url, err := h.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s fetching file", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
