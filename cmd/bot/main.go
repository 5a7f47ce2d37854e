package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tasbih/internal/ai"
	"tasbih/internal/backup"
	"tasbih/internal/bot"
	"tasbih/internal/bot/handlers"
	"tasbih/internal/config"
	"tasbih/internal/database"
	"tasbih/internal/notify"
	"tasbih/internal/repository"
	"tasbih/internal/scheduler"
	"tasbih/internal/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	loc := time.Local
	if cfg.Timezone != "" {
		if loc, err = time.LoadLocation(cfg.Timezone); err != nil {
			log.Fatalf("Invalid TIMEZONE %q: %v", cfg.Timezone, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	targetRepo := repository.NewTargetRepository(db)
	logRepo := repository.NewLogRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Pre-bind the owner chat when configured, so reminders work before
	// the first /start after a fresh database
	if cfg.OwnerChatID != 0 {
		if err := settingsRepo.SetChatID(ctx, cfg.OwnerChatID); err != nil {
			log.Fatalf("Failed to bind owner chat: %v", err)
		}
	}

	var aiClient *ai.Client
	if cfg.AIAPIKey != "" {
		aiClient = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		log.Printf("AI client initialized (model: %s)", cfg.AIModel)
	} else {
		log.Println("AI client not configured, natural language input disabled")
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to create Telegram API: %v", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	notifier := notify.NewTelegramNotifier(api, settingsRepo)

	sched := scheduler.New(targetRepo, notifier, loc,
		time.Duration(cfg.CheckIntervalSeconds)*time.Second)
	go sched.Start(ctx)

	backupSvc := backup.NewService(db, logRepo, targetRepo)
	statsSvc := stats.NewService(logRepo)

	repos := &handlers.Repositories{
		Target:   targetRepo,
		Log:      logRepo,
		Settings: settingsRepo,
	}
	h := handlers.New(api, repos, aiClient, backupSvc, statsSvc, sched)
	b := bot.New(api, h)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	log.Println("Starting bot...")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot error: %v", err)
	}
}
