package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURI          string
	TelegramToken        string
	OwnerChatID          int64 // 0 until bound via /start
	Timezone             string
	CheckIntervalSeconds int
	AIAPIKey             string
	AIBaseURL            string
	AIModel              string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	ownerChatID, _ := strconv.ParseInt(os.Getenv("OWNER_CHAT_ID"), 10, 64)
	checkInterval, err := strconv.Atoi(getEnvOrDefault("CHECK_INTERVAL_SECONDS", "20"))
	if err != nil {
		checkInterval = 20
	}

	return &Config{
		DatabaseURI:          os.Getenv("DATABASE_URI"),
		TelegramToken:        os.Getenv("TELEGRAM_TOKEN"),
		OwnerChatID:          ownerChatID,
		Timezone:             os.Getenv("TIMEZONE"),
		CheckIntervalSeconds: checkInterval,
		AIAPIKey:             os.Getenv("AI_API_KEY"),
		AIBaseURL:            getEnvOrDefault("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AIModel:              getEnvOrDefault("AI_MODEL", "openai/gpt-4o-mini"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
