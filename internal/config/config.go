package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	AppId       string

	MongoURI string
	DBName   string

	JWTSecret string
	SkipAuth  bool

	// Approval token policy. The TTL is policy, not a fixed requirement:
	// tokens minted before a TTL change keep the expiry they were minted with.
	TokenSecret string
	TokenTTL    time.Duration

	BaseURL     string
	CompanyName string

	// Retention for consumed tokens, sent emails and DB logs.
	RetentionDays int

	TelegramBotToken string
	TelegramChatID   string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "go-approvals"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:   getEnv("DB_NAME", "go-approvals"),

		JWTSecret: getEnv("JWT_SECRET", "secret"),
		SkipAuth:  getEnv("SKIP_AUTH", "false") == "true",

		TokenSecret: getEnv("APPROVAL_TOKEN_SECRET", "approval-secret"),
		TokenTTL:    time.Duration(getEnvInt("APPROVAL_TOKEN_TTL_HOURS", 168)) * time.Hour,

		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		CompanyName: getEnv("COMPANY_NAME", "Acme Inc"),

		RetentionDays: getEnvInt("RETENTION_DAYS", 90),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid integer for %s, using default %d", key, fallback)
	}
	return fallback
}
