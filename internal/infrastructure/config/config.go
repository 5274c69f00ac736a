// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// PostgreSQL
	PostgresDSN string

	// MongoDB
	MongoURI string
	MongoDB  string

	// Fare API
	FareAPIBaseURL string
	FareAPIToken   string
	Currency       string
	LimitPerDate   int
	RoundTripLimit int
	FlexDays       int

	// Telegram
	TelegramBotToken string

	// Watcher
	ScanInterval time.Duration
	ScanBackoff  time.Duration
	SubDelay     time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		PostgresDSN: getEnv("POSTGRES_DSN", "postgres://localhost:5432/farewatch?sslmode=disable"),

		MongoURI: getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "farewatch"),

		FareAPIBaseURL: getEnv("FARE_API_BASE_URL", "https://api.travelpayouts.com/aviasales/v3/prices_for_dates"),
		FareAPIToken:   getEnv("FARE_API_TOKEN", ""),
		Currency:       getEnv("FARE_CURRENCY", "rub"),
		LimitPerDate:   getEnvAsInt("LIMIT_PER_DATE", 10),
		RoundTripLimit: getEnvAsInt("ROUND_TRIP_LIMIT", 5),
		FlexDays:       getEnvAsInt("FLEX_DAYS", 7),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),

		ScanInterval: time.Duration(getEnvAsInt("SCAN_INTERVAL", 600)) * time.Second,
		ScanBackoff:  time.Duration(getEnvAsInt("SCAN_BACKOFF", 60)) * time.Second,
		SubDelay:     time.Duration(getEnvAsInt("SUB_DELAY_MS", 1500)) * time.Millisecond,
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
