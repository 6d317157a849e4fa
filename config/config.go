package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, loaded from environment variables.
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// Upstream data sources. The base URLs are overridable so tests can
	// point the clients at a local server.
	QuoteAPIBaseURL    string
	ScreenerAPIBaseURL string
	ScreenerAPIKey     string
	HTTPTimeout        time.Duration

	// Alert evaluation loop.
	AlertInterval time.Duration

	// Streaming quote feed.
	StreamInterval time.Duration

	// Outbound push notifications. Empty webhook URL means notifications
	// are written to the process log instead.
	NotifyWebhookURL string
	NotifyTimeout    time.Duration

	// Inbound per-IP rate limiting on the API group.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

var AppConfig *Config

// LoadConfig loads environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		QuoteAPIBaseURL:    getEnv("QUOTE_API_URL", "https://query1.finance.yahoo.com"),
		ScreenerAPIBaseURL: getEnv("SCREENER_API_URL", "https://financialmodelingprep.com"),
		ScreenerAPIKey:     getEnv("SCREENER_API_KEY", ""),
		HTTPTimeout:        getEnvDuration("HTTP_TIMEOUT_SECONDS", 10*time.Second),

		AlertInterval:  getEnvDuration("ALERT_INTERVAL_SECONDS", 30*time.Second),
		StreamInterval: getEnvDuration("STREAM_INTERVAL_SECONDS", 5*time.Second),

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		NotifyTimeout:    getEnvDuration("NOTIFY_TIMEOUT_SECONDS", 5*time.Second),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW_SECONDS", 60*time.Second),
	}

	AppConfig = config
	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets a positive integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("Invalid value for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// getEnvDuration reads a whole-seconds environment variable as a duration.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("Invalid value for %s: %q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return time.Duration(n) * time.Second
}
