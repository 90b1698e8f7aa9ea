package notificationservice

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string // NOTIFICATION_DATABASE_URL; empty keeps logs in memory
	QueueURL    string // SQS_QUEUE_URL, then NOTIFICATION_SQS_QUEUE_URL
	StoreName   string // STORE_NAME (default: SolarTech)
	MaxAttempts int    // NOTIFICATION_MAX_ATTEMPTS (default: 3)
	RetryDelay  time.Duration
	LogLimit    int // in-memory log and outbox size

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

func LoadConfig() Config {
	return Config{
		DatabaseURL:  os.Getenv("NOTIFICATION_DATABASE_URL"),
		QueueURL:     getEnv("SQS_QUEUE_URL", os.Getenv("NOTIFICATION_SQS_QUEUE_URL")),
		StoreName:    getEnv("STORE_NAME", "SolarTech"),
		MaxAttempts:  getInt("NOTIFICATION_MAX_ATTEMPTS", 3),
		RetryDelay:   getDuration("NOTIFICATION_RETRY_DELAY", time.Second),
		LogLimit:     getInt("NOTIFICATION_LOG_LIMIT", 500),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}
