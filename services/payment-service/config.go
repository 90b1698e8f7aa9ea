package paymentservice

import "os"

type Config struct {
	DatabaseURL string // PAYMENT_DATABASE_URL, then DATABASE_URL; empty keeps payments in memory
	Currency    string // PAYMENT_CURRENCY
}

func LoadConfig() Config {
	return Config{
		DatabaseURL: getEnv("PAYMENT_DATABASE_URL", os.Getenv("DATABASE_URL")),
		Currency:    getEnv("PAYMENT_CURRENCY", "usd"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
