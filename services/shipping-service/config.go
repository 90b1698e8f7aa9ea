package shippingservice

import "os"

// Config holds the environment for shipping.
type Config struct {
	DatabaseURL     string // SHIPPING_DATABASE_URL, then DATABASE_URL; empty keeps shipments in memory
	TrackingBaseURL string // TRACKING_BASE_URL
}

func LoadConfig() Config {
	return Config{
		DatabaseURL:     getEnv("SHIPPING_DATABASE_URL", os.Getenv("DATABASE_URL")),
		TrackingBaseURL: getEnv("TRACKING_BASE_URL", "https://track.solartech.example"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
