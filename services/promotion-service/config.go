package promotionservice

import "os"

// Config holds all configuration for the promotion service.
type Config struct {
	// DatabaseURL selects the gorm/postgres store; empty keeps coupons in
	// memory.
	DatabaseURL string
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() Config {
	return Config{DatabaseURL: getEnv("PROMOTION_DATABASE_URL", os.Getenv("DATABASE_URL"))}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
