package orderservice

import "os"

type Config struct {
	DatabaseURL string // ORDER_DATABASE_URL, then DATABASE_URL; empty keeps orders in memory
	SeedOrders  bool   // SEED_ORDERS (default: true)
}

func LoadConfig() Config {
	return Config{
		DatabaseURL: getEnv("ORDER_DATABASE_URL", os.Getenv("DATABASE_URL")),
		SeedOrders:  getEnv("SEED_ORDERS", "true") != "false",
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
