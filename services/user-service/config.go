package userservice

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	AccessTTL     time.Duration // ACCESS_TOKEN_TTL (default: 15m)
	RefreshTTL    time.Duration // REFRESH_TOKEN_TTL (default: 7 days)
	ResetTTL      time.Duration // RESET_TOKEN_TTL (default: 1h)
	ResetURL      string        // RESET_PASSWORD_URL
	CookieDomain  string        // COOKIE_DOMAIN
	CookieSecure  bool          // COOKIE_SECURE (default: false)
	AdminEmail    string        // ADMIN_EMAIL
	AdminPassword string        // ADMIN_PASSWORD
	SeedPassword  string        // SEED_PASSWORD, shared by the demo customers
}

func LoadConfig() Config {
	return Config{
		AccessTTL:     getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:    getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		ResetTTL:      getDuration("RESET_TOKEN_TTL", time.Hour),
		ResetURL:      getEnv("RESET_PASSWORD_URL", "http://localhost:3000/reset-password"),
		CookieDomain:  os.Getenv("COOKIE_DOMAIN"),
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@solartech.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		SeedPassword:  getEnv("SEED_PASSWORD", "solar123"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}
