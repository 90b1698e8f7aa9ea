package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by every mounted service. Per-service
// settings live in each service's own config.go.
type Config struct {
	Addr            string        // BFF_SERVICE_ADDR (default: :8000)
	Env             string        // APP_ENV; "production" switches to JSON logs
	AllowedOrigins  []string      // CORS_ALLOWED_ORIGINS, comma separated
	RequestTimeout  time.Duration // REQUEST_TIMEOUT (default: 30s)
	ShutdownTimeout time.Duration
	RateLimit       float64 // RATE_LIMIT_RPS per client IP (default: 20)
	RateBurst       int     // RATE_LIMIT_BURST (default: 40)
	AuthRateLimit   float64 // AUTH_RATE_LIMIT_RPS for /auth (default: 2)
	LatencyScale    float64 // LATENCY_SCALE; 0 disables simulated latency
	TrustGateway    bool    // TRUST_GATEWAY_HEADERS

	JWTSecret     string // JWT_SECRET
	JWTSecretName string // JWT_SECRET_NAME, read from Secrets Manager when set

	RedisURL string // REDIS_URL; empty keeps carts, caches and reset tokens in memory

	AWSRegion         string // AWS_REGION
	AWSEndpoint       string // AWS_ENDPOINT_URL (LocalStack)
	EventsTopicARN    string // EVENTS_TOPIC_ARN
	CloudWatchEnabled bool   // CLOUDWATCH_ENABLED
	LogGroup          string // CLOUDWATCH_LOG_GROUP
	MetricsNamespace  string // METRICS_NAMESPACE
}

// Load reads .env when present, then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return Config{
		Addr:              getEnv("BFF_SERVICE_ADDR", ":8000"),
		Env:               getEnv("APP_ENV", "development"),
		AllowedOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		RequestTimeout:    getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:   10 * time.Second,
		RateLimit:         getFloat("RATE_LIMIT_RPS", 20),
		RateBurst:         int(getFloat("RATE_LIMIT_BURST", 40)),
		AuthRateLimit:     getFloat("AUTH_RATE_LIMIT_RPS", 2),
		LatencyScale:      getFloat("LATENCY_SCALE", 1),
		TrustGateway:      os.Getenv("TRUST_GATEWAY_HEADERS") == "true",
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTSecretName:     os.Getenv("JWT_SECRET_NAME"),
		RedisURL:          os.Getenv("REDIS_URL"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		AWSEndpoint:       os.Getenv("AWS_ENDPOINT_URL"),
		EventsTopicARN:    os.Getenv("EVENTS_TOPIC_ARN"),
		CloudWatchEnabled: os.Getenv("CLOUDWATCH_ENABLED") == "true",
		LogGroup:          getEnv("CLOUDWATCH_LOG_GROUP", "/storefront/bff"),
		MetricsNamespace:  getEnv("METRICS_NAMESPACE", "SolarTech"),
	}
}

// NeedsAWS reports whether any configured feature talks to AWS.
func (c Config) NeedsAWS() bool {
	return c.JWTSecretName != "" || c.EventsTopicARN != "" || c.CloudWatchEnabled ||
		os.Getenv("SETTINGS_TABLE") != "" || os.Getenv("AWS_S3_BUCKET") != "" ||
		os.Getenv("SQS_QUEUE_URL") != "" || os.Getenv("NOTIFICATION_SQS_QUEUE_URL") != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && f >= 0 {
		return f
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
