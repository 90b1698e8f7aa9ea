package productservice

import (
	"os"
	"strconv"
	"time"
)

// Config holds the environment for the catalog.
type Config struct {
	MongoURI      string        // MONGO_URI; empty keeps the in-memory catalog
	MongoDatabase string        // MONGO_DATABASE (default: storefront)
	CacheTTL      time.Duration // PRODUCT_CACHE_TTL (default: 10m)
	ImageBucket   string        // AWS_S3_BUCKET; empty disables uploads
	ImageBaseURL  string        // IMAGE_BASE_URL or the bucket's virtual-host URL
	UploadExpiry  time.Duration // UPLOAD_URL_EXPIRY (default: 15m)
}

// LoadConfig reads the product-service environment.
func LoadConfig() Config {
	cfg := Config{
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnv("MONGO_DATABASE", "storefront"),
		CacheTTL:      getDuration("PRODUCT_CACHE_TTL", 10*time.Minute),
		ImageBucket:   os.Getenv("AWS_S3_BUCKET"),
		ImageBaseURL:  os.Getenv("IMAGE_BASE_URL"),
		UploadExpiry:  getDuration("UPLOAD_URL_EXPIRY", 15*time.Minute),
	}
	if cfg.ImageBaseURL == "" && cfg.ImageBucket != "" {
		cfg.ImageBaseURL = "https://" + cfg.ImageBucket + ".s3.amazonaws.com"
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
