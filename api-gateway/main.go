package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/solartech/storefront/api-gateway/middlewares"
	"github.com/solartech/storefront/api-gateway/routes"
	"github.com/solartech/storefront/api-gateway/utils"
	"github.com/solartech/storefront/services/common/auth"
	"github.com/solartech/storefront/services/common/logger"
	"github.com/solartech/storefront/services/common/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	zapLogger, err := logger.Initialize(getEnv("APP_ENV", "development"), nil)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	target, err := url.Parse(getEnv("BFF_URL", "http://localhost:8000"))
	if err != nil {
		zapLogger.Fatal("Invalid BFF_URL", zap.Error(err))
	}
	// Only expiry and signature are checked here; TTLs are unused.
	tokens, err := auth.NewTokenService(os.Getenv("JWT_SECRET"), time.Minute, time.Minute)
	if err != nil {
		zapLogger.Fatal("Gateway needs JWT_SECRET", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(rate.Limit(50), 100, 10*time.Minute)
	go limiter.Cleanup(ctx)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		logger.RequestID(),
		middleware.RequestLogger(zapLogger),
		middleware.CORSMiddleware(strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ",")),
		middleware.RateLimitMiddleware(limiter),
	)
	routes.RegisterAllRoutes(r, middlewares.Identity(tokens), utils.NewForwarder(target, zapLogger))

	srv := &http.Server{Addr: ":" + getEnv("PORT", "8080"), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		zapLogger.Info("API Gateway listening", zap.String("addr", srv.Addr), zap.String("upstream", target.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Error("Server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Shutdown error", zap.Error(err))
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
