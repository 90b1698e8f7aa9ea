package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/redis/go-redis/v9"
	awspkg "github.com/solartech/storefront/pkg/aws"
	"github.com/solartech/storefront/services/bff-service/config"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/common/logger"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var awsCfg *sdkaws.Config
	if cfg.NeedsAWS() {
		loaded, err := awspkg.LoadAWSConfig(ctx, awspkg.Options{Region: cfg.AWSRegion, Endpoint: cfg.AWSEndpoint})
		if err != nil {
			log.Fatalf("[BFF] %v", err)
		}
		awsCfg = &loaded
	}

	var sink io.Writer
	if cfg.CloudWatchEnabled && awsCfg != nil {
		cwLogs, err := awspkg.NewCloudWatchLogsClient(ctx, *awsCfg, cfg.LogGroup, serviceName)
		if err != nil {
			log.Printf("[BFF] CloudWatch Logs init failed: %v", err)
		} else {
			sink = cwLogs
		}
	}
	zapLogger, err := logger.Initialize(cfg.Env, sink)
	if err != nil {
		log.Fatalf("[BFF] logger init failed: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	infra, err := connectInfra(ctx, cfg, awsCfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect infrastructure", zap.Error(err))
	}
	if infra.Redis != nil {
		defer func() { _ = infra.Redis.Close() }()
	}

	app, err := newApp(ctx, cfg, infra, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to build application", zap.Error(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			zapLogger.Warn("Close failed", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := app.Run(ctx); err != nil {
			zapLogger.Error("Background worker stopped", zap.Error(err))
		}
	}()

	go func() {
		zapLogger.Info("BFF listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Error("Server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Shutdown error", zap.Error(err))
	}
}

// connectInfra resolves the JWT secret and opens the optional Redis, SNS
// and CloudWatch clients.
func connectInfra(ctx context.Context, cfg config.Config, awsCfg *sdkaws.Config, log *zap.Logger) (Infra, error) {
	infra := Infra{AWS: awsCfg, JWTSecret: cfg.JWTSecret}

	if cfg.JWTSecretName != "" {
		secret, err := awspkg.NewSecretsClient(*awsCfg, 15*time.Minute).GetSecret(ctx, cfg.JWTSecretName)
		if err != nil {
			return infra, fmt.Errorf("read JWT secret: %w", err)
		}
		infra.JWTSecret = secret
	}
	if infra.JWTSecret == "" {
		return infra, errors.New("JWT_SECRET or JWT_SECRET_NAME must be set")
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return infra, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return infra, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("Connected to Redis")
		infra.Redis = client
	}

	if awsCfg != nil {
		if cfg.CloudWatchEnabled {
			infra.Metrics = awspkg.NewMetricsClient(*awsCfg, cfg.MetricsNamespace, true)
			log.Info("CloudWatch metrics enabled", zap.String("namespace", cfg.MetricsNamespace))
		}
		if cfg.EventsTopicARN != "" {
			infra.Publisher = events.NewSNSPublisher(awspkg.NewSNSClient(*awsCfg, log), cfg.EventsTopicARN)
			log.Info("Publishing events to SNS", zap.String("topic", cfg.EventsTopicARN))
		}
	}
	return infra, nil
}
