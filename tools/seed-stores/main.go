// Command seed-stores loads the demo catalog into MongoDB and writes the
// default store settings to DynamoDB. Existing data is left untouched.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	awspkg "github.com/solartech/storefront/pkg/aws"
	ddb "github.com/solartech/storefront/pkg/dynamodb"
	adminmodels "github.com/solartech/storefront/services/admin-service/models"
	adminrepo "github.com/solartech/storefront/services/admin-service/repository"
	"github.com/solartech/storefront/services/common/logger"
	"github.com/solartech/storefront/services/product-service/database"
	productrepo "github.com/solartech/storefront/services/product-service/repository"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	var mongoURI, dbName, table, region, endpoint string
	flag.StringVar(&mongoURI, "mongo", os.Getenv("MONGO_URI"), "MongoDB URI; empty skips the catalog")
	flag.StringVar(&dbName, "db", getEnv("MONGO_DATABASE", "storefront"), "MongoDB database name")
	flag.StringVar(&table, "table", os.Getenv("SETTINGS_TABLE"), "DynamoDB settings table; empty skips settings")
	flag.StringVar(&region, "region", getEnv("AWS_REGION", "us-east-1"), "AWS region")
	flag.StringVar(&endpoint, "endpoint", os.Getenv("AWS_ENDPOINT_URL"), "AWS endpoint override, e.g. LocalStack")
	flag.Parse()

	zapLogger, err := logger.Initialize("development", nil)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if mongoURI == "" && table == "" {
		zapLogger.Fatal("Nothing to seed: set -mongo and/or -table")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if mongoURI != "" {
		if err := seedCatalog(ctx, mongoURI, dbName, zapLogger); err != nil {
			zapLogger.Fatal("Catalog seed failed", zap.Error(err))
		}
	}
	if table != "" {
		if err := seedSettings(ctx, awspkg.Options{Region: region, Endpoint: endpoint}, table, zapLogger); err != nil {
			zapLogger.Fatal("Settings seed failed", zap.Error(err))
		}
	}
}

func seedCatalog(ctx context.Context, uri, dbName string, log *zap.Logger) error {
	db, err := database.Connect(ctx, uri, dbName, log)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	repo := productrepo.NewMongoRepo(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return err
	}
	n, err := repo.SeedIfEmpty(ctx, productrepo.SeedProducts(time.Now().UTC()))
	if err != nil {
		return err
	}
	log.Info("Catalog seeded", zap.String("database", dbName), zap.Int("inserted", n))
	return nil
}

func seedSettings(ctx context.Context, opts awspkg.Options, table string, log *zap.Logger) error {
	cfg, err := awspkg.LoadAWSConfig(ctx, opts)
	if err != nil {
		return err
	}
	client := ddb.NewClientFromConfig(cfg)
	if err := ddb.EnsureTable(ctx, client, table, adminrepo.SettingsHashKey); err != nil {
		return err
	}

	repo := adminrepo.NewDynamoSettingsRepository(client, table)
	_, err = repo.Get(ctx)
	if err == nil {
		log.Info("Settings already present", zap.String("table", table))
		return nil
	}
	if !errors.Is(err, adminrepo.ErrSettingsNotFound) {
		return err
	}

	defaults := adminmodels.DefaultSettings()
	defaults.UpdatedAt = time.Now().UTC()
	if err := repo.Save(ctx, &defaults); err != nil {
		return err
	}
	log.Info("Default settings written", zap.String("table", table))
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
