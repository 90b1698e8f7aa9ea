// Package productservice wires the catalog: repository selection, the list
// cache, image uploads and HTTP routes.
package productservice

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	awspkg "github.com/solartech/storefront/pkg/aws"
	"github.com/solartech/storefront/services/common/latency"
	"github.com/solartech/storefront/services/product-service/controllers"
	"github.com/solartech/storefront/services/product-service/database"
	"github.com/solartech/storefront/services/product-service/repository"
	"github.com/solartech/storefront/services/product-service/routes"
	"github.com/solartech/storefront/services/product-service/services"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Deps are the optional shared clients. Nil fields disable the feature that
// needs them.
type Deps struct {
	Logger  *zap.Logger
	Latency *latency.Simulator
	Redis   *redis.Client
	AWS     *sdkaws.Config
	Epoch   time.Time
}

// Module is a running catalog.
type Module struct {
	Service    *services.ProductService
	controller *controllers.ProductController
	mongo      *mongo.Database
}

func New(ctx context.Context, cfg Config, deps Deps) (*Module, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("product-service")
	seed := repository.SeedProducts(deps.Epoch)
	m := &Module{}

	var repo repository.ProductRepo
	if cfg.MongoURI != "" {
		db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return nil, err
		}
		mongoRepo := repository.NewMongoRepo(db)
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			logger.Warn("Failed to ensure product indexes", zap.Error(err))
		}
		n, err := mongoRepo.SeedIfEmpty(ctx, seed)
		if err != nil {
			return nil, fmt.Errorf("seed products: %w", err)
		}
		if n > 0 {
			logger.Info("Seeded product catalog", zap.Int("count", n))
		}
		repo, m.mongo = mongoRepo, db
	} else {
		repo = repository.NewMemoryRepo(seed)
	}

	opts := services.Options{
		ImageBaseURL: cfg.ImageBaseURL,
		Latency:      deps.Latency,
		Logger:       logger,
	}
	if deps.Redis != nil {
		opts.Cache = services.NewCacheManager(deps.Redis, cfg.CacheTTL, logger)
	}
	if deps.AWS != nil && cfg.ImageBucket != "" {
		opts.Presigner = awspkg.NewImagePresigner(*deps.AWS, cfg.ImageBucket, cfg.UploadExpiry)
	}

	m.Service = services.NewProductService(repo, opts)
	m.controller = controllers.NewProductController(m.Service, logger)
	return m, nil
}

// RegisterRoutes mounts the public catalog on public and management on admin.
func (m *Module) RegisterRoutes(public, admin *gin.RouterGroup, thresholds controllers.ThresholdSource) {
	routes.RegisterProductRoutes(public, m.controller)
	routes.RegisterAdminRoutes(admin, controllers.NewAdminProductController(m.controller, thresholds))
}

func (m *Module) Close() error {
	if m.mongo == nil {
		return nil
	}
	return database.Close(m.mongo)
}
