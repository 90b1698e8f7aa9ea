// Package promotionservice wires promo codes: storage, seeding and routes.
package promotionservice

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/common/database"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/promotion-service/controllers"
	"github.com/solartech/storefront/services/promotion-service/models"
	"github.com/solartech/storefront/services/promotion-service/repository"
	"github.com/solartech/storefront/services/promotion-service/routes"
	"github.com/solartech/storefront/services/promotion-service/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Module struct {
	Coupons    services.CouponService
	Discounter *services.Discounter
	controller *controllers.CouponController
	db         *gorm.DB
}

func New(ctx context.Context, cfg Config, publisher events.Publisher, logger *zap.Logger) (*Module, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("promotion-service")
	m := &Module{}

	var repo repository.CouponRepository
	if cfg.DatabaseURL != "" {
		db, err := database.ConnectPostgres(ctx, cfg.DatabaseURL, logger, &models.Coupon{})
		if err != nil {
			return nil, err
		}
		repo, m.db = repository.NewGormCouponRepository(db), db
	} else {
		repo = repository.NewMemoryCouponRepository()
	}

	n, err := repository.Seed(ctx, repo, models.SeedCoupons())
	if err != nil {
		return nil, fmt.Errorf("seed coupons: %w", err)
	}
	if n > 0 {
		logger.Info("Seeded coupons", zap.Int("count", n))
	}

	m.Coupons = services.NewCouponService(repo, publisher, logger)
	m.Discounter = services.NewDiscounter(m.Coupons)
	m.controller = controllers.NewCouponController(m.Coupons)
	return m, nil
}

func (m *Module) RegisterRoutes(authed, admin *gin.RouterGroup) {
	routes.RegisterCouponRoutes(authed, admin, m.controller)
}

func (m *Module) Close() error {
	return database.Close(m.db)
}
