// Package cartservice wires the per-user cart.
package cartservice

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/solartech/storefront/services/cart-service/controllers"
	"github.com/solartech/storefront/services/cart-service/repository"
	"github.com/solartech/storefront/services/cart-service/routes"
	"github.com/solartech/storefront/services/cart-service/services"
	"go.uber.org/zap"
)

type Deps struct {
	Logger   *zap.Logger
	Redis    *redis.Client // nil keeps carts in memory
	Products services.ProductLookup
	Promos   services.PromoDiscounter
}

type Module struct {
	Service    *services.CartService
	controller *controllers.CartController
}

func New(cfg Config, deps Deps) *Module {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("cart-service")

	var repo repository.CartRepository
	if deps.Redis != nil {
		repo = repository.NewRedisCartRepository(deps.Redis, cfg.CartTTL)
	} else {
		repo = repository.NewMemoryCartRepository(cfg.CartTTL)
	}

	svc := services.NewCartService(repo, deps.Products, deps.Promos, cfg.Pricing, logger)
	return &Module{
		Service:    svc,
		controller: controllers.NewCartController(svc, logger),
	}
}

func (m *Module) RegisterRoutes(authed *gin.RouterGroup) {
	routes.RegisterCartRoutes(authed, m.controller)
}
