// Package orderservice wires checkout, customer order history and the admin
// order desk.
package orderservice

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/common/database"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/common/latency"
	"github.com/solartech/storefront/services/order-service/controllers"
	"github.com/solartech/storefront/services/order-service/models"
	"github.com/solartech/storefront/services/order-service/repository"
	"github.com/solartech/storefront/services/order-service/routes"
	"github.com/solartech/storefront/services/order-service/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	Logger     *zap.Logger
	Latency    *latency.Simulator
	Publisher  events.Publisher
	Metrics    services.MetricsRecorder // optional
	Carts      services.Carts
	Payments   services.Payments
	Shipping   services.Shipping // optional
	Inventory  services.Inventory
	Promotions services.Promotions // optional
}

type Module struct {
	Service    *services.OrderService
	controller *controllers.OrderController
	db         *gorm.DB
}

func New(ctx context.Context, cfg Config, deps Deps) (*Module, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("order-service")
	m := &Module{}

	var seed []models.Order
	if cfg.SeedOrders {
		seed = repository.SeedOrders()
	}

	var repo repository.OrderRepository
	if cfg.DatabaseURL != "" {
		db, err := database.ConnectPostgres(ctx, cfg.DatabaseURL, logger, &models.Order{}, &models.OrderItem{})
		if err != nil {
			return nil, err
		}
		gormRepo := repository.NewGormOrderRepository(db)
		n, err := gormRepo.SeedIfEmpty(ctx, seed)
		if err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("seed orders: %w", err)
		}
		if n > 0 {
			logger.Info("Seeded orders", zap.Int("count", n))
		}
		repo, m.db = gormRepo, db
	} else {
		repo = repository.NewMemoryOrderRepository(seed...)
	}

	m.Service = services.NewOrderService(repo, services.Deps{
		Carts:      deps.Carts,
		Payments:   deps.Payments,
		Shipping:   deps.Shipping,
		Inventory:  deps.Inventory,
		Promotions: deps.Promotions,
		Publisher:  deps.Publisher,
		Metrics:    deps.Metrics,
		Latency:    deps.Latency,
		Logger:     logger,
	})
	m.controller = controllers.NewOrderController(m.Service, logger)
	return m, nil
}

// RegisterRoutes mounts checkout and order history on authed and the order
// desk on admin.
func (m *Module) RegisterRoutes(authed, admin *gin.RouterGroup) {
	routes.RegisterOrderRoutes(authed, admin, m.controller)
}

// Subscribe settles bank-transfer orders once their payment is confirmed.
func (m *Module) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.PaymentSucceeded, m.Service.HandlePaymentSucceeded)
}

func (m *Module) Close() error {
	return database.Close(m.db)
}
