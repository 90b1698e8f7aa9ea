// Package shippingservice wires shipping methods, quotes and shipments.
package shippingservice

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/common/database"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/common/latency"
	"github.com/solartech/storefront/services/shipping-service/controllers"
	"github.com/solartech/storefront/services/shipping-service/models"
	"github.com/solartech/storefront/services/shipping-service/providers"
	"github.com/solartech/storefront/services/shipping-service/repository"
	"github.com/solartech/storefront/services/shipping-service/routes"
	"github.com/solartech/storefront/services/shipping-service/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	Logger    *zap.Logger
	Latency   *latency.Simulator
	Methods   services.MethodSource // nil uses the default methods
	Publisher events.Publisher
}

type Module struct {
	Service    services.ShippingService
	controller *controllers.ShippingController
	db         *gorm.DB
}

func New(ctx context.Context, cfg Config, deps Deps) (*Module, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("shipping-service")
	m := &Module{}

	var repo repository.ShipmentRepository
	if cfg.DatabaseURL != "" {
		db, err := database.ConnectPostgres(ctx, cfg.DatabaseURL, logger, &models.Shipment{})
		if err != nil {
			return nil, err
		}
		repo, m.db = repository.NewGormShipmentRepository(db), db
	} else {
		repo = repository.NewMemoryShipmentRepository()
	}

	methods := deps.Methods
	if methods == nil {
		methods = services.StaticMethods(models.DefaultShippingMethods())
	}

	carrier := providers.NewSimulatedCarrier(cfg.TrackingBaseURL, deps.Latency)
	m.Service = services.NewShippingService(methods, repo, carrier, deps.Publisher, logger)
	m.controller = controllers.NewShippingController(m.Service)
	return m, nil
}

func (m *Module) RegisterRoutes(public, authed, admin *gin.RouterGroup) {
	routes.RegisterShippingRoutes(public, authed, admin, m.controller)
}

func (m *Module) Close() error {
	return database.Close(m.db)
}
