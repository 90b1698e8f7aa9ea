// Package paymentservice wires the simulated gateway and payment records.
package paymentservice

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/common/database"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/common/latency"
	"github.com/solartech/storefront/services/payment-service/controllers"
	"github.com/solartech/storefront/services/payment-service/gateway"
	"github.com/solartech/storefront/services/payment-service/models"
	"github.com/solartech/storefront/services/payment-service/repository"
	"github.com/solartech/storefront/services/payment-service/routes"
	"github.com/solartech/storefront/services/payment-service/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	Logger    *zap.Logger
	Latency   *latency.Simulator
	Publisher events.Publisher
	Metrics   services.MetricsRecorder // optional
}

type Module struct {
	Service    *services.PaymentService
	controller *controllers.PaymentController
	db         *gorm.DB
}

func New(ctx context.Context, cfg Config, deps Deps) (*Module, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("payment-service")
	m := &Module{}

	var repo repository.PaymentRepository
	if cfg.DatabaseURL != "" {
		db, err := database.ConnectPostgres(ctx, cfg.DatabaseURL, logger, &models.Payment{})
		if err != nil {
			return nil, err
		}
		repo, m.db = repository.NewGormPaymentRepository(db), db
	} else {
		repo = repository.NewMemoryPaymentRepository()
	}

	m.Service = services.NewPaymentService(repo, gateway.NewSimulated(deps.Latency), deps.Publisher, deps.Metrics, cfg.Currency, logger)
	m.controller = controllers.NewPaymentController(m.Service, logger)
	return m, nil
}

func (m *Module) RegisterRoutes(admin *gin.RouterGroup) {
	routes.RegisterPaymentRoutes(admin, m.controller)
}

func (m *Module) Close() error {
	return database.Close(m.db)
}
