// Package adminservice wires the admin dashboard, analytics, customer
// management and store settings.
package adminservice

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	awspkg "github.com/solartech/storefront/pkg/aws"
	ddb "github.com/solartech/storefront/pkg/dynamodb"
	"github.com/solartech/storefront/services/admin-service/controllers"
	"github.com/solartech/storefront/services/admin-service/models"
	"github.com/solartech/storefront/services/admin-service/repository"
	"github.com/solartech/storefront/services/admin-service/routes"
	"github.com/solartech/storefront/services/admin-service/services"
	"github.com/solartech/storefront/services/common/latency"
	"go.uber.org/zap"
)

type Deps struct {
	Logger    *zap.Logger
	Latency   *latency.Simulator
	AWS       *sdkaws.Config            // required when Config.SettingsTable is set
	Settings  *services.SettingsService // optional; opened from Config when nil
	Orders    services.Orders
	Products  services.Products
	Customers services.Customers
}

type Module struct {
	Settings *services.SettingsService
	Admin    *services.AdminService

	controller *controllers.AdminController
}

func New(ctx context.Context, cfg Config, deps Deps) (*Module, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := deps.Settings
	if settings == nil {
		var err error
		if settings, err = OpenSettings(ctx, cfg, deps.AWS, deps.Latency, logger); err != nil {
			return nil, err
		}
	}
	logger = logger.Named("admin-service")

	m := &Module{Settings: settings}
	m.Admin = services.NewAdminService(deps.Orders, deps.Products, deps.Customers, m.Settings, deps.Latency, logger)
	m.controller = controllers.NewAdminController(m.Admin, m.Settings, logger)
	return m, nil
}

// OpenSettings builds the settings service on DynamoDB when a table is
// configured and in memory otherwise. Shipping and notifications read from
// it before the rest of the admin module exists.
func OpenSettings(ctx context.Context, cfg Config, awsCfg *sdkaws.Config, lat *latency.Simulator, logger *zap.Logger) (*services.SettingsService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("admin-service")

	var repo repository.SettingsRepository
	if cfg.SettingsTable != "" {
		if awsCfg == nil {
			return nil, fmt.Errorf("settings table %s configured without AWS config", cfg.SettingsTable)
		}
		client := ddb.NewClientFromConfig(*awsCfg)
		if awspkg.HasCustomEndpoint(*awsCfg) {
			if err := ddb.EnsureTable(ctx, client, cfg.SettingsTable, repository.SettingsHashKey); err != nil {
				return nil, err
			}
		}
		repo = repository.NewDynamoSettingsRepository(client, cfg.SettingsTable)
		logger.Info("Store settings backed by DynamoDB", zap.String("table", cfg.SettingsTable))
	} else {
		defaults := models.DefaultSettings()
		repo = repository.NewMemorySettingsRepository(&defaults)
	}
	return services.NewSettingsService(repo, lat, logger), nil
}

// RegisterRoutes mounts the dashboard, customer and settings endpoints on a
// group that already requires the admin role.
func (m *Module) RegisterRoutes(admin *gin.RouterGroup) {
	routes.RegisterAdminRoutes(admin, m.controller)
}
