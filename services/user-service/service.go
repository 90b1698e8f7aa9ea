// Package userservice wires registration, login, password recovery and the
// customer account area.
package userservice

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/solartech/storefront/services/common/auth"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/common/latency"
	"github.com/solartech/storefront/services/user-service/controllers"
	"github.com/solartech/storefront/services/user-service/repository"
	"github.com/solartech/storefront/services/user-service/routes"
	"github.com/solartech/storefront/services/user-service/services"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Deps struct {
	Logger    *zap.Logger
	Latency   *latency.Simulator
	Publisher events.Publisher
	Tokens    *auth.TokenService
	Products  services.ProductLookup
	Redis     *redis.Client // optional; reset tokens stay in memory without it
}

type Module struct {
	Auth    *services.AuthService
	Account *services.AccountService

	auth    *controllers.AuthController
	account *controllers.AccountController
}

func New(_ context.Context, cfg Config, deps Deps) (*Module, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("user-service")

	customerHash, err := services.HashPassword(cfg.SeedPassword, bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	adminHash, err := services.HashPassword(cfg.AdminPassword, bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	store := repository.NewMemoryStore(repository.SeedData(customerHash, cfg.AdminEmail, adminHash))

	var resets repository.ResetTokenRepository = store
	if deps.Redis != nil {
		resets = repository.NewRedisResetTokenRepository(deps.Redis)
		logger.Info("Password reset tokens stored in Redis")
	}

	m := &Module{
		Auth: services.NewAuthService(store, resets, deps.Tokens, services.AuthOptions{
			ResetTTL:  cfg.ResetTTL,
			ResetURL:  cfg.ResetURL,
			Publisher: deps.Publisher,
			Latency:   deps.Latency,
			Logger:    logger,
		}),
		Account: services.NewAccountService(store, deps.Products, deps.Latency, logger),
	}
	m.auth = controllers.NewAuthController(m.Auth, controllers.CookieConfig{
		Domain:     cfg.CookieDomain,
		Secure:     cfg.CookieSecure,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	}, logger)
	m.account = controllers.NewAccountController(m.Account, logger)
	return m, nil
}

// RegisterRoutes mounts /auth on public and /account on authed. authMW
// applies to the auth group only.
func (m *Module) RegisterRoutes(public, authed *gin.RouterGroup, authMW ...gin.HandlerFunc) {
	routes.RegisterAuthRoutes(public, m.auth, authMW...)
	routes.RegisterAccountRoutes(authed, m.auth, m.account)
}

// Subscribe keeps customer lifetime totals in step with placed orders.
func (m *Module) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.OrderPlaced, m.Account.HandleOrderPlaced)
}
