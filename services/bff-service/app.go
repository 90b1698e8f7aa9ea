package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	awspkg "github.com/solartech/storefront/pkg/aws"
	adminservice "github.com/solartech/storefront/services/admin-service"
	"github.com/solartech/storefront/services/bff-service/config"
	"github.com/solartech/storefront/services/bff-service/controllers"
	"github.com/solartech/storefront/services/bff-service/routes"
	cartservice "github.com/solartech/storefront/services/cart-service"
	"github.com/solartech/storefront/services/common/auth"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/common/latency"
	"github.com/solartech/storefront/services/common/logger"
	"github.com/solartech/storefront/services/common/middleware"
	notificationservice "github.com/solartech/storefront/services/notification-service"
	orderservice "github.com/solartech/storefront/services/order-service"
	orderservices "github.com/solartech/storefront/services/order-service/services"
	paymentservice "github.com/solartech/storefront/services/payment-service"
	paymentservices "github.com/solartech/storefront/services/payment-service/services"
	productservice "github.com/solartech/storefront/services/product-service"
	promotionservice "github.com/solartech/storefront/services/promotion-service"
	shippingservice "github.com/solartech/storefront/services/shipping-service"
	shippingservices "github.com/solartech/storefront/services/shipping-service/services"
	userservice "github.com/solartech/storefront/services/user-service"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const serviceName = "bff-service"

// Infra carries the optional external clients main connects before the
// modules are built. Zero values keep everything in process.
type Infra struct {
	AWS       *sdkaws.Config
	Redis     *redis.Client
	Metrics   *awspkg.MetricsClient
	Publisher events.Publisher // forwarded every event in addition to the bus
	JWTSecret string
}

// App is every service mounted on one gin engine.
type App struct {
	Engine        *gin.Engine
	Bus           *events.Bus
	Notifications *notificationservice.Module

	limiters []*middleware.RateLimiter
	closers  []func() error
	logger   *zap.Logger
}

func newApp(ctx context.Context, cfg config.Config, infra Infra, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	app := &App{Bus: events.NewBus(log.Named("events")), logger: log}
	ok := false
	defer func() {
		if !ok {
			_ = app.Close()
		}
	}()

	var publisher events.Publisher = app.Bus
	if infra.Publisher != nil {
		publisher = events.Tee{app.Bus, infra.Publisher}
	}

	// Interfaces stay nil rather than holding a nil *MetricsClient.
	var (
		orderMetrics   orderservices.MetricsRecorder
		paymentMetrics paymentservices.MetricsRecorder
		httpMetrics    middleware.MetricsRecorder
	)
	if infra.Metrics != nil {
		orderMetrics, paymentMetrics, httpMetrics = infra.Metrics, infra.Metrics, infra.Metrics
	}

	userCfg := userservice.LoadConfig()
	tokens, err := auth.NewTokenService(infra.JWTSecret, userCfg.AccessTTL, userCfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}
	lat := latency.New(cfg.LatencyScale)

	product, err := productservice.New(ctx, productservice.LoadConfig(), productservice.Deps{
		Logger:  log,
		Latency: lat,
		Redis:   infra.Redis,
		AWS:     infra.AWS,
		Epoch:   time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("product service: %w", err)
	}
	app.closers = append(app.closers, product.Close)

	promo, err := promotionservice.New(ctx, promotionservice.LoadConfig(), publisher, log)
	if err != nil {
		return nil, fmt.Errorf("promotion service: %w", err)
	}
	app.closers = append(app.closers, promo.Close)

	cart := cartservice.New(cartservice.LoadConfig(), cartservice.Deps{
		Logger:   log,
		Redis:    infra.Redis,
		Products: product.Service,
		Promos:   promo.Discounter,
	})

	user, err := userservice.New(ctx, userCfg, userservice.Deps{
		Logger:    log,
		Latency:   lat,
		Publisher: publisher,
		Tokens:    tokens,
		Products:  product.Service,
		Redis:     infra.Redis,
	})
	if err != nil {
		return nil, fmt.Errorf("user service: %w", err)
	}

	adminCfg := adminservice.LoadConfig()
	settings, err := adminservice.OpenSettings(ctx, adminCfg, infra.AWS, lat, log)
	if err != nil {
		return nil, fmt.Errorf("store settings: %w", err)
	}

	shipping, err := shippingservice.New(ctx, shippingservice.LoadConfig(), shippingservice.Deps{
		Logger:    log,
		Latency:   lat,
		Methods:   settings,
		Publisher: publisher,
	})
	if err != nil {
		return nil, fmt.Errorf("shipping service: %w", err)
	}
	app.closers = append(app.closers, shipping.Close)

	payment, err := paymentservice.New(ctx, paymentservice.LoadConfig(), paymentservice.Deps{
		Logger:    log,
		Latency:   lat,
		Publisher: publisher,
		Metrics:   paymentMetrics,
	})
	if err != nil {
		return nil, fmt.Errorf("payment service: %w", err)
	}
	app.closers = append(app.closers, payment.Close)

	order, err := orderservice.New(ctx, orderservice.LoadConfig(), orderservice.Deps{
		Logger:     log,
		Latency:    lat,
		Publisher:  publisher,
		Metrics:    orderMetrics,
		Carts:      cart.Service,
		Payments:   payment.Service,
		Shipping:   shippingservices.NewCheckout(shipping.Service),
		Inventory:  product.Service,
		Promotions: promo.Discounter,
	})
	if err != nil {
		return nil, fmt.Errorf("order service: %w", err)
	}
	app.closers = append(app.closers, order.Close)

	admin, err := adminservice.New(ctx, adminCfg, adminservice.Deps{
		Logger:    log,
		Latency:   lat,
		AWS:       infra.AWS,
		Settings:  settings,
		Orders:    order.Service,
		Products:  product.Service,
		Customers: user.Account,
	})
	if err != nil {
		return nil, fmt.Errorf("admin service: %w", err)
	}

	notifications, err := notificationservice.New(ctx, notificationservice.LoadConfig(), notificationservice.Deps{
		Logger:      log,
		Preferences: settings,
		AWS:         infra.AWS,
	})
	if err != nil {
		return nil, fmt.Errorf("notification service: %w", err)
	}
	app.closers = append(app.closers, notifications.Close)
	app.Notifications = notifications

	user.Subscribe(app.Bus)
	order.Subscribe(app.Bus)
	if !notifications.Consuming() {
		notifications.Subscribe(app.Bus)
	}

	apiLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst, 10*time.Minute)
	authLimiter := middleware.NewRateLimiter(rate.Limit(cfg.AuthRateLimit), max(1, int(cfg.AuthRateLimit*5)), 10*time.Minute)
	app.limiters = []*middleware.RateLimiter{apiLimiter, authLimiter}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		logger.RequestID(),
		middleware.RequestLogger(log),
		middleware.SecurityHeaders(),
		middleware.CORSMiddleware(cfg.AllowedOrigins),
		middleware.MetricsMiddleware(httpMetrics, serviceName),
		apperrors.ErrorMiddleware(log),
	)

	api := r.Group("/api/v1", middleware.RateLimitMiddleware(apiLimiter), middleware.Timeout(cfg.RequestTimeout))
	authMW := middleware.AuthMiddleware(tokens, cfg.TrustGateway)
	authed := api.Group("", authMW)
	adminGroup := api.Group("/admin", authMW, middleware.AdminOnly())

	product.RegisterRoutes(api, adminGroup, settings)
	cart.RegisterRoutes(authed)
	promo.RegisterRoutes(authed, adminGroup)
	shipping.RegisterRoutes(api, authed, adminGroup)
	payment.RegisterRoutes(adminGroup)
	order.RegisterRoutes(authed, adminGroup)
	user.RegisterRoutes(api, authed, middleware.RateLimitMiddleware(authLimiter))
	admin.RegisterRoutes(adminGroup)
	notifications.RegisterRoutes(adminGroup)

	bff := controllers.NewBFFController(product.Service, user.Account, order.Service, cart.Service, log)
	routes.RegisterRoutes(r, api, authed, bff)

	app.Engine = r
	ok = true
	return app, nil
}

// Run starts the background workers and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	for _, rl := range a.limiters {
		go rl.Cleanup(ctx)
	}
	if err := a.Notifications.StartConsumer(ctx); err != nil {
		return fmt.Errorf("notification consumer: %w", err)
	}
	<-ctx.Done()
	return nil
}

// Close releases database connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
