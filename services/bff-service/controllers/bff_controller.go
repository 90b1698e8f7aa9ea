// Package controllers holds the page endpoints that combine several
// services into one response.
package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/middleware"
	ordermodels "github.com/solartech/storefront/services/order-service/models"
	productmodels "github.com/solartech/storefront/services/product-service/models"
	usermodels "github.com/solartech/storefront/services/user-service/models"
	"go.uber.org/zap"
)

const (
	homeFeaturedLimit = 8
	recentOrderLimit  = 5
)

type Catalog interface {
	FeaturedProducts(ctx context.Context, limit int) ([]productmodels.Product, error)
	Categories(ctx context.Context) ([]productmodels.Category, error)
}

type Profiles interface {
	GetProfile(ctx context.Context, userID string) (*usermodels.User, error)
}

type OrderHistory interface {
	ListUserOrders(ctx context.Context, userID string, page, limit int) ([]ordermodels.Order, int64, error)
}

type CartCounter interface {
	Count(ctx context.Context, userID string) (int, error)
}

type BFFController struct {
	catalog  Catalog
	profiles Profiles
	orders   OrderHistory
	carts    CartCounter
	logger   *zap.Logger
}

func NewBFFController(catalog Catalog, profiles Profiles, orders OrderHistory, carts CartCounter, logger *zap.Logger) *BFFController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BFFController{catalog: catalog, profiles: profiles, orders: orders, carts: carts, logger: logger}
}

func (b *BFFController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "bff-service"})
}

// Home loads the featured products and categories concurrently.
func (b *BFFController) Home(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		wg            sync.WaitGroup
		featured      []productmodels.Product
		categories    []productmodels.Category
		featErr, cErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		featured, featErr = b.catalog.FeaturedProducts(ctx, homeFeaturedLimit)
	}()
	go func() {
		defer wg.Done()
		categories, cErr = b.catalog.Categories(ctx)
	}()
	wg.Wait()

	if err := firstError(featErr, cErr); err != nil {
		apperrors.Respond(c, b.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"featured":   featured,
		"categories": categories,
		"timestamp":  time.Now().UTC(),
	})
}

// AccountOverview loads the caller's profile, recent orders and cart count
// concurrently.
func (b *BFFController) AccountOverview(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	ctx := c.Request.Context()

	var (
		wg      sync.WaitGroup
		profile *usermodels.User
		orders  []ordermodels.Order
		total   int64
		count   int
		errs    [3]error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		profile, errs[0] = b.profiles.GetProfile(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		orders, total, errs[1] = b.orders.ListUserOrders(ctx, userID, 1, recentOrderLimit)
	}()
	go func() {
		defer wg.Done()
		count, errs[2] = b.carts.Count(ctx, userID)
	}()
	wg.Wait()

	if err := firstError(errs[:]...); err != nil {
		apperrors.Respond(c, b.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":      profile,
		"recentOrders": orders,
		"orderCount":   total,
		"cartCount":    count,
	})
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
