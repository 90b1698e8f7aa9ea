package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/cart-service/models"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/middleware"
	"go.uber.org/zap"
)

// CartServiceAPI is the part of the cart service the HTTP layer needs.
type CartServiceAPI interface {
	GetCart(ctx context.Context, userID string) (*models.CartView, error)
	AddItem(ctx context.Context, userID string, req models.AddItemRequest) (*models.CartView, error)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*models.CartView, error)
	RemoveItem(ctx context.Context, userID, productID string) (*models.CartView, error)
	ClearCart(ctx context.Context, userID string) error
	ApplyPromo(ctx context.Context, userID, code string) (*models.CartView, error)
	RemovePromo(ctx context.Context, userID string) (*models.CartView, error)
	Count(ctx context.Context, userID string) (int, error)
}

type CartController struct {
	service CartServiceAPI
	logger  *zap.Logger
}

func NewCartController(service CartServiceAPI, logger *zap.Logger) *CartController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartController{service: service, logger: logger}
}

// GetCart returns the current cart for a user
func (cc *CartController) GetCart(c *gin.Context) {
	userID, ok := cc.userID(c)
	if !ok {
		return
	}
	cart, err := cc.service.GetCart(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (cc *CartController) GetCount(c *gin.Context) {
	userID, ok := cc.userID(c)
	if !ok {
		return
	}
	n, err := cc.service.Count(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// AddItem adds or merges an item in the cart
func (cc *CartController) AddItem(c *gin.Context) {
	userID, ok := cc.userID(c)
	if !ok {
		return
	}
	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		cc.logger.Debug("Invalid add item payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, err := cc.service.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		apperrors.Respond(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (cc *CartController) UpdateItem(c *gin.Context) {
	userID, ok := cc.userID(c)
	if !ok {
		return
	}
	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, err := cc.service.UpdateQuantity(c.Request.Context(), userID, c.Param("productId"), req.Quantity)
	if err != nil {
		apperrors.Respond(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItem removes a specific item from the cart
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID, ok := cc.userID(c)
	if !ok {
		return
	}
	cart, err := cc.service.RemoveItem(c.Request.Context(), userID, c.Param("productId"))
	if err != nil {
		apperrors.Respond(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ClearCart removes all items from the cart
func (cc *CartController) ClearCart(c *gin.Context) {
	userID, ok := cc.userID(c)
	if !ok {
		return
	}
	if err := cc.service.ClearCart(c.Request.Context(), userID); err != nil {
		apperrors.Respond(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

func (cc *CartController) ApplyPromo(c *gin.Context) {
	userID, ok := cc.userID(c)
	if !ok {
		return
	}
	var req models.PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrInvalidPromo.Message})
		return
	}

	cart, err := cc.service.ApplyPromo(c.Request.Context(), userID, req.Code)
	if err != nil {
		apperrors.Respond(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (cc *CartController) RemovePromo(c *gin.Context) {
	userID, ok := cc.userID(c)
	if !ok {
		return
	}
	cart, err := cc.service.RemovePromo(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (cc *CartController) userID(c *gin.Context) (string, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
