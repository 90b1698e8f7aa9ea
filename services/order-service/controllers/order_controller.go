package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/middleware"
	"github.com/solartech/storefront/services/common/pagination"
	"github.com/solartech/storefront/services/order-service/models"
	"github.com/solartech/storefront/services/order-service/repository"
	"go.uber.org/zap"
)

const defaultOrderLimit = 10

// OrderServiceAPI is the part of the order service the HTTP layer needs.
type OrderServiceAPI interface {
	PlaceOrder(ctx context.Context, userID string, req models.CheckoutRequest) (*models.Order, error)
	PayOrder(ctx context.Context, userID string, orderID uuid.UUID, req models.PayRequest) (*models.Order, error)
	CancelOrder(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, error)
	GetUserOrder(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, error)

	ListOrders(ctx context.Context, filter repository.OrderFilter, page, limit int) ([]models.Order, int64, error)
	GetOrder(ctx context.Context, ref string) (*models.Order, error)
	UpdateStatus(ctx context.Context, ref, status string) (*models.Order, error)
	ExportOrdersCSV(ctx context.Context, filter repository.OrderFilter, w io.Writer) error
}

type OrderController struct {
	service OrderServiceAPI
	logger  *zap.Logger
}

func NewOrderController(service OrderServiceAPI, logger *zap.Logger) *OrderController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderController{service: service, logger: logger}
}

// PlaceOrder creates a pending order from the user's cart.
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	userID, ok := oc.userID(c)
	if !ok {
		return
	}
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, err := oc.service.PlaceOrder(c.Request.Context(), userID, req)
	if err != nil {
		apperrors.Respond(c, oc.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// PayOrder charges a placed order. The body may carry the card again.
func (oc *OrderController) PayOrder(c *gin.Context) {
	userID, ok := oc.userID(c)
	if !ok {
		return
	}
	orderID, ok := oc.orderID(c)
	if !ok {
		return
	}
	var req models.PayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}
	}

	order, err := oc.service.PayOrder(c.Request.Context(), userID, orderID, req)
	if err != nil {
		apperrors.Respond(c, oc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (oc *OrderController) CancelOrder(c *gin.Context) {
	userID, ok := oc.userID(c)
	if !ok {
		return
	}
	orderID, ok := oc.orderID(c)
	if !ok {
		return
	}
	order, err := oc.service.CancelOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		apperrors.Respond(c, oc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled and cart restored", "order": order})
}

// GetOrders returns paginated orders for the authenticated user.
func (oc *OrderController) GetOrders(c *gin.Context) {
	userID, ok := oc.userID(c)
	if !ok {
		return
	}
	page, err := pagination.Parse(c, defaultOrderLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, total, err := oc.service.ListUserOrders(c.Request.Context(), userID, page.Page, page.Limit)
	if err != nil {
		apperrors.Respond(c, oc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "meta": pagination.NewMeta(page, total)})
}

// GetOrderByID returns a specific order for the authenticated user.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID, ok := oc.userID(c)
	if !ok {
		return
	}
	orderID, ok := oc.orderID(c)
	if !ok {
		return
	}
	order, err := oc.service.GetUserOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		apperrors.Respond(c, oc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (oc *OrderController) userID(c *gin.Context) (string, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

func (oc *OrderController) orderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return uuid.Nil, false
	}
	return id, true
}
