package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/payment-service/models"
	"go.uber.org/zap"
)

// PaymentServiceAPI is the part of the payment service the admin API uses.
type PaymentServiceAPI interface {
	GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	PaymentsForOrder(ctx context.Context, orderID string) ([]models.Payment, error)
	ConfirmTransfer(ctx context.Context, id uuid.UUID) (*models.Payment, error)
}

type PaymentController struct {
	service PaymentServiceAPI
	logger  *zap.Logger
}

func NewPaymentController(service PaymentServiceAPI, logger *zap.Logger) *PaymentController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentController{service: service, logger: logger}
}

// ListPayments returns the payment attempts for ?order_id=.
func (pc *PaymentController) ListPayments(c *gin.Context) {
	orderID := strings.TrimSpace(c.Query("order_id"))
	if orderID == "" {
		apperrors.Respond(c, pc.logger, apperrors.BadRequest("order_id is required"))
		return
	}

	payments, err := pc.service.PaymentsForOrder(c.Request.Context(), orderID)
	if err != nil {
		apperrors.Respond(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (pc *PaymentController) GetPayment(c *gin.Context) {
	id, ok := pc.paymentID(c)
	if !ok {
		return
	}
	payment, err := pc.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// ConfirmTransfer records receipt of a customer's bank transfer.
func (pc *PaymentController) ConfirmTransfer(c *gin.Context) {
	id, ok := pc.paymentID(c)
	if !ok {
		return
	}
	payment, err := pc.service.ConfirmTransfer(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, pc.logger, err)
		return
	}
	pc.logger.Info("Bank transfer confirmed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("order_id", payment.OrderID),
	)
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

func (pc *PaymentController) paymentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, pc.logger, apperrors.BadRequest("Invalid payment ID"))
		return uuid.Nil, false
	}
	return id, true
}
