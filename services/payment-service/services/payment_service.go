package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	awspkg "github.com/solartech/storefront/pkg/aws"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/common/money"
	"github.com/solartech/storefront/services/payment-service/gateway"
	"github.com/solartech/storefront/services/payment-service/models"
	"github.com/solartech/storefront/services/payment-service/repository"
	"go.uber.org/zap"
)

var (
	ErrPaymentNotFound     = apperrors.NotFound("Payment not found")
	ErrNotAwaitingTransfer = apperrors.Conflict("Payment is not awaiting transfer")
	ErrCardRequired        = apperrors.BadRequest("Card details are required")
	ErrInvalidAmount       = apperrors.BadRequest("Payment amount must be positive")
	ErrInvalidMethod       = apperrors.BadRequest("Unsupported payment method")
)

// MetricsRecorder is the subset of awspkg.MetricsClient used for payment counts.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
}

type PaymentService struct {
	repo      repository.PaymentRepository
	gateway   gateway.Gateway
	publisher events.Publisher
	metrics   MetricsRecorder
	currency  string
	logger    *zap.Logger
	now       func() time.Time
	locks     sync.Map // orderID -> *sync.Mutex
}

func NewPaymentService(
	repo repository.PaymentRepository,
	gw gateway.Gateway,
	publisher events.Publisher,
	metrics MetricsRecorder,
	currency string,
	logger *zap.Logger,
) *PaymentService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{
		repo:      repo,
		gateway:   gw,
		publisher: publisher,
		metrics:   metrics,
		currency:  currency,
		logger:    logger,
		now:       time.Now,
	}
}

// Charge runs one payment attempt for an order. An order that already has a
// succeeded or pending transfer payment gets that payment back without a new
// charge. A declined card is recorded and returned alongside a 402 error
// carrying the decline reason.
func (s *PaymentService) Charge(ctx context.Context, req models.ChargeRequest) (*models.Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	req.Method = strings.ToLower(strings.TrimSpace(req.Method))
	switch req.Method {
	case models.MethodCard:
		if req.Card == nil || req.Card.Digits() == "" {
			return nil, ErrCardRequired
		}
	case models.MethodBank:
	default:
		return nil, ErrInvalidMethod
	}
	if req.Currency == "" {
		req.Currency = s.currency
	}

	mu, _ := s.locks.LoadOrStore(req.OrderID, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	defer mu.(*sync.Mutex).Unlock()

	existing, err := s.repo.FindByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	for i := range existing {
		if existing[i].Settled() {
			s.logger.Info("Order already paid",
				zap.String("order_id", req.OrderID),
				zap.String("payment_id", existing[i].ID.String()),
			)
			return &existing[i], nil
		}
	}

	result, err := s.gateway.Charge(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	payment := &models.Payment{
		OrderID:       req.OrderID,
		UserID:        req.UserID,
		Amount:        money.MinorUnits(req.Amount),
		Currency:      req.Currency,
		Method:        req.Method,
		Status:        result.Status,
		Reference:     result.Reference,
		FailureReason: result.FailureReason,
	}
	if req.Card != nil {
		payment.CardBrand = models.CardBrand(req.Card.Number)
		payment.CardLast4 = models.Last4(req.Card.Number)
	}
	switch result.Status {
	case models.StatusSucceeded:
		payment.SucceededAt = &now
	case models.StatusFailed:
		payment.FailedAt = &now
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.logger.Info("Payment processed",
		zap.String("order_id", payment.OrderID),
		zap.String("payment_id", payment.ID.String()),
		zap.String("status", payment.Status),
		zap.Int64("amount", payment.Amount),
	)

	if payment.Status == models.StatusFailed {
		s.emit(ctx, events.PaymentFailed, payment)
		s.count(ctx, awspkg.MetricPaymentFailed, payment)
		return payment, apperrors.New(http.StatusPaymentRequired, payment.FailureReason, apperrors.ErrPaymentFailed)
	}
	if payment.Status == models.StatusSucceeded {
		s.emit(ctx, events.PaymentSucceeded, payment)
		s.count(ctx, awspkg.MetricPaymentSucceeded, payment)
	}
	return payment, nil
}

// ConfirmTransfer marks a pending bank transfer as received.
func (s *PaymentService) ConfirmTransfer(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.StatusAwaitingTransfer {
		return nil, ErrNotAwaitingTransfer
	}

	now := s.now().UTC()
	if err := s.repo.UpdateStatus(ctx, id, models.StatusSucceeded, now); err != nil {
		return nil, s.mapRepoErr(err)
	}
	payment.Status = models.StatusSucceeded
	payment.SucceededAt = &now

	s.emit(ctx, events.PaymentSucceeded, payment)
	s.count(ctx, awspkg.MetricPaymentSucceeded, payment)
	return payment, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	return payment, nil
}

// PaymentsForOrder returns every attempt for the order, newest first.
func (s *PaymentService) PaymentsForOrder(ctx context.Context, orderID string) ([]models.Payment, error) {
	payments, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, nil
}

func (s *PaymentService) mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrPaymentNotFound) {
		return ErrPaymentNotFound
	}
	return apperrors.Internal(err)
}

func (s *PaymentService) emit(ctx context.Context, eventType string, p *models.Payment) {
	evt, err := events.New(eventType, models.PaymentEvent{
		PaymentID: p.ID.String(),
		OrderID:   p.OrderID,
		UserID:    p.UserID,
		Status:    p.Status,
		Method:    p.Method,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Reason:    p.FailureReason,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, evt)
	}
	if err != nil {
		s.logger.Warn("Failed to publish payment event",
			zap.String("type", eventType),
			zap.String("payment_id", p.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *PaymentService) count(ctx context.Context, metric string, p *models.Payment) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.RecordCount(ctx, metric, map[string]string{"Method": p.Method}); err != nil {
		s.logger.Debug("Failed to record payment metric", zap.Error(err))
	}
}
