package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/common/money"
	"github.com/solartech/storefront/services/shipping-service/models"
	"github.com/solartech/storefront/services/shipping-service/providers"
	"github.com/solartech/storefront/services/shipping-service/repository"
	"go.uber.org/zap"
)

// ServiceError is a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

func (e *ServiceError) HTTPStatus() int { return e.StatusCode }

// MethodSource supplies the configured shipping methods.
type MethodSource interface {
	ShippingMethods(ctx context.Context) ([]models.ShippingMethod, error)
}

// StaticMethods serves a fixed method list.
type StaticMethods []models.ShippingMethod

func (m StaticMethods) ShippingMethods(context.Context) ([]models.ShippingMethod, error) {
	return m, nil
}

// ShippingService defines the business logic interface.
type ShippingService interface {
	Methods(ctx context.Context) ([]models.ShippingMethod, *ServiceError)
	Quote(ctx context.Context, subtotal decimal.Decimal, methodID string) (*models.Quote, *ServiceError)
	QuoteAll(ctx context.Context, subtotal decimal.Decimal) ([]models.Quote, *ServiceError)
	CreateShipment(ctx context.Context, req *models.ShipmentRequest) (*models.Shipment, *ServiceError)
	TrackShipment(ctx context.Context, trackingCode string) (*models.TrackingStatus, *ServiceError)
	ListShipments(ctx context.Context, page, limit int) ([]models.Shipment, int64, *ServiceError)
}

type shippingServiceImpl struct {
	methods   MethodSource
	repo      repository.ShipmentRepository
	carrier   providers.Carrier
	publisher events.Publisher
	logger    *zap.Logger
}

func NewShippingService(
	methods MethodSource,
	repo repository.ShipmentRepository,
	carrier providers.Carrier,
	publisher events.Publisher,
	logger *zap.Logger,
) ShippingService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &shippingServiceImpl{
		methods:   methods,
		repo:      repo,
		carrier:   carrier,
		publisher: publisher,
		logger:    logger,
	}
}

// Methods returns the enabled shipping methods.
func (s *shippingServiceImpl) Methods(ctx context.Context) ([]models.ShippingMethod, *ServiceError) {
	all, err := s.methods.ShippingMethods(ctx)
	if err != nil {
		s.logger.Error("Failed to load shipping methods", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load shipping methods"}
	}
	enabled := make([]models.ShippingMethod, 0, len(all))
	for _, m := range all {
		if m.Enabled {
			enabled = append(enabled, m)
		}
	}
	return enabled, nil
}

// Quote prices one method for subtotal. An empty methodID means standard.
func (s *shippingServiceImpl) Quote(ctx context.Context, subtotal decimal.Decimal, methodID string) (*models.Quote, *ServiceError) {
	if subtotal.IsNegative() {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Subtotal must not be negative"}
	}
	methodID = strings.ToLower(strings.TrimSpace(methodID))
	if methodID == "" {
		methodID = models.MethodStandard
	}

	methods, svcErr := s.Methods(ctx)
	if svcErr != nil {
		return nil, svcErr
	}
	for _, m := range methods {
		if m.ID == methodID {
			q := quoteFor(m, subtotal)
			return &q, nil
		}
	}
	return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Unknown shipping method"}
}

// QuoteAll prices every enabled method for subtotal.
func (s *shippingServiceImpl) QuoteAll(ctx context.Context, subtotal decimal.Decimal) ([]models.Quote, *ServiceError) {
	if subtotal.IsNegative() {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Subtotal must not be negative"}
	}
	methods, svcErr := s.Methods(ctx)
	if svcErr != nil {
		return nil, svcErr
	}
	quotes := make([]models.Quote, 0, len(methods))
	for _, m := range methods {
		quotes = append(quotes, quoteFor(m, subtotal))
	}
	return quotes, nil
}

func quoteFor(m models.ShippingMethod, subtotal decimal.Decimal) models.Quote {
	q := models.Quote{
		MethodID:      m.ID,
		Name:          m.Name,
		Cost:          money.Float(money.FromFloat(m.Price)),
		EstimatedDays: m.EstimatedDays,
	}
	if m.FreeOver != nil && subtotal.GreaterThan(money.FromFloat(*m.FreeOver)) {
		q.Cost, q.Free = 0, true
	}
	return q
}

// CreateShipment books a label for an order. Calling it again for the same
// order returns the existing shipment.
func (s *shippingServiceImpl) CreateShipment(ctx context.Context, req *models.ShipmentRequest) (*models.Shipment, *ServiceError) {
	existing, err := s.repo.FindByOrderID(ctx, req.OrderID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrShipmentNotFound) {
		s.logger.Error("Failed to look up shipment", zap.String("order_id", req.OrderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to create shipment"}
	}

	info, err := s.carrier.CreateLabel(ctx, *req)
	if err != nil {
		s.logger.Error("CreateLabel failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: "Failed to create shipping label"}
	}

	methodID := req.MethodID
	if methodID == "" {
		methodID = models.MethodStandard
	}
	shipment := &models.Shipment{
		OrderID:      req.OrderID,
		OrderNumber:  req.OrderNumber,
		UserID:       req.UserID,
		MethodID:     methodID,
		Carrier:      info.Carrier,
		TrackingCode: info.TrackingCode,
		TrackingURL:  info.TrackingURL,
		Status:       models.ShipmentStatusCreated,
		Destination:  req.Destination,
	}
	if err := s.repo.Create(ctx, shipment); err != nil {
		s.logger.Error("Failed to persist shipment", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to save shipment record"}
	}

	s.logger.Info("Shipment created",
		zap.String("order_id", req.OrderID),
		zap.String("tracking_code", info.TrackingCode),
	)
	s.publishShipmentCreated(ctx, shipment)
	return shipment, nil
}

// TrackShipment asks the carrier for the parcel status and records changes.
func (s *shippingServiceImpl) TrackShipment(ctx context.Context, trackingCode string) (*models.TrackingStatus, *ServiceError) {
	shipment, err := s.repo.FindByTrackingCode(ctx, trackingCode)
	if errors.Is(err, repository.ErrShipmentNotFound) {
		return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Shipment not found"}
	}
	if err != nil {
		s.logger.Error("Failed to look up shipment", zap.String("tracking_code", trackingCode), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch tracking status"}
	}

	status, err := s.carrier.TrackShipment(ctx, trackingCode, shipment.CreatedAt)
	if err != nil {
		s.logger.Error("TrackShipment failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: "Failed to fetch tracking status"}
	}

	if shipment.Status != status.Status {
		if err := s.repo.UpdateStatus(ctx, trackingCode, status.Status); err != nil {
			s.logger.Warn("Failed to update shipment status", zap.Error(err))
		}
	}
	return &status, nil
}

func (s *shippingServiceImpl) ListShipments(ctx context.Context, page, limit int) ([]models.Shipment, int64, *ServiceError) {
	shipments, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list shipments", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to list shipments"}
	}
	return shipments, total, nil
}

func (s *shippingServiceImpl) publishShipmentCreated(ctx context.Context, shipment *models.Shipment) {
	event, err := events.New(events.ShipmentCreated, models.ShipmentCreatedEvent{
		ShipmentID:   shipment.ID.String(),
		OrderID:      shipment.OrderID,
		OrderNumber:  shipment.OrderNumber,
		UserID:       shipment.UserID,
		Carrier:      shipment.Carrier,
		TrackingCode: shipment.TrackingCode,
		TrackingURL:  shipment.TrackingURL,
	})
	if err != nil {
		s.logger.Error("Failed to build shipment event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish shipment event", zap.Error(err))
	}
}
