package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/common/money"
	"github.com/solartech/storefront/services/order-service/models"
	"github.com/solartech/storefront/services/order-service/repository"
	shippingmodels "github.com/solartech/storefront/services/shipping-service/models"
	"go.uber.org/zap"
)

var csvHeader = []string{"Order Number", "Customer", "Email", "Date", "Items", "Total", "Status", "Payment Status"}

// ListOrders searches all orders for the admin table.
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderFilter, page, limit int) ([]models.Order, int64, error) {
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}
	orders, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return orders, total, nil
}

// Orders returns every order matching filter, newest first.
func (s *OrderService) Orders(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	orders, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return orders, nil
}

// GetOrder accepts an order ID or an order number.
func (s *OrderService) GetOrder(ctx context.Context, ref string) (*models.Order, error) {
	ref = strings.TrimSpace(ref)
	var (
		order *models.Order
		err   error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		order, err = s.repo.FindByID(ctx, id)
	} else {
		order, err = s.repo.FindByNumber(ctx, ref)
	}
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	return order, nil
}

// UpdateStatus moves an order along its lifecycle. Shipping books a shipment
// first and stores its tracking code. Cancelling a paid order returns its
// items to stock.
func (s *OrderService) UpdateStatus(ctx context.Context, ref, status string) (*models.Order, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	found, err := s.GetOrder(ctx, ref)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(found.ID)
	defer unlock()

	order, err := s.repo.FindByID(ctx, found.ID)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	if !models.CanTransition(order.Status, status) {
		return nil, apperrors.Conflict(fmt.Sprintf("Cannot change order status from %s to %s", order.Status, status))
	}

	expect := repository.ExpectCurrent(order)
	now := s.now().UTC()
	previous := order.Status
	switch status {
	case models.StatusShipped:
		if s.shipping != nil {
			code, err := s.shipping.Ship(ctx, shipmentRequest(order))
			if err != nil {
				s.logger.Error("Failed to book shipment",
					zap.String("order_id", order.ID.String()),
					zap.Error(err),
				)
				return nil, ErrShippingUnbooked.Wrap(err)
			}
			order.TrackingCode = code
		}
		order.ShippedAt = &now
	case models.StatusDelivered:
		order.DeliveredAt = &now
	case models.StatusCancelled:
		order.CancelledAt = &now
	}
	order.Status = status

	if err := s.update(ctx, order, expect); err != nil {
		return nil, err
	}
	s.cards.Delete(order.ID)

	if status == models.StatusCancelled && order.PaymentStatus != models.PaymentUnpaid {
		s.restock(ctx, order)
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("from", previous),
		zap.String("to", status),
	)
	s.emit(ctx, events.OrderStatusChanged, order, previous)
	return order, nil
}

func (s *OrderService) restock(ctx context.Context, order *models.Order) {
	for _, it := range order.Items {
		if _, err := s.inventory.RestockProduct(ctx, it.ProductID, it.Quantity); err != nil {
			s.logger.Warn("Failed to restock product",
				zap.String("order_id", order.ID.String()),
				zap.String("product_id", it.ProductID),
				zap.Error(err),
			)
		}
	}
}

func shipmentRequest(o *models.Order) shippingmodels.ShipmentRequest {
	to := o.ShipTo()
	street := to.Address
	if to.Address2 != "" {
		street += ", " + to.Address2
	}
	return shippingmodels.ShipmentRequest{
		OrderID:     o.ID.String(),
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		MethodID:    o.ShippingMethod,
		Destination: shippingmodels.Address{
			Name:    to.FullName(),
			Street:  street,
			City:    to.City,
			State:   to.State,
			Zip:     to.Zip,
			Country: to.Country,
			Phone:   to.Phone,
		},
	}
}

// ExportOrdersCSV writes every order matching filter as CSV.
func (s *OrderService) ExportOrdersCSV(ctx context.Context, filter repository.OrderFilter, w io.Writer) error {
	orders, err := s.Orders(ctx, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, o := range orders {
		record := []string{
			o.OrderNumber,
			o.CustomerName,
			o.Email,
			o.CreatedAt.Format("2006-01-02"),
			strconv.Itoa(o.ItemCount()),
			money.Format(o.Total),
			o.Status,
			o.PaymentStatus,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
