package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	awspkg "github.com/solartech/storefront/pkg/aws"
	cartmodels "github.com/solartech/storefront/services/cart-service/models"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/common/latency"
	"github.com/solartech/storefront/services/common/money"
	"github.com/solartech/storefront/services/order-service/models"
	"github.com/solartech/storefront/services/order-service/repository"
	paymentmodels "github.com/solartech/storefront/services/payment-service/models"
	productmodels "github.com/solartech/storefront/services/product-service/models"
	shippingmodels "github.com/solartech/storefront/services/shipping-service/models"
	"go.uber.org/zap"
)

var (
	ErrOrderNotFound    = apperrors.NotFound("Order not found")
	ErrNotCancellable   = apperrors.Conflict("Only pending unpaid orders can be cancelled")
	ErrOrderCancelled   = apperrors.Conflict("Order has been cancelled")
	ErrInvalidStatus    = apperrors.BadRequest("Invalid order status")
	ErrNumberExhausted  = apperrors.New(http.StatusServiceUnavailable, "Could not allocate an order number", nil)
	ErrShippingUnbooked = apperrors.New(http.StatusBadGateway, "Could not book shipment", nil)
	ErrOrderChanged     = apperrors.Conflict("Order was updated by another request, please retry")
)

const numberAttempts = 20

// Carts is the cart-service surface used at checkout.
type Carts interface {
	GetCart(ctx context.Context, userID string) (*cartmodels.CartView, error)
	ClearCart(ctx context.Context, userID string) error
	Restore(ctx context.Context, userID string, items []cartmodels.CartItem, promoCode string) error
}

type Payments interface {
	Charge(ctx context.Context, req paymentmodels.ChargeRequest) (*paymentmodels.Payment, error)
}

type Shipping interface {
	ShippingCost(ctx context.Context, subtotal decimal.Decimal, methodID string) (decimal.Decimal, error)
	Ship(ctx context.Context, req shippingmodels.ShipmentRequest) (string, error)
}

type Inventory interface {
	DecrementStock(ctx context.Context, id string, qty int) (*productmodels.Product, error)
	RestockProduct(ctx context.Context, id string, qty int) (*productmodels.Product, error)
}

type Promotions interface {
	Redeem(ctx context.Context, code string) error
}

// MetricsRecorder is the subset of awspkg.MetricsClient used for order counts.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordValue(ctx context.Context, metricName string, value float64, dimensions map[string]string) error
}

type Deps struct {
	Carts      Carts
	Payments   Payments
	Shipping   Shipping // optional
	Inventory  Inventory
	Promotions Promotions // optional
	Publisher  events.Publisher
	Metrics    MetricsRecorder // optional
	Latency    *latency.Simulator
	Logger     *zap.Logger
}

type OrderService struct {
	repo       repository.OrderRepository
	carts      Carts
	payments   Payments
	shipping   Shipping
	inventory  Inventory
	promotions Promotions
	publisher  events.Publisher
	metrics    MetricsRecorder
	latency    *latency.Simulator
	logger     *zap.Logger
	validate   *validator.Validate

	// cards holds card details between placing and paying an order. They are
	// never persisted.
	cards sync.Map
	// locks serialises state changes per order ID.
	locks sync.Map
	now   func() time.Time
	// numbers yields candidate order numbers.
	numbers func() string
}

func NewOrderService(repo repository.OrderRepository, deps Deps) *OrderService {
	s := &OrderService{
		repo:       repo,
		carts:      deps.Carts,
		payments:   deps.Payments,
		shipping:   deps.Shipping,
		inventory:  deps.Inventory,
		promotions: deps.Promotions,
		publisher:  deps.Publisher,
		metrics:    deps.Metrics,
		latency:    deps.Latency,
		logger:     deps.Logger,
		validate:   newCheckoutValidator(),
		now:        time.Now,
		numbers:    randomOrderNumber,
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func randomOrderNumber() string {
	return fmt.Sprintf("%d", rand.IntN(90000)+10000)
}

// PlaceOrder turns the user's cart into a pending, unpaid order. The cart is
// left untouched until the order is paid.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, req models.CheckoutRequest) (*models.Order, error) {
	if err := s.latency.Wait(ctx, latency.PlaceOrder); err != nil {
		return nil, err
	}
	if err := s.validateCheckout(&req); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	order, err := s.buildOrder(ctx, userID, req, cart)
	if err != nil {
		return nil, err
	}
	if err := s.create(ctx, order); err != nil {
		return nil, err
	}
	if req.Card != nil && order.PaymentMethod == models.PaymentMethodCard {
		s.cards.Store(order.ID, *req.Card)
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID),
		zap.Float64("total", order.Total),
	)
	return order, nil
}

func (s *OrderService) buildOrder(ctx context.Context, userID string, req models.CheckoutRequest, cart *cartmodels.CartView) (*models.Order, error) {
	sum := cart.Summary
	subtotal := money.FromFloat(sum.Subtotal)
	shippingCost := money.FromFloat(sum.Shipping)
	if req.ShippingMethod != "" && s.shipping != nil {
		cost, err := s.shipping.ShippingCost(ctx, subtotal, req.ShippingMethod)
		if err != nil {
			return nil, err
		}
		shippingCost = cost
	}
	tax := money.FromFloat(sum.Tax)
	discount := money.FromFloat(sum.Discount)
	total := subtotal.Add(shippingCost).Add(tax).Sub(discount)

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Slug:      it.Slug,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	order := &models.Order{
		UserID:                 userID,
		CustomerName:           req.Billing.FullName(),
		Email:                  req.Billing.Email,
		Items:                  items,
		Billing:                req.Billing,
		ShipToDifferentAddress: req.ShipToDifferentAddress,
		ShippingMethod:         req.ShippingMethod,
		PaymentMethod:          req.PaymentMethod,
		Subtotal:               money.Float(subtotal),
		ShippingCost:           money.Float(shippingCost),
		Tax:                    money.Float(tax),
		Discount:               money.Float(discount),
		Total:                  money.Float(total),
		PromoCode:              sum.PromoCode,
		Status:                 models.StatusPending,
		PaymentStatus:          models.PaymentUnpaid,
		Notes:                  req.Notes,
	}
	if req.ShipToDifferentAddress && req.Shipping != nil {
		order.Shipping = *req.Shipping
	} else {
		order.Shipping = req.Billing.AsShipping()
	}
	if req.Card != nil && order.PaymentMethod == models.PaymentMethodCard {
		order.CardLast4 = paymentmodels.Last4(req.Card.Number)
	}
	return order, nil
}

// create stores order under a fresh 5-digit number, retrying on collisions.
func (s *OrderService) create(ctx context.Context, order *models.Order) error {
	for i := 0; i < numberAttempts; i++ {
		order.OrderNumber = s.numbers()
		err := s.repo.Create(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateNumber) {
			return apperrors.Internal(err)
		}
		order.ID = uuid.Nil
	}
	return ErrNumberExhausted
}

// PayOrder charges a placed order. Card payments move the order to
// processing. Bank transfers stay pending until the transfer is confirmed.
// Either way stock is taken, the promo code is redeemed and the cart is
// cleared. A declined card leaves the order pending.
func (s *OrderService) PayOrder(ctx context.Context, userID string, orderID uuid.UUID, req models.PayRequest) (*models.Order, error) {
	unlock := s.lock(orderID)
	defer unlock()

	order, err := s.GetUserOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	expect := repository.ExpectCurrent(order)
	if order.Status == models.StatusCancelled {
		return nil, ErrOrderCancelled
	}
	if order.PaymentStatus != models.PaymentUnpaid {
		return order, nil
	}

	charge := paymentmodels.ChargeRequest{
		OrderID: order.ID.String(),
		UserID:  userID,
		Amount:  money.FromFloat(order.Total),
		Method:  order.PaymentMethod,
	}
	if order.PaymentMethod == models.PaymentMethodCard {
		card, err := s.cardFor(order.ID, req.Card)
		if err != nil {
			return nil, err
		}
		charge.Card = &paymentmodels.CardDetails{Number: card.Number, Expiry: card.Expiry, CVC: card.CVC, Name: card.Name}
		order.CardLast4 = paymentmodels.Last4(card.Number)
	}

	payment, err := s.payments.Charge(ctx, charge)
	if err != nil {
		s.logger.Info("Payment not completed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	now := s.now().UTC()
	order.PaymentID = payment.ID.String()
	if payment.Status == paymentmodels.StatusAwaitingTransfer {
		order.PaymentStatus = models.PaymentAwaitingTransfer
	} else {
		order.PaymentStatus = models.PaymentPaid
		order.Status = models.StatusProcessing
		order.PaidAt = &now
	}
	if err := s.update(ctx, order, expect); err != nil {
		s.logger.Error("Order changed while being charged",
			zap.String("order_id", order.ID.String()),
			zap.String("payment_id", order.PaymentID),
			zap.Error(err),
		)
		return nil, err
	}
	s.cards.Delete(order.ID)

	s.fulfil(ctx, order)
	s.emit(ctx, events.OrderPlaced, order, "")
	s.record(ctx, order)

	s.logger.Info("Order paid",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_status", order.PaymentStatus),
	)
	return order, nil
}

func (s *OrderService) cardFor(orderID uuid.UUID, card *models.CardDetails) (*models.CardDetails, error) {
	if card != nil {
		if err := s.validateCard(card); err != nil {
			return nil, err
		}
		return card, nil
	}
	held, ok := s.cards.Load(orderID)
	if !ok {
		return nil, ErrInvalidPayment
	}
	c := held.(models.CardDetails)
	return &c, nil
}

// fulfil takes stock, redeems the promo and clears the cart once an order is
// paid. Failures are logged; the payment has already been taken.
func (s *OrderService) fulfil(ctx context.Context, order *models.Order) {
	for _, it := range order.Items {
		if _, err := s.inventory.DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
			s.logger.Warn("Failed to decrement stock",
				zap.String("order_id", order.ID.String()),
				zap.String("product_id", it.ProductID),
				zap.Int("quantity", it.Quantity),
				zap.Error(err),
			)
		}
	}
	if order.PromoCode != "" && s.promotions != nil {
		if err := s.promotions.Redeem(ctx, order.PromoCode); err != nil {
			s.logger.Warn("Failed to redeem promo code",
				zap.String("order_id", order.ID.String()),
				zap.String("code", order.PromoCode),
				zap.Error(err),
			)
		}
	}
	if err := s.carts.ClearCart(ctx, order.UserID); err != nil {
		s.logger.Warn("Failed to clear cart", zap.String("user_id", order.UserID), zap.Error(err))
	}
}

// CancelOrder cancels a pending unpaid order and puts its items back in the
// user's cart.
func (s *OrderService) CancelOrder(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, error) {
	unlock := s.lock(orderID)
	defer unlock()

	order, err := s.GetUserOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Cancellable() {
		return nil, ErrNotCancellable
	}

	expect := repository.ExpectCurrent(order)
	now := s.now().UTC()
	previous := order.Status
	order.Status = models.StatusCancelled
	order.CancelledAt = &now
	if err := s.update(ctx, order, expect); err != nil {
		if errors.Is(err, ErrOrderChanged) {
			return nil, ErrNotCancellable
		}
		return nil, err
	}
	s.cards.Delete(order.ID)

	items := make([]cartmodels.CartItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, cartmodels.CartItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Slug:      it.Slug,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
			InStock:   true,
		})
	}
	if err := s.carts.Restore(ctx, userID, items, order.PromoCode); err != nil {
		s.logger.Error("Failed to restore cart",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.emit(ctx, events.OrderCancelled, order, previous)
	s.count(ctx, awspkg.MetricOrdersCancelled)
	return order, nil
}

// ListUserOrders returns the user's orders, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, error) {
	orders, total, err := s.repo.List(ctx, repository.OrderFilter{UserID: userID}, page, limit)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return orders, total, nil
}

// GetUserOrder returns an order only if it belongs to userID.
func (s *OrderService) GetUserOrder(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// HandlePaymentSucceeded settles orders paid by bank transfer once the
// transfer is confirmed.
func (s *OrderService) HandlePaymentSucceeded(ctx context.Context, evt events.Event) error {
	var payload paymentmodels.PaymentEvent
	if err := evt.Decode(&payload); err != nil {
		return err
	}
	id, err := uuid.Parse(payload.OrderID)
	if err != nil {
		return fmt.Errorf("payment event order id: %w", err)
	}
	// Card charges publish this event while PayOrder still holds the order
	// lock and the order is unpaid, so only awaiting orders take the lock.
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapRepoErr(err)
	}
	if order.PaymentStatus != models.PaymentAwaitingTransfer {
		return nil
	}

	unlock := s.lock(id)
	defer unlock()
	if order, err = s.repo.FindByID(ctx, id); err != nil {
		return s.mapRepoErr(err)
	}
	if order.PaymentStatus != models.PaymentAwaitingTransfer {
		return nil
	}

	expect := repository.ExpectCurrent(order)
	now := s.now().UTC()
	previous := order.Status
	order.PaymentStatus = models.PaymentPaid
	order.PaidAt = &now
	if order.Status == models.StatusPending {
		order.Status = models.StatusProcessing
	}
	if err := s.update(ctx, order, expect); err != nil {
		return err
	}
	if previous != order.Status {
		s.emit(ctx, events.OrderStatusChanged, order, previous)
	}
	return nil
}

// lock holds the order's mutex until the returned func is called.
func (s *OrderService) lock(orderID uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(orderID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// update writes order only if the stored copy still matches expect.
func (s *OrderService) update(ctx context.Context, order *models.Order, expect repository.Expect) error {
	err := s.repo.Update(ctx, order, expect)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrStaleOrder):
		return ErrOrderChanged
	default:
		return s.mapRepoErr(err)
	}
}

func (s *OrderService) mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrOrderNotFound) {
		return ErrOrderNotFound
	}
	return apperrors.Internal(err)
}

func (s *OrderService) emit(ctx context.Context, eventType string, order *models.Order, previous string) {
	payload := models.NewOrderEvent(order)
	payload.PreviousStatus = previous
	evt, err := events.New(eventType, payload)
	if err == nil {
		err = s.publisher.Publish(ctx, evt)
	}
	if err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("type", eventType),
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *OrderService) record(ctx context.Context, order *models.Order) {
	if s.metrics == nil {
		return
	}
	dims := map[string]string{"PaymentMethod": order.PaymentMethod}
	_ = s.metrics.RecordCount(ctx, awspkg.MetricOrdersPlaced, dims)
	_ = s.metrics.RecordValue(ctx, awspkg.MetricOrderValue, order.Total, dims)
}

func (s *OrderService) count(ctx context.Context, metric string) {
	if s.metrics == nil {
		return
	}
	_ = s.metrics.RecordCount(ctx, metric, nil)
}
