package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	cartmodels "github.com/solartech/storefront/services/cart-service/models"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/order-service/models"
	"github.com/solartech/storefront/services/order-service/repository"
	"github.com/solartech/storefront/services/payment-service/gateway"
	paymentmodels "github.com/solartech/storefront/services/payment-service/models"
	paymentrepo "github.com/solartech/storefront/services/payment-service/repository"
	paymentservices "github.com/solartech/storefront/services/payment-service/services"
	productmodels "github.com/solartech/storefront/services/product-service/models"
	shippingmodels "github.com/solartech/storefront/services/shipping-service/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCarts struct {
	mu       sync.Mutex
	carts    map[string]*cartmodels.CartView
	cleared  []string
	restored map[string][]cartmodels.CartItem
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: map[string]*cartmodels.CartView{}, restored: map[string][]cartmodels.CartItem{}}
}

func (f *fakeCarts) GetCart(_ context.Context, userID string) (*cartmodels.CartView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.carts[userID]; ok {
		return c, nil
	}
	return &cartmodels.CartView{Cart: cartmodels.Cart{UserID: userID}}, nil
}

func (f *fakeCarts) ClearCart(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, userID)
	delete(f.carts, userID)
	return nil
}

func (f *fakeCarts) Restore(_ context.Context, userID string, items []cartmodels.CartItem, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restored[userID] = items
	return nil
}

type fakeInventory struct {
	mu    sync.Mutex
	stock map[string]int
}

func (f *fakeInventory) DecrementStock(_ context.Context, id string, qty int) (*productmodels.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stock[id] -= qty
	return &productmodels.Product{ID: id, Stock: f.stock[id]}, nil
}

func (f *fakeInventory) RestockProduct(_ context.Context, id string, qty int) (*productmodels.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stock[id] += qty
	return &productmodels.Product{ID: id, Stock: f.stock[id]}, nil
}

type fakePromotions struct{ redeemed []string }

func (f *fakePromotions) Redeem(_ context.Context, code string) error {
	f.redeemed = append(f.redeemed, code)
	return nil
}

type fakeShipping struct {
	shipped []shippingmodels.ShipmentRequest
	err     error
}

func (f *fakeShipping) ShippingCost(_ context.Context, subtotal decimal.Decimal, methodID string) (decimal.Decimal, error) {
	if methodID == "express" {
		return decimal.RequireFromString("99.99"), nil
	}
	return decimal.Zero, apperrors.BadRequest("Unknown shipping method")
}

func (f *fakeShipping) Ship(_ context.Context, req shippingmodels.ShipmentRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.shipped = append(f.shipped, req)
	return "STF0000000001", nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type harness struct {
	svc       *OrderService
	repo      *repository.MemoryOrderRepository
	carts     *fakeCarts
	inventory *fakeInventory
	promos    *fakePromotions
	shipping  *fakeShipping
	events    *recordingPublisher
	payments  *paymentservices.PaymentService
}

func newHarness(seed ...models.Order) *harness {
	h := &harness{
		repo:      repository.NewMemoryOrderRepository(seed...),
		carts:     newFakeCarts(),
		inventory: &fakeInventory{stock: map[string]int{"1": 10, "2": 5}},
		promos:    &fakePromotions{},
		shipping:  &fakeShipping{},
		events:    &recordingPublisher{},
	}
	h.payments = paymentservices.NewPaymentService(paymentrepo.NewMemoryPaymentRepository(), gateway.NewSimulated(nil), nil, nil, "", nil)
	h.svc = NewOrderService(h.repo, Deps{
		Carts:      h.carts,
		Payments:   h.payments,
		Shipping:   h.shipping,
		Inventory:  h.inventory,
		Promotions: h.promos,
		Publisher:  h.events,
	})
	return h
}

func (h *harness) fillCart(userID string) {
	h.carts.carts[userID] = &cartmodels.CartView{
		Cart: cartmodels.Cart{
			UserID: userID,
			Items: []cartmodels.CartItem{
				{ProductID: "1", Name: "SolarMax Pro 400W Solar Panel", Price: 299.99, Quantity: 2, InStock: true},
			},
			PromoCode: "SOLAR20",
		},
		Summary: cartmodels.Summary{
			ItemCount: 2,
			Subtotal:  599.98,
			Shipping:  0,
			Tax:       48,
			Discount:  120,
			Total:     527.98,
			PromoCode: "SOLAR20",
		},
	}
}

func validCheckout() models.CheckoutRequest {
	return models.CheckoutRequest{
		Billing: models.BillingDetails{
			FirstName: "John",
			LastName:  "Smith",
			Country:   "US",
			Address:   "123 Main St",
			City:      "Austin",
			State:     "TX",
			Phone:     "555-0100",
			Email:     "john@example.com",
		},
		PaymentMethod: "card",
		Card:          &models.CardDetails{Number: "4242 4242 4242 4242", Expiry: "12/30", CVC: "123", Name: "John Smith"},
	}
}

func TestPlaceOrder_Validation(t *testing.T) {
	h := newHarness()
	h.fillCart("u1")
	ctx := context.Background()

	req := validCheckout()
	req.Billing.City = "   "
	_, err := h.svc.PlaceOrder(ctx, "u1", req)
	assert.ErrorIs(t, err, ErrBillingIncomplete)

	req = validCheckout()
	req.ShipToDifferentAddress = true
	req.Shipping = &models.ShippingDetails{FirstName: "Jane"}
	_, err = h.svc.PlaceOrder(ctx, "u1", req)
	assert.ErrorIs(t, err, ErrShippingIncomplete)

	bad := []models.CardDetails{
		{Number: "4242 4242 4242", Expiry: "12/30", CVC: "123", Name: "J"},
		{Number: "4242424242424242", Expiry: "1230", CVC: "123", Name: "J"},
		{Number: "4242424242424242", Expiry: "12/30", CVC: "12", Name: "J"},
		{Number: "4242424242424242", Expiry: "12/30", CVC: "123", Name: " "},
	}
	for _, card := range bad {
		req = validCheckout()
		c := card
		req.Card = &c
		_, err = h.svc.PlaceOrder(ctx, "u1", req)
		assert.ErrorIs(t, err, ErrInvalidPayment, card)
	}

	req = validCheckout()
	req.Card = nil
	_, err = h.svc.PlaceOrder(ctx, "u1", req)
	assert.ErrorIs(t, err, ErrInvalidPayment)

	_, err = h.svc.PlaceOrder(ctx, "nobody", validCheckout())
	assert.ErrorIs(t, err, apperrors.ErrEmptyCart)
	assert.Equal(t, "Your cart is empty.", apperrors.As(err).Message)
}

func TestPlaceOrder_CopiesCart(t *testing.T) {
	h := newHarness()
	h.fillCart("u1")
	h.svc.numbers = func() string { return "54321" }

	order, err := h.svc.PlaceOrder(context.Background(), "u1", validCheckout())
	require.NoError(t, err)
	assert.Equal(t, "54321", order.OrderNumber)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentUnpaid, order.PaymentStatus)
	assert.Equal(t, "John Smith", order.CustomerName)
	assert.Equal(t, "4242", order.CardLast4)
	assert.Equal(t, 599.98, order.Subtotal)
	assert.Equal(t, 527.98, order.Total)
	assert.Equal(t, "SOLAR20", order.PromoCode)
	assert.Equal(t, "123 Main St", order.Shipping.Address)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)

	// Placing does not touch the cart.
	assert.Empty(t, h.carts.cleared)
	assert.Empty(t, h.events.types())
}

func TestPlaceOrder_ShippingMethod(t *testing.T) {
	h := newHarness()
	h.fillCart("u1")

	req := validCheckout()
	req.ShippingMethod = "express"
	order, err := h.svc.PlaceOrder(context.Background(), "u1", req)
	require.NoError(t, err)
	assert.Equal(t, 99.99, order.ShippingCost)
	assert.Equal(t, 627.97, order.Total)

	req.ShippingMethod = "teleport"
	_, err = h.svc.PlaceOrder(context.Background(), "u1", req)
	assert.Equal(t, http.StatusBadRequest, apperrors.As(err).Code)
}

func TestPlaceOrder_NumberCollision(t *testing.T) {
	h := newHarness()
	h.fillCart("u1")
	ctx := context.Background()

	candidates := []string{"11111", "11111", "22222"}
	h.svc.numbers = func() string {
		n := candidates[0]
		candidates = candidates[1:]
		return n
	}

	first, err := h.svc.PlaceOrder(ctx, "u1", validCheckout())
	require.NoError(t, err)
	second, err := h.svc.PlaceOrder(ctx, "u1", validCheckout())
	require.NoError(t, err)

	assert.Equal(t, "11111", first.OrderNumber)
	assert.Equal(t, "22222", second.OrderNumber)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRandomOrderNumber(t *testing.T) {
	for i := 0; i < 200; i++ {
		n := randomOrderNumber()
		require.Len(t, n, 5)
		assert.GreaterOrEqual(t, n, "10000")
		assert.LessOrEqual(t, n, "99999")
	}
}

func TestPayOrder_Card(t *testing.T) {
	h := newHarness()
	h.fillCart("u1")
	ctx := context.Background()

	order, err := h.svc.PlaceOrder(ctx, "u1", validCheckout())
	require.NoError(t, err)

	paid, err := h.svc.PayOrder(ctx, "u1", order.ID, models.PayRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, paid.Status)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	assert.NotEmpty(t, paid.PaymentID)
	assert.NotNil(t, paid.PaidAt)

	assert.Equal(t, 8, h.inventory.stock["1"])
	assert.Equal(t, []string{"SOLAR20"}, h.promos.redeemed)
	assert.Equal(t, []string{"u1"}, h.carts.cleared)
	assert.Equal(t, []string{events.OrderPlaced}, h.events.types())

	var payload models.OrderEvent
	require.NoError(t, h.events.events[0].Decode(&payload))
	assert.Equal(t, order.OrderNumber, payload.OrderNumber)
	assert.Equal(t, "john@example.com", payload.Email)

	// Paying twice returns the paid order without charging again.
	again, err := h.svc.PayOrder(ctx, "u1", order.ID, models.PayRequest{})
	require.NoError(t, err)
	assert.Equal(t, paid.PaymentID, again.PaymentID)
	assert.Len(t, h.events.types(), 1)

	attempts, err := h.payments.PaymentsForOrder(ctx, order.ID.String())
	require.NoError(t, err)
	assert.Len(t, attempts, 1)
	assert.Equal(t, int64(52798), attempts[0].Amount)
}

func TestPayOrder_Declined(t *testing.T) {
	h := newHarness()
	h.fillCart("u1")
	ctx := context.Background()

	req := validCheckout()
	req.Card.Number = gateway.DeclinedCard
	order, err := h.svc.PlaceOrder(ctx, "u1", req)
	require.NoError(t, err)

	_, err = h.svc.PayOrder(ctx, "u1", order.ID, models.PayRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPaymentFailed))
	assert.Equal(t, http.StatusPaymentRequired, apperrors.As(err).Code)

	stored, err := h.svc.GetUserOrder(ctx, "u1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, models.PaymentUnpaid, stored.PaymentStatus)
	assert.Empty(t, h.carts.cleared)

	// Retrying with another card succeeds.
	paid, err := h.svc.PayOrder(ctx, "u1", order.ID, models.PayRequest{
		Card: &models.CardDetails{Number: "4242424242424242", Expiry: "12/30", CVC: "123", Name: "John Smith"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, "4242", paid.CardLast4)
}

func TestPayOrder_BankTransfer(t *testing.T) {
	h := newHarness()
	h.fillCart("u1")
	ctx := context.Background()

	req := validCheckout()
	req.PaymentMethod = "bank"
	req.Card = nil
	order, err := h.svc.PlaceOrder(ctx, "u1", req)
	require.NoError(t, err)

	pending, err := h.svc.PayOrder(ctx, "u1", order.ID, models.PayRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, pending.Status)
	assert.Equal(t, models.PaymentAwaitingTransfer, pending.PaymentStatus)
	assert.Equal(t, []string{"u1"}, h.carts.cleared)

	// Awaiting transfer can no longer be cancelled by the customer.
	_, err = h.svc.CancelOrder(ctx, "u1", order.ID)
	assert.ErrorIs(t, err, ErrNotCancellable)

	payment, err := h.payments.ConfirmTransfer(ctx, uuid.MustParse(pending.PaymentID))
	require.NoError(t, err)
	evt, err := events.New(events.PaymentSucceeded, paymentmodels.PaymentEvent{
		PaymentID: payment.ID.String(),
		OrderID:   payment.OrderID,
		Status:    payment.Status,
	})
	require.NoError(t, err)
	require.NoError(t, h.svc.HandlePaymentSucceeded(ctx, evt))

	settled, err := h.svc.GetUserOrder(ctx, "u1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, settled.Status)
	assert.Equal(t, models.PaymentPaid, settled.PaymentStatus)
	assert.Equal(t, []string{events.OrderPlaced, events.OrderStatusChanged}, h.events.types())
}

func TestCancelOrder_RestoresCart(t *testing.T) {
	h := newHarness()
	h.fillCart("u1")
	ctx := context.Background()

	order, err := h.svc.PlaceOrder(ctx, "u1", validCheckout())
	require.NoError(t, err)

	_, err = h.svc.CancelOrder(ctx, "u2", order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	cancelled, err := h.svc.CancelOrder(ctx, "u1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	restored := h.carts.restored["u1"]
	require.Len(t, restored, 1)
	assert.Equal(t, "1", restored[0].ProductID)
	assert.Equal(t, 2, restored[0].Quantity)
	assert.Equal(t, []string{events.OrderCancelled}, h.events.types())

	_, err = h.svc.CancelOrder(ctx, "u1", order.ID)
	assert.ErrorIs(t, err, ErrNotCancellable)

	_, err = h.svc.PayOrder(ctx, "u1", order.ID, models.PayRequest{})
	assert.ErrorIs(t, err, ErrOrderCancelled)
}

// gatedPayments parks every charge until release is closed.
type gatedPayments struct {
	inner   Payments
	started chan struct{}
	release chan struct{}

	mu      sync.Mutex
	charges int
}

func newGatedPayments(inner Payments) *gatedPayments {
	return &gatedPayments{inner: inner, started: make(chan struct{}, 4), release: make(chan struct{})}
}

func (g *gatedPayments) Charge(ctx context.Context, req paymentmodels.ChargeRequest) (*paymentmodels.Payment, error) {
	g.mu.Lock()
	g.charges++
	g.mu.Unlock()
	g.started <- struct{}{}
	<-g.release
	return g.inner.Charge(ctx, req)
}

func TestPayOrder_ConcurrentPaysChargeOnce(t *testing.T) {
	h := newHarness()
	gate := newGatedPayments(h.payments)
	h.svc.payments = gate
	h.fillCart("u1")
	ctx := context.Background()

	order, err := h.svc.PlaceOrder(ctx, "u1", validCheckout())
	require.NoError(t, err)

	type result struct {
		order *models.Order
		err   error
	}
	results := make(chan result, 2)
	for i := 0; i < 2; i++ {
		go func() {
			o, err := h.svc.PayOrder(ctx, "u1", order.ID, models.PayRequest{})
			results <- result{o, err}
		}()
	}
	<-gate.started
	close(gate.release)

	for i := 0; i < 2; i++ {
		r := <-results
		require.NoError(t, r.err)
		assert.Equal(t, models.PaymentPaid, r.order.PaymentStatus)
	}

	assert.Equal(t, 1, gate.charges)
	attempts, err := h.payments.PaymentsForOrder(ctx, order.ID.String())
	require.NoError(t, err)
	assert.Len(t, attempts, 1)
	assert.Equal(t, 8, h.inventory.stock["1"])
	assert.Equal(t, []string{"u1"}, h.carts.cleared)
	assert.Equal(t, []string{"SOLAR20"}, h.promos.redeemed)
}

func TestCancelOrder_WaitsForInFlightPayment(t *testing.T) {
	h := newHarness()
	gate := newGatedPayments(h.payments)
	h.svc.payments = gate
	h.fillCart("u1")
	ctx := context.Background()

	order, err := h.svc.PlaceOrder(ctx, "u1", validCheckout())
	require.NoError(t, err)

	payErr := make(chan error, 1)
	go func() {
		_, err := h.svc.PayOrder(ctx, "u1", order.ID, models.PayRequest{})
		payErr <- err
	}()
	<-gate.started

	cancelErr := make(chan error, 1)
	go func() {
		_, err := h.svc.CancelOrder(ctx, "u1", order.ID)
		cancelErr <- err
	}()
	close(gate.release)

	require.NoError(t, <-payErr)
	assert.ErrorIs(t, <-cancelErr, ErrNotCancellable)

	stored, err := h.svc.GetUserOrder(ctx, "u1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, stored.Status)
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)
	assert.Nil(t, stored.CancelledAt)
	assert.Empty(t, h.carts.restored)
	assert.Equal(t, []string{"u1"}, h.carts.cleared)
}

func TestUpdate_StaleOrderIsConflict(t *testing.T) {
	h := newHarness()
	h.fillCart("u1")
	ctx := context.Background()

	order, err := h.svc.PlaceOrder(ctx, "u1", validCheckout())
	require.NoError(t, err)
	stale := *order

	_, err = h.svc.CancelOrder(ctx, "u1", order.ID)
	require.NoError(t, err)

	stale.Status = models.StatusProcessing
	stale.PaymentStatus = models.PaymentPaid
	err = h.svc.update(ctx, &stale, repository.Expect{Status: models.StatusPending, PaymentStatus: models.PaymentUnpaid})
	assert.ErrorIs(t, err, ErrOrderChanged)
	assert.Equal(t, http.StatusConflict, apperrors.As(err).Code)
}

func TestListUserOrders(t *testing.T) {
	h := newHarness(repository.SeedOrders()...)
	h.fillCart("u1")
	ctx := context.Background()

	_, err := h.svc.PlaceOrder(ctx, "u1", validCheckout())
	require.NoError(t, err)

	orders, total, err := h.svc.ListUserOrders(ctx, "u1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders, 1)

	orders, total, err = h.svc.ListUserOrders(ctx, "CUST-002", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "ORD-2024-002", orders[0].OrderNumber)
}

func TestAdmin_GetAndList(t *testing.T) {
	h := newHarness(repository.SeedOrders()...)
	ctx := context.Background()

	order, err := h.svc.GetOrder(ctx, "ORD-2024-003")
	require.NoError(t, err)
	byID, err := h.svc.GetOrder(ctx, order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, byID.OrderNumber)

	_, err = h.svc.GetOrder(ctx, "ORD-1999-001")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	orders, total, err := h.svc.ListOrders(ctx, repository.OrderFilter{Search: "emily"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "ORD-2024-004", orders[0].OrderNumber)

	_, _, err = h.svc.ListOrders(ctx, repository.OrderFilter{Status: "lost"}, 1, 10)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAdmin_UpdateStatus(t *testing.T) {
	h := newHarness(repository.SeedOrders()...)
	ctx := context.Background()

	shipped, err := h.svc.UpdateStatus(ctx, "ORD-2024-002", "shipped")
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, shipped.Status)
	assert.Equal(t, "STF0000000001", shipped.TrackingCode)
	require.Len(t, h.shipping.shipped, 1)
	assert.Equal(t, "Sarah Johnson", h.shipping.shipped[0].Destination.Name)
	assert.Equal(t, "ORD-2024-002", h.shipping.shipped[0].OrderNumber)

	delivered, err := h.svc.UpdateStatus(ctx, "ORD-2024-002", "delivered")
	require.NoError(t, err)
	assert.NotNil(t, delivered.DeliveredAt)

	_, err = h.svc.UpdateStatus(ctx, "ORD-2024-002", "pending")
	appErr := apperrors.As(err)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Equal(t, "Cannot change order status from delivered to pending", appErr.Message)

	_, err = h.svc.UpdateStatus(ctx, "ORD-2024-002", "lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	assert.Equal(t, []string{events.OrderStatusChanged, events.OrderStatusChanged}, h.events.types())
}

func TestAdmin_ShipmentFailure(t *testing.T) {
	h := newHarness(repository.SeedOrders()...)
	h.shipping.err = errors.New("carrier down")
	ctx := context.Background()

	_, err := h.svc.UpdateStatus(ctx, "ORD-2024-002", "shipped")
	assert.Equal(t, http.StatusBadGateway, apperrors.As(err).Code)

	order, err := h.svc.GetOrder(ctx, "ORD-2024-002")
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, order.Status)
}

func TestAdmin_CancelPaidRestocks(t *testing.T) {
	h := newHarness(repository.SeedOrders()...)
	ctx := context.Background()

	_, err := h.svc.UpdateStatus(ctx, "ORD-2024-002", "cancelled")
	require.NoError(t, err)
	assert.Equal(t, 6, h.inventory.stock["2"])
	assert.Equal(t, 1, h.inventory.stock["4"])
}

func TestExportOrdersCSV(t *testing.T) {
	h := newHarness(repository.SeedOrders()...)

	var buf bytes.Buffer
	require.NoError(t, h.svc.ExportOrdersCSV(context.Background(), repository.OrderFilter{}, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Order Number,Customer,Email,Date,Items,Total,Status,Payment Status", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "ORD-2024-001,John Smith,john@example.com,2024-01-15,3,"))
	assert.True(t, strings.HasSuffix(lines[1], "299.00\",shipped,paid"))
}
