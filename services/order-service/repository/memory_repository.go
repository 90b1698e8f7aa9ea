package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/solartech/storefront/services/order-service/models"
)

type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*models.Order
	now    func() time.Time
}

func NewMemoryOrderRepository(seed ...models.Order) *MemoryOrderRepository {
	r := &MemoryOrderRepository{orders: make(map[uuid.UUID]*models.Order), now: time.Now}
	for i := range seed {
		o := cloneOrder(&seed[i])
		_ = o.BeforeCreate(nil)
		r.orders[o.ID] = o
	}
	return r
}

func (r *MemoryOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := order.BeforeCreate(nil); err != nil {
		return err
	}
	now := r.now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNumber == order.OrderNumber {
			return ErrDuplicateNumber
		}
	}
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *MemoryOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *MemoryOrderRepository) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.OrderNumber == number {
			return cloneOrder(o), nil
		}
	}
	return nil, ErrOrderNotFound
}

func (r *MemoryOrderRepository) Update(ctx context.Context, order *models.Order, expect Expect) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[order.ID]
	if !ok {
		return ErrOrderNotFound
	}
	if (expect.Status != "" && o.Status != expect.Status) ||
		(expect.PaymentStatus != "" && o.PaymentStatus != expect.PaymentStatus) {
		return ErrStaleOrder
	}
	o.Status = order.Status
	o.PaymentStatus = order.PaymentStatus
	o.PaymentID = order.PaymentID
	o.CardLast4 = order.CardLast4
	o.TrackingCode = order.TrackingCode
	o.PaidAt = order.PaidAt
	o.ShippedAt = order.ShippedAt
	o.DeliveredAt = order.DeliveredAt
	o.CancelledAt = order.CancelledAt
	o.UpdatedAt = r.now().UTC()
	return nil
}

func (r *MemoryOrderRepository) List(ctx context.Context, filter OrderFilter, page, limit int) ([]models.Order, int64, error) {
	all, _ := r.Find(ctx, filter)
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return []models.Order{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *MemoryOrderRepository) Find(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	r.mu.RLock()
	out := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if matches(o, filter) {
			out = append(out, *cloneOrder(o))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func matches(o *models.Order, f OrderFilter) bool {
	if f.UserID != "" && o.UserID != f.UserID {
		return false
	}
	if f.Email != "" && !strings.EqualFold(o.Email, f.Email) {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if !f.Since.IsZero() && o.CreatedAt.Before(f.Since) {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		return strings.Contains(strings.ToLower(o.CustomerName), s) ||
			strings.Contains(strings.ToLower(o.Email), s) ||
			strings.Contains(strings.ToLower(o.OrderNumber), s) ||
			strings.Contains(o.ID.String(), s)
	}
	return true
}

func cloneOrder(o *models.Order) *models.Order {
	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	return &cp
}
