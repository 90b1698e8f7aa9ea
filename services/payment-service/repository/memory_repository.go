package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/solartech/storefront/services/payment-service/models"
)

type MemoryPaymentRepository struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]*models.Payment
	now      func() time.Time
}

func NewMemoryPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{payments: make(map[uuid.UUID]*models.Payment), now: time.Now}
}

func (r *MemoryPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if err := payment.BeforeCreate(nil); err != nil {
		return err
	}
	now := r.now().UTC()
	payment.CreatedAt, payment.UpdatedAt = now, now

	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *payment
	r.payments[cp.ID] = &cp
	return nil
}

func (r *MemoryPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryPaymentRepository) FindByOrderID(ctx context.Context, orderID string) ([]models.Payment, error) {
	r.mu.RLock()
	var out []models.Payment
	for _, p := range r.payments {
		if p.OrderID == orderID {
			out = append(out, *p)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryPaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return ErrPaymentNotFound
	}
	p.Status = status
	p.UpdatedAt = r.now().UTC()
	switch status {
	case models.StatusSucceeded:
		p.SucceededAt = &at
	case models.StatusFailed:
		p.FailedAt = &at
	}
	return nil
}
