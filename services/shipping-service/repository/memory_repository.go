package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/solartech/storefront/services/shipping-service/models"
)

type MemoryShipmentRepository struct {
	mu        sync.RWMutex
	shipments []*models.Shipment
	now       func() time.Time
}

func NewMemoryShipmentRepository() *MemoryShipmentRepository {
	return &MemoryShipmentRepository{now: time.Now}
}

func (r *MemoryShipmentRepository) Create(ctx context.Context, shipment *models.Shipment) error {
	if err := shipment.BeforeCreate(nil); err != nil {
		return err
	}
	now := r.now().UTC()
	shipment.CreatedAt, shipment.UpdatedAt = now, now

	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *shipment
	r.shipments = append(r.shipments, &cp)
	return nil
}

func (r *MemoryShipmentRepository) FindByOrderID(ctx context.Context, orderID string) (*models.Shipment, error) {
	return r.find(func(s *models.Shipment) bool { return s.OrderID == orderID })
}

func (r *MemoryShipmentRepository) FindByTrackingCode(ctx context.Context, trackingCode string) (*models.Shipment, error) {
	return r.find(func(s *models.Shipment) bool { return s.TrackingCode == trackingCode })
}

func (r *MemoryShipmentRepository) find(match func(*models.Shipment) bool) (*models.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.shipments {
		if match(s) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrShipmentNotFound
}

func (r *MemoryShipmentRepository) UpdateStatus(ctx context.Context, trackingCode, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shipments {
		if s.TrackingCode == trackingCode {
			s.Status = status
			s.UpdatedAt = r.now().UTC()
			return nil
		}
	}
	return ErrShipmentNotFound
}

func (r *MemoryShipmentRepository) FindAll(ctx context.Context, page, limit int) ([]models.Shipment, int64, error) {
	r.mu.RLock()
	all := make([]models.Shipment, len(r.shipments))
	for i, s := range r.shipments {
		all[i] = *s
	}
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return []models.Shipment{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}
