package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/solartech/storefront/services/promotion-service/models"
)

// MemoryCouponRepository keeps coupons in a map keyed by upper-case code.
type MemoryCouponRepository struct {
	mu      sync.RWMutex
	coupons map[string]*models.Coupon
	now     func() time.Time
}

func NewMemoryCouponRepository() *MemoryCouponRepository {
	return &MemoryCouponRepository{coupons: make(map[string]*models.Coupon), now: time.Now}
}

func (r *MemoryCouponRepository) Create(_ context.Context, coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	coupon.Code = strings.ToUpper(coupon.Code)
	if _, exists := r.coupons[coupon.Code]; exists {
		return ErrDuplicateCode
	}
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	now := r.now().UTC()
	coupon.CreatedAt, coupon.UpdatedAt = now, now
	cp := *coupon
	r.coupons[coupon.Code] = &cp
	return nil
}

func (r *MemoryCouponRepository) FindByCode(_ context.Context, code string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.coupons[strings.ToUpper(code)]
	if !ok {
		return nil, ErrCouponNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryCouponRepository) Update(_ context.Context, coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToUpper(coupon.Code)
	if _, ok := r.coupons[key]; !ok {
		return ErrCouponNotFound
	}
	coupon.UpdatedAt = r.now().UTC()
	cp := *coupon
	r.coupons[key] = &cp
	return nil
}

func (r *MemoryCouponRepository) IncrementUsedCount(_ context.Context, code string) (*models.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[strings.ToUpper(code)]
	if !ok || !c.Active {
		return nil, ErrCouponNotFound
	}
	if c.Exhausted() {
		return nil, ErrUsageLimitReached
	}
	c.UsedCount++
	c.UpdatedAt = r.now().UTC()
	cp := *c
	return &cp, nil
}

func (r *MemoryCouponRepository) Deactivate(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[strings.ToUpper(code)]
	if !ok {
		return ErrCouponNotFound
	}
	c.Active = false
	c.UpdatedAt = r.now().UTC()
	return nil
}

func (r *MemoryCouponRepository) FindAll(_ context.Context, page, limit int) ([]models.Coupon, int64, error) {
	r.mu.RLock()
	all := make([]models.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		all = append(all, *c)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Code < all[j].Code
	})

	total := int64(len(all))
	start := min((page-1)*limit, len(all))
	end := min(start+limit, len(all))
	return all[start:end], total, nil
}
