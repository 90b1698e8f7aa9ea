package repository

import (
	"context"
	"sync"
	"time"

	"github.com/solartech/storefront/services/cart-service/models"
)

// MemoryCartRepository is the default store. Carts expire after ttl without
// a save; a zero ttl keeps them forever.
type MemoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string]*models.Cart
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryCartRepository(ttl time.Duration) *MemoryCartRepository {
	return &MemoryCartRepository{
		carts: make(map[string]*models.Cart),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (r *MemoryCartRepository) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok || r.expired(cart) {
		return nil, nil
	}
	return cloneCart(cart), nil
}

func (r *MemoryCartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cart.UpdatedAt = r.now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cart.UserID] = cloneCart(cart)
	return nil
}

func (r *MemoryCartRepository) DeleteCart(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}

func (r *MemoryCartRepository) expired(cart *models.Cart) bool {
	return r.ttl > 0 && r.now().Sub(cart.UpdatedAt) > r.ttl
}
