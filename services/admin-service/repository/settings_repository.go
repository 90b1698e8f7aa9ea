package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/solartech/storefront/services/admin-service/models"
	shippingmodels "github.com/solartech/storefront/services/shipping-service/models"
)

var ErrSettingsNotFound = errors.New("store settings not found")

// SettingsRepository persists the single store settings document.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.StoreSettings, error)
	Save(ctx context.Context, settings *models.StoreSettings) error
}

type MemorySettingsRepository struct {
	mu       sync.RWMutex
	settings *models.StoreSettings
}

// NewMemorySettingsRepository starts empty when initial is nil.
func NewMemorySettingsRepository(initial *models.StoreSettings) *MemorySettingsRepository {
	r := &MemorySettingsRepository{}
	if initial != nil {
		r.settings = clone(initial)
	}
	return r
}

func (r *MemorySettingsRepository) Get(_ context.Context) (*models.StoreSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.settings == nil {
		return nil, ErrSettingsNotFound
	}
	return clone(r.settings), nil
}

func (r *MemorySettingsRepository) Save(_ context.Context, settings *models.StoreSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = clone(settings)
	return nil
}

func clone(s *models.StoreSettings) *models.StoreSettings {
	cp := *s
	cp.ShippingMethods = make([]shippingmodels.ShippingMethod, len(s.ShippingMethods))
	copy(cp.ShippingMethods, s.ShippingMethods)
	for i, m := range cp.ShippingMethods {
		if m.FreeOver != nil {
			v := *m.FreeOver
			cp.ShippingMethods[i].FreeOver = &v
		}
	}
	return &cp
}
