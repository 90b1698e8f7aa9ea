package repository

import (
	"context"

	"github.com/solartech/storefront/services/cart-service/models"
)

// CartRepository stores one cart per user. Get returns nil, nil when the
// user has no cart.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}

func cloneCart(c *models.Cart) *models.Cart {
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	return &cp
}
