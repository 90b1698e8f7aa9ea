package repository

import (
	"context"
	"errors"

	"github.com/solartech/storefront/services/product-service/models"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrDuplicate         = errors.New("product already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepo is implemented by the in-memory store and the MongoDB adapter.
type ProductRepo interface {
	Find(ctx context.Context, q models.Query) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	// Update writes the catalog fields of product. Stock and InStock are
	// left as stored; stock only moves through SetStock and AdjustStock.
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	SetStatus(ctx context.Context, ids []string, status string) (int64, error)
	// AdjustStock adds delta to the stock level and fails without changes if
	// the result would be negative.
	AdjustStock(ctx context.Context, id string, delta int) (*models.Product, error)
	// SetStock overwrites the stock level in a single write.
	SetStock(ctx context.Context, id string, stock int) (*models.Product, error)
	NextSeq(ctx context.Context) (int64, error)
}
