package controllers

import (
	"context"
	"time"

	"github.com/solartech/storefront/services/product-service/models"
	"github.com/solartech/storefront/services/product-service/services"
)

const (
	DefaultContextTimeout = 30 * time.Second
	DefaultFeaturedLimit  = 8
	DefaultRelatedLimit   = 4
	DefaultLowStockLimit  = 10
)

// ProductServiceAPI defines the interface for product service operations
type ProductServiceAPI interface {
	ListProducts(ctx context.Context, params services.ListProductsParams) (*services.ProductList, error)
	GetProduct(ctx context.Context, idOrSlug string) (*models.Product, error)
	FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error)
	RelatedProducts(ctx context.Context, idOrSlug string, limit int) ([]models.Product, error)
	Categories(ctx context.Context) ([]models.Category, error)
	FilterMetadata(ctx context.Context) (*models.FilterMetadata, error)

	AdminListProducts(ctx context.Context, params services.AdminListParams) (*services.AdminProductList, error)
	AdminGetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, req services.ProductCreateRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, req services.ProductUpdateRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	BulkAction(ctx context.Context, req services.BulkActionRequest) (*services.BulkActionResult, error)
	AdjustStock(ctx context.Context, id string, adj services.StockAdjustment) (*models.Product, error)
	LowStock(ctx context.Context, threshold int) ([]models.Product, error)
	GenerateUploadURL(ctx context.Context, req services.UploadRequest) (*services.UploadResponse, error)
}

// ThresholdSource supplies the store's configured low-stock threshold.
type ThresholdSource interface {
	LowStockThreshold(ctx context.Context) int
}
