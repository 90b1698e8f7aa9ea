package services

import (
	"github.com/solartech/storefront/services/common/pagination"
	"github.com/solartech/storefront/services/product-service/models"
)

const (
	ModeLoadMore = "more"
	ModePage     = "page"
)

// ListProductsParams is a storefront listing request.
type ListProductsParams struct {
	Filter models.ProductFilter
	Sort   string
	Page   pagination.Params
	// Mode "more" returns every item up to the end of Page (load-more
	// pagination); "page" returns only Page's slice.
	Mode string
}

// ProductList is a listing response.
type ProductList struct {
	Products []models.Product `json:"products"`
	Meta     pagination.Meta  `json:"meta"`
	HasMore  bool             `json:"hasMore"`
}

// AdminListParams is the admin product table query.
type AdminListParams struct {
	Search   string
	Category string
	Status   string
	Page     pagination.Params
}

// ProductCreateRequest is the admin "Add Product" form.
type ProductCreateRequest struct {
	Name           string            `json:"name" validate:"required,max=200"`
	SKU            string            `json:"sku" validate:"required,max=64"`
	Category       string            `json:"category" validate:"required,category"`
	Brand          string            `json:"brand" validate:"omitempty,max=64"`
	Price          float64           `json:"price" validate:"required,gt=0"`
	OriginalPrice  *float64          `json:"originalPrice" validate:"omitempty,gt=0"`
	Stock          *int              `json:"stock" validate:"required,gte=0"`
	Description    string            `json:"description" validate:"max=5000"`
	Wattage        *int              `json:"wattage" validate:"omitempty,gt=0"`
	Featured       bool              `json:"featured"`
	Images         []string          `json:"images" validate:"omitempty,dive,required"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
	Status         string            `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ProductUpdateRequest changes only the fields that are set.
type ProductUpdateRequest struct {
	Name           *string           `json:"name" validate:"omitempty,min=1,max=200"`
	SKU            *string           `json:"sku" validate:"omitempty,min=1,max=64"`
	Category       *string           `json:"category" validate:"omitempty,category"`
	Brand          *string           `json:"brand" validate:"omitempty,max=64"`
	Price          *float64          `json:"price" validate:"omitempty,gt=0"`
	OriginalPrice  *float64          `json:"originalPrice" validate:"omitempty,gt=0"`
	Discount       *int              `json:"discount" validate:"omitempty,gte=0,lte=100"`
	Stock          *int              `json:"stock" validate:"omitempty,gte=0"`
	Description    *string           `json:"description" validate:"omitempty,max=5000"`
	Wattage        *int              `json:"wattage" validate:"omitempty,gt=0"`
	Featured       *bool             `json:"featured"`
	Images         []string          `json:"images" validate:"omitempty,dive,required"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
	Status         *string           `json:"status" validate:"omitempty,oneof=active inactive"`
}

const (
	BulkActionDelete     = "delete"
	BulkActionActivate   = "activate"
	BulkActionDeactivate = "deactivate"
)

// BulkActionRequest applies one action to the rows selected in the admin
// table.
type BulkActionRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1,max=100,dive,required"`
	Action string   `json:"action" validate:"required,oneof=delete activate deactivate"`
}

type BulkActionResult struct {
	Action   string `json:"action"`
	Affected int64  `json:"affected"`
}

// StockAdjustment either sets an absolute level or applies a delta.
type StockAdjustment struct {
	Set   *int `json:"set" validate:"omitempty,gte=0"`
	Delta *int `json:"delta"`
}

// UploadRequest asks for a presigned image upload URL.
type UploadRequest struct {
	SKU         string `json:"sku" form:"sku" validate:"required"`
	Filename    string `json:"filename" form:"filename" validate:"required"`
	ContentType string `json:"contentType" form:"contentType" validate:"required,oneof=image/jpeg image/png image/webp image/gif"`
}

// UploadResponse carries the presigned URL and the public URL the image will
// have once uploaded.
type UploadResponse struct {
	UploadURL string            `json:"uploadUrl"`
	Key       string            `json:"key"`
	PublicURL string            `json:"publicUrl"`
	Headers   map[string]string `json:"headers,omitempty"`
}
