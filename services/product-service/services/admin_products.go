package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/latency"
	"github.com/solartech/storefront/services/common/pagination"
	"github.com/solartech/storefront/services/product-service/models"
	"github.com/solartech/storefront/services/product-service/repository"
	"go.uber.org/zap"
)

const defaultProductImage = "/placeholder.svg?height=400&width=400"

// AdminProductList is one page of the admin products table.
type AdminProductList struct {
	Products []models.Product `json:"products"`
	Meta     pagination.Meta  `json:"meta"`
}

// AdminListProducts searches by name or SKU and filters by category and
// status. Inactive products are included.
func (s *ProductService) AdminListProducts(ctx context.Context, params AdminListParams) (*AdminProductList, error) {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}
	if params.Status != "" && params.Status != models.StatusActive && params.Status != models.StatusInactive {
		return nil, apperrors.BadRequest("status must be active or inactive")
	}

	products, total, err := s.repo.Find(ctx, models.Query{
		Filter: models.ProductFilter{
			Search:   strings.TrimSpace(params.Search),
			Category: params.Category,
			Status:   params.Status,
		},
		Skip:  params.Page.Offset(),
		Limit: params.Page.Limit,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &AdminProductList{Products: products, Meta: pagination.NewMeta(params.Page, total)}, nil
}

// AdminGetProduct returns a product regardless of status.
func (s *ProductService) AdminGetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.Lookup(ctx, id)
}

func (s *ProductService) CreateProduct(ctx context.Context, req ProductCreateRequest) (*models.Product, error) {
	if err := s.validate.Struct(&req); err != nil {
		return nil, validationError(err)
	}
	if req.OriginalPrice != nil && *req.OriginalPrice <= req.Price {
		return nil, apperrors.BadRequest("originalPrice must be greater than price")
	}
	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	if _, err := s.repo.FindBySKU(ctx, sku); err == nil {
		return nil, ErrDuplicateSKU
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	slug, err := s.uniqueSlug(ctx, req.Name, "")
	if err != nil {
		return nil, err
	}
	seq, err := s.repo.NextSeq(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	now := s.now().UTC()
	p := &models.Product{
		ID:             uuid.NewString(),
		Seq:            seq,
		Name:           strings.TrimSpace(req.Name),
		Slug:           slug,
		SKU:            sku,
		Description:    req.Description,
		Price:          req.Price,
		OriginalPrice:  req.OriginalPrice,
		Category:       req.Category,
		Brand:          req.Brand,
		Featured:       req.Featured,
		Wattage:        req.Wattage,
		Features:       req.Features,
		Specifications: req.Specifications,
		Images:         req.Images,
		Status:         req.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	p.SetStock(*req.Stock)
	if p.Status == "" {
		p.Status = models.StatusActive
	}
	if len(p.Images) == 0 {
		p.Images = []string{defaultProductImage}
	}
	p.Image = p.Images[0]
	p.Discount = discountPercent(p.Price, p.OriginalPrice)

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateSKU
		}
		return nil, apperrors.Internal(err)
	}
	s.invalidate(ctx)
	s.logger.Info("Product created", zap.String("product_id", p.ID), zap.String("sku", p.SKU))
	return p, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, req ProductUpdateRequest) (*models.Product, error) {
	if err := s.validate.Struct(&req); err != nil {
		return nil, validationError(err)
	}
	p, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != p.Name {
		p.Name = strings.TrimSpace(*req.Name)
		if p.Slug, err = s.uniqueSlug(ctx, p.Name, p.ID); err != nil {
			return nil, err
		}
	}
	if req.SKU != nil {
		p.SKU = strings.ToUpper(strings.TrimSpace(*req.SKU))
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		p.OriginalPrice = req.OriginalPrice
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Wattage != nil {
		p.Wattage = req.Wattage
	}
	if req.Featured != nil {
		p.Featured = *req.Featured
	}
	if req.Images != nil {
		p.Images = req.Images
		if len(p.Images) > 0 {
			p.Image = p.Images[0]
		}
	}
	if req.Features != nil {
		p.Features = req.Features
	}
	if req.Specifications != nil {
		p.Specifications = req.Specifications
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Discount != nil {
		p.Discount = req.Discount
	} else {
		p.Discount = discountPercent(p.Price, p.OriginalPrice)
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrDuplicateSKU
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrProductNotFound
		}
		return nil, apperrors.Internal(err)
	}
	if req.Stock != nil {
		p, err = s.repo.SetStock(ctx, id, *req.Stock)
	} else {
		p, err = s.repo.FindByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, apperrors.Internal(err)
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	s.invalidate(ctx)
	return nil
}

// BulkAction applies req.Action to the selected products.
func (s *ProductService) BulkAction(ctx context.Context, req BulkActionRequest) (*BulkActionResult, error) {
	if err := s.validate.Struct(&req); err != nil {
		return nil, validationError(err)
	}

	var (
		affected int64
		err      error
	)
	switch req.Action {
	case BulkActionDelete:
		affected, err = s.repo.DeleteMany(ctx, req.IDs)
	case BulkActionActivate:
		affected, err = s.repo.SetStatus(ctx, req.IDs, models.StatusActive)
	case BulkActionDeactivate:
		affected, err = s.repo.SetStatus(ctx, req.IDs, models.StatusInactive)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	s.invalidate(ctx)
	s.logger.Info("Bulk product action", zap.String("action", req.Action), zap.Int64("affected", affected))
	return &BulkActionResult{Action: req.Action, Affected: affected}, nil
}

// AdjustStock sets or shifts the stock level of one product.
func (s *ProductService) AdjustStock(ctx context.Context, id string, adj StockAdjustment) (*models.Product, error) {
	if err := s.validate.Struct(&adj); err != nil {
		return nil, validationError(err)
	}
	switch {
	case adj.Set != nil && adj.Delta != nil:
		return nil, apperrors.BadRequest("provide either set or delta, not both")
	case adj.Set != nil:
		p, err := s.repo.SetStock(ctx, id, *adj.Set)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		s.invalidate(ctx)
		return p, nil
	case adj.Delta != nil:
		return s.adjust(ctx, id, *adj.Delta)
	default:
		return nil, apperrors.BadRequest("set or delta is required")
	}
}

// LowStock lists products at or below threshold, lowest stock first.
func (s *ProductService) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	all, _, err := s.repo.Find(ctx, models.Query{})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	low := make([]models.Product, 0)
	for _, p := range all {
		if p.Stock <= threshold {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].Stock < low[j].Stock })
	return low, nil
}

// GenerateUploadURL presigns an S3 PUT for a product image.
func (s *ProductService) GenerateUploadURL(ctx context.Context, req UploadRequest) (*UploadResponse, error) {
	if err := s.validate.Struct(&req); err != nil {
		return nil, validationError(err)
	}
	if s.presigner == nil {
		return nil, ErrUploadsDisabled
	}

	key := imageKey(req.SKU, req.Filename)
	upload, err := s.presigner.PresignPut(ctx, key, req.ContentType)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &UploadResponse{
		UploadURL: upload.URL,
		Key:       key,
		PublicURL: s.imageBaseURL + "/" + key,
		Headers:   upload.Headers,
	}, nil
}

func (s *ProductService) uniqueSlug(ctx context.Context, name, ownID string) (string, error) {
	base := Slugify(name)
	if base == "" {
		return "", apperrors.BadRequest("name must contain letters or digits")
	}
	candidate := base
	for i := 2; i < 1000; i++ {
		existing, err := s.repo.FindBySlug(ctx, candidate)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && existing.ID == ownID) {
			return candidate, nil
		}
		if err != nil {
			return "", apperrors.Internal(err)
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", apperrors.Conflict("could not allocate a unique slug")
}

func discountPercent(price float64, original *float64) *int {
	if original == nil || *original <= price {
		return nil
	}
	pct := int((1 - price / *original) * 100)
	return &pct
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.ErrValidation.Wrap(err)
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[lowerFirst(fe.Field())] = fe.Tag()
	}
	return apperrors.ErrValidation.WithDetails(details)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
