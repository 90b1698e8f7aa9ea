package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	awspkg "github.com/solartech/storefront/pkg/aws"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/latency"
	"github.com/solartech/storefront/services/common/pagination"
	"github.com/solartech/storefront/services/product-service/models"
	"github.com/solartech/storefront/services/product-service/repository"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrProductNotFound   = apperrors.NotFound("Product not found")
	ErrDuplicateSKU      = apperrors.Conflict("Product with this SKU already exists")
	ErrInsufficientStock = apperrors.Conflict("Insufficient stock")
	ErrUploadsDisabled   = apperrors.New(http.StatusServiceUnavailable, "Image uploads are not configured", nil)
)

// ImagePresigner issues presigned S3 PUT URLs.
type ImagePresigner interface {
	PresignPut(ctx context.Context, key, contentType string) (*awspkg.PresignedUpload, error)
}

// Options wires the optional collaborators of ProductService.
type Options struct {
	Cache        ListCache
	Presigner    ImagePresigner
	ImageBaseURL string
	Latency      *latency.Simulator
	Logger       *zap.Logger
}

// ProductService implements the catalog and admin product operations.
type ProductService struct {
	repo         repository.ProductRepo
	cache        ListCache
	presigner    ImagePresigner
	imageBaseURL string
	latency      *latency.Simulator
	validate     *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

func NewProductService(repo repository.ProductRepo, opts Options) *ProductService {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		repo:         repo,
		cache:        opts.Cache,
		presigner:    opts.Presigner,
		imageBaseURL: strings.TrimSuffix(opts.ImageBaseURL, "/"),
		latency:      opts.Latency,
		validate:     NewValidator(),
		logger:       logger,
		now:          time.Now,
	}
}

// NewValidator returns a validator that understands the "category" tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.IsValidCategory(fl.Field().String())
	})
	return v
}

// ListProducts returns active products matching params.
func (s *ProductService) ListProducts(ctx context.Context, params ListProductsParams) (*ProductList, error) {
	if err := s.latency.Wait(ctx, latency.ProductList); err != nil {
		return nil, err
	}
	if !models.IsSupportedSort(params.Sort) {
		return nil, apperrors.BadRequest("invalid sort value")
	}
	if params.Mode == "" {
		params.Mode = ModeLoadMore
	}
	params.Filter.Status = models.StatusActive

	cacheKey := listCacheKey(params)
	var version int64
	if s.cache != nil {
		cached, v, ok := s.cache.GetList(ctx, cacheKey)
		if ok {
			return cached, nil
		}
		version = v
	}

	q := models.Query{Filter: params.Filter, Sort: params.Sort}
	if params.Mode == ModePage {
		q.Skip = params.Page.Offset()
		q.Limit = params.Page.Limit
	} else {
		q.Limit = params.Page.Page * params.Page.Limit
	}

	products, total, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	meta := pagination.NewMeta(params.Page, total)
	list := &ProductList{Products: products, Meta: meta, HasMore: meta.HasMore}
	if s.cache != nil {
		s.cache.SetList(ctx, version, cacheKey, list)
	}
	return list, nil
}

// GetProduct looks a storefront product up by ID or slug.
func (s *ProductService) GetProduct(ctx context.Context, idOrSlug string) (*models.Product, error) {
	if err := s.latency.Wait(ctx, latency.ProductDetail); err != nil {
		return nil, err
	}
	p, err := s.findByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// Lookup fetches a product by ID without simulated latency. Other services
// use it to price cart lines and check stock.
func (s *ProductService) Lookup(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return p, nil
}

// LookupMany returns the products for ids in no particular order. Unknown
// IDs are skipped.
func (s *ProductService) LookupMany(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	products, _, err := s.repo.Find(ctx, models.Query{Filter: models.ProductFilter{IDs: ids}})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return products, nil
}

func (s *ProductService) FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	if err := s.latency.Wait(ctx, latency.ProductList); err != nil {
		return nil, err
	}
	products, _, err := s.repo.Find(ctx, models.Query{
		Filter: models.ProductFilter{Featured: true, Status: models.StatusActive},
		Limit:  limit,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return products, nil
}

// RelatedProducts returns other products from the same category, best rated
// first.
func (s *ProductService) RelatedProducts(ctx context.Context, idOrSlug string, limit int) ([]models.Product, error) {
	p, err := s.findByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	candidates, _, err := s.repo.Find(ctx, models.Query{
		Filter: models.ProductFilter{Category: p.Category, Status: models.StatusActive},
		Sort:   models.SortRatingDesc,
		Limit:  limit + 1,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	related := make([]models.Product, 0, limit)
	for _, c := range candidates {
		if c.ID != p.ID && len(related) < limit {
			related = append(related, c)
		}
	}
	return related, nil
}

// Categories returns the fixed categories with active product counts.
func (s *ProductService) Categories(ctx context.Context) ([]models.Category, error) {
	products, err := s.activeProducts(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}

	categories := make([]models.Category, len(models.Categories))
	for i, c := range models.Categories {
		c.ProductCount = counts[c.Slug]
		categories[i] = c
	}
	return categories, nil
}

var wattageBuckets = []struct{ value, label string }{
	{"0-100", "0-100W"},
	{"100-300", "100-300W"},
	{"300-500", "300-500W"},
	{"500-1000", "500W-1kW"},
	{"1000+", "1kW+"},
}

// FilterMetadata summarises the active catalog for the filter sidebar.
func (s *ProductService) FilterMetadata(ctx context.Context) (*models.FilterMetadata, error) {
	products, err := s.activeProducts(ctx)
	if err != nil {
		return nil, err
	}

	meta := &models.FilterMetadata{TotalProducts: len(products)}
	categoryCounts := make(map[string]int)
	brandCounts := make(map[string]int)
	minPrice, maxPrice := math.MaxFloat64, 0.0
	for _, p := range products {
		categoryCounts[p.Category]++
		brandCounts[p.Brand]++
		minPrice = math.Min(minPrice, p.Price)
		maxPrice = math.Max(maxPrice, p.Price)
		if p.InStock {
			meta.InStockCount++
		}
		if p.Featured {
			meta.FeaturedCount++
		}
	}
	if len(products) > 0 {
		meta.PriceRange = models.PriceRange{Min: minPrice, Max: maxPrice}
	}

	for _, c := range models.Categories {
		meta.Categories = append(meta.Categories, models.FacetCount{Value: c.Slug, Label: c.Name, Count: categoryCounts[c.Slug]})
	}
	for brand, n := range brandCounts {
		meta.Brands = append(meta.Brands, models.FacetCount{Value: brand, Label: brand, Count: n})
	}
	sort.Slice(meta.Brands, func(i, j int) bool { return meta.Brands[i].Value < meta.Brands[j].Value })

	for _, b := range wattageBuckets {
		r, _ := models.ParseWattage(b.value)
		n := 0
		for i := range products {
			if r.Contains(products[i].Wattage) {
				n++
			}
		}
		meta.WattageRanges = append(meta.WattageRanges, models.FacetCount{Value: b.value, Label: b.label, Count: n})
	}
	return meta, nil
}

func (s *ProductService) activeProducts(ctx context.Context) ([]models.Product, error) {
	products, _, err := s.repo.Find(ctx, models.Query{Filter: models.ProductFilter{Status: models.StatusActive}})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return products, nil
}

func (s *ProductService) findByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Product, error) {
	p, err := s.repo.FindByID(ctx, idOrSlug)
	if errors.Is(err, repository.ErrNotFound) {
		p, err = s.repo.FindBySlug(ctx, idOrSlug)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return p, nil
}

// DecrementStock removes qty units, failing if not enough are left.
func (s *ProductService) DecrementStock(ctx context.Context, id string, qty int) (*models.Product, error) {
	return s.adjust(ctx, id, -qty)
}

// RestockProduct returns qty units to stock.
func (s *ProductService) RestockProduct(ctx context.Context, id string, qty int) (*models.Product, error) {
	return s.adjust(ctx, id, qty)
}

func (s *ProductService) adjust(ctx context.Context, id string, delta int) (*models.Product, error) {
	p, err := s.repo.AdjustStock(ctx, id, delta)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrProductNotFound
	case errors.Is(err, repository.ErrInsufficientStock):
		return nil, ErrInsufficientStock
	case err != nil:
		return nil, apperrors.Internal(err)
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Error("Failed to invalidate product cache", zap.Error(err))
	}
}

func listCacheKey(p ListProductsParams) string {
	f := p.Filter
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%d|%d|c=%s|b=%s|s=%t|f=%t|q=%s", p.Mode, p.Sort, p.Page.Page, p.Page.Limit,
		f.Category, f.Brand, f.InStock, f.Featured, strings.ToLower(f.Search))
	if f.MinPrice != nil {
		b.WriteString("|min=" + strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		b.WriteString("|max=" + strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.Wattage != nil {
		b.WriteString("|w=" + f.Wattage.String())
	}
	return b.String()
}

// Slugify lowercases s, strips accents and joins words with hyphens.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) && r < unicode.MaxASCII, unicode.IsDigit(r):
			b.WriteRune(r)
			hyphen = false
		case b.Len() > 0 && !hyphen:
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func imageKey(sku, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("products/%s/%s%s", Slugify(sku), uuid.NewString(), ext)
}
