package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/common/pagination"
	"github.com/solartech/storefront/services/product-service/models"
	"github.com/solartech/storefront/services/product-service/services"
)

// RequestValidator handles all query-string validation for product listings
type RequestValidator struct{}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{}
}

// ParseListParams builds storefront listing params from the query string.
func (rv *RequestValidator) ParseListParams(c *gin.Context) (services.ListProductsParams, error) {
	var params services.ListProductsParams

	page, err := pagination.Parse(c, pagination.DefaultLimit)
	if err != nil {
		return params, err
	}
	params.Page = page

	filter, err := rv.ParseFilters(c)
	if err != nil {
		return params, err
	}
	params.Filter = *filter

	params.Sort = strings.TrimSpace(c.Query("sort"))
	if params.Sort == "featured" {
		params.Sort = models.SortDefault
	}
	if !models.IsSupportedSort(params.Sort) {
		return params, fmt.Errorf("invalid sort parameter %q", params.Sort)
	}

	switch mode := c.DefaultQuery("mode", services.ModeLoadMore); mode {
	case services.ModeLoadMore, services.ModePage:
		params.Mode = mode
	default:
		return params, errors.New("mode must be more or page")
	}
	return params, nil
}

// ParseFilters validates and parses all filter parameters
func (rv *RequestValidator) ParseFilters(c *gin.Context) (*models.ProductFilter, error) {
	filter := &models.ProductFilter{
		Brand:  allToEmpty(c.Query("brand")),
		Search: strings.TrimSpace(c.Query("search")),
	}

	if category := allToEmpty(c.Query("category")); category != "" {
		if !models.IsValidCategory(category) {
			return nil, fmt.Errorf("invalid category %q", category)
		}
		filter.Category = category
	}

	var err error
	if filter.MinPrice, err = parsePrice(c, "minPrice"); err != nil {
		return nil, err
	}
	if filter.MaxPrice, err = parsePrice(c, "maxPrice"); err != nil {
		return nil, err
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, errors.New("minPrice cannot be greater than maxPrice")
	}

	if filter.InStock, err = parseFlag(c, "inStock"); err != nil {
		return nil, err
	}
	if filter.Featured, err = parseFlag(c, "featured"); err != nil {
		return nil, err
	}

	if filter.Wattage, err = models.ParseWattage(c.Query("wattage")); err != nil {
		return nil, err
	}
	return filter, nil
}

// ParseAdminParams reads the admin product table query.
func (rv *RequestValidator) ParseAdminParams(c *gin.Context) (services.AdminListParams, error) {
	page, err := pagination.Parse(c, 20)
	if err != nil {
		return services.AdminListParams{}, err
	}
	params := services.AdminListParams{
		Search:   c.Query("search"),
		Category: allToEmpty(c.Query("category")),
		Status:   allToEmpty(c.Query("status")),
		Page:     page,
	}
	if params.Category != "" && !models.IsValidCategory(params.Category) {
		return params, fmt.Errorf("invalid category %q", params.Category)
	}
	return params, nil
}

// ParseLimit reads a positive limit, falling back to def and capping at
// pagination.MaxLimit.
func (rv *RequestValidator) ParseLimit(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return min(n, pagination.MaxLimit), nil
}

func parsePrice(c *gin.Context, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &v, nil
}

func parseFlag(c *gin.Context, key string) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false", key)
	}
	return v, nil
}

func allToEmpty(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}
