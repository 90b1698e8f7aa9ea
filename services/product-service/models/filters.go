package models

import "strings"

// Sort keys accepted by product listings.
const (
	SortDefault    = ""
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortRatingDesc = "rating_desc"
	SortNameAsc    = "name_asc"
	SortNameDesc   = "name_desc"
	SortNewest     = "newest"
)

func IsSupportedSort(s string) bool {
	switch s {
	case SortDefault, SortPriceAsc, SortPriceDesc, SortRatingDesc, SortNameAsc, SortNameDesc, SortNewest:
		return true
	}
	return false
}

// ProductFilter narrows a product query. Zero values mean "no constraint".
type ProductFilter struct {
	IDs      []string
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	InStock  bool
	Featured bool
	Wattage  *WattageRange
	Search   string
	Status   string
}

// Matches applies the filter to p in memory.
func (f ProductFilter) Matches(p *Product) bool {
	if len(f.IDs) > 0 && !containsString(f.IDs, p.ID) {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.InStock && !p.InStock {
		return false
	}
	if f.Featured && !p.Featured {
		return false
	}
	if f.Wattage != nil && !f.Wattage.Contains(p.Wattage) {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.SKU), q) {
			return false
		}
	}
	return true
}

// Query is what repositories execute. Limit 0 returns every match.
type Query struct {
	Filter ProductFilter
	Sort   string
	Skip   int
	Limit  int
}

// PriceRange bounds the prices present in the catalog.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FacetCount is one selectable filter value with the number of matching
// products.
type FacetCount struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// FilterMetadata feeds the storefront filter sidebar.
type FilterMetadata struct {
	Categories    []FacetCount `json:"categories"`
	Brands        []FacetCount `json:"brands"`
	WattageRanges []FacetCount `json:"wattageRanges"`
	PriceRange    PriceRange   `json:"priceRange"`
	InStockCount  int          `json:"inStockCount"`
	FeaturedCount int          `json:"featuredCount"`
	TotalProducts int          `json:"totalProducts"`
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
