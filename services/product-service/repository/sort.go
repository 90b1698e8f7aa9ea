package repository

import (
	"sort"
	"strings"

	"github.com/solartech/storefront/services/product-service/models"
)

// sortProducts orders products in place by key. Ties fall back to Seq so
// results are stable across calls.
func sortProducts(products []models.Product, key string) {
	less := func(a, b *models.Product) bool { return a.Seq < b.Seq }
	switch key {
	case models.SortPriceAsc:
		less = func(a, b *models.Product) bool {
			if a.Price != b.Price {
				return a.Price < b.Price
			}
			return a.Seq < b.Seq
		}
	case models.SortPriceDesc:
		less = func(a, b *models.Product) bool {
			if a.Price != b.Price {
				return a.Price > b.Price
			}
			return a.Seq < b.Seq
		}
	case models.SortRatingDesc:
		less = func(a, b *models.Product) bool {
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
			return a.Reviews > b.Reviews
		}
	case models.SortNameAsc, models.SortNameDesc:
		desc := key == models.SortNameDesc
		less = func(a, b *models.Product) bool {
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if an == bn {
				return a.Seq < b.Seq
			}
			return (an < bn) != desc
		}
	case models.SortNewest:
		less = func(a, b *models.Product) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.Seq > b.Seq
		}
	}
	sort.SliceStable(products, func(i, j int) bool { return less(&products[i], &products[j]) })
}
