package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Product is a catalog item. JSON names follow the storefront contract.
type Product struct {
	ID             string            `json:"id" bson:"_id"`
	Seq            int64             `json:"-" bson:"seq"`
	Name           string            `json:"name" bson:"name"`
	Slug           string            `json:"slug" bson:"slug"`
	SKU            string            `json:"sku" bson:"sku"`
	Description    string            `json:"description" bson:"description"`
	Price          float64           `json:"price" bson:"price"`
	OriginalPrice  *float64          `json:"originalPrice,omitempty" bson:"original_price,omitempty"`
	Discount       *int              `json:"discount,omitempty" bson:"discount,omitempty"`
	Image          string            `json:"image" bson:"image"`
	Images         []string          `json:"images" bson:"images"`
	Category       string            `json:"category" bson:"category"`
	Brand          string            `json:"brand" bson:"brand"`
	Rating         float64           `json:"rating" bson:"rating"`
	Reviews        int               `json:"reviews" bson:"reviews"`
	InStock        bool              `json:"inStock" bson:"in_stock"`
	Stock          int               `json:"stock" bson:"stock"`
	Featured       bool              `json:"featured" bson:"featured"`
	Wattage        *int              `json:"wattage,omitempty" bson:"wattage,omitempty"`
	Features       []string          `json:"features,omitempty" bson:"features,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty" bson:"specifications,omitempty"`
	Dimensions     *Dimensions       `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	Weight         string            `json:"weight,omitempty" bson:"weight,omitempty"`
	Status         string            `json:"status" bson:"status"`
	CreatedAt      time.Time         `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time         `json:"updatedAt" bson:"updated_at"`
}

type Dimensions struct {
	Length string `json:"length" bson:"length"`
	Width  string `json:"width" bson:"width"`
	Height string `json:"height" bson:"height"`
}

// SetStock updates the stock level and the derived InStock flag together.
func (p *Product) SetStock(stock int) {
	if stock < 0 {
		stock = 0
	}
	p.Stock = stock
	p.InStock = stock > 0
}

// IsActive reports whether the product is visible on the storefront.
func (p *Product) IsActive() bool {
	return p.Status == "" || p.Status == StatusActive
}

// WattageRange is a parsed wattage filter. Max is ignored when OpenEnded.
type WattageRange struct {
	Min       int
	Max       int
	OpenEnded bool
}

// ParseWattage accepts "min-max" (inclusive) or "min+".
func ParseWattage(s string) (*WattageRange, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return nil, nil
	}
	if strings.HasSuffix(s, "+") {
		lo, err := strconv.Atoi(strings.TrimSuffix(s, "+"))
		if err != nil || lo < 0 {
			return nil, fmt.Errorf("invalid wattage value %q", s)
		}
		return &WattageRange{Min: lo, OpenEnded: true}, nil
	}
	loStr, hiStr, ok := strings.Cut(s, "-")
	if !ok {
		return nil, fmt.Errorf("invalid wattage value %q", s)
	}
	lo, err := strconv.Atoi(loStr)
	if err != nil || lo < 0 {
		return nil, fmt.Errorf("invalid wattage value %q", s)
	}
	hi, err := strconv.Atoi(hiStr)
	if err != nil || hi < lo {
		return nil, fmt.Errorf("invalid wattage value %q", s)
	}
	return &WattageRange{Min: lo, Max: hi}, nil
}

// Contains reports whether w falls in the range. Products without a wattage
// never match.
func (r *WattageRange) Contains(w *int) bool {
	if w == nil {
		return false
	}
	if *w < r.Min {
		return false
	}
	return r.OpenEnded || *w <= r.Max
}

func (r *WattageRange) String() string {
	if r.OpenEnded {
		return fmt.Sprintf("%d+", r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}
