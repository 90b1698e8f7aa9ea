package models

import "time"

// CartItem is a product snapshot taken when the line was added. Price and
// stock are refreshed every time the cart is read.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	InStock   bool    `json:"inStock"`
}

type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	PromoCode string     `json:"promoCode,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Find returns the index of productID in the cart or -1.
func (c *Cart) Find(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Summary holds the totals computed on read. All amounts are in dollars,
// rounded to cents.
type Summary struct {
	ItemCount             int     `json:"itemCount"`
	Subtotal              float64 `json:"subtotal"`
	Shipping              float64 `json:"shipping"`
	Tax                   float64 `json:"tax"`
	Discount              float64 `json:"discount"`
	Total                 float64 `json:"total"`
	PromoCode             string  `json:"promoCode,omitempty"`
	FreeShippingRemaining float64 `json:"freeShippingRemaining"`
}

// CartView is a cart with its totals, as returned to the storefront.
type CartView struct {
	Cart
	Summary Summary `json:"summary"`
}

type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

type PromoRequest struct {
	Code string `json:"code" binding:"required"`
}
