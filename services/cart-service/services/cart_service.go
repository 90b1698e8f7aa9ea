package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/solartech/storefront/services/cart-service/models"
	"github.com/solartech/storefront/services/cart-service/repository"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/money"
	productmodels "github.com/solartech/storefront/services/product-service/models"
	"go.uber.org/zap"
)

var (
	ErrItemNotInCart   = apperrors.NotFound("Item not in cart")
	ErrProductNotFound = apperrors.NotFound("Product not found")
)

// ProductLookup prices cart lines against the catalog.
type ProductLookup interface {
	Lookup(ctx context.Context, id string) (*productmodels.Product, error)
}

// PromoDiscounter resolves a promo code to the amount it takes off a
// subtotal. Unusable codes return apperrors.ErrInvalidPromo.
type PromoDiscounter interface {
	Discount(ctx context.Context, code string, subtotal decimal.Decimal) (string, decimal.Decimal, error)
}

// Pricing holds the shipping and tax rules applied to every cart.
type Pricing struct {
	FreeShippingOver decimal.Decimal
	FlatShipping     decimal.Decimal
	TaxPercent       float64
}

func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingOver: decimal.NewFromInt(500),
		FlatShipping:     decimal.RequireFromString("49.99"),
		TaxPercent:       8,
	}
}

// CartService implements the per-user cart.
type CartService struct {
	repo     repository.CartRepository
	products ProductLookup
	promos   PromoDiscounter
	pricing  Pricing
	logger   *zap.Logger

	locks sync.Map // userID -> *sync.Mutex
}

func NewCartService(repo repository.CartRepository, products ProductLookup, promos PromoDiscounter, pricing Pricing, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		repo:     repo,
		products: products,
		promos:   promos,
		pricing:  pricing,
		logger:   logger,
	}
}

// GetCart returns the user's cart with refreshed prices and totals. A user
// without a cart gets an empty one.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.CartView, error) {
	unlock := s.lock(userID)
	defer unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// AddItem adds quantity units of a product, merging into an existing line.
func (s *CartService) AddItem(ctx context.Context, userID string, req models.AddItemRequest) (*models.CartView, error) {
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	product, err := s.lookup(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.InStock {
		return nil, apperrors.ErrOutOfStock
	}

	unlock := s.lock(userID)
	defer unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if i := cart.Find(product.ID); i >= 0 {
		cart.Items[i].Quantity += req.Quantity
	} else {
		item := models.CartItem{ProductID: product.ID, Quantity: req.Quantity}
		applySnapshot(&item, product)
		cart.Items = append(cart.Items, item)
	}
	return s.save(ctx, cart)
}

// UpdateQuantity sets the quantity of a line. Anything below one is clamped
// to one; removing a line is a separate operation.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*models.CartView, error) {
	if quantity < 1 {
		quantity = 1
	}
	unlock := s.lock(userID)
	defer unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := cart.Find(productID)
	if i < 0 {
		return nil, ErrItemNotInCart
	}
	cart.Items[i].Quantity = quantity
	return s.save(ctx, cart)
}

// RemoveItem drops a line. Removing a product that is not in the cart is a
// no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.CartView, error) {
	unlock := s.lock(userID)
	defer unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if i := cart.Find(productID); i >= 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	}
	return s.save(ctx, cart)
}

// ClearCart removes every line and the promo code.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	unlock := s.lock(userID)
	defer unlock()

	if err := s.repo.DeleteCart(ctx, userID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// ApplyPromo attaches a promo code after checking it against the current
// subtotal. Codes are matched case-insensitively.
func (s *CartService) ApplyPromo(ctx context.Context, userID, code string) (*models.CartView, error) {
	code = strings.TrimSpace(code)
	if code == "" || s.promos == nil {
		return nil, apperrors.ErrInvalidPromo
	}
	unlock := s.lock(userID)
	defer unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	canonical, _, err := s.promos.Discount(ctx, code, s.subtotal(cart.Items))
	if err != nil {
		return nil, err
	}
	cart.PromoCode = canonical
	return s.save(ctx, cart)
}

func (s *CartService) RemovePromo(ctx context.Context, userID string) (*models.CartView, error) {
	unlock := s.lock(userID)
	defer unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.PromoCode = ""
	return s.save(ctx, cart)
}

// Count returns the number of units in the cart.
func (s *CartService) Count(ctx context.Context, userID string) (int, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, item := range cart.Items {
		n += item.Quantity
	}
	return n, nil
}

// Restore puts the lines of a cancelled order back. Each line ends up with
// at least the given quantity, so restoring into an untouched cart changes
// nothing. The promo code is restored only when the cart has none.
func (s *CartService) Restore(ctx context.Context, userID string, items []models.CartItem, promoCode string) error {
	unlock := s.lock(userID)
	defer unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		if i := cart.Find(item.ProductID); i >= 0 {
			if cart.Items[i].Quantity < item.Quantity {
				cart.Items[i].Quantity = item.Quantity
			}
			continue
		}
		cart.Items = append(cart.Items, item)
	}
	if cart.PromoCode == "" {
		cart.PromoCode = promoCode
	}
	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// load reads the cart and refreshes every line from the catalog. Lines whose
// product has been deleted or deactivated are dropped.
func (s *CartService) load(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if cart == nil {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		product, err := s.lookup(ctx, item.ProductID)
		if errors.Is(err, ErrProductNotFound) {
			s.logger.Debug("Dropping unavailable cart line",
				zap.String("user_id", userID),
				zap.String("product_id", item.ProductID),
			)
			continue
		}
		if err != nil {
			return nil, err
		}
		applySnapshot(&item, product)
		items = append(items, item)
	}
	cart.Items = items
	return cart, nil
}

func (s *CartService) save(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.view(ctx, cart)
}

func (s *CartService) lookup(ctx context.Context, productID string) (*productmodels.Product, error) {
	product, err := s.products.Lookup(ctx, productID)
	if err != nil {
		if apperrors.As(err).Code == http.StatusNotFound {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive() {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *CartService) view(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	subtotal := s.subtotal(cart.Items)

	discount := decimal.Zero
	promoCode := ""
	if cart.PromoCode != "" && s.promos != nil {
		code, amount, err := s.promos.Discount(ctx, cart.PromoCode, subtotal)
		switch {
		case errors.Is(err, apperrors.ErrInvalidPromo):
			// The code stays on the cart but no longer applies, e.g. the
			// subtotal dropped below its minimum.
		case err != nil:
			return nil, err
		default:
			discount, promoCode = amount, code
		}
	}

	return &models.CartView{
		Cart:    *cart,
		Summary: s.summarize(cart.Items, subtotal, discount, promoCode),
	}, nil
}

func (s *CartService) subtotal(items []models.CartItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(money.FromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return money.Cents(subtotal)
}

func (s *CartService) summarize(items []models.CartItem, subtotal, discount decimal.Decimal, promoCode string) models.Summary {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	shipping := decimal.Zero
	remaining := decimal.Zero
	if !subtotal.GreaterThan(s.pricing.FreeShippingOver) {
		remaining = s.pricing.FreeShippingOver.Sub(subtotal)
		if count > 0 {
			shipping = s.pricing.FlatShipping
		}
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	tax := money.Percent(subtotal, s.pricing.TaxPercent)
	total := subtotal.Add(shipping).Add(tax).Sub(discount)

	return models.Summary{
		ItemCount:             count,
		Subtotal:              money.Float(subtotal),
		Shipping:              money.Float(shipping),
		Tax:                   money.Float(tax),
		Discount:              money.Float(discount),
		Total:                 money.Float(total),
		PromoCode:             promoCode,
		FreeShippingRemaining: money.Float(remaining),
	}
}

// lock serialises read-modify-write cycles on one user's cart.
func (s *CartService) lock(userID string) func() {
	v, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func applySnapshot(item *models.CartItem, p *productmodels.Product) {
	item.Name = p.Name
	item.Slug = p.Slug
	item.Image = p.Image
	item.Price = p.Price
	item.InStock = p.InStock
}
