package services

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/solartech/storefront/services/cart-service/models"
	"github.com/solartech/storefront/services/cart-service/repository"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/money"
	productmodels "github.com/solartech/storefront/services/product-service/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog map[string]*productmodels.Product

func (f fakeCatalog) Lookup(_ context.Context, id string) (*productmodels.Product, error) {
	p, ok := f[id]
	if !ok {
		return nil, apperrors.NotFound("Product not found")
	}
	cp := *p
	return &cp, nil
}

// fakePromos knows percentage codes with an optional minimum subtotal.
type fakePromos map[string]struct {
	percent  float64
	minOrder float64
}

func (f fakePromos) Discount(_ context.Context, code string, subtotal decimal.Decimal) (string, decimal.Decimal, error) {
	code = strings.ToUpper(code)
	promo, ok := f[code]
	if !ok || subtotal.InexactFloat64() < promo.minOrder {
		return "", decimal.Zero, apperrors.ErrInvalidPromo
	}
	return code, money.Percent(subtotal, promo.percent), nil
}

func newTestCart(t *testing.T) (*CartService, fakeCatalog) {
	t.Helper()
	catalog := fakeCatalog{
		"1": {ID: "1", Name: "SolarMax Pro 400W", Slug: "solarmax-pro-400w", Price: 299.99, Stock: 10, InStock: true},
		"2": {ID: "2", Name: "PowerTech Inverter", Slug: "powertech-inverter", Price: 100, Stock: 3, InStock: true},
		"3": {ID: "3", Name: "EcoSolar Battery", Slug: "ecosolar-battery", Price: 899, Stock: 0, InStock: false},
	}
	promos := fakePromos{
		"SOLAR20": {percent: 20},
		"BIG50":   {percent: 50, minOrder: 1000},
	}
	svc := NewCartService(repository.NewMemoryCartRepository(0), catalog, promos, DefaultPricing(), nil)
	return svc, catalog
}

func TestGetCart_EmptyForNewUser(t *testing.T) {
	svc, _ := newTestCart(t)

	view, err := svc.GetCart(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", view.UserID)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0.0, view.Summary.Shipping)
	assert.Equal(t, 0.0, view.Summary.Total)
	assert.Equal(t, 500.0, view.Summary.FreeShippingRemaining)
}

func TestAddItem_MergesLines(t *testing.T) {
	svc, _ := newTestCart(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "1", Quantity: 1})
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "1", Quantity: 1})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, "SolarMax Pro 400W", view.Items[0].Name)

	s := view.Summary
	assert.Equal(t, 2, s.ItemCount)
	assert.Equal(t, 599.98, s.Subtotal)
	assert.Equal(t, 0.0, s.Shipping, "free shipping over 500")
	assert.Equal(t, 48.0, s.Tax)
	assert.Equal(t, 647.98, s.Total)
}

func TestAddItem_DefaultsQuantityToOne(t *testing.T) {
	svc, _ := newTestCart(t)

	view, err := svc.AddItem(context.Background(), "u1", models.AddItemRequest{ProductID: "2"})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Items[0].Quantity)
}

func TestAddItem_Rejections(t *testing.T) {
	svc, catalog := newTestCart(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "404", Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "3", Quantity: 1})
	assert.ErrorIs(t, err, apperrors.ErrOutOfStock)
	assert.Equal(t, 409, apperrors.As(err).Code)

	catalog["2"].Status = productmodels.StatusInactive
	_, err = svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "2", Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSummary_FlatShippingUnderThreshold(t *testing.T) {
	svc, _ := newTestCart(t)

	view, err := svc.AddItem(context.Background(), "u1", models.AddItemRequest{ProductID: "2", Quantity: 1})
	require.NoError(t, err)

	s := view.Summary
	assert.Equal(t, 100.0, s.Subtotal)
	assert.Equal(t, 49.99, s.Shipping)
	assert.Equal(t, 8.0, s.Tax)
	assert.Equal(t, 157.99, s.Total)
	assert.Equal(t, 400.0, s.FreeShippingRemaining)
}

func TestUpdateQuantity(t *testing.T) {
	svc, _ := newTestCart(t)
	ctx := context.Background()
	_, err := svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "2", Quantity: 2})
	require.NoError(t, err)

	view, err := svc.UpdateQuantity(ctx, "u1", "2", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Items[0].Quantity)

	view, err = svc.UpdateQuantity(ctx, "u1", "2", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Items[0].Quantity, "quantities below one clamp to one")

	_, err = svc.UpdateQuantity(ctx, "u1", "1", 3)
	assert.ErrorIs(t, err, ErrItemNotInCart)
}

func TestRemoveAndClear(t *testing.T) {
	svc, _ := newTestCart(t)
	ctx := context.Background()
	_, _ = svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "1", Quantity: 1})
	_, _ = svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "2", Quantity: 1})

	view, err := svc.RemoveItem(ctx, "u1", "1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "2", view.Items[0].ProductID)

	view, err = svc.RemoveItem(ctx, "u1", "missing")
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)

	require.NoError(t, svc.ClearCart(ctx, "u1"))
	n, err := svc.Count(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGetCart_RefreshesPricesAndDropsMissingProducts(t *testing.T) {
	svc, catalog := newTestCart(t)
	ctx := context.Background()
	_, _ = svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "1", Quantity: 1})
	_, _ = svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "2", Quantity: 1})

	catalog["1"].Price = 249.99
	catalog["1"].InStock = false
	delete(catalog, "2")

	view, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 249.99, view.Items[0].Price)
	assert.False(t, view.Items[0].InStock)
}

func TestApplyPromo(t *testing.T) {
	svc, _ := newTestCart(t)
	ctx := context.Background()
	_, err := svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "1", Quantity: 2})
	require.NoError(t, err)

	view, err := svc.ApplyPromo(ctx, "u1", "solar20")
	require.NoError(t, err)
	assert.Equal(t, "SOLAR20", view.PromoCode)
	assert.Equal(t, "SOLAR20", view.Summary.PromoCode)
	assert.Equal(t, 120.0, view.Summary.Discount)
	assert.Equal(t, 527.98, view.Summary.Total)

	_, err = svc.ApplyPromo(ctx, "u1", "NOPE")
	require.Error(t, err)
	appErr := apperrors.As(err)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "Invalid promo code", appErr.Message)

	view, err = svc.RemovePromo(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, view.PromoCode)
	assert.Equal(t, 0.0, view.Summary.Discount)
}

func TestPromoStopsApplyingBelowMinimum(t *testing.T) {
	svc, _ := newTestCart(t)
	ctx := context.Background()
	_, _ = svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "1", Quantity: 4})

	view, err := svc.ApplyPromo(ctx, "u1", "BIG50")
	require.NoError(t, err)
	assert.Equal(t, 599.98, view.Summary.Discount)

	view, err = svc.UpdateQuantity(ctx, "u1", "1", 1)
	require.NoError(t, err)
	assert.Equal(t, "BIG50", view.PromoCode)
	assert.Empty(t, view.Summary.PromoCode)
	assert.Equal(t, 0.0, view.Summary.Discount)
}

func TestCount(t *testing.T) {
	svc, _ := newTestCart(t)
	ctx := context.Background()
	_, _ = svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "1", Quantity: 2})
	_, _ = svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "2", Quantity: 3})

	n, err := svc.Count(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestCount_SkipsUnavailableProducts(t *testing.T) {
	svc, catalog := newTestCart(t)
	ctx := context.Background()
	_, _ = svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "1", Quantity: 2})
	_, _ = svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "2", Quantity: 3})

	catalog["1"].Status = productmodels.StatusInactive
	n, err := svc.Count(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	delete(catalog, "2")
	n, err = svc.Count(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, n)

	view, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, n, view.Summary.ItemCount)
}

func TestRestore(t *testing.T) {
	svc, _ := newTestCart(t)
	ctx := context.Background()
	_, _ = svc.AddItem(ctx, "u1", models.AddItemRequest{ProductID: "1", Quantity: 2})

	ordered := []models.CartItem{
		{ProductID: "1", Quantity: 2, Price: 299.99},
		{ProductID: "2", Quantity: 1, Price: 100},
	}
	require.NoError(t, svc.Restore(ctx, "u1", ordered, "SOLAR20"))
	require.NoError(t, svc.Restore(ctx, "u1", ordered, "SOLAR20"))

	view, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, 2, view.Items[0].Quantity, "restoring twice does not double lines")
	assert.Equal(t, 1, view.Items[1].Quantity)
	assert.Equal(t, "SOLAR20", view.PromoCode)
}
