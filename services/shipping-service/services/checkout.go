package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/solartech/storefront/services/common/money"
	"github.com/solartech/storefront/services/shipping-service/models"
)

// Checkout exposes quotes and shipments to the order service with plain
// error returns.
type Checkout struct {
	shipping ShippingService
}

func NewCheckout(shipping ShippingService) *Checkout {
	return &Checkout{shipping: shipping}
}

// ShippingCost returns the charge for methodID at subtotal.
func (c *Checkout) ShippingCost(ctx context.Context, subtotal decimal.Decimal, methodID string) (decimal.Decimal, error) {
	quote, svcErr := c.shipping.Quote(ctx, subtotal, methodID)
	if svcErr != nil {
		return decimal.Zero, svcErr
	}
	return money.FromFloat(quote.Cost), nil
}

// Ship books a shipment and returns its tracking code.
func (c *Checkout) Ship(ctx context.Context, req models.ShipmentRequest) (string, error) {
	shipment, svcErr := c.shipping.CreateShipment(ctx, &req)
	if svcErr != nil {
		return "", svcErr
	}
	return shipment.TrackingCode, nil
}
