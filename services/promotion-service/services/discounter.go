package services

import (
	"context"

	"github.com/shopspring/decimal"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/promotion-service/models"
)

// Discounter exposes coupons to the cart and checkout with plain error
// returns.
type Discounter struct {
	coupons CouponService
}

func NewDiscounter(coupons CouponService) *Discounter {
	return &Discounter{coupons: coupons}
}

// Discount returns the normalised code and the amount it takes off subtotal.
// Any unusable code is apperrors.ErrInvalidPromo.
func (d *Discounter) Discount(ctx context.Context, code string, subtotal decimal.Decimal) (string, decimal.Decimal, error) {
	resp, svcErr := d.coupons.ValidateCoupon(ctx, &models.ValidateCouponRequest{
		Code:      code,
		CartTotal: subtotal.InexactFloat64(),
	})
	if svcErr != nil {
		return "", decimal.Zero, svcErr
	}
	if !resp.Valid {
		return "", decimal.Zero, apperrors.ErrInvalidPromo
	}
	return resp.Code, decimal.NewFromFloat(resp.DiscountAmount), nil
}

// Redeem consumes one use of code.
func (d *Discounter) Redeem(ctx context.Context, code string) error {
	if _, svcErr := d.coupons.RedeemCoupon(ctx, code); svcErr != nil {
		return svcErr
	}
	return nil
}
