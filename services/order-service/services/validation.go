package services

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/order-service/models"
)

var (
	ErrBillingIncomplete  = apperrors.BadRequest("Please fill out all billing fields.")
	ErrShippingIncomplete = apperrors.BadRequest("Please fill out all shipping fields.")
	ErrInvalidPayment     = apperrors.BadRequest("Please enter valid payment details.")
	ErrInvalidMethod      = apperrors.BadRequest("Unsupported payment method")
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	expiryPattern     = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvcPattern        = regexp.MustCompile(`^\d{3,4}$`)
)

func newCheckoutValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		return cardNumberPattern.MatchString(stripSpaces(fl.Field().String()))
	})
	_ = v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("cvc", func(fl validator.FieldLevel) bool {
		return cvcPattern.MatchString(fl.Field().String())
	})
	return v
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// validateCheckout normalises req in place and checks it in the order the
// storefront form reports problems: billing, then shipping, then payment.
func (s *OrderService) validateCheckout(req *models.CheckoutRequest) error {
	req.Billing.TrimSpace()
	if err := s.validate.Struct(req.Billing); err != nil {
		return ErrBillingIncomplete
	}

	if req.ShipToDifferentAddress {
		if req.Shipping == nil {
			return ErrShippingIncomplete
		}
		req.Shipping.TrimSpace()
		if err := s.validate.Struct(req.Shipping); err != nil {
			return ErrShippingIncomplete
		}
	}

	req.PaymentMethod = strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentMethodCard
	}
	switch req.PaymentMethod {
	case models.PaymentMethodCard:
		return s.validateCard(req.Card)
	case models.PaymentMethodBank:
		return nil
	default:
		return ErrInvalidMethod
	}
}

func (s *OrderService) validateCard(card *models.CardDetails) error {
	if card == nil {
		return ErrInvalidPayment
	}
	card.TrimSpace()
	if err := s.validate.Struct(card); err != nil {
		return ErrInvalidPayment
	}
	return nil
}
