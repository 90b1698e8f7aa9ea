package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/common/money"
	"github.com/solartech/storefront/services/promotion-service/models"
	"github.com/solartech/storefront/services/promotion-service/repository"
	"go.uber.org/zap"
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) HTTPStatus() int {
	return e.StatusCode
}

// CouponService defines the interface for coupon business logic.
type CouponService interface {
	CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *ServiceError)
	ValidateCoupon(ctx context.Context, req *models.ValidateCouponRequest) (*models.ValidateCouponResponse, *ServiceError)
	RedeemCoupon(ctx context.Context, code string) (*models.Coupon, *ServiceError)
	GetCoupon(ctx context.Context, code string) (*models.Coupon, *ServiceError)
	UpdateCoupon(ctx context.Context, code string, req *models.UpdateCouponRequest) (*models.Coupon, *ServiceError)
	DeactivateCoupon(ctx context.Context, code string) *ServiceError
	ListCoupons(ctx context.Context, page, limit int) ([]models.Coupon, int64, *ServiceError)
}

// couponServiceImpl implements CouponService.
type couponServiceImpl struct {
	repo      repository.CouponRepository
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewCouponService creates a new CouponService. publisher may be nil.
func NewCouponService(repo repository.CouponRepository, publisher events.Publisher, logger *zap.Logger) CouponService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &couponServiceImpl{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateCoupon creates a new coupon.
func (s *couponServiceImpl) CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *ServiceError) {
	if req.ExpiresAt != nil && req.ExpiresAt.Before(s.now()) {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Expiry date must be in the future"}
	}
	if req.StartsAt != nil && req.ExpiresAt != nil && !req.StartsAt.Before(*req.ExpiresAt) {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Start date must be before expiry date"}
	}
	if req.Type == models.CouponTypePercentage && req.Value > 100 {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Percentage discount cannot exceed 100"}
	}

	coupon := &models.Coupon{
		Code:          strings.ToUpper(req.Code),
		Description:   req.Description,
		Type:          req.Type,
		Value:         req.Value,
		MinOrderValue: req.MinOrderValue,
		UsageLimit:    req.UsageLimit,
		StartsAt:      req.StartsAt,
		ExpiresAt:     req.ExpiresAt,
		Active:        true,
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "Coupon code already exists"}
		}
		s.logger.Error("Failed to create coupon", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to create coupon"}
	}

	s.logger.Info("Coupon created", zap.String("code", coupon.Code), zap.String("type", string(coupon.Type)))
	return coupon, nil
}

// ValidateCoupon checks a coupon against a cart subtotal and returns the
// discount it would give. It never consumes a use.
func (s *couponServiceImpl) ValidateCoupon(ctx context.Context, req *models.ValidateCouponRequest) (*models.ValidateCouponResponse, *ServiceError) {
	invalid := func(msg string) (*models.ValidateCouponResponse, *ServiceError) {
		return &models.ValidateCouponResponse{Valid: false, Code: strings.ToUpper(req.Code), Message: msg}, nil
	}

	coupon, err := s.repo.FindByCode(ctx, strings.TrimSpace(req.Code))
	if errors.Is(err, repository.ErrCouponNotFound) {
		return invalid("Coupon not found or inactive")
	}
	if err != nil {
		s.logger.Error("Failed to look up coupon", zap.String("code", req.Code), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to validate coupon"}
	}
	if !coupon.Active {
		return invalid("Coupon not found or inactive")
	}

	now := s.now()
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return invalid("Coupon is not active yet")
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return invalid("Coupon has expired")
	}
	if coupon.Exhausted() {
		return invalid("Coupon usage limit reached")
	}
	if req.CartTotal < coupon.MinOrderValue {
		return invalid(fmt.Sprintf("Minimum order value of %.2f required", coupon.MinOrderValue))
	}

	discount, svcErr := discountFor(coupon, decimal.NewFromFloat(req.CartTotal))
	if svcErr != nil {
		return nil, svcErr
	}

	return &models.ValidateCouponResponse{
		Valid:          true,
		Code:           coupon.Code,
		Type:           coupon.Type,
		Value:          coupon.Value,
		DiscountAmount: money.Float(discount),
		Message:        "Coupon applied successfully",
	}, nil
}

// RedeemCoupon consumes one use of the coupon.
func (s *couponServiceImpl) RedeemCoupon(ctx context.Context, code string) (*models.Coupon, *ServiceError) {
	coupon, err := s.repo.IncrementUsedCount(ctx, code)
	switch {
	case errors.Is(err, repository.ErrCouponNotFound):
		return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Coupon not found"}
	case errors.Is(err, repository.ErrUsageLimitReached):
		return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "Coupon usage limit reached"}
	case err != nil:
		s.logger.Error("Failed to increment coupon usage", zap.String("code", code), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to apply coupon"}
	}

	s.publishCouponRedeemedEvent(ctx, coupon)
	return coupon, nil
}

// GetCoupon retrieves a coupon by code.
func (s *couponServiceImpl) GetCoupon(ctx context.Context, code string) (*models.Coupon, *ServiceError) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, repository.ErrCouponNotFound) {
		return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Coupon not found"}
	}
	if err != nil {
		s.logger.Error("Failed to get coupon", zap.String("code", code), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to get coupon"}
	}
	return coupon, nil
}

func (s *couponServiceImpl) UpdateCoupon(ctx context.Context, code string, req *models.UpdateCouponRequest) (*models.Coupon, *ServiceError) {
	coupon, svcErr := s.GetCoupon(ctx, code)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.Description != nil {
		coupon.Description = *req.Description
	}
	if req.Value != nil {
		coupon.Value = *req.Value
	}
	if req.MinOrderValue != nil {
		coupon.MinOrderValue = *req.MinOrderValue
	}
	if req.UsageLimit != nil {
		coupon.UsageLimit = *req.UsageLimit
	}
	if req.StartsAt != nil {
		coupon.StartsAt = req.StartsAt
	}
	if req.ExpiresAt != nil {
		coupon.ExpiresAt = req.ExpiresAt
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}
	if coupon.Type == models.CouponTypePercentage && coupon.Value > 100 {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Percentage discount cannot exceed 100"}
	}

	if err := s.repo.Update(ctx, coupon); err != nil {
		s.logger.Error("Failed to update coupon", zap.String("code", code), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to update coupon"}
	}
	return coupon, nil
}

// DeactivateCoupon deactivates a coupon by code.
func (s *couponServiceImpl) DeactivateCoupon(ctx context.Context, code string) *ServiceError {
	if err := s.repo.Deactivate(ctx, code); err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			return &ServiceError{StatusCode: http.StatusNotFound, Message: "Coupon not found"}
		}
		s.logger.Error("Failed to deactivate coupon", zap.String("code", code), zap.Error(err))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to deactivate coupon"}
	}

	s.logger.Info("Coupon deactivated", zap.String("code", code))
	return nil
}

// ListCoupons returns paginated coupons.
func (s *couponServiceImpl) ListCoupons(ctx context.Context, page, limit int) ([]models.Coupon, int64, *ServiceError) {
	coupons, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list coupons", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to list coupons"}
	}
	return coupons, total, nil
}

func discountFor(coupon *models.Coupon, subtotal decimal.Decimal) (decimal.Decimal, *ServiceError) {
	switch coupon.Type {
	case models.CouponTypePercentage:
		return money.Percent(subtotal, coupon.Value), nil
	case models.CouponTypeFixed:
		return decimal.Min(money.FromFloat(coupon.Value), subtotal), nil
	default:
		return decimal.Zero, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Unknown coupon type"}
	}
}

// publishCouponRedeemedEvent announces a consumed coupon.
func (s *couponServiceImpl) publishCouponRedeemedEvent(ctx context.Context, coupon *models.Coupon) {
	event, err := events.New(events.CouponRedeemed, models.CouponRedeemedEvent{
		CouponID:   coupon.ID.String(),
		CouponCode: coupon.Code,
		CouponType: string(coupon.Type),
		UsedCount:  coupon.UsedCount,
		Timestamp:  s.now().UTC(),
	})
	if err != nil {
		s.logger.Error("Failed to build coupon_redeemed event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish coupon_redeemed event", zap.Error(err))
		return
	}
	s.logger.Info("Published coupon_redeemed event", zap.String("coupon_code", coupon.Code))
}
