package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/solartech/storefront/services/promotion-service/models"
	"gorm.io/gorm"
)

var (
	ErrCouponNotFound    = errors.New("coupon not found")
	ErrDuplicateCode     = errors.New("coupon code already exists")
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
)

// CouponRepository defines the interface for coupon data access.
type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	Update(ctx context.Context, coupon *models.Coupon) error
	// IncrementUsedCount consumes one use, failing with ErrUsageLimitReached
	// when the limit is already met.
	IncrementUsedCount(ctx context.Context, code string) (*models.Coupon, error)
	Deactivate(ctx context.Context, code string) error
	FindAll(ctx context.Context, page, limit int) ([]models.Coupon, int64, error)
}

// GormCouponRepository implements CouponRepository using GORM.
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository.
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// Create inserts a new coupon into the database.
func (r *GormCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)
	err := r.db.WithContext(ctx).Create(coupon).Error
	if isUniqueViolation(err) {
		return ErrDuplicateCode
	}
	return err
}

// FindByCode retrieves a coupon by its code (case-insensitive), active or not.
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("LOWER(code) = ?", strings.ToLower(code)).
		First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *GormCouponRepository) Update(ctx context.Context, coupon *models.Coupon) error {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ?", coupon.ID).
		Updates(map[string]any{
			"description":     coupon.Description,
			"value":           coupon.Value,
			"min_order_value": coupon.MinOrderValue,
			"usage_limit":     coupon.UsageLimit,
			"starts_at":       coupon.StartsAt,
			"expires_at":      coupon.ExpiresAt,
			"active":          coupon.Active,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

// IncrementUsedCount atomically increments the used_count of a coupon.
func (r *GormCouponRepository) IncrementUsedCount(ctx context.Context, code string) (*models.Coupon, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("LOWER(code) = ? AND active = ?", strings.ToLower(code), true).
		Where("(usage_limit = 0 OR used_count < usage_limit)").
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByCode(ctx, code); err != nil {
			return nil, err
		}
		return nil, ErrUsageLimitReached
	}
	return r.FindByCode(ctx, code)
}

// Deactivate soft-deactivates a coupon by setting active = false.
func (r *GormCouponRepository) Deactivate(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("LOWER(code) = ?", strings.ToLower(code)).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

// FindAll retrieves paginated coupons.
func (r *GormCouponRepository) FindAll(ctx context.Context, page, limit int) ([]models.Coupon, int64, error) {
	var coupons []models.Coupon
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Coupon{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Order("code").
		Find(&coupons).Error; err != nil {
		return nil, 0, err
	}

	return coupons, total, nil
}

// Seed creates each coupon whose code is not yet present.
func Seed(ctx context.Context, repo CouponRepository, coupons []models.Coupon) (int, error) {
	created := 0
	for i := range coupons {
		_, err := repo.FindByCode(ctx, coupons[i].Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrCouponNotFound) {
			return created, err
		}
		if err := repo.Create(ctx, &coupons[i]); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
