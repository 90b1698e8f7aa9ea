package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CouponType represents the type of discount a coupon provides.
type CouponType string

const (
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
)

// Coupon is a promo code. Codes are stored upper-case and matched
// case-insensitively.
type Coupon struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Code          string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Description   string         `gorm:"type:varchar(255)" json:"description,omitempty"`
	Type          CouponType     `gorm:"type:varchar(20);not null" json:"type"`
	Value         float64        `gorm:"not null" json:"value"`                     // percent or flat amount
	MinOrderValue float64        `gorm:"not null;default:0" json:"min_order_value"` // minimum subtotal to apply
	UsageLimit    int            `gorm:"not null;default:0" json:"usage_limit"`     // 0 = unlimited
	UsedCount     int            `gorm:"not null;default:0" json:"used_count"`
	StartsAt      *time.Time     `json:"starts_at,omitempty"`
	ExpiresAt     *time.Time     `json:"expires_at,omitempty"`
	Active        bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns the primary key so the table works without a
// database-side uuid default.
func (c *Coupon) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Exhausted reports whether the usage limit has been reached.
func (c *Coupon) Exhausted() bool {
	return c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit
}

// CreateCouponRequest is the payload for creating a new coupon.
type CreateCouponRequest struct {
	Code          string     `json:"code" binding:"required,min=3,max=64,alphanum"`
	Description   string     `json:"description" binding:"max=255"`
	Type          CouponType `json:"type" binding:"required,oneof=percentage fixed"`
	Value         float64    `json:"value" binding:"required,gt=0"`
	MinOrderValue float64    `json:"min_order_value" binding:"gte=0"`
	UsageLimit    int        `json:"usage_limit" binding:"gte=0"`
	StartsAt      *time.Time `json:"starts_at"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

// UpdateCouponRequest changes only the fields that are set.
type UpdateCouponRequest struct {
	Description   *string    `json:"description" binding:"omitempty,max=255"`
	Value         *float64   `json:"value" binding:"omitempty,gt=0"`
	MinOrderValue *float64   `json:"min_order_value" binding:"omitempty,gte=0"`
	UsageLimit    *int       `json:"usage_limit" binding:"omitempty,gte=0"`
	StartsAt      *time.Time `json:"starts_at"`
	ExpiresAt     *time.Time `json:"expires_at"`
	Active        *bool      `json:"active"`
}

// ValidateCouponRequest is the payload for validating a coupon against a cart.
type ValidateCouponRequest struct {
	Code      string  `json:"code" binding:"required"`
	CartTotal float64 `json:"cart_total" binding:"gte=0"`
}

// ValidateCouponResponse is the response after validating a coupon.
type ValidateCouponResponse struct {
	Valid          bool       `json:"valid"`
	Code           string     `json:"code"`
	Type           CouponType `json:"type,omitempty"`
	Value          float64    `json:"value,omitempty"`
	DiscountAmount float64    `json:"discount_amount"`
	Message        string     `json:"message,omitempty"`
}

// CouponRedeemedEvent is published when a paid order consumes a coupon.
type CouponRedeemedEvent struct {
	CouponID   string    `json:"coupon_id"`
	CouponCode string    `json:"coupon_code"`
	CouponType string    `json:"coupon_type"`
	UsedCount  int       `json:"used_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// SeedCoupons are the promo codes the storefront advertises.
func SeedCoupons() []Coupon {
	return []Coupon{
		{Code: "SOLAR20", Description: "20% off your order", Type: CouponTypePercentage, Value: 20, Active: true},
		{Code: "WELCOME10", Description: "10% off for new customers", Type: CouponTypePercentage, Value: 10, Active: true},
	}
}
