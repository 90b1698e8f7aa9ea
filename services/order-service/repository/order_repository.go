package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/solartech/storefront/services/order-service/models"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrDuplicateNumber = errors.New("order number already in use")
	ErrStaleOrder      = errors.New("order changed since it was read")
)

// Expect is the state Update requires the stored order to still be in.
// Empty fields are not checked.
type Expect struct {
	Status        string
	PaymentStatus string
}

// ExpectCurrent expects the stored order to match order as read.
func ExpectCurrent(order *models.Order) Expect {
	return Expect{Status: order.Status, PaymentStatus: order.PaymentStatus}
}

// OrderFilter narrows order queries. Zero fields match everything.
type OrderFilter struct {
	UserID string
	Email  string
	Status string
	// Search matches customer name, e-mail, order number or ID.
	Search string
	Since  time.Time
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByNumber(ctx context.Context, number string) (*models.Order, error)
	// Update persists status, payment and fulfilment fields when the stored
	// order still matches expect, and returns ErrStaleOrder otherwise. Items
	// and addresses are immutable once placed.
	Update(ctx context.Context, order *models.Order, expect Expect) error
	List(ctx context.Context, filter OrderFilter, page, limit int) ([]models.Order, int64, error)
	// Find returns every matching order, newest first.
	Find(ctx context.Context, filter OrderFilter) ([]models.Order, error)
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	err := r.db.WithContext(ctx).Create(order).Error
	if isUniqueViolation(err) {
		return ErrDuplicateNumber
	}
	return err
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	return r.findOne(ctx, "order_number = ?", number)
}

func (r *GormOrderRepository) findOne(ctx context.Context, query string, arg any) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where(query, arg).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) Update(ctx context.Context, order *models.Order, expect Expect) error {
	q := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID)
	if expect.Status != "" {
		q = q.Where("status = ?", expect.Status)
	}
	if expect.PaymentStatus != "" {
		q = q.Where("payment_status = ?", expect.PaymentStatus)
	}
	result := q.Updates(map[string]any{
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
		"payment_id":     order.PaymentID,
		"card_last4":     order.CardLast4,
		"tracking_code":  order.TrackingCode,
		"paid_at":        order.PaidAt,
		"shipped_at":     order.ShippedAt,
		"delivered_at":   order.DeliveredAt,
		"cancelled_at":   order.CancelledAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return ErrStaleOrder
}

func (r *GormOrderRepository) List(ctx context.Context, filter OrderFilter, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	if err := r.filtered(ctx, filter).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := r.filtered(ctx, filter).
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *GormOrderRepository) Find(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	err := r.filtered(ctx, filter).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) filtered(ctx context.Context, f OrderFilter) *gorm.DB {
	q := r.db.WithContext(ctx)
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Email != "" {
		q = q.Where("LOWER(email) = ?", strings.ToLower(f.Email))
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since)
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		like := "%" + s + "%"
		q = q.Where(
			"(LOWER(customer_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(order_number) LIKE ? OR LOWER(CAST(id AS TEXT)) LIKE ?)",
			like, like, like, like,
		)
	}
	return q
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

// SeedIfEmpty inserts orders when the table has no rows and reports how many
// were written.
func (r *GormOrderRepository) SeedIfEmpty(ctx context.Context, orders []models.Order) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error; err != nil {
		return 0, err
	}
	if n > 0 || len(orders) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).Create(&orders).Error; err != nil {
		return 0, err
	}
	return len(orders), nil
}
