package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/solartech/storefront/services/payment-service/models"
	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepository persists charge attempts. An order may have several
// failed attempts and at most one settled payment.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	// FindByOrderID returns every attempt for the order, newest first.
	FindByOrderID(ctx context.Context, orderID string) ([]models.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error
}

type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormPaymentRepository) FindByOrderID(ctx context.Context, orderID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *GormPaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error {
	updates := map[string]any{"status": status}
	switch status {
	case models.StatusSucceeded:
		updates["succeeded_at"] = at
	case models.StatusFailed:
		updates["failed_at"] = at
	}

	result := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
