package repository

import (
	"context"
	"errors"

	"github.com/solartech/storefront/services/shipping-service/models"
	"gorm.io/gorm"
)

var ErrShipmentNotFound = errors.New("shipment not found")

// ShipmentRepository defines data-access operations for shipments.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *models.Shipment) error
	FindByOrderID(ctx context.Context, orderID string) (*models.Shipment, error)
	FindByTrackingCode(ctx context.Context, trackingCode string) (*models.Shipment, error)
	UpdateStatus(ctx context.Context, trackingCode, status string) error
	FindAll(ctx context.Context, page, limit int) ([]models.Shipment, int64, error)
}

// GormShipmentRepository implements ShipmentRepository using GORM.
type GormShipmentRepository struct {
	db *gorm.DB
}

func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

func (r *GormShipmentRepository) Create(ctx context.Context, shipment *models.Shipment) error {
	return r.db.WithContext(ctx).Create(shipment).Error
}

func (r *GormShipmentRepository) FindByOrderID(ctx context.Context, orderID string) (*models.Shipment, error) {
	return r.findOne(ctx, "order_id = ?", orderID)
}

func (r *GormShipmentRepository) FindByTrackingCode(ctx context.Context, trackingCode string) (*models.Shipment, error) {
	return r.findOne(ctx, "tracking_code = ?", trackingCode)
}

func (r *GormShipmentRepository) findOne(ctx context.Context, query string, arg any) (*models.Shipment, error) {
	var s models.Shipment
	err := r.db.WithContext(ctx).Where(query, arg).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShipmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormShipmentRepository) UpdateStatus(ctx context.Context, trackingCode, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Shipment{}).
		Where("tracking_code = ?", trackingCode).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrShipmentNotFound
	}
	return nil
}

func (r *GormShipmentRepository) FindAll(ctx context.Context, page, limit int) ([]models.Shipment, int64, error) {
	var shipments []models.Shipment
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Shipment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&shipments).Error; err != nil {
		return nil, 0, err
	}

	return shipments, total, nil
}
