package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MethodStandard = "standard"
	MethodExpress  = "express"
	MethodLocal    = "local"
)

// ShippingMethod is configured in the store settings.
type ShippingMethod struct {
	ID            string   `json:"id" dynamodbav:"id" validate:"required,max=32"`
	Name          string   `json:"name" dynamodbav:"name" validate:"required,max=64"`
	Price         float64  `json:"price" dynamodbav:"price" validate:"gte=0"`
	FreeOver      *float64 `json:"freeOver,omitempty" dynamodbav:"free_over,omitempty" validate:"omitempty,gte=0"`
	EstimatedDays string   `json:"estimatedDays" dynamodbav:"estimated_days"`
	Enabled       bool     `json:"enabled" dynamodbav:"enabled"`
}

func DefaultShippingMethods() []ShippingMethod {
	freeOver := 500.0
	return []ShippingMethod{
		{ID: MethodStandard, Name: "Standard Shipping", Price: 49.99, FreeOver: &freeOver, EstimatedDays: "5-7 business days", Enabled: true},
		{ID: MethodExpress, Name: "Express Shipping", Price: 99.99, EstimatedDays: "2-3 business days", Enabled: true},
		{ID: MethodLocal, Name: "Local Delivery", Price: 25.00, EstimatedDays: "Same day within 50 miles", Enabled: true},
	}
}

// Quote is the cost of one method for a subtotal.
type Quote struct {
	MethodID      string  `json:"methodId"`
	Name          string  `json:"name"`
	Cost          float64 `json:"cost"`
	Free          bool    `json:"free"`
	EstimatedDays string  `json:"estimatedDays"`
}

// Address is the ship-to address recorded on a shipment.
type Address struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// ShipmentRequest asks for a label when an order ships.
type ShipmentRequest struct {
	OrderID     string  `json:"order_id" binding:"required"`
	OrderNumber string  `json:"order_number"`
	UserID      string  `json:"user_id" binding:"required"`
	MethodID    string  `json:"method_id"`
	Destination Address `json:"destination"`
}

// TrackingInfo is returned by the carrier when a label is created.
type TrackingInfo struct {
	Carrier      string `json:"carrier"`
	TrackingCode string `json:"tracking_code"`
	TrackingURL  string `json:"tracking_url"`
}

// TrackingStatus represents the current status of a shipment.
type TrackingStatus struct {
	TrackingCode string    `json:"tracking_code"`
	Status       string    `json:"status"`
	Location     string    `json:"location,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
	Carrier      string    `json:"carrier"`
}

const (
	ShipmentStatusCreated   = "label_created"
	ShipmentStatusInTransit = "in_transit"
	ShipmentStatusDelivered = "delivered"
)

type Shipment struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID      string         `gorm:"type:varchar(128);not null;uniqueIndex" json:"order_id"`
	OrderNumber  string         `gorm:"type:varchar(32)" json:"order_number,omitempty"`
	UserID       string         `gorm:"type:varchar(128);not null;index" json:"user_id"`
	MethodID     string         `gorm:"type:varchar(32)" json:"method_id"`
	Carrier      string         `gorm:"type:varchar(64)" json:"carrier"`
	TrackingCode string         `gorm:"type:varchar(64);uniqueIndex" json:"tracking_code"`
	TrackingURL  string         `gorm:"type:varchar(512)" json:"tracking_url"`
	Status       string         `gorm:"type:varchar(32);not null" json:"status"`
	Destination  Address        `gorm:"serializer:json" json:"destination"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Shipment) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ShipmentCreatedEvent is published when a label is created.
type ShipmentCreatedEvent struct {
	ShipmentID   string `json:"shipment_id"`
	OrderID      string `json:"order_id"`
	OrderNumber  string `json:"order_number"`
	UserID       string `json:"user_id"`
	Carrier      string `json:"carrier"`
	TrackingCode string `json:"tracking_code"`
	TrackingURL  string `json:"tracking_url"`
}
