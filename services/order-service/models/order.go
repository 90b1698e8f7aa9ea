package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"

	PaymentUnpaid           = "unpaid"
	PaymentPaid             = "paid"
	PaymentAwaitingTransfer = "awaiting_transfer"

	PaymentMethodCard = "card"
	PaymentMethodBank = "bank"
)

// transitions lists the statuses an admin may move an order to.
var transitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber            string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"orderNumber"`
	UserID                 string          `gorm:"type:varchar(64);index;not null" json:"userId"`
	CustomerName           string          `gorm:"type:varchar(200)" json:"customerName"`
	Email                  string          `gorm:"type:varchar(255);index" json:"email"`
	Items                  []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Billing                BillingDetails  `gorm:"serializer:json" json:"billing"`
	Shipping               ShippingDetails `gorm:"serializer:json" json:"shipping"`
	ShipToDifferentAddress bool            `json:"shipToDifferentAddress"`
	ShippingMethod         string          `gorm:"type:varchar(20)" json:"shippingMethod"`
	PaymentMethod          string          `gorm:"type:varchar(10);not null" json:"paymentMethod"`
	CardLast4              string          `gorm:"type:varchar(4)" json:"cardLast4,omitempty"`
	Subtotal               float64         `gorm:"type:numeric(12,2)" json:"subtotal"`
	ShippingCost           float64         `gorm:"type:numeric(12,2)" json:"shippingCost"`
	Tax                    float64         `gorm:"type:numeric(12,2)" json:"tax"`
	Discount               float64         `gorm:"type:numeric(12,2)" json:"discount"`
	Total                  float64         `gorm:"type:numeric(12,2)" json:"total"`
	PromoCode              string          `gorm:"type:varchar(50)" json:"promoCode,omitempty"`
	Status                 string          `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"`
	PaymentStatus          string          `gorm:"type:varchar(20);not null;default:'unpaid'" json:"paymentStatus"`
	PaymentID              string          `gorm:"type:varchar(64)" json:"paymentId,omitempty"`
	TrackingCode           string          `gorm:"type:varchar(64)" json:"trackingCode,omitempty"`
	Notes                  string          `gorm:"type:text" json:"notes,omitempty"`
	PaidAt                 *time.Time      `json:"paidAt,omitempty"`
	ShippedAt              *time.Time      `json:"shippedAt,omitempty"`
	DeliveredAt            *time.Time      `json:"deliveredAt,omitempty"`
	CancelledAt            *time.Time      `json:"cancelledAt,omitempty"`
	CreatedAt              time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt              time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt              gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	return nil
}

// ItemCount is the total quantity across all lines.
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// Cancellable reports whether the customer may still cancel the order.
func (o *Order) Cancellable() bool {
	return o.Status == StatusPending && o.PaymentStatus == PaymentUnpaid
}

// ShipTo returns the delivery address, which is the billing address unless
// the customer asked to ship elsewhere.
func (o *Order) ShipTo() ShippingDetails {
	if o.ShipToDifferentAddress {
		return o.Shipping
	}
	return o.Billing.AsShipping()
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ProductID string    `gorm:"type:varchar(64);not null" json:"productId"`
	Name      string    `gorm:"type:varchar(255)" json:"name"`
	Slug      string    `gorm:"type:varchar(255)" json:"slug,omitempty"`
	Image     string    `gorm:"type:text" json:"image,omitempty"`
	Price     float64   `gorm:"type:numeric(12,2)" json:"price"`
	Quantity  int       `gorm:"not null" json:"quantity"`
}

type BillingDetails struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Company   string `json:"company,omitempty"`
	Country   string `json:"country,omitempty"`
	Address   string `json:"address" validate:"required"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Zip       string `json:"zip,omitempty"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email" validate:"required"`
}

// TrimSpace trims every field in place.
func (b *BillingDetails) TrimSpace() {
	trimAll(&b.FirstName, &b.LastName, &b.Company, &b.Country, &b.Address, &b.Address2,
		&b.City, &b.State, &b.Zip, &b.Phone, &b.Email)
}

func (b BillingDetails) FullName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

func (b BillingDetails) AsShipping() ShippingDetails {
	return ShippingDetails{
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Address:   b.Address,
		Address2:  b.Address2,
		City:      b.City,
		State:     b.State,
		Zip:       b.Zip,
		Country:   b.Country,
		Phone:     b.Phone,
	}
}

type ShippingDetails struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Address   string `json:"address" validate:"required"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Zip       string `json:"zip,omitempty"`
	Country   string `json:"country" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
}

func (s *ShippingDetails) TrimSpace() {
	trimAll(&s.FirstName, &s.LastName, &s.Address, &s.Address2, &s.City, &s.State, &s.Zip, &s.Country, &s.Phone)
}

func (s ShippingDetails) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// CardDetails are checked at checkout and held only until the order is paid.
type CardDetails struct {
	Number string `json:"number" validate:"cardnumber"`
	Expiry string `json:"expiry" validate:"expiry"`
	CVC    string `json:"cvc" validate:"cvc"`
	Name   string `json:"name" validate:"required"`
}

func (c *CardDetails) TrimSpace() {
	trimAll(&c.Number, &c.Expiry, &c.CVC, &c.Name)
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

type CheckoutRequest struct {
	Billing                BillingDetails   `json:"billing"`
	ShipToDifferentAddress bool             `json:"shipToDifferentAddress"`
	Shipping               *ShippingDetails `json:"shipping,omitempty"`
	PaymentMethod          string           `json:"paymentMethod"`
	Card                   *CardDetails     `json:"card,omitempty"`
	ShippingMethod         string           `json:"shippingMethod,omitempty"`
	Notes                  string           `json:"notes,omitempty"`
}

// PayRequest may carry the card again when the order was placed in another
// session.
type PayRequest struct {
	Card *CardDetails `json:"card,omitempty"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderEvent is the payload of order.* events.
type OrderEvent struct {
	OrderID        string  `json:"order_id"`
	OrderNumber    string  `json:"order_number"`
	UserID         string  `json:"user_id"`
	CustomerName   string  `json:"customer_name"`
	Email          string  `json:"email"`
	Status         string  `json:"status"`
	PreviousStatus string  `json:"previous_status,omitempty"`
	PaymentStatus  string  `json:"payment_status"`
	PaymentMethod  string  `json:"payment_method"`
	ItemCount      int     `json:"item_count"`
	Total          float64 `json:"total"`
	TrackingCode   string  `json:"tracking_code,omitempty"`
}

func NewOrderEvent(o *Order) OrderEvent {
	return OrderEvent{
		OrderID:       o.ID.String(),
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		CustomerName:  o.CustomerName,
		Email:         o.Email,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		ItemCount:     o.ItemCount(),
		Total:         o.Total,
		TrackingCode:  o.TrackingCode,
	}
}
