package models

import (
	"time"

	shippingmodels "github.com/solartech/storefront/services/shipping-service/models"
)

// SettingsKey is the single row the store settings live under.
const SettingsKey = "store"

type StoreSettings struct {
	StoreName         string                          `json:"storeName" dynamodbav:"store_name" validate:"required,max=100"`
	StoreEmail        string                          `json:"storeEmail" dynamodbav:"store_email" validate:"required,email"`
	StorePhone        string                          `json:"storePhone" dynamodbav:"store_phone" validate:"max=32"`
	StoreAddress      string                          `json:"storeAddress" dynamodbav:"store_address" validate:"max=255"`
	Currency          string                          `json:"currency" dynamodbav:"currency" validate:"required,iso4217"`
	Timezone          string                          `json:"timezone" dynamodbav:"timezone" validate:"required,timezone"`
	Notifications     NotificationSettings            `json:"notifications" dynamodbav:"notifications"`
	PaymentGateways   PaymentGateways                 `json:"paymentGateways" dynamodbav:"payment_gateways"`
	ShippingMethods   []shippingmodels.ShippingMethod `json:"shippingMethods" dynamodbav:"shipping_methods" validate:"dive"`
	LowStockThreshold int                             `json:"lowStockThreshold" dynamodbav:"low_stock_threshold" validate:"gte=0,lte=10000"`
	UpdatedAt         time.Time                       `json:"updatedAt" dynamodbav:"updated_at"`
}

type NotificationSettings struct {
	OrderNotifications bool `json:"orderNotifications" dynamodbav:"order_notifications"`
	StockAlerts        bool `json:"stockAlerts" dynamodbav:"stock_alerts"`
	CustomerEmails     bool `json:"customerEmails" dynamodbav:"customer_emails"`
	MarketingEmails    bool `json:"marketingEmails" dynamodbav:"marketing_emails"`
}

type PaymentGateways struct {
	Stripe bool `json:"stripe" dynamodbav:"stripe"`
	PayPal bool `json:"paypal" dynamodbav:"paypal"`
	Bank   bool `json:"bank" dynamodbav:"bank"`
}

// SettingsUpdate is a partial update; nil fields are left unchanged.
type SettingsUpdate struct {
	StoreName         *string                          `json:"storeName"`
	StoreEmail        *string                          `json:"storeEmail"`
	StorePhone        *string                          `json:"storePhone"`
	StoreAddress      *string                          `json:"storeAddress"`
	Currency          *string                          `json:"currency"`
	Timezone          *string                          `json:"timezone"`
	PaymentGateways   *PaymentGateways                 `json:"paymentGateways"`
	ShippingMethods   *[]shippingmodels.ShippingMethod `json:"shippingMethods"`
	LowStockThreshold *int                             `json:"lowStockThreshold"`
}

// DefaultSettings matches the store's out-of-the-box configuration.
func DefaultSettings() StoreSettings {
	return StoreSettings{
		StoreName:    "SolarTech",
		StoreEmail:   "info@solartech.com",
		StorePhone:   "+1 (555) 123-4567",
		StoreAddress: "123 Solar Street, Green City, CA 90210",
		Currency:     "USD",
		Timezone:     "America/New_York",
		Notifications: NotificationSettings{
			OrderNotifications: true,
			StockAlerts:        true,
			CustomerEmails:     true,
			MarketingEmails:    false,
		},
		PaymentGateways:   PaymentGateways{Stripe: true, PayPal: true, Bank: true},
		ShippingMethods:   shippingmodels.DefaultShippingMethods(),
		LowStockThreshold: 10,
	}
}
